// Copyright (C) 2022, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package metricsexporter

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/verrazzano/opensearch-smoketest/pkg/smoke"
)

const metricsNamespace = "opensearch_smoketest"

// Exporter holds the metrics of one smoke test run. Metrics are written as a node exporter
// textfile so the last result stays visible between runs.
type Exporter struct {
	registry      *prometheus.Registry
	phaseSuccess  *prometheus.GaugeVec
	phaseDuration *prometheus.GaugeVec
	lastRun       prometheus.Gauge
	exitCode      prometheus.Gauge
	log           *zap.SugaredLogger
}

// NewExporter creates an Exporter with every collector registered on a private registry
func NewExporter(log *zap.SugaredLogger) (*Exporter, error) {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		phaseSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "phase_success",
			Help:      "1 when the phase of the last run passed, 0 when it failed",
		}, []string{"phase"}),
		phaseDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of the phase in the last run",
		}, []string{"phase"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "The timestamp of the last time the smoke test completed",
		}),
		exitCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "exit_code",
			Help:      "Exit code of the last run",
		}),
		log: log,
	}
	if err := e.registerMetrics(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Exporter) registerMetrics() error {
	var errorObserved error
	for _, metric := range []prometheus.Collector{e.phaseSuccess, e.phaseDuration, e.lastRun, e.exitCode} {
		if err := e.registry.Register(metric); err != nil {
			e.log.Errorf("Failed to register metric: %v", err)
			errorObserved = err
		}
	}
	return errorObserved
}

// Record sets the metrics from the phases of a finished run
func (e *Exporter) Record(results []smoke.PhaseResult, exitCode int, finished time.Time) {
	for _, result := range results {
		success := 0.0
		if result.Succeeded() {
			success = 1
		}
		e.phaseSuccess.WithLabelValues(result.Phase).Set(success)
		e.phaseDuration.WithLabelValues(result.Phase).Set(result.Duration.Seconds())
	}
	e.exitCode.Set(float64(exitCode))
	e.lastRun.Set(float64(finished.Unix()))
}

// WriteToTextfile writes the recorded metrics to path in the Prometheus text format
func (e *Exporter) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to '%s'", path)
	}
	e.log.Debugf("Metrics written to '%s'", path)
	return nil
}

// Gatherer exposes the registry, for tests and embedding
func (e *Exporter) Gatherer() prometheus.Gatherer {
	return e.registry
}
