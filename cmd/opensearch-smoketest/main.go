// Copyright (C) 2020, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	kzap "sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/verrazzano/opensearch-smoketest/pkg/config"
	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
	"github.com/verrazzano/opensearch-smoketest/pkg/juju"
	"github.com/verrazzano/opensearch-smoketest/pkg/metricsexporter"
	"github.com/verrazzano/opensearch-smoketest/pkg/report"
	"github.com/verrazzano/opensearch-smoketest/pkg/smoke"
	"github.com/verrazzano/opensearch-smoketest/pkg/util/logs"
)

const programName = "opensearch-smoketest"

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"m":              config.KeyModel,
	"o":              config.KeySearchApp,
	"d":              config.KeyDashboardApp,
	"u":              config.KeyDashboardURL,
	"i":              config.KeyIntegratorApp,
	"index":          config.KeyIndex,
	"documents":      config.KeyDocuments,
	"expected-nodes": config.KeyExpectedNodes,
	"metrics-file":   config.KeyMetricsFile,
}

type jujuFactory func(log *zap.SugaredLogger) juju.Juju

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, func(log *zap.SugaredLogger) juju.Juju {
		return juju.New(constants.JujuBinary, log)
	})
	stop()
	os.Exit(code)
}

// run executes one smoke test and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer, newJuju jujuFactory) int {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("m", "", "Juju model of the deployment under test (required)")
	fs.String("o", constants.DefaultSearchApp, "OpenSearch application name")
	fs.String("d", constants.DefaultDashboardApp, "OpenSearch Dashboards application name")
	fs.String("u", "", "Dashboards URL, replaces the lookup of the dashboards application and defaults to port 443")
	fs.String("i", constants.DefaultIntegratorApp, "Data integrator application name")
	fs.String("index", constants.DefaultIndexName, "Name of the test index")
	fs.Int("documents", constants.DefaultDocuments, "Number of test documents")
	fs.Int("expected-nodes", constants.DefaultExpectedNodes, "Expected number of cluster nodes")
	fs.String("metrics-file", "", "Write run metrics to this file in the Prometheus text format")
	configFile := fs.String("config", "", "Optional YAML config file")

	// Add the zap logger flag set to the CLI.
	zapOptions := kzap.Options{}
	zapOptions.BindFlags(fs)

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: %s -m <model> [-o <app>] [-d <app>] [-u <url>] [-i <app>] [options]\n\n", programName)
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExit codes: 0 passed, 1 usage or environment error, 3 cluster not green, 4 wrong node count,\n"+
			"5 index creation failed, 7 index deletion failed, 8 indexing document failed,\n"+
			"9 document count mismatch, 10 dashboards not accessible\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return int(constants.ExitOK)
		}
		return int(constants.ExitUsage)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return int(constants.ExitUsage)
	}

	overrides := map[string]interface{}{}
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.(flag.Getter).Get()
		}
	})
	cfg, err := config.NewConfig(*configFile, overrides)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return int(constants.ExitUsage)
	}

	log, err := logs.InitLogs(zapOptions, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(stderr, "Unable to initialize logging: %v\n", err)
		return int(constants.ExitUsage)
	}
	defer func() { _ = log.Sync() }()
	if *configFile != "" {
		log.Infof("Configuration read from %s", *configFile)
	}

	runner := smoke.NewRunner(cfg, newJuju(log), log)
	runErr := runner.Run(ctx)
	code := smoke.ExitCodeOf(runErr)

	if cfg.MetricsFile != "" {
		writeMetrics(cfg.MetricsFile, runner.Results(), code, log)
	}
	if err := report.Print(stdout, runner.RunID, runner.Results(), code); err != nil {
		log.Errorf("Failed to print the report: %v", err)
	}
	if runErr != nil {
		fmt.Fprintf(stderr, "%v\n", runErr)
	}
	return int(code)
}

// writeMetrics never changes the exit code, a failed write is only logged
func writeMetrics(path string, results []smoke.PhaseResult, code constants.ExitCode, log *zap.SugaredLogger) {
	exporter, err := metricsexporter.NewExporter(log)
	if err != nil {
		log.Errorf("Failed to create the metrics exporter: %v", err)
		return
	}
	exporter.Record(results, int(code), time.Now())
	if err := exporter.WriteToTextfile(path); err != nil {
		log.Errorf("%v", err)
	}
}
