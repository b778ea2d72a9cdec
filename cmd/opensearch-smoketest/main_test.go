// Copyright (C) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verrazzano/opensearch-smoketest/pkg/juju"
	"github.com/verrazzano/opensearch-smoketest/pkg/juju/fake"
)

func runWith(t *testing.T, j *fake.Juju, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr, func(*zap.SugaredLogger) juju.Juju { return j })
	return code, stdout.String(), stderr.String()
}

// TestUsage tests command line handling
func TestUsage(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{name: "help", args: []string{"--help"}, wantCode: 0, wantStderr: "Usage: opensearch-smoketest -m <model>"},
		{name: "unknown flag", args: []string{"-x"}, wantCode: 1, wantStderr: "flag provided but not defined"},
		{name: "missing model", args: []string{}, wantCode: 1, wantStderr: "a model name is required"},
		{name: "positional argument", args: []string{"-m", "dev", "extra"}, wantCode: 1, wantStderr: "unexpected arguments: extra"},
		{name: "bad number", args: []string{"-m", "dev", "--documents", "many"}, wantCode: 1, wantStderr: "invalid value"},
		{name: "zero documents", args: []string{"-m", "dev", "--documents", "0"}, wantCode: 1, wantStderr: "Invalid configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a juju that must never be queried
			j := &fake.Juju{}

			// WHEN the tool is invoked
			code, _, stderr := runWith(t, j, tt.args...)

			// THEN it exits with the expected code before any query
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, tt.wantStderr)
			assert.Empty(t, j.Calls())
		})
	}
}

// TestMissingToolsWritesMetrics tests the preflight failure path end to end
// GIVEN juju is not installed and a metrics file is requested
// WHEN the tool is invoked
// THEN it exits 1, prints the report and records the failed phase
func TestMissingToolsWritesMetrics(t *testing.T) {
	j := &fake.Juju{MissingTools: []string{"juju"}, Models: []string{"dev"}}
	metricsFile := filepath.Join(t.TempDir(), "smoketest.prom")

	code, stdout, stderr := runWith(t, j, "-m", "dev", "--metrics-file", metricsFile)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "environment")
	assert.Contains(t, stdout, "FAIL (1)")
	assert.Contains(t, stderr, "required tools not found")
	assert.Empty(t, j.Calls())

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `opensearch_smoketest_phase_success{phase="environment"} 0`)
	assert.Contains(t, string(data), "opensearch_smoketest_exit_code 1")
}

// TestConfigFileAndFlags tests that flags win over the config file
// GIVEN a config file naming one model and a flag naming another
// WHEN the tool is invoked
// THEN the flag value is the model looked up and the config file is logged
func TestConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "smoketest.yaml")
	logFile := filepath.Join(dir, "smoketest.log")
	content := "model: from-file\nexpected-nodes: 5\nlog-file: " + logFile + "\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))
	j := &fake.Juju{Models: []string{"from-file"}}

	code, _, stderr := runWith(t, j, "--config", configFile, "-m", "from-flag")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "model 'from-flag' not found")
	assert.Equal(t, []string{"models"}, j.Calls())

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "Configuration read from "+configFile)
}
