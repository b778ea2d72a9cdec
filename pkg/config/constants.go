// Copyright (C) 2020, 2026, Oracle Corporation and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.
package config

import "time"

// SmokeConfig is the resolved, immutable input of a smoke test run
type SmokeConfig struct {
	Model         string
	SearchApp     string
	DashboardApp  string
	DashboardURL  string
	IntegratorApp string

	Index            string
	Shards           int
	Replicas         int
	Documents        int
	ExpectedNodes    int
	StrictShardCheck bool
	MinNodeVersion   string

	PollInterval   time.Duration
	PollAttempts   int
	RequestTimeout time.Duration

	RequiredTools []string
	MetricsFile   string
	LogFile       string
}

// Configuration keys, shared by the config file, SMOKETEST_* environment variables and CLI flags
const (
	KeyModel            = "model"
	KeySearchApp        = "search-app"
	KeyDashboardApp     = "dashboard-app"
	KeyDashboardURL     = "dashboard-url"
	KeyIntegratorApp    = "integrator-app"
	KeyIndex            = "index"
	KeyShards           = "shards"
	KeyReplicas         = "replicas"
	KeyDocuments        = "documents"
	KeyExpectedNodes    = "expected-nodes"
	KeyStrictShardCheck = "strict-shard-check"
	KeyMinNodeVersion   = "min-node-version"
	KeyPollInterval     = "poll.interval"
	KeyPollAttempts     = "poll.attempts"
	KeyRequestTimeout   = "request-timeout"
	KeyRequiredTools    = "required-tools"
	KeyMetricsFile      = "metrics-file"
	KeyLogFile          = "log-file"
)

const defaultPollInterval = 2 * time.Second
const defaultPollAttempts = 15
const defaultRequestTimeout = 30 * time.Second
