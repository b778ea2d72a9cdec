// Copyright (C) 2020, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package framework

import (
	"flag"

	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
)

// Global framework.
var Global *Framework

// Framework holds the deployment the integration tests run against.
type Framework struct {
	Model          string
	SearchApp      string
	DashboardApp   string
	DashboardURL   string
	IntegratorApp  string
	ExpectedNodes  int
	MinNodeVersion string
	RunID          string
}

// Setup parses the integration test flags and initialises framework.Global.
func Setup() error {
	model := flag.String("model", "", "Juju model of a deployed OpenSearch cluster. Integration tests are skipped when empty.")
	searchApp := flag.String("searchApp", constants.DefaultSearchApp, "OpenSearch application name")
	dashboardApp := flag.String("dashboardApp", constants.DefaultDashboardApp, "OpenSearch Dashboards application name")
	dashboardURL := flag.String("dashboardURL", "", "Optional dashboards URL")
	integratorApp := flag.String("integratorApp", constants.DefaultIntegratorApp, "Data integrator application name")
	expectedNodes := flag.Int("expectedNodes", constants.DefaultExpectedNodes, "Expected number of cluster nodes")
	minNodeVersion := flag.String("minNodeVersion", "", "Optional minimum OpenSearch version of every node")
	runid := flag.String("runid", "", "Optional string that will be used to uniquely identify this test run.")
	flag.Parse()

	Global = &Framework{
		Model:          *model,
		SearchApp:      *searchApp,
		DashboardApp:   *dashboardApp,
		DashboardURL:   *dashboardURL,
		IntegratorApp:  *integratorApp,
		ExpectedNodes:  *expectedNodes,
		MinNodeVersion: *minNodeVersion,
		RunID:          *runid,
	}
	return nil
}

// Enabled reports whether a deployment was given
func (f *Framework) Enabled() bool {
	return f.Model != ""
}
