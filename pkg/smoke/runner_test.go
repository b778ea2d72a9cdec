// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package smoke_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verrazzano/opensearch-smoketest/pkg/config"
	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
	"github.com/verrazzano/opensearch-smoketest/pkg/dashboards"
	dashfake "github.com/verrazzano/opensearch-smoketest/pkg/dashboards/fake"
	jujufake "github.com/verrazzano/opensearch-smoketest/pkg/juju/fake"
	"github.com/verrazzano/opensearch-smoketest/pkg/opensearch"
	osfake "github.com/verrazzano/opensearch-smoketest/pkg/opensearch/fake"
	"github.com/verrazzano/opensearch-smoketest/pkg/smoke"
)

const (
	adminPassword      = "s3cr3t"
	integratorUser     = "relation-7"
	integratorPassword = "other"
)

type harness struct {
	cluster    *osfake.Cluster
	dashboards *dashfake.Dashboards
	juju       *jujufake.Juju
	config     *config.SmokeConfig
	runner     *smoke.Runner
}

func testConfig() *config.SmokeConfig {
	return &config.SmokeConfig{
		Model:            "dev",
		SearchApp:        constants.DefaultSearchApp,
		DashboardApp:     constants.DefaultDashboardApp,
		IntegratorApp:    constants.DefaultIntegratorApp,
		Index:            constants.DefaultIndexName,
		Shards:           constants.DefaultShards,
		Replicas:         constants.DefaultReplicas,
		Documents:        constants.DefaultDocuments,
		ExpectedNodes:    constants.DefaultExpectedNodes,
		StrictShardCheck: true,
		PollInterval:     time.Millisecond,
		PollAttempts:     5,
		RequestTimeout:   5 * time.Second,
		RequiredTools:    []string{"juju"},
	}
}

func testJuju() *jujufake.Juju {
	return &jujufake.Juju{
		Models: []string{"dev"},
		Leaders: map[string]string{
			constants.DefaultSearchApp:    "10.0.0.11",
			constants.DefaultDashboardApp: "10.0.0.21",
		},
		Actions: map[string]string{
			"opensearch/get-password": "password: " + adminPassword + "\n",
			"data-integrator/get-credentials": `
ok: "True"
opensearch:
  endpoints: 10.0.0.11:9200
  index: test
  username: ` + integratorUser + `
  password: ` + integratorPassword + `
`,
		},
	}
}

func newHarness(t *testing.T) *harness {
	h := &harness{
		cluster:    osfake.NewCluster(),
		dashboards: dashfake.NewDashboards(map[string]string{"admin": adminPassword, integratorUser: integratorPassword}),
		juju:       testJuju(),
		config:     testConfig(),
	}
	h.cluster.Username = "admin"
	h.cluster.Password = adminPassword

	searchServer := httptest.NewTLSServer(h.cluster)
	t.Cleanup(searchServer.Close)
	dashboardServer := httptest.NewTLSServer(h.dashboards)
	t.Cleanup(dashboardServer.Close)

	log := zap.NewNop().Sugar()
	h.runner = smoke.NewRunner(h.config, h.juju, log)
	h.runner.NewSearchClient = func(_ string, cred smoke.Credential, timeout time.Duration) smoke.SearchAPI {
		return opensearch.NewOSClient(opensearch.ClientConfig{
			BaseURL:  searchServer.URL,
			Username: cred.Username,
			Password: cred.Password,
			Timeout:  timeout,
			Insecure: true,
		}, log)
	}
	h.runner.NewDashboardsClient = func(_ string, timeout time.Duration) smoke.DashboardsAPI {
		return dashboards.NewOSDashboardsClient(dashboardServer.URL, timeout, log)
	}
	return h
}

func (h *harness) run() (constants.ExitCode, error) {
	err := h.runner.Run(context.Background())
	return smoke.ExitCodeOf(err), err
}

func (h *harness) requested(prefix string) bool {
	for _, req := range h.cluster.Requests() {
		if strings.HasPrefix(req, prefix) {
			return true
		}
	}
	return false
}

func phases(results []smoke.PhaseResult) []string {
	var names []string
	for _, r := range results {
		names = append(names, r.Phase)
	}
	return names
}

// TestRunSuccess tests a full run against a healthy deployment
// GIVEN a green three node cluster and working dashboards
// WHEN the smoke test runs
// THEN every phase passes, 100 documents are counted and the fixture index is gone
func TestRunSuccess(t *testing.T) {
	h := newHarness(t)

	code, err := h.run()
	require.NoError(t, err)
	assert.Equal(t, constants.ExitOK, code)
	assert.Equal(t, []string{
		smoke.PhaseEnvironment, smoke.PhaseCredentials, smoke.PhaseDashboards, smoke.PhaseClusterHealth,
		smoke.PhaseTopology, smoke.PhaseIndexCreate, smoke.PhaseShardPlacement, smoke.PhaseDocuments,
		smoke.PhaseDocumentCount, smoke.PhaseIndexDelete,
	}, phases(h.runner.Results()))
	for _, r := range h.runner.Results() {
		assert.True(t, r.Succeeded(), r.Phase)
	}
	assert.Equal(t, "100 documents counted", h.runner.Results()[8].Detail)
	assert.False(t, h.cluster.HasIndex("test"))
	assert.True(t, h.requested("HEAD /test"))
	assert.Equal(t, []string{"admin", integratorUser}, h.dashboards.Logins())
	assert.NotEmpty(t, h.runner.RunID)
}

// TestMissingTools tests the preflight tool check
// GIVEN juju is not installed
// WHEN the smoke test runs
// THEN it exits 1 before any query or network call
func TestMissingTools(t *testing.T) {
	h := newHarness(t)
	h.juju.MissingTools = []string{"juju"}

	code, err := h.run()
	assert.Equal(t, constants.ExitUsage, code)
	assert.Contains(t, err.Error(), "juju")
	assert.Empty(t, h.juju.Calls())
	assert.Empty(t, h.cluster.Requests())
	assert.Empty(t, h.dashboards.Logins())
}

// TestUnknownModel tests the model check
// GIVEN a model the controller does not know
// WHEN the smoke test runs
// THEN it exits 1 without resolving addresses
func TestUnknownModel(t *testing.T) {
	h := newHarness(t)
	h.config.Model = "staging"

	code, err := h.run()
	assert.Equal(t, constants.ExitUsage, code)
	assert.Contains(t, err.Error(), "model 'staging' not found")
	assert.Equal(t, []string{"models"}, h.juju.Calls())
}

// TestCredentialFailure tests a failing get-password action
// GIVEN the search application has no get-password result
// WHEN the smoke test runs
// THEN it exits 1 before contacting the dashboards
func TestCredentialFailure(t *testing.T) {
	h := newHarness(t)
	delete(h.juju.Actions, "opensearch/get-password")

	code, _ := h.run()
	assert.Equal(t, constants.ExitUsage, code)
	assert.Empty(t, h.dashboards.Logins())
}

// TestDashboardLoginFailure tests the dashboards check
// GIVEN the dashboards reject the integrator password
// WHEN the smoke test runs
// THEN both identities are tried, the failed one is named, and the run exits 10
func TestDashboardLoginFailure(t *testing.T) {
	h := newHarness(t)
	h.dashboards.Users[integratorUser] = "rotated"

	code, err := h.run()
	assert.Equal(t, constants.ExitDashboards, code)
	assert.Contains(t, err.Error(), integratorUser)
	assert.NotContains(t, err.Error(), "for admin")
	assert.Equal(t, []string{"admin", integratorUser}, h.dashboards.Logins())
	assert.Empty(t, h.cluster.Requests())
}

// TestDashboardIdentityMismatch tests a login answered with another identity
// GIVEN dashboards that report a different user
// WHEN the smoke test runs
// THEN it exits 10
func TestDashboardIdentityMismatch(t *testing.T) {
	h := newHarness(t)
	h.dashboards.ReportedUser = "admin-0"

	code, _ := h.run()
	assert.Equal(t, constants.ExitDashboards, code)
	assert.Len(t, h.dashboards.Logins(), 2)
}

// TestClusterNotGreen tests the health gate
func TestClusterNotGreen(t *testing.T) {
	for _, status := range []string{"yellow", "red"} {
		t.Run(status, func(t *testing.T) {
			// GIVEN a cluster that is not green
			h := newHarness(t)
			h.cluster.Status = status

			// WHEN the smoke test runs
			code, err := h.run()

			// THEN it exits 3 and never reaches topology or index checks
			assert.Equal(t, constants.ExitClusterNotGreen, code)
			assert.Contains(t, err.Error(), status)
			assert.False(t, h.requested("GET /_nodes"))
			assert.False(t, h.requested("PUT /test"))
		})
	}
}

// TestWrongNodeCount tests the topology check
// GIVEN a cluster with two nodes
// WHEN the smoke test runs
// THEN it exits 4 without creating the index
func TestWrongNodeCount(t *testing.T) {
	h := newHarness(t)
	delete(h.cluster.Nodes, "n2")

	code, err := h.run()
	assert.Equal(t, constants.ExitWrongNodeCount, code)
	assert.Contains(t, err.Error(), "2 nodes, expected 3")
	assert.False(t, h.requested("PUT /test"))
}

// TestExpectedNodesConfigurable tests a non default cluster size
// GIVEN a five node cluster and expected-nodes set to 5
// WHEN the smoke test runs
// THEN it passes
func TestExpectedNodesConfigurable(t *testing.T) {
	h := newHarness(t)
	h.cluster.Nodes["n3"] = opensearch.Node{Name: "opensearch-3", Version: "2.17.0"}
	h.cluster.Nodes["n4"] = opensearch.Node{Name: "opensearch-4", Version: "2.17.0"}
	h.config.ExpectedNodes = 5

	code, err := h.run()
	assert.NoError(t, err)
	assert.Equal(t, constants.ExitOK, code)
}

// TestMinNodeVersion tests the optional version floor
// GIVEN one node running an older release
// WHEN the smoke test runs with a minimum node version
// THEN it exits 4 naming the node
func TestMinNodeVersion(t *testing.T) {
	h := newHarness(t)
	h.cluster.Nodes["n1"] = opensearch.Node{Name: "opensearch-1", Version: "2.11.0"}
	h.config.MinNodeVersion = "2.12.0"

	code, err := h.run()
	assert.Equal(t, constants.ExitWrongNodeCount, code)
	assert.Contains(t, err.Error(), "opensearch-1")
}

// TestIndexAlreadyExists tests creation of an existing fixture
// GIVEN the fixture index is left over from a failed run
// WHEN the smoke test runs
// THEN it exits 5
func TestIndexAlreadyExists(t *testing.T) {
	h := newHarness(t)
	h.cluster.AddIndex("test", 1, 2)

	code, err := h.run()
	assert.Equal(t, constants.ExitIndexCreation, code)
	assert.Contains(t, err.Error(), "resource_already_exists_exception")
}

// TestIndexCreateNotAcknowledged tests an unacknowledged creation
// GIVEN a cluster answering acknowledged false
// WHEN the smoke test runs
// THEN it exits 5
func TestIndexCreateNotAcknowledged(t *testing.T) {
	h := newHarness(t)
	h.cluster.RejectCreate = true

	code, _ := h.run()
	assert.Equal(t, constants.ExitIndexCreation, code)
}

// TestShardPlacement tests shard allocation polling
func TestShardPlacement(t *testing.T) {
	tests := []struct {
		name     string
		pending  int
		strict   bool
		wantCode constants.ExitCode
	}{
		{name: "allocated after polling", pending: 3, strict: true, wantCode: constants.ExitOK},
		{name: "never allocated", pending: 100, strict: true, wantCode: constants.ExitIndexCreation},
		{name: "never allocated, not enforced", pending: 100, strict: false, wantCode: constants.ExitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN replicas that stay unassigned for a number of polls
			h := newHarness(t)
			h.cluster.PendingShardPolls = tt.pending
			h.config.StrictShardCheck = tt.strict

			// WHEN the smoke test runs
			code, _ := h.run()

			// THEN the placement is enforced only in strict mode
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

// TestDocumentWrites tests the per document shard check
func TestDocumentWrites(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *osfake.Cluster)
	}{
		{name: "write reaches too few copies", mutate: func(c *osfake.Cluster) { c.ShardsTotal = 2 }},
		{name: "write rejected", mutate: func(c *osfake.Cluster) { c.FailDocument = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a cluster failing document writes
			h := newHarness(t)
			tt.mutate(h.cluster)

			// WHEN the smoke test runs
			code, _ := h.run()

			// THEN it exits 8 and leaves the index behind
			assert.Equal(t, constants.ExitIndexDocument, code)
			assert.True(t, h.cluster.HasIndex("test"))
		})
	}
}

// TestDocumentCount tests count polling
func TestDocumentCount(t *testing.T) {
	t.Run("eventually visible", func(t *testing.T) {
		// GIVEN documents that become searchable after two polls
		h := newHarness(t)
		h.cluster.PendingCountPolls = 2

		// WHEN the smoke test runs
		code, err := h.run()

		// THEN it passes
		assert.NoError(t, err)
		assert.Equal(t, constants.ExitOK, code)
	})
	t.Run("lost document", func(t *testing.T) {
		// GIVEN a cluster that loses a document
		h := newHarness(t)
		h.cluster.LostDocuments = 1

		// WHEN the smoke test runs
		code, err := h.run()

		// THEN it exits 9 reporting the count
		assert.Equal(t, constants.ExitDocumentCount, code)
		assert.Contains(t, err.Error(), "holds 99 documents, expected 100")
	})
}

// TestIndexDelete tests the delete phase and cleanup verification
func TestIndexDelete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *osfake.Cluster)
	}{
		{name: "not acknowledged", mutate: func(c *osfake.Cluster) { c.RejectDelete = true }},
		{name: "index survives", mutate: func(c *osfake.Cluster) { c.KeepDeleted = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a cluster that does not delete the index
			h := newHarness(t)
			tt.mutate(h.cluster)

			// WHEN the smoke test runs
			code, _ := h.run()

			// THEN it exits 7
			assert.Equal(t, constants.ExitIndexDeletion, code)
		})
	}
}

// TestCancelledRun tests cancellation
// GIVEN a cancelled context
// WHEN the smoke test runs
// THEN the first network phase fails with its own exit code
func TestCancelledRun(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.runner.Run(ctx)
	assert.Equal(t, constants.ExitDashboards, smoke.ExitCodeOf(err))
	results := h.runner.Results()
	assert.False(t, results[len(results)-1].Succeeded())
}
