// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package constants

// ExitCode is the process exit status reported for a smoke test outcome
type ExitCode int

// Exit codes. 2 and 6 are reserved and never returned.
const (
	// ExitOK a successful run
	ExitOK ExitCode = 0

	// ExitUsage bad CLI usage, missing tooling, unknown model or unresolvable credentials
	ExitUsage ExitCode = 1

	// ExitClusterNotGreen cluster health is not green
	ExitClusterNotGreen ExitCode = 3

	// ExitWrongNodeCount the cluster does not have the expected number of nodes
	ExitWrongNodeCount ExitCode = 4

	// ExitIndexCreation the fixture index could not be created or placed
	ExitIndexCreation ExitCode = 5

	// ExitIndexDeletion the fixture index could not be deleted
	ExitIndexDeletion ExitCode = 7

	// ExitIndexDocument a fixture document could not be indexed
	ExitIndexDocument ExitCode = 8

	// ExitDocumentCount the fixture index does not hold the expected number of documents
	ExitDocumentCount ExitCode = 9

	// ExitDashboards OpenSearch Dashboards login failed
	ExitDashboards ExitCode = 10
)

// Deployment defaults
const (
	// DefaultSearchApp Juju application name of the search cluster
	DefaultSearchApp = "opensearch"

	// DefaultDashboardApp Juju application name of OpenSearch Dashboards
	DefaultDashboardApp = "opensearch-dashboard"

	// DefaultIntegratorApp Juju application name of the data integrator
	DefaultIntegratorApp = "data-integrator"

	// DefaultAdminUsername used when get-password does not report a username
	DefaultAdminUsername = "admin"

	// IntegratorCredentialsKey key the data integrator publishes OpenSearch credentials under
	IntegratorCredentialsKey = "opensearch"

	// JujuBinary name of the Juju CLI
	JujuBinary = "juju"

	// GetPasswordAction action run on the search application leader
	GetPasswordAction = "get-password" //nolint:gosec //#gosec G101

	// GetCredentialsAction action run on the integrator application leader
	GetCredentialsAction = "get-credentials" //nolint:gosec //#gosec G101
)

// Ports
const (
	// OpenSearchPort data plane HTTPS port
	OpenSearchPort = 9200

	// DashboardPort port of a dashboard unit address
	DashboardPort = 5601

	// DashboardURLPort port used with an explicit dashboard URL
	DashboardURLPort = 443
)

// Fixture defaults
const (
	DefaultIndexName     = "test"
	DefaultShards        = 1
	DefaultReplicas      = 2
	DefaultDocuments     = 100
	DefaultExpectedNodes = 3
)

// OpenSearch values
const (
	// HTTPContentType content type in http request/response
	HTTPContentType = "application/json"

	// HealthGreen expected cluster status
	HealthGreen = "green"

	// ShardStarted state of an allocated shard in _cat/shards
	ShardStarted = "STARTED"

	// DashboardXSRFHeader header required by OpenSearch Dashboards on state changing requests
	DashboardXSRFHeader = "osd-xsrf"
)

// OpenSearch endpoints
const (
	ClusterHealthPath = "/_cluster/health"
	NodesPath         = "/_nodes"
	CatShardsPath     = "/_cat/shards/%s"
	IndexPath         = "/%s"
	DocumentPath      = "/%s/_doc/%d"
	CountPath         = "/%s/_count"
	InternalUsersPath = "/_plugins/_security/api/internalusers"
	DashboardLogin    = "/auth/login"
)

// EnvPrefix prefix of environment overrides, e.g. SMOKETEST_EXPECTED_NODES
const EnvPrefix = "SMOKETEST"
