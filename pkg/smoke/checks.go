// Copyright (C) 2022, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package smoke

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
	"github.com/verrazzano/opensearch-smoketest/pkg/opensearch"
)

type (
	// SearchAPI is the part of the OpenSearch REST API the smoke test exercises
	SearchAPI interface {
		GetClusterHealth(ctx context.Context) (*opensearch.ClusterHealth, error)
		GetNodes(ctx context.Context) (*opensearch.NodesInfo, error)
		CreateIndex(ctx context.Context, index string, settings opensearch.IndexSettings) (*opensearch.Acknowledgement, error)
		DeleteIndex(ctx context.Context, index string) (*opensearch.Acknowledgement, error)
		IndexExists(ctx context.Context, index string) (bool, error)
		GetShards(ctx context.Context, index string) ([]opensearch.ShardInfo, error)
		IndexDocument(ctx context.Context, index string, id int, doc interface{}) (*opensearch.DocumentResponse, error)
		Count(ctx context.Context, index string) (*opensearch.CountResponse, error)
	}

	// DashboardsAPI verifies dashboard logins
	DashboardsAPI interface {
		CheckLogin(ctx context.Context, username, password string) error
	}
)

// CheckDashboards logs in as the admin and then as the integrator identity. Both logins are
// attempted before the verdict and the error names every identity that failed.
func CheckDashboards(ctx context.Context, session Session, client DashboardsAPI) error {
	var failed []string
	var causes []string
	for _, cred := range []Credential{session.Admin, session.Integrator} {
		if err := client.CheckLogin(ctx, cred.Username, cred.Password); err != nil {
			failed = append(failed, cred.Username)
			causes = append(causes, err.Error())
		}
	}
	if len(failed) > 0 {
		return errors.Errorf("dashboards at '%s' not accessible for %s: %s",
			session.DashboardEndpoint, strings.Join(failed, ", "), strings.Join(causes, "; "))
	}
	return nil
}

// CheckClusterHealth requires the cluster status to be green
func CheckClusterHealth(ctx context.Context, client SearchAPI) (*opensearch.ClusterHealth, error) {
	health, err := client.GetClusterHealth(ctx)
	if err != nil {
		return nil, err
	}
	if health.Status != constants.HealthGreen {
		return health, errors.Errorf("cluster '%s' is %s, expected %s", health.ClusterName, health.Status, constants.HealthGreen)
	}
	return health, nil
}

// CheckTopology requires the expected number of nodes and, when minVersion is set, every node
// to run at least that version
func CheckTopology(ctx context.Context, client SearchAPI, expectedNodes int, minVersion string) (*opensearch.NodesInfo, error) {
	nodes, err := client.GetNodes(ctx)
	if err != nil {
		return nil, err
	}
	if len(nodes.Nodes) != expectedNodes {
		return nodes, errors.Errorf("cluster has %d nodes, expected %d", len(nodes.Nodes), expectedNodes)
	}
	if minVersion == "" {
		return nodes, nil
	}
	below, err := opensearch.NodesBelowVersion(nodes.Nodes, minVersion)
	if err != nil {
		return nodes, err
	}
	if len(below) > 0 {
		sort.Strings(below)
		return nodes, errors.Errorf("nodes %s run a version lower than %s", strings.Join(below, ", "), minVersion)
	}
	return nodes, nil
}
