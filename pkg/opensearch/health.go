// Copyright (C) 2022, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package opensearch

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"

	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
)

// GetClusterHealth fetches the cluster health
func (o *OSClient) GetClusterHealth(ctx context.Context) (*ClusterHealth, error) {
	var health ClusterHealth
	if err := o.do(ctx, http.MethodGet, constants.ClusterHealthPath, nil, &health, nil); err != nil {
		return nil, errors.Wrap(err, "failed to get cluster health")
	}
	return &health, nil
}

// GetNodes fetches the nodes of the cluster, keyed by node id
func (o *OSClient) GetNodes(ctx context.Context) (*NodesInfo, error) {
	var nodes NodesInfo
	if err := o.do(ctx, http.MethodGet, constants.NodesPath, nil, &nodes, nil); err != nil {
		return nil, errors.Wrap(err, "failed to get nodes")
	}
	return &nodes, nil
}

// GetInternalUsers lists the internal users of the security plugin, keyed by name.
// Only identities with security admin rights are allowed to read them.
func (o *OSClient) GetInternalUsers(ctx context.Context) (map[string]InternalUser, error) {
	users := map[string]InternalUser{}
	if err := o.do(ctx, http.MethodGet, constants.InternalUsersPath, nil, &users, nil); err != nil {
		return nil, errors.Wrap(err, "failed to list internal users")
	}
	return users, nil
}

// NodesBelowVersion returns the names of nodes running a version lower than minimum
func NodesBelowVersion(nodes map[string]Node, minimum string) ([]string, error) {
	minVersion, err := version.NewVersion(minimum)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid minimum version '%s'", minimum)
	}
	var below []string
	for id, node := range nodes {
		name := node.Name
		if name == "" {
			name = id
		}
		nodeVersion, err := version.NewVersion(node.Version)
		if err != nil {
			below = append(below, name)
			continue
		}
		if nodeVersion.LessThan(minVersion) {
			below = append(below, name)
		}
	}
	return below, nil
}
