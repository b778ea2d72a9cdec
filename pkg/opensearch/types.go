// Copyright (C) 2022, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package opensearch

import "encoding/json"

type (
	ClusterHealth struct {
		ClusterName      string `json:"cluster_name"`
		Status           string `json:"status"`
		NumberOfNodes    int    `json:"number_of_nodes"`
		ActiveShards     int    `json:"active_shards"`
		UnassignedShards int    `json:"unassigned_shards"`
	}

	NodesInfo struct {
		ClusterName string          `json:"cluster_name"`
		Nodes       map[string]Node `json:"nodes"`
	}

	Node struct {
		Name    string   `json:"name"`
		Host    string   `json:"host"`
		Version string   `json:"version"`
		Roles   []string `json:"roles"`
	}

	// IndexDefinition is the body of an index creation request
	IndexDefinition struct {
		Settings IndexSettings `json:"settings"`
	}

	IndexSettings struct {
		NumberOfShards   int `json:"number_of_shards"`
		NumberOfReplicas int `json:"number_of_replicas"`
	}

	// Acknowledgement is the answer to cluster management operations
	Acknowledgement struct {
		Acknowledged       bool   `json:"acknowledged"`
		ShardsAcknowledged bool   `json:"shards_acknowledged"`
		Index              string `json:"index"`
	}

	// ShardInfo is one row of _cat/shards
	ShardInfo struct {
		Index  string `json:"index"`
		Shard  string `json:"shard"`
		PriRep string `json:"prirep"`
		State  string `json:"state"`
		Docs   string `json:"docs"`
		Node   string `json:"node"`
	}

	// DocumentResponse is the answer to indexing one document
	DocumentResponse struct {
		Index   string      `json:"_index"`
		ID      string      `json:"_id"`
		Version int         `json:"_version"`
		Result  string      `json:"result"`
		Shards  ShardsCount `json:"_shards"`
	}

	ShardsCount struct {
		Total      int `json:"total"`
		Successful int `json:"successful"`
		Failed     int `json:"failed"`
	}

	CountResponse struct {
		Count  int         `json:"count"`
		Shards ShardsCount `json:"_shards"`
	}

	// InternalUser is one entry of the security plugin internal user database
	InternalUser struct {
		BackendRoles []string `json:"backend_roles"`
		Reserved     bool     `json:"reserved"`
		Description  string   `json:"description"`
	}

	// ErrorResponse is the body of an OpenSearch error. error is an object for
	// most APIs and a plain string for some security plugin answers.
	ErrorResponse struct {
		Error  json.RawMessage `json:"error"`
		Status int             `json:"status"`
	}

	errorCause struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
)

// Cause returns the error type and reason, empty when the body carried neither
func (e *ErrorResponse) Cause() (string, string) {
	if len(e.Error) == 0 {
		return "", ""
	}
	var cause errorCause
	if err := json.Unmarshal(e.Error, &cause); err == nil {
		return cause.Type, cause.Reason
	}
	var reason string
	if err := json.Unmarshal(e.Error, &reason); err == nil {
		return "", reason
	}
	return "", string(e.Error)
}
