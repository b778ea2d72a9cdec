// Copyright (C) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package fake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/verrazzano/opensearch-smoketest/pkg/opensearch"
)

// Cluster is an in-memory stand-in for the OpenSearch REST API, for unit testing
type Cluster struct {
	mu sync.Mutex

	// Username and Password, when set, are required as basic auth on every request.
	// Username is the only identity allowed on the security API.
	Username string
	Password string
	// Users are further accepted identities, by name
	Users map[string]string

	Status string
	Nodes  map[string]opensearch.Node

	// ShardsTotal overrides _shards.total of document writes when not zero
	ShardsTotal int
	// PendingShardPolls is the number of _cat/shards calls answering with unassigned replicas
	PendingShardPolls int
	// PendingCountPolls is the number of _count calls answering before documents are visible
	PendingCountPolls int
	// LostDocuments is subtracted from every visible count
	LostDocuments int
	// FailDocument makes the write of this document id fail when not zero
	FailDocument int
	RejectCreate bool
	RejectDelete bool
	// KeepDeleted leaves the index in place after an acknowledged delete
	KeepDeleted bool

	indices  map[string]*index
	requests []string
}

type index struct {
	shards     int
	replicas   int
	docs       map[string]json.RawMessage
	shardPolls int
	countPolls int
}

// NewCluster returns a green three node cluster
func NewCluster() *Cluster {
	return &Cluster{
		Status: "green",
		Nodes: map[string]opensearch.Node{
			"n0": {Name: "opensearch-0", Version: "2.17.0", Roles: []string{"cluster_manager", "data"}},
			"n1": {Name: "opensearch-1", Version: "2.17.0", Roles: []string{"cluster_manager", "data"}},
			"n2": {Name: "opensearch-2", Version: "2.17.0", Roles: []string{"cluster_manager", "data"}},
		},
		indices: map[string]*index{},
	}
}

// AddIndex creates an index directly, bypassing the REST API
func (c *Cluster) AddIndex(name string, shards, replicas int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indices[name] = &index{shards: shards, replicas: replicas, docs: map[string]json.RawMessage{}}
}

// HasIndex reports whether the index exists
func (c *Cluster) HasIndex(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.indices[name]
	return ok
}

// Requests returns "METHOD /path" for every request served so far
func (c *Cluster) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

func (c *Cluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, fmt.Sprintf("%s %s", r.Method, r.URL.Path))

	user, pass, _ := r.BasicAuth()
	if c.Username != "" && !c.authenticated(user, pass) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Unauthorized"))
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/_cluster/health" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"cluster_name":    "opensearch",
			"status":          c.Status,
			"number_of_nodes": len(c.Nodes),
		})
	case r.URL.Path == "/_nodes" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"cluster_name": "opensearch",
			"nodes":        c.Nodes,
		})
	case r.URL.Path == "/_plugins/_security/api/internalusers" && r.Method == http.MethodGet:
		if user != c.Username {
			writeError(w, http.StatusForbidden, "security_exception", "no permissions for [restapi:admin/internalusers] and User [name="+user+"]")
			return
		}
		users := map[string]opensearch.InternalUser{
			c.Username: {Reserved: true, BackendRoles: []string{"admin"}, Description: "Admin user"},
		}
		for name := range c.Users {
			users[name] = opensearch.InternalUser{}
		}
		writeJSON(w, http.StatusOK, users)
	case len(parts) == 3 && parts[0] == "_cat" && parts[1] == "shards" && r.Method == http.MethodGet:
		c.catShards(w, parts[2])
	case len(parts) == 1 && parts[0] != "":
		c.indexAPI(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodPut:
		c.putDocument(w, r, parts[0], parts[2])
	case len(parts) == 2 && parts[1] == "_count" && r.Method == http.MethodGet:
		c.count(w, parts[0])
	default:
		writeError(w, http.StatusBadRequest, "illegal_argument_exception", "no handler found for uri ["+r.URL.Path+"]")
	}
}

func (c *Cluster) authenticated(user, pass string) bool {
	if user == c.Username {
		return pass == c.Password
	}
	expected, ok := c.Users[user]
	return ok && pass == expected
}

func (c *Cluster) indexAPI(w http.ResponseWriter, r *http.Request, name string) {
	_, exists := c.indices[name]
	switch r.Method {
	case http.MethodHead:
		if exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case http.MethodPut:
		if exists {
			writeError(w, http.StatusBadRequest, "resource_already_exists_exception", fmt.Sprintf("index [%s] already exists", name))
			return
		}
		if c.RejectCreate {
			writeJSON(w, http.StatusOK, map[string]interface{}{"acknowledged": false, "shards_acknowledged": false, "index": name})
			return
		}
		var def opensearch.IndexDefinition
		if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
			writeError(w, http.StatusBadRequest, "parse_exception", err.Error())
			return
		}
		c.indices[name] = &index{
			shards:   def.Settings.NumberOfShards,
			replicas: def.Settings.NumberOfReplicas,
			docs:     map[string]json.RawMessage{},
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"acknowledged": true, "shards_acknowledged": true, "index": name})
	case http.MethodDelete:
		if !exists {
			writeError(w, http.StatusNotFound, "index_not_found_exception", "no such index ["+name+"]")
			return
		}
		if c.RejectDelete {
			writeJSON(w, http.StatusOK, map[string]interface{}{"acknowledged": false})
			return
		}
		if !c.KeepDeleted {
			delete(c.indices, name)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"acknowledged": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method)
	}
}

func (c *Cluster) catShards(w http.ResponseWriter, name string) {
	idx, ok := c.indices[name]
	if !ok {
		writeError(w, http.StatusNotFound, "index_not_found_exception", "no such index ["+name+"]")
		return
	}
	idx.shardPolls++
	var rows []opensearch.ShardInfo
	for s := 0; s < idx.shards; s++ {
		for copyNo := 0; copyNo <= idx.replicas; copyNo++ {
			row := opensearch.ShardInfo{Index: name, Shard: fmt.Sprint(s), PriRep: "r", State: "STARTED", Node: fmt.Sprintf("opensearch-%d", copyNo)}
			if copyNo == 0 {
				row.PriRep = "p"
			} else if idx.shardPolls <= c.PendingShardPolls {
				row.State = "UNASSIGNED"
				row.Node = ""
			}
			rows = append(rows, row)
		}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (c *Cluster) putDocument(w http.ResponseWriter, r *http.Request, name, id string) {
	idx, ok := c.indices[name]
	if !ok {
		writeError(w, http.StatusNotFound, "index_not_found_exception", "no such index ["+name+"]")
		return
	}
	if c.FailDocument != 0 && id == fmt.Sprint(c.FailDocument) {
		writeError(w, http.StatusTooManyRequests, "es_rejected_execution_exception", "rejected execution of coordinating operation")
		return
	}
	var doc json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "mapper_parsing_exception", err.Error())
		return
	}
	result := "created"
	if _, exists := idx.docs[id]; exists {
		result = "updated"
	}
	idx.docs[id] = doc
	total := c.ShardsTotal
	if total == 0 {
		total = 1 + idx.replicas
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"_index":   name,
		"_id":      id,
		"_version": 1,
		"result":   result,
		"_shards":  map[string]int{"total": total, "successful": total, "failed": 0},
	})
}

func (c *Cluster) count(w http.ResponseWriter, name string) {
	idx, ok := c.indices[name]
	if !ok {
		writeError(w, http.StatusNotFound, "index_not_found_exception", "no such index ["+name+"]")
		return
	}
	idx.countPolls++
	visible := len(idx.docs) - c.LostDocuments
	if idx.countPolls <= c.PendingCountPolls {
		visible = 0
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   visible,
		"_shards": map[string]int{"total": idx.shards, "successful": idx.shards, "failed": 0},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, errType, reason string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"root_cause": []map[string]string{{"type": errType, "reason": reason}},
			"type":       errType,
			"reason":     reason,
		},
		"status": status,
	})
}
