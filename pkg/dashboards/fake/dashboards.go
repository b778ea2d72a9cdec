// Copyright (C) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package fake

import (
	"encoding/json"
	"net/http"
	"sync"
)

// Dashboards serves the OpenSearch Dashboards login endpoint for unit testing
type Dashboards struct {
	mu sync.Mutex

	// Users maps usernames to passwords
	Users map[string]string
	// ReportedUser, when set, is returned as the session identity for every login
	ReportedUser string

	logins []string
}

// NewDashboards returns a Dashboards accepting the given users
func NewDashboards(users map[string]string) *Dashboards {
	return &Dashboards{Users: users}
}

// Logins returns the usernames of every login attempt
func (d *Dashboards) Logins() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.logins...)
}

func (d *Dashboards) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"statusCode": 404, "error": "Not Found", "message": "Not Found"})
		return
	}
	if r.Header.Get("osd-xsrf") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"statusCode": 400, "error": "Bad Request", "message": "Request must contain a osd-xsrf header."})
		return
	}
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"statusCode": 400, "error": "Bad Request", "message": err.Error()})
		return
	}
	d.logins = append(d.logins, creds.Username)

	password, ok := d.Users[creds.Username]
	if !ok || password != creds.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"statusCode": 401, "error": "Unauthorized", "message": "Authentication Exception"})
		return
	}
	user := creds.Username
	if d.ReportedUser != "" {
		user = d.ReportedUser
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username":       user,
		"tenants":        map[string]bool{user: true},
		"roles":          []string{"all_access"},
		"backend_roles":  []string{},
		"selectedTenant": "",
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
