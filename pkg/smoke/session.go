// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package smoke

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/verrazzano/opensearch-smoketest/pkg/config"
	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
	"github.com/verrazzano/opensearch-smoketest/pkg/juju"
)

type (
	// Credential is a username/password pair of one identity
	Credential struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		// Source is the application the credential was fetched from
		Source string `yaml:"-"`
	}

	// Session is the resolved target of a run. It is built once and passed by value to every phase.
	Session struct {
		RunID             string
		Model             string
		SearchEndpoint    string
		DashboardEndpoint string
		Admin             Credential
		Integrator        Credential
	}
)

// String hides passwords so sessions can be logged
func (c Credential) String() string {
	return fmt.Sprintf("%s@%s", c.Username, c.Source)
}

// ResolveEnvironment checks that the required tools are installed and that the model exists
func ResolveEnvironment(ctx context.Context, cfg *config.SmokeConfig, j juju.Juju) error {
	if err := j.CheckTools(cfg.RequiredTools); err != nil {
		return err
	}
	exists, err := j.ModelExists(ctx, cfg.Model)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Errorf("model '%s' not found", cfg.Model)
	}
	return nil
}

// FetchSession resolves leader addresses and credentials into a Session
func FetchSession(ctx context.Context, cfg *config.SmokeConfig, j juju.Juju, runID string) (Session, error) {
	session := Session{RunID: runID, Model: cfg.Model}

	searchAddress, err := j.LeaderAddress(ctx, cfg.Model, cfg.SearchApp)
	if err != nil {
		return Session{}, err
	}
	session.SearchEndpoint = "https://" + net.JoinHostPort(searchAddress, strconv.Itoa(constants.OpenSearchPort))

	if cfg.DashboardURL != "" {
		session.DashboardEndpoint, err = ExplicitDashboardEndpoint(cfg.DashboardURL)
		if err != nil {
			return Session{}, err
		}
	} else {
		dashboardAddress, err := j.LeaderAddress(ctx, cfg.Model, cfg.DashboardApp)
		if err != nil {
			return Session{}, err
		}
		session.DashboardEndpoint = "https://" + net.JoinHostPort(dashboardAddress, strconv.Itoa(constants.DashboardPort))
	}

	if session.Admin, err = adminCredential(ctx, cfg, j); err != nil {
		return Session{}, err
	}
	if session.Integrator, err = integratorCredential(ctx, cfg, j); err != nil {
		return Session{}, err
	}
	return session, nil
}

// ExplicitDashboardEndpoint normalizes a user supplied dashboard URL. The scheme defaults to https
// and the port to 443. Other schemes are rejected, the login sends credentials.
func ExplicitDashboardEndpoint(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(err, "invalid dashboard URL '%s'", raw)
	}
	if u.Scheme != "https" {
		return "", errors.Errorf("dashboard URL '%s' must use https", raw)
	}
	if u.Hostname() == "" {
		return "", errors.Errorf("dashboard URL '%s' has no host", raw)
	}
	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(constants.DashboardURLPort))
	}
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, strings.TrimRight(u.Path, "/")), nil
}

func adminCredential(ctx context.Context, cfg *config.SmokeConfig, j juju.Juju) (Credential, error) {
	result, err := j.RunAction(ctx, cfg.Model, cfg.SearchApp, constants.GetPasswordAction)
	if err != nil {
		return Credential{}, err
	}
	cred := Credential{Username: constants.DefaultAdminUsername, Source: cfg.SearchApp}
	if result.Has("username") {
		if err := result.Decode("username", &cred.Username); err != nil {
			return Credential{}, err
		}
	}
	if err := result.Decode("password", &cred.Password); err != nil {
		return Credential{}, err
	}
	if cred.Password == "" {
		return Credential{}, errors.Errorf("action '%s' on '%s' returned an empty password", constants.GetPasswordAction, cfg.SearchApp)
	}
	return cred, nil
}

func integratorCredential(ctx context.Context, cfg *config.SmokeConfig, j juju.Juju) (Credential, error) {
	result, err := j.RunAction(ctx, cfg.Model, cfg.IntegratorApp, constants.GetCredentialsAction)
	if err != nil {
		return Credential{}, err
	}
	key := cfg.SearchApp
	if !result.Has(key) {
		key = constants.IntegratorCredentialsKey
	}
	var cred Credential
	if err := result.Decode(key, &cred); err != nil {
		return Credential{}, err
	}
	if cred.Username == "" || cred.Password == "" {
		return Credential{}, errors.Errorf("action '%s' on '%s' returned incomplete credentials under '%s'",
			constants.GetCredentialsAction, cfg.IntegratorApp, key)
	}
	cred.Source = cfg.IntegratorApp
	return cred, nil
}
