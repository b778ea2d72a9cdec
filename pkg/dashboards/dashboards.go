// Copyright (C) 2022, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package dashboards

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
)

type (
	OSDashboardsClient struct {
		client *resty.Client
		Log    *zap.SugaredLogger
	}

	// Credentials is the body of a login request
	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// LoginResponse is the part of the login answer used to confirm the session identity
	LoginResponse struct {
		Username string   `json:"username"`
		Roles    []string `json:"roles"`
	}

	// LoginError is the body of a rejected login
	LoginError struct {
		StatusCode int    `json:"statusCode"`
		Error      string `json:"error"`
		Message    string `json:"message"`
	}
)

// NewOSDashboardsClient creates a client for the dashboards served at endpoint
func NewOSDashboardsClient(endpoint string, timeout time.Duration, log *zap.SugaredLogger) *OSDashboardsClient {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", constants.HTTPContentType).
		SetHeader(constants.DashboardXSRFHeader, "true").
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}). //nolint:gosec //#nosec G402
		SetLogger(log)
	return &OSDashboardsClient{client: client, Log: log}
}

// Endpoint returns the dashboards base URL
func (od *OSDashboardsClient) Endpoint() string {
	return od.client.BaseURL
}

// Login opens a session as username and returns the identity the dashboards report back
func (od *OSDashboardsClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	od.Log.Debugf("Logging in to OpenSearch Dashboards as '%s'", username)
	var login LoginResponse
	var loginErr LoginError
	resp, err := od.client.R().
		SetContext(ctx).
		SetBody(Credentials{Username: username, Password: password}).
		SetResult(&login).
		SetError(&loginErr).
		ForceContentType(constants.HTTPContentType).
		Post(constants.DashboardLogin)
	if err != nil && (resp == nil || resp.StatusCode() == 0) {
		return nil, errors.Wrapf(err, "failed to reach OpenSearch Dashboards at '%s'", od.Endpoint())
	}
	if resp.IsError() {
		if loginErr.Message != "" {
			return nil, errors.Errorf("login as '%s' returned %d: %s", username, resp.StatusCode(), loginErr.Message)
		}
		return nil, errors.Errorf("login as '%s' returned %d", username, resp.StatusCode())
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode login response for '%s'", username)
	}
	return &login, nil
}

// CheckLogin logs in as username and verifies the session belongs to that user
func (od *OSDashboardsClient) CheckLogin(ctx context.Context, username, password string) error {
	login, err := od.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if login.Username != username {
		return errors.Errorf("login as '%s' returned a session for '%s'", username, login.Username)
	}
	return nil
}
