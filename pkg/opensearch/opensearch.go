// Copyright (C) 2022, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package opensearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
)

type (
	// OSClient issues OpenSearch REST calls as one identity
	OSClient struct {
		client *resty.Client
		Log    *zap.SugaredLogger
	}

	// ClientConfig holds the endpoint and identity of an OSClient
	ClientConfig struct {
		BaseURL  string
		Username string
		Password string
		Timeout  time.Duration
		// Insecure disables certificate validation, the cluster serves self-signed certificates
		Insecure bool
	}
)

// NewOSClient creates an OSClient for the given endpoint and identity
func NewOSClient(cfg ClientConfig, log *zap.SugaredLogger) *OSClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.Username, cfg.Password).
		SetHeader("Accept", constants.HTTPContentType).
		SetHeader("Content-Type", constants.HTTPContentType).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: cfg.Insecure}). //nolint:gosec //#nosec G402
		SetLogger(log)
	return &OSClient{
		client: client,
		Log:    log,
	}
}

// BaseURL returns the endpoint the client talks to
func (o *OSClient) BaseURL() string {
	return o.client.BaseURL
}

// do executes a request and decodes a successful JSON response into result
func (o *OSClient) do(ctx context.Context, method, path string, body, result interface{}, query map[string]string) error {
	o.Log.Debugf("Invoking HTTP '%s' request with path '%s'", method, path)
	req := o.client.R().
		SetContext(ctx).
		SetError(&ErrorResponse{}).
		ForceContentType(constants.HTTPContentType)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil && (resp == nil || resp.StatusCode() == 0) {
		return errors.Wrapf(err, "HTTP '%s' failure while invoking '%s'", method, path)
	}
	if resp.IsError() {
		return newResponseError(method, path, resp)
	}
	if err != nil {
		return errors.Wrapf(err, "unable to decode response of '%s %s'", method, path)
	}
	return nil
}

// ResponseError is a non-2xx answer from OpenSearch
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Type       string
	Reason     string
}

func (e *ResponseError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("'%s %s' returned %d: %s: %s", e.Method, e.Path, e.StatusCode, e.Type, e.Reason)
	}
	return fmt.Sprintf("'%s %s' returned %d: %s", e.Method, e.Path, e.StatusCode, e.Reason)
}

// IsNotFound reports whether err is a 404 answer
func IsNotFound(err error) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

func newResponseError(method, path string, resp *resty.Response) error {
	respErr := &ResponseError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode(),
	}
	if body, ok := resp.Error().(*ErrorResponse); ok && body != nil {
		respErr.Type, respErr.Reason = body.Cause()
	}
	if respErr.Type == "" && respErr.Reason == "" {
		respErr.Reason = truncate(resp.String(), 200)
	}
	return respErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
