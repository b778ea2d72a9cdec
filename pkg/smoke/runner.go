// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verrazzano/opensearch-smoketest/pkg/config"
	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
	"github.com/verrazzano/opensearch-smoketest/pkg/dashboards"
	"github.com/verrazzano/opensearch-smoketest/pkg/juju"
	"github.com/verrazzano/opensearch-smoketest/pkg/opensearch"
)

// Phase names, in execution order
const (
	PhaseEnvironment    = "environment"
	PhaseCredentials    = "credentials"
	PhaseDashboards     = "dashboards"
	PhaseClusterHealth  = "cluster-health"
	PhaseTopology       = "topology"
	PhaseIndexCreate    = "index-create"
	PhaseShardPlacement = "shard-placement"
	PhaseDocuments      = "documents"
	PhaseDocumentCount  = "document-count"
	PhaseIndexDelete    = "index-delete"
)

type (
	// PhaseResult is the outcome of one executed phase
	PhaseResult struct {
		Phase    string
		Code     constants.ExitCode
		Duration time.Duration
		Detail   string
		Err      error
	}

	SearchClientFactory     func(endpoint string, cred Credential, timeout time.Duration) SearchAPI
	DashboardsClientFactory func(endpoint string, timeout time.Duration) DashboardsAPI

	// Runner executes the phases of one smoke test run in order and stops at the first failure
	Runner struct {
		Config              *config.SmokeConfig
		Juju                juju.Juju
		Log                 *zap.SugaredLogger
		NewSearchClient     SearchClientFactory
		NewDashboardsClient DashboardsClientFactory
		RunID               string

		results []PhaseResult
	}
)

// Succeeded reports whether the phase passed
func (p PhaseResult) Succeeded() bool {
	return p.Err == nil
}

// NewRunner returns a Runner talking to real OpenSearch and Dashboards endpoints
func NewRunner(cfg *config.SmokeConfig, j juju.Juju, log *zap.SugaredLogger) *Runner {
	return &Runner{
		Config: cfg,
		Juju:   j,
		Log:    log,
		NewSearchClient: func(endpoint string, cred Credential, timeout time.Duration) SearchAPI {
			return opensearch.NewOSClient(opensearch.ClientConfig{
				BaseURL:  endpoint,
				Username: cred.Username,
				Password: cred.Password,
				Timeout:  timeout,
				Insecure: true,
			}, log)
		},
		NewDashboardsClient: func(endpoint string, timeout time.Duration) DashboardsAPI {
			return dashboards.NewOSDashboardsClient(endpoint, timeout, log)
		},
		RunID: uuid.NewString(),
	}
}

// Results returns the phases executed so far
func (r *Runner) Results() []PhaseResult {
	return append([]PhaseResult(nil), r.results...)
}

// Run executes every phase. The returned error is a *SmokeError carrying the exit code of the
// failed phase.
func (r *Runner) Run(ctx context.Context) error {
	cfg := r.Config
	r.Log = r.Log.With("run_id", r.RunID, "model", cfg.Model)
	r.Log.Infof("Starting smoke test of '%s' in model '%s'", cfg.SearchApp, cfg.Model)

	if err := r.phase(ctx, PhaseEnvironment, constants.ExitUsage, func(ctx context.Context) (string, error) {
		if err := ResolveEnvironment(ctx, cfg, r.Juju); err != nil {
			return "", err
		}
		return fmt.Sprintf("model %s found", cfg.Model), nil
	}); err != nil {
		return err
	}

	var session Session
	if err := r.phase(ctx, PhaseCredentials, constants.ExitUsage, func(ctx context.Context) (string, error) {
		var err error
		session, err = FetchSession(ctx, cfg, r.Juju, r.RunID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("identities %s, %s", session.Admin, session.Integrator), nil
	}); err != nil {
		return err
	}
	r.Log.Debugf("Search endpoint '%s', dashboards endpoint '%s'", session.SearchEndpoint, session.DashboardEndpoint)

	if err := r.phase(ctx, PhaseDashboards, constants.ExitDashboards, func(ctx context.Context) (string, error) {
		client := r.NewDashboardsClient(session.DashboardEndpoint, cfg.RequestTimeout)
		if err := CheckDashboards(ctx, session, client); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s and %s logged in", session.Admin.Username, session.Integrator.Username), nil
	}); err != nil {
		return err
	}

	search := r.NewSearchClient(session.SearchEndpoint, session.Admin, cfg.RequestTimeout)

	if err := r.phase(ctx, PhaseClusterHealth, constants.ExitClusterNotGreen, func(ctx context.Context) (string, error) {
		health, err := CheckClusterHealth(ctx, search)
		if err != nil {
			return "", err
		}
		return "status " + health.Status, nil
	}); err != nil {
		return err
	}

	if err := r.phase(ctx, PhaseTopology, constants.ExitWrongNodeCount, func(ctx context.Context) (string, error) {
		nodes, err := CheckTopology(ctx, search, cfg.ExpectedNodes, cfg.MinNodeVersion)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d nodes", len(nodes.Nodes)), nil
	}); err != nil {
		return err
	}

	return r.runIndexLifecycle(ctx, search, NewIndexFixture(cfg), session.RunID)
}

func (r *Runner) runIndexLifecycle(ctx context.Context, search SearchAPI, fixture IndexFixture, runID string) error {
	cfg := r.Config
	backoff := NewBackoff(cfg.PollInterval, cfg.PollAttempts)

	if err := r.phase(ctx, PhaseIndexCreate, constants.ExitIndexCreation, func(ctx context.Context) (string, error) {
		if err := CreateIndex(ctx, search, fixture); err != nil {
			return "", err
		}
		return fmt.Sprintf("index %s with %d shards and %d replicas", fixture.Name, fixture.Shards, fixture.Replicas), nil
	}); err != nil {
		return err
	}

	if err := r.phase(ctx, PhaseShardPlacement, constants.ExitIndexCreation, func(ctx context.Context) (string, error) {
		started, err := WaitForShards(ctx, search, fixture, backoff, r.Log)
		detail := fmt.Sprintf("%d of %d shards started", started, fixture.ExpectedStartedShards())
		if err != nil && !cfg.StrictShardCheck && ctx.Err() == nil {
			r.Log.Warnf("Shard placement not verified: %v", err)
			return detail + " (not enforced)", nil
		}
		return detail, err
	}); err != nil {
		return err
	}

	if err := r.phase(ctx, PhaseDocuments, constants.ExitIndexDocument, func(ctx context.Context) (string, error) {
		if err := IndexDocuments(ctx, search, fixture, runID); err != nil {
			return "", err
		}
		return fmt.Sprintf("%d documents written", fixture.Documents), nil
	}); err != nil {
		return err
	}

	if err := r.phase(ctx, PhaseDocumentCount, constants.ExitDocumentCount, func(ctx context.Context) (string, error) {
		count, err := WaitForCount(ctx, search, fixture, backoff)
		return fmt.Sprintf("%d documents counted", count), err
	}); err != nil {
		return err
	}

	return r.phase(ctx, PhaseIndexDelete, constants.ExitIndexDeletion, func(ctx context.Context) (string, error) {
		if err := DeleteIndex(ctx, search, fixture); err != nil {
			return "", err
		}
		return fmt.Sprintf("index %s deleted", fixture.Name), nil
	})
}

// phase runs fn, records its outcome and maps its error to code
func (r *Runner) phase(ctx context.Context, name string, code constants.ExitCode, fn func(ctx context.Context) (string, error)) error {
	log := r.Log.With("phase", name)
	log.Infof("Phase '%s' started", name)
	start := time.Now()
	detail, err := fn(ctx)
	result := PhaseResult{Phase: name, Duration: time.Since(start), Detail: detail}
	if err != nil {
		smokeErr := withCode(code, name, err)
		result.Code = smokeErr.Code
		result.Err = smokeErr
		r.results = append(r.results, result)
		log.Errorw("Phase failed", "exit_code", int(smokeErr.Code), "error", err.Error())
		return smokeErr
	}
	r.results = append(r.results, result)
	log.Infow("Phase passed", "detail", detail, "duration", result.Duration.String())
	return nil
}
