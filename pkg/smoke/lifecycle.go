// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package smoke

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/verrazzano/opensearch-smoketest/pkg/config"
	"github.com/verrazzano/opensearch-smoketest/pkg/opensearch"
)

// IndexFixture is the test-only index a run creates, fills, verifies and deletes
type IndexFixture struct {
	Name      string
	Shards    int
	Replicas  int
	Documents int
}

// NewIndexFixture returns the fixture described by the configuration
func NewIndexFixture(cfg *config.SmokeConfig) IndexFixture {
	return IndexFixture{
		Name:      cfg.Index,
		Shards:    cfg.Shards,
		Replicas:  cfg.Replicas,
		Documents: cfg.Documents,
	}
}

// ExpectedStartedShards is the number of shard copies of a fully allocated fixture
func (f IndexFixture) ExpectedStartedShards() int {
	return f.Shards * (1 + f.Replicas)
}

// CreateIndex creates the fixture index and requires the creation to be acknowledged
func CreateIndex(ctx context.Context, client SearchAPI, fixture IndexFixture) error {
	ack, err := client.CreateIndex(ctx, fixture.Name, opensearch.IndexSettings{
		NumberOfShards:   fixture.Shards,
		NumberOfReplicas: fixture.Replicas,
	})
	if err != nil {
		return err
	}
	if !ack.Acknowledged {
		return errors.Errorf("creation of index '%s' was not acknowledged", fixture.Name)
	}
	return nil
}

// WaitForShards polls the shard catalog until every copy of the fixture is STARTED
func WaitForShards(ctx context.Context, client SearchAPI, fixture IndexFixture, backoff wait.Backoff, log *zap.SugaredLogger) (int, error) {
	expected := fixture.ExpectedStartedShards()
	started := 0
	err := Retry(ctx, backoff, func(ctx context.Context) (bool, error) {
		shards, err := client.GetShards(ctx, fixture.Name)
		if err != nil {
			return false, err
		}
		started = opensearch.StartedShards(shards)
		log.Debugf("Index '%s' has %d of %d shards started", fixture.Name, started, expected)
		return started == expected, nil
	})
	if errors.Is(err, ErrPollExhausted) {
		return started, errors.Wrapf(err, "index '%s' has %d of %d shards started", fixture.Name, started, expected)
	}
	return started, err
}

// IndexDocuments writes documents 1..N and requires every write to reach all shard copies
func IndexDocuments(ctx context.Context, client SearchAPI, fixture IndexFixture, runID string) error {
	copies := 1 + fixture.Replicas
	for id := 1; id <= fixture.Documents; id++ {
		doc := map[string]interface{}{
			"id":         id,
			"run_id":     runID,
			"message":    "smoke test document",
			"@timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		resp, err := client.IndexDocument(ctx, fixture.Name, id, doc)
		if err != nil {
			return err
		}
		if resp.Shards.Total != copies {
			return errors.Errorf("document %d was written to %d shard copies, expected %d", id, resp.Shards.Total, copies)
		}
	}
	return nil
}

// WaitForCount polls the document count until it equals the number of documents written
func WaitForCount(ctx context.Context, client SearchAPI, fixture IndexFixture, backoff wait.Backoff) (int, error) {
	count := 0
	err := Retry(ctx, backoff, func(ctx context.Context) (bool, error) {
		resp, err := client.Count(ctx, fixture.Name)
		if err != nil {
			return false, err
		}
		count = resp.Count
		return count == fixture.Documents, nil
	})
	if errors.Is(err, ErrPollExhausted) {
		return count, errors.Wrapf(err, "index '%s' holds %d documents, expected %d", fixture.Name, count, fixture.Documents)
	}
	return count, err
}

// DeleteIndex deletes the fixture and verifies it is gone
func DeleteIndex(ctx context.Context, client SearchAPI, fixture IndexFixture) error {
	ack, err := client.DeleteIndex(ctx, fixture.Name)
	if err != nil {
		return err
	}
	if !ack.Acknowledged {
		return errors.Errorf("deletion of index '%s' was not acknowledged", fixture.Name)
	}
	exists, err := client.IndexExists(ctx, fixture.Name)
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("index '%s' still exists after deletion", fixture.Name)
	}
	return nil
}
