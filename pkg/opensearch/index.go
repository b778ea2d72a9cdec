// Copyright (C) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package opensearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
)

func indexPath(index string) string {
	return fmt.Sprintf(constants.IndexPath, url.PathEscape(index))
}

// CreateIndex creates an index with explicit shard and replica counts
func (o *OSClient) CreateIndex(ctx context.Context, index string, settings IndexSettings) (*Acknowledgement, error) {
	var ack Acknowledgement
	body := IndexDefinition{Settings: settings}
	if err := o.do(ctx, http.MethodPut, indexPath(index), body, &ack, nil); err != nil {
		return nil, errors.Wrapf(err, "failed to create index '%s'", index)
	}
	return &ack, nil
}

// DeleteIndex deletes an index
func (o *OSClient) DeleteIndex(ctx context.Context, index string) (*Acknowledgement, error) {
	var ack Acknowledgement
	if err := o.do(ctx, http.MethodDelete, indexPath(index), nil, &ack, nil); err != nil {
		return nil, errors.Wrapf(err, "failed to delete index '%s'", index)
	}
	return &ack, nil
}

// IndexExists reports whether an index exists
func (o *OSClient) IndexExists(ctx context.Context, index string) (bool, error) {
	err := o.do(ctx, http.MethodHead, indexPath(index), nil, nil, nil)
	switch {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, errors.Wrapf(err, "failed to check index '%s'", index)
	}
}

// GetShards lists the shards of an index
func (o *OSClient) GetShards(ctx context.Context, index string) ([]ShardInfo, error) {
	var shards []ShardInfo
	path := fmt.Sprintf(constants.CatShardsPath, url.PathEscape(index))
	if err := o.do(ctx, http.MethodGet, path, nil, &shards, map[string]string{"format": "json"}); err != nil {
		return nil, errors.Wrapf(err, "failed to list shards of index '%s'", index)
	}
	return shards, nil
}

// IndexDocument writes one document with an explicit id
func (o *OSClient) IndexDocument(ctx context.Context, index string, id int, doc interface{}) (*DocumentResponse, error) {
	var resp DocumentResponse
	path := fmt.Sprintf(constants.DocumentPath, url.PathEscape(index), id)
	if err := o.do(ctx, http.MethodPut, path, doc, &resp, nil); err != nil {
		return nil, errors.Wrapf(err, "failed to index document %d", id)
	}
	return &resp, nil
}

// Count returns the number of searchable documents of an index
func (o *OSClient) Count(ctx context.Context, index string) (*CountResponse, error) {
	var count CountResponse
	path := fmt.Sprintf(constants.CountPath, url.PathEscape(index))
	if err := o.do(ctx, http.MethodGet, path, nil, &count, nil); err != nil {
		return nil, errors.Wrapf(err, "failed to count documents of index '%s'", index)
	}
	return &count, nil
}

// StartedShards counts the shards in STARTED state
func StartedShards(shards []ShardInfo) int {
	started := 0
	for _, shard := range shards {
		if shard.State == constants.ShardStarted {
			started++
		}
	}
	return started
}
