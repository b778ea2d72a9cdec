// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
	"github.com/verrazzano/opensearch-smoketest/pkg/smoke"
)

// TestRenderPassed tests the report of a successful run
// GIVEN two passed phases
// WHEN Render is called
// THEN every phase, its detail and the passed verdict are shown
func TestRenderPassed(t *testing.T) {
	results := []smoke.PhaseResult{
		{Phase: smoke.PhaseClusterHealth, Duration: 12 * time.Millisecond, Detail: "status green"},
		{Phase: smoke.PhaseTopology, Duration: 8 * time.Millisecond, Detail: "3 nodes"},
	}
	out := Render("run-1", results, constants.ExitOK)
	assert.Contains(t, out, "run run-1")
	assert.Contains(t, out, "cluster-health")
	assert.Contains(t, out, "status green")
	assert.Contains(t, out, "3 nodes")
	assert.Contains(t, out, "12ms")
	assert.Equal(t, 2, strings.Count(out, "PASS"))
	assert.Contains(t, out, "smoke test passed")
}

// TestRenderFailed tests the report of a failed run
// GIVEN a failed phase with a long error
// WHEN Print is called
// THEN the exit code and a truncated error are shown
func TestRenderFailed(t *testing.T) {
	results := []smoke.PhaseResult{
		{Phase: smoke.PhaseDocumentCount, Code: constants.ExitDocumentCount, Err: errors.New("holds 99 documents " + strings.Repeat("x", 200))},
	}
	var buf bytes.Buffer
	assert.NoError(t, Print(&buf, "run-2", results, constants.ExitDocumentCount))
	out := buf.String()
	assert.Contains(t, out, "FAIL (9)")
	assert.Contains(t, out, "holds 99 documents")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, strings.Repeat("x", 200))
	assert.Contains(t, out, "smoke test failed with exit code 9")
}
