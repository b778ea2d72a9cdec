// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/verrazzano/opensearch-smoketest/pkg/juju"
)

// Juju answers orchestration queries from canned data, for unit testing
type Juju struct {
	mu sync.Mutex

	MissingTools []string
	Models       []string
	// Leaders maps application names to leader addresses
	Leaders map[string]string
	// Actions maps "<app>/<action>" to the YAML results of that action
	Actions map[string]string

	calls []string
}

// Calls returns one entry per query made, tool lookups excluded
func (f *Juju) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Juju) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *Juju) CheckTools(tools []string) error {
	var missing []string
	for _, tool := range tools {
		for _, m := range f.MissingTools {
			if tool == m {
				missing = append(missing, tool)
			}
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("required tools not found on PATH: %v", missing)
	}
	return nil
}

func (f *Juju) ModelExists(_ context.Context, model string) (bool, error) {
	f.record("models")
	for _, m := range f.Models {
		if m == model {
			return true, nil
		}
	}
	return false, nil
}

func (f *Juju) LeaderAddress(_ context.Context, model, app string) (string, error) {
	f.record("status " + app)
	address, ok := f.Leaders[app]
	if !ok {
		return "", errors.Errorf("application '%s' not found in model '%s'", app, model)
	}
	return address, nil
}

func (f *Juju) RunAction(_ context.Context, _, app, action string) (*juju.ActionResult, error) {
	f.record(fmt.Sprintf("run %s/leader %s", app, action))
	raw, ok := f.Actions[app+"/"+action]
	if !ok {
		return nil, errors.Errorf("action '%s' on '%s/leader' finished with status 'failed'", action, app)
	}
	result := &juju.ActionResult{Unit: app + "/0", Status: "completed"}
	if err := yaml.Unmarshal([]byte(raw), &result.Results); err != nil {
		return nil, errors.Wrap(err, "unable to parse juju output")
	}
	return result, nil
}
