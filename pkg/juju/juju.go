// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package juju

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const actionCompleted = "completed"

// CheckTools verifies that every tool is present on PATH
func (j *CLI) CheckTools(tools []string) error {
	var missing []string
	for _, tool := range tools {
		path, err := j.LookPath(tool)
		if err != nil {
			missing = append(missing, tool)
			continue
		}
		j.Log.Debugf("Found '%s' at '%s'", tool, path)
	}
	if len(missing) > 0 {
		return errors.Errorf("required tools not found on PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ModelExists reports whether the controller knows the model, by short or qualified name
func (j *CLI) ModelExists(ctx context.Context, model string) (bool, error) {
	var models ModelList
	if err := j.query(ctx, &models, "models", "--format", "yaml"); err != nil {
		return false, errors.Wrap(err, "failed to list models")
	}
	for _, m := range models.Models {
		if m.ShortName == model || m.Name == model {
			return true, nil
		}
	}
	return false, nil
}

// LeaderAddress returns the public address of the leader unit of an application
func (j *CLI) LeaderAddress(ctx context.Context, model, app string) (string, error) {
	var status Status
	if err := j.query(ctx, &status, "status", "--model", model, "--format", "yaml", app); err != nil {
		return "", errors.Wrapf(err, "failed to get status of application '%s'", app)
	}
	application, ok := status.Applications[app]
	if !ok {
		return "", errors.Errorf("application '%s' not found in model '%s'", app, model)
	}
	for name, unit := range application.Units {
		if !unit.Leader {
			continue
		}
		address := unit.PublicAddress
		if address == "" {
			address = unit.Address
		}
		if address == "" {
			return "", errors.Errorf("leader unit '%s' has no address", name)
		}
		j.Log.Debugf("Leader of '%s' is '%s' at '%s'", app, name, address)
		return address, nil
	}
	return "", errors.Errorf("application '%s' has no leader unit", app)
}

// RunAction runs an action on the leader unit of an application and waits for its result
func (j *CLI) RunAction(ctx context.Context, model, app, action string) (*ActionResult, error) {
	target := fmt.Sprintf("%s/leader", app)
	var results map[string]*ActionResult
	if err := j.query(ctx, &results, "run", "--model", model, target, action, "--format", "yaml"); err != nil {
		return nil, errors.Wrapf(err, "failed to run action '%s' on '%s'", action, target)
	}
	if len(results) != 1 {
		return nil, errors.Errorf("expected the result of one unit for action '%s', got %d", action, len(results))
	}
	units := make([]string, 0, len(results))
	for unit := range results {
		units = append(units, unit)
	}
	sort.Strings(units)
	result := results[units[0]]
	if result == nil {
		return nil, errors.Errorf("action '%s' on '%s' returned an empty result", action, units[0])
	}
	result.Unit = units[0]
	if result.Status != actionCompleted {
		return nil, errors.Errorf("action '%s' on '%s' finished with status '%s': %s", action, result.Unit, result.Status, result.Message)
	}
	return result, nil
}

// Decode decodes the result stored under key into out
func (r *ActionResult) Decode(key string, out interface{}) error {
	node, ok := r.Results[key]
	if !ok {
		return errors.Errorf("result '%s' missing from action output of '%s'", key, r.Unit)
	}
	if err := node.Decode(out); err != nil {
		return errors.Wrapf(err, "malformed result '%s' from '%s'", key, r.Unit)
	}
	return nil
}

// Has reports whether the action output contains a result under key
func (r *ActionResult) Has(key string) bool {
	_, ok := r.Results[key]
	return ok
}

func (j *CLI) query(ctx context.Context, out interface{}, args ...string) error {
	j.Log.Debugf("Invoking '%s %s'", j.Binary, strings.Join(args, " "))
	stdout, err := j.Run(ctx, j.Binary, args...)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(stdout, out); err != nil {
		return errors.Wrap(err, "unable to parse juju output")
	}
	return nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec //#nosec G204
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "'%s %s' failed: %s", name, strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
