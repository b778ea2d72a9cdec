// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package juju

import (
	"context"
	"os/exec"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Juju interface implements all the orchestration queries utilized in the application
type Juju interface {
	CheckTools(tools []string) error
	ModelExists(ctx context.Context, model string) (bool, error)
	LeaderAddress(ctx context.Context, model, app string) (string, error)
	RunAction(ctx context.Context, model, app, action string) (*ActionResult, error)
}

// CommandRunner runs an external command and returns its standard output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// LookPathFunc resolves an executable name on PATH
type LookPathFunc func(file string) (string, error)

type CLI struct {
	Binary   string
	Run      CommandRunner
	LookPath LookPathFunc
	Log      *zap.SugaredLogger
}

// New returns a CLI that shells out to the given juju binary
func New(binary string, log *zap.SugaredLogger) *CLI {
	return &CLI{
		Binary:   binary,
		Run:      execRunner,
		LookPath: exec.LookPath,
		Log:      log,
	}
}

type (
	// ModelList is the output of juju models
	ModelList struct {
		Models []Model `yaml:"models"`
	}

	Model struct {
		Name      string `yaml:"name"`
		ShortName string `yaml:"short-name"`
	}

	// Status is the subset of juju status used to locate leader units
	Status struct {
		Applications map[string]Application `yaml:"applications"`
	}

	Application struct {
		Units map[string]Unit `yaml:"units"`
	}

	Unit struct {
		Leader        bool   `yaml:"leader"`
		PublicAddress string `yaml:"public-address"`
		Address       string `yaml:"address"`
	}

	// ActionResult is the outcome of an action run on one unit
	ActionResult struct {
		Unit    string               `yaml:"-"`
		Status  string               `yaml:"status"`
		Message string               `yaml:"message"`
		Results map[string]yaml.Node `yaml:"results"`
	}
)
