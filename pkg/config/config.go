// Copyright (C) 2020, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
)

// NewConfig builds a SmokeConfig from defaults, an optional YAML config file, SMOKETEST_* environment
// variables and the given overrides, in increasing order of precedence. Overrides are keyed by the Key* constants.
func NewConfig(configFile string, overrides map[string]interface{}) (*SmokeConfig, error) {
	v := viper.New()
	setConfigDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	for key, value := range overrides {
		v.Set(key, value)
	}

	config := &SmokeConfig{
		Model:            v.GetString(KeyModel),
		SearchApp:        v.GetString(KeySearchApp),
		DashboardApp:     v.GetString(KeyDashboardApp),
		DashboardURL:     v.GetString(KeyDashboardURL),
		IntegratorApp:    v.GetString(KeyIntegratorApp),
		Index:            v.GetString(KeyIndex),
		Shards:           v.GetInt(KeyShards),
		Replicas:         v.GetInt(KeyReplicas),
		Documents:        v.GetInt(KeyDocuments),
		ExpectedNodes:    v.GetInt(KeyExpectedNodes),
		StrictShardCheck: v.GetBool(KeyStrictShardCheck),
		MinNodeVersion:   v.GetString(KeyMinNodeVersion),
		PollInterval:     v.GetDuration(KeyPollInterval),
		PollAttempts:     v.GetInt(KeyPollAttempts),
		RequestTimeout:   v.GetDuration(KeyRequestTimeout),
		RequiredTools:    v.GetStringSlice(KeyRequiredTools),
		MetricsFile:      v.GetString(KeyMetricsFile),
		LogFile:          v.GetString(KeyLogFile),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Sets defaults for every known key.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault(KeyModel, "")
	v.SetDefault(KeySearchApp, constants.DefaultSearchApp)
	v.SetDefault(KeyDashboardApp, constants.DefaultDashboardApp)
	v.SetDefault(KeyDashboardURL, "")
	v.SetDefault(KeyIntegratorApp, constants.DefaultIntegratorApp)
	v.SetDefault(KeyIndex, constants.DefaultIndexName)
	v.SetDefault(KeyShards, constants.DefaultShards)
	v.SetDefault(KeyReplicas, constants.DefaultReplicas)
	v.SetDefault(KeyDocuments, constants.DefaultDocuments)
	v.SetDefault(KeyExpectedNodes, constants.DefaultExpectedNodes)
	v.SetDefault(KeyStrictShardCheck, true)
	v.SetDefault(KeyMinNodeVersion, "")
	v.SetDefault(KeyPollInterval, defaultPollInterval)
	v.SetDefault(KeyPollAttempts, defaultPollAttempts)
	v.SetDefault(KeyRequestTimeout, defaultRequestTimeout)
	v.SetDefault(KeyRequiredTools, []string{constants.JujuBinary})
	v.SetDefault(KeyMetricsFile, "")
	v.SetDefault(KeyLogFile, "")
}

// Validate returns an error describing the first invalid setting
func (c *SmokeConfig) Validate() error {
	switch {
	case c.Model == "":
		return errors.New("a model name is required (-m)")
	case c.SearchApp == "":
		return errors.New("search application name must not be empty")
	case c.IntegratorApp == "":
		return errors.New("integrator application name must not be empty")
	case c.DashboardURL == "" && c.DashboardApp == "":
		return errors.New("either a dashboard application or a dashboard URL is required")
	case c.Index == "":
		return errors.New("index name must not be empty")
	case c.Shards < 1:
		return errors.Errorf("shards must be at least 1, got %d", c.Shards)
	case c.Replicas < 0:
		return errors.Errorf("replicas must not be negative, got %d", c.Replicas)
	case c.Documents < 1:
		return errors.Errorf("documents must be at least 1, got %d", c.Documents)
	case c.ExpectedNodes < 1:
		return errors.Errorf("expected nodes must be at least 1, got %d", c.ExpectedNodes)
	case c.PollInterval <= 0:
		return errors.Errorf("poll interval must be positive, got %s", c.PollInterval)
	case c.PollAttempts < 1:
		return errors.Errorf("poll attempts must be at least 1, got %d", c.PollAttempts)
	case c.RequestTimeout <= 0:
		return errors.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
