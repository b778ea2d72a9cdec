// Copyright (C) 2020, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package logs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	kzap "sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// InitLogs initializes logs with Time and Global Level of Logs set at Info.
// Log lines go to stderr, and additionally to logFile when it is not empty.
func InitLogs(opts kzap.Options, logFile string) (*zap.SugaredLogger, error) {
	config := newConfig(opts)
	if logFile != "" {
		config.OutputPaths = append(config.OutputPaths, logFile)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger.Sugar(), nil
}

func newConfig(opts kzap.Options) zap.Config {
	var config zap.Config
	if opts.Development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	if level, ok := opts.Level.(zap.AtomicLevel); ok {
		config.Level = level
	} else {
		config.Level.SetLevel(zapcore.InfoLevel)
	}
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.EncoderConfig.TimeKey = "@timestamp"
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stderr"}
	return config
}
