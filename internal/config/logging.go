package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

// NewLogger creates a zap logger from the logging configuration. A non-empty
// levelOverride (the -log-level flag) takes precedence over the configured level.
func NewLogger(logging LoggingConfig, levelOverride string) (*zap.Logger, error) {
	name := logging.Level
	if levelOverride != "" {
		name = levelOverride
	}
	if name == "" {
		name = "info"
	}
	level, ok := logLevels[name]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", name)
	}

	var zc zap.Config
	switch logging.Format {
	case "", "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", logging.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if logging.OutputFile != "" {
		if err := ensureLogFile(logging.OutputFile); err != nil {
			return nil, err
		}
		zc.OutputPaths = []string{logging.OutputFile}
		zc.ErrorOutputPaths = []string{logging.OutputFile}
	}

	return zc.Build()
}

// ensureLogFile creates the log directory and checks the file is writable.
func ensureLogFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file.Close()
}
