package main

import (
	"fmt"
	"os"
	"path/filepath"

	"uf/internal/config"
	"uf/internal/logging"
	"uf/internal/metrics"
)

// loadConfig reads .understand-first.yml from the working directory,
// falling back to defaults when absent.
func loadConfig() *config.Config {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// newLogger builds the logger for a command run. CLI flags win over the
// config file.
func newLogger(cfg *config.Config) *logging.Logger {
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}

	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.ParseLevel(level),
	})
}

// openMetrics returns the opt-in metrics recorder, or nil when metrics
// are disabled or unavailable. Callers hand the recorder down
// explicitly; a nil recorder drops everything.
func openMetrics(cfg *config.Config, logger *logging.Logger) *metrics.Recorder {
	if !cfg.Metrics.Enabled {
		return nil
	}
	rec, err := metrics.Open(cfg.Metrics.DBPath, logger)
	if err != nil {
		logger.Warn("metrics store unavailable", map[string]interface{}{
			"path": cfg.Metrics.DBPath, "error": err.Error(),
		})
		return nil
	}
	return rec
}

// writeFileMakingDirs writes data to path, creating parent directories.
func writeFileMakingDirs(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
