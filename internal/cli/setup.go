package cli

import (
	"fmt"
	"os"

	"github.com/sbarthel/dupsync/pkg/config"
	"github.com/sbarthel/dupsync/pkg/hash"
	"github.com/sbarthel/dupsync/pkg/ignore"
	"github.com/sbarthel/dupsync/pkg/logging"
	"github.com/sbarthel/dupsync/pkg/scan"
)

// loadConfig loads the explicit --config file or falls back to the default
// location (missing default file means built-in defaults).
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// createLogger builds the run's logger from logging flags and config.
// Without a log file, entries go to stderr; quiet mode raises the console
// threshold to warnings so soft skips stay visible.
func createLogger(cfg *config.Config, logFile, logFormat, logLevel string) (logging.Logger, error) {
	if logFile == "" {
		logFile = cfg.Logging.File
	}
	if logFormat == "" {
		logFormat = cfg.Logging.Format
	}
	if logLevel == "" {
		logLevel = cfg.Logging.Level
	}

	format := logging.FormatText
	if logFormat == "json" {
		format = logging.FormatJSON
	}
	level := logging.ParseLevel(logLevel)

	if logFile != "" {
		return logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       logFile,
			Format:     format,
			Level:      level,
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 5,
		})
	}

	if globalFlags.Quiet && level < logging.WarnLevel {
		level = logging.WarnLevel
	}
	return logging.NewWriterLogger(os.Stderr, format, level), nil
}

// buildScanner assembles the shared scan stack: ignore filter, hasher pool
// and tree scanner.
func buildScanner(cfg *config.Config, excludeSpec string, workers int, logger logging.Logger) (*scan.Scanner, *hash.Pool, error) {
	if excludeSpec == "" {
		excludeSpec = cfg.Scan.Exclude
	}
	filter, err := ignore.Compile(excludeSpec)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile ignore patterns: %w", err)
	}

	if workers < 1 {
		workers = cfg.Performance.HashWorkers
	}
	pool := hash.NewPool(hash.NewHasher(cfg.Performance.BufferSize), workers)

	return scan.New(pool, filter, logger), pool, nil
}
