package config

import (
	"fmt"
	"runtime"
)

// Config represents the application configuration
type Config struct {
	Performance PerformanceConfig `yaml:"performance"`
	Scan        ScanConfig        `yaml:"scan"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// PerformanceConfig holds parallelism and buffering settings
type PerformanceConfig struct {
	// HashWorkers is the size of the content-hashing worker pool
	HashWorkers int `yaml:"hash_workers"`
	// CopyWorkers bounds the parallel copy/delete tasks
	CopyWorkers int `yaml:"copy_workers"`
	// BufferSize is the chunk size used when hashing and copying
	BufferSize int `yaml:"buffer_size"`
}

// ScanConfig holds traversal settings
type ScanConfig struct {
	// Exclude is a comma-separated list of regular-expression fragments;
	// a path containing any fragment is ignored
	Exclude string `yaml:"exclude"`
	// CacheFile is the default sync cache location
	CacheFile string `yaml:"cache_file"`
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format"` // "text" or "json"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file"`   // log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Performance: PerformanceConfig{
			HashWorkers: runtime.NumCPU(),
			CopyWorkers: 5,
			BufferSize:  65536,
		},
		Scan: ScanConfig{
			Exclude:   "",
			CacheFile: "sync_cache.json",
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
			File:   "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Performance.HashWorkers < 1 {
		return fmt.Errorf("performance.hash_workers: must be at least 1")
	}
	if c.Performance.CopyWorkers < 1 {
		return fmt.Errorf("performance.copy_workers: must be at least 1")
	}
	if c.Performance.BufferSize < 1024 {
		return fmt.Errorf("performance.buffer_size: must be at least 1024 bytes")
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format: must be 'text' or 'json'")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level: must be 'debug', 'info', 'warn', or 'error'")
	}

	return nil
}
