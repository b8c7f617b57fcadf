// Package config defines service configuration and its loading.
//
// Values are layered: defaults from New, then an optional YAML file named
// by MODTIER_CONFIG, then MODTIER_* environment variables.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the YAML modifier catalog loaded at startup.
	CatalogPath string `koanf:"catalog_path"`

	// QueueSize bounds the asynchronous inspection queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of inspection workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the set of remembered inspection IDs.
	DedupeSize int `koanf:"dedupe_size"`

	// ReportStoreSize bounds the number of kept inspection reports.
	ReportStoreSize int `koanf:"report_store_size"`

	// EligibilityMode is any_positive or first_match.
	EligibilityMode string `koanf:"eligibility_mode"`

	// Markers are modifier key fragments highlighted in item summaries.
	Markers []string `koanf:"markers"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		CatalogPath:     "catalog.yaml",
		QueueSize:       10_000,
		WorkerCount:     runtime.NumCPU(),
		DedupeSize:      100_000,
		ReportStoreSize: 50_000,
		EligibilityMode: "any_positive",
		Markers:         []string{"ChaosResist"},
	}
}
