package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DataDir is the Pebble database directory. Empty means the OS default
	// from DefaultDataDir.
	DataDir string `json:"dataDir" yaml:"dataDir"`
	// Fsync is the WAL sync policy: always, interval or never.
	Fsync string `json:"fsync" yaml:"fsync"`
	// FsyncIntervalMs is the group-commit window when Fsync is "interval".
	FsyncIntervalMs int `json:"fsyncIntervalMs" yaml:"fsyncIntervalMs"`

	// LogLevel is one of debug, info, warn, error, fatal.
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	// LogFormat is text or json.
	LogFormat string `json:"logFormat" yaml:"logFormat"`

	// LogItemMetadata controls whether recorded events carry per-item
	// metadata by default.
	LogItemMetadata bool `json:"logItemMetadata" yaml:"logItemMetadata"`

	// RetainMaxAgeMs trims entries older than this on retention passes.
	// Zero disables age-based trimming.
	RetainMaxAgeMs int64 `json:"retainMaxAgeMs" yaml:"retainMaxAgeMs"`
	// RetainMaxBytes trims the oldest entries once a run's log exceeds
	// this size. Zero disables size-based trimming.
	RetainMaxBytes int64 `json:"retainMaxBytes" yaml:"retainMaxBytes"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Fsync:           "always",
		FsyncIntervalMs: 5,
		LogLevel:        "info",
		LogFormat:       "text",
		LogItemMetadata: true,
	}
}

// Load reads configuration from a JSON or YAML file (by extension).
// If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
