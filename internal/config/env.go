package config

import (
	"os"
	"strconv"
)

// FromEnv overlays PARAMLOG_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("PARAMLOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PARAMLOG_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("PARAMLOG_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FsyncIntervalMs = n
		}
	}
	if v := os.Getenv("PARAMLOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PARAMLOG_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("PARAMLOG_LOG_ITEM_METADATA"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogItemMetadata = b
		}
	}
	if v := os.Getenv("PARAMLOG_RETAIN_MAX_AGE_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.RetainMaxAgeMs = n
		}
	}
	if v := os.Getenv("PARAMLOG_RETAIN_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.RetainMaxBytes = n
		}
	}
}
