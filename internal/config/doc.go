// Package config provides loading and environment overlay for paramlog
// configuration. It exposes a Default() baseline, JSON/YAML file loading,
// and a PARAMLOG_* environment overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/paramlog.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
package config
