// Package log provides the structured logging facade used across the module.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Internally it is backed by Go's
// standard library slog via a custom handler that routes records through the
// formatter/outputs pipeline, so output stays consistent everywhere while the
// slog ecosystem remains reachable.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("eventlog"), log.Str("run", runID))
//	l.Info("run opened", log.Int("events", n))
//
// # Interop
//
// To integrate with libraries expecting *log.Logger (Pebble's default logger
// among them), use ToStdLogger or RedirectStdLog.
package log
