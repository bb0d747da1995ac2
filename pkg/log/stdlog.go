package log

import (
	stdlog "log"
	"strings"
)

// loggerWriter adapts a Logger to io.Writer for stdlib log interop.
type loggerWriter struct {
	logger Logger
	level  Level
}

func (w *loggerWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	switch w.level {
	case DebugLevel:
		w.logger.Debug(msg)
	case WarnLevel:
		w.logger.Warn(msg)
	case ErrorLevel:
		w.logger.Error(msg)
	default:
		w.logger.Info(msg)
	}
	return len(p), nil
}

// ToStdLogger returns a *log.Logger that forwards to logger at the given
// level. Pebble and other libraries expecting the stdlib logger plug in here.
func ToStdLogger(logger Logger, level Level) *stdlog.Logger {
	return stdlog.New(&loggerWriter{logger: logger, level: level}, "", 0)
}

// RedirectStdLog points the stdlib default logger at logger.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(&loggerWriter{logger: logger, level: InfoLevel})
}
