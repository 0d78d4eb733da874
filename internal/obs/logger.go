// Package obs provides the ambient observability surface shared by every
// component: a structured logger and a small set of Prometheus gauges and
// counters. It never starts an HTTP server or dials out — registration and
// updates only. Exposing /metrics, if a caller wants it, is the caller's
// concern, not the core's.
package obs

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger wraps a *logrus.Logger with a fixed set of structured fields,
// mirroring the field-chaining idiom used across the flight-control stack
// (WithField/WithFields returning a new logger-like handle).
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a Logger writing JSON-free text logs to stderr at Info
// level, matching the teacher's default console logger.
func NewLogger() *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	return &Logger{entry: logrus.NewEntry(l)}
}

// NewLoggerWithLevel creates a Logger at the given logrus level.
func NewLoggerWithLevel(level logrus.Level) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	return &Logger{entry: logrus.NewEntry(l)}
}

// WithField returns a derived Logger carrying an additional structured
// field.
func (lg *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: lg.entry.WithField(key, value)}
}

// WithFields returns a derived Logger carrying additional structured
// fields.
func (lg *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{entry: lg.entry.WithFields(fields)}
}

func (lg *Logger) Debug(args ...interface{}) { lg.entry.Debug(args...) }
func (lg *Logger) Info(args ...interface{})  { lg.entry.Info(args...) }
func (lg *Logger) Warn(args ...interface{})  { lg.entry.Warn(args...) }
func (lg *Logger) Error(args ...interface{}) { lg.entry.Error(args...) }

func (lg *Logger) Debugf(format string, args ...interface{}) { lg.entry.Debugf(format, args...) }
func (lg *Logger) Infof(format string, args ...interface{})  { lg.entry.Infof(format, args...) }
func (lg *Logger) Warnf(format string, args ...interface{})  { lg.entry.Warnf(format, args...) }
func (lg *Logger) Errorf(format string, args ...interface{}) { lg.entry.Errorf(format, args...) }

var (
	defaultOnce sync.Once
	defaultLog  *Logger
)

// Default returns a process-wide default logger, analogous to the
// teacher's package-level default logger instance but held as a
// lazily-initialized singleton rather than a mutable global so tests can
// still construct their own Logger values.
func Default() *Logger {
	defaultOnce.Do(func() { defaultLog = NewLogger() })
	return defaultLog
}
