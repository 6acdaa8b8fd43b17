package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when neither the prefix-specific
// nor the global log-level env-var is set.
const DefaultLevel = logrus.InfoLevel

// LogrusLogger is Logger backed by logrus.
// Supported log-levels are:
// - trace
// - debug
// - info
// - warn
// - error
// A "prefix" is attached to every line as "module" field.
// Use #NewLogger to create new instance.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogger creates new instance of LogrusLogger writing to stderr.
// Logging-level can be configured using `LOG_LEVEL`
// env-var. Default level is `info`.
// Logging-level for an individual prefix can be
// specified by setting env-var `<PREFIX>_LOG_LEVEL`,
// where non-alphanumeric chars in prefix become "_".
// For example: "ledger/Ledger" reads `LEDGER_LEDGER_LOG_LEVEL`.
func NewLogger(prefix string) *LogrusLogger {
	return NewLoggerWithOutput(prefix, os.Stderr)
}

// NewLoggerWithOutput is same as #NewLogger
// but writes to provided writer.
func NewLoggerWithOutput(prefix string, out io.Writer) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(levelFor(prefix))

	return &LogrusLogger{
		entry: l.WithField("module", prefix),
	}
}

// EnvVarFor returns the env-var which controls
// log-level for provided prefix.
func EnvVarFor(prefix string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, prefix)
	return mapped + "_LOG_LEVEL"
}

func levelFor(prefix string) logrus.Level {
	levelStr := os.Getenv(EnvVarFor(prefix))
	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return DefaultLevel
	}
	return level
}

// Trace logs trace-level logs.
func (l *LogrusLogger) Trace(s string) {
	l.entry.Trace(s)
}

// Tracef logs trace-level logs after formatting according to a format specifier.
func (l *LogrusLogger) Tracef(s string, v ...interface{}) {
	l.entry.Tracef(s, v...)
}

// Debug logs debug-level logs.
func (l *LogrusLogger) Debug(s string) {
	l.entry.Debug(s)
}

// Debugf logs debug-level logs after formatting according to a format specifier.
func (l *LogrusLogger) Debugf(s string, v ...interface{}) {
	l.entry.Debugf(s, v...)
}

// Info logs info-level logs.
func (l *LogrusLogger) Info(s string) {
	l.entry.Info(s)
}

// Infof logs info-level logs after formatting according to a format specifier.
func (l *LogrusLogger) Infof(s string, v ...interface{}) {
	l.entry.Infof(s, v...)
}

// Warn logs warn-level logs.
func (l *LogrusLogger) Warn(s string) {
	l.entry.Warn(s)
}

// Warnf logs warn-level logs after formatting according to a format specifier.
func (l *LogrusLogger) Warnf(s string, v ...interface{}) {
	l.entry.Warnf(s, v...)
}

// Error logs error-level logs.
func (l *LogrusLogger) Error(s string) {
	l.entry.Error(s)
}

// Errorf logs error-level logs after formatting according to a format specifier.
func (l *LogrusLogger) Errorf(s string, v ...interface{}) {
	l.entry.Errorf(s, v...)
}

// Fatalf logs error-level logs and exits with status 1.
func (l *LogrusLogger) Fatalf(s string, v ...interface{}) {
	l.entry.Fatalf(s, v...)
}
