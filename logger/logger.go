package logger

// Logger provides leveled logging for a single component.
// Every component gets its own instance so that log-lines
// can be attributed and filtered by prefix.
type Logger interface {
	Trace(s string)
	Tracef(s string, v ...interface{})

	Debug(s string)
	Debugf(s string, v ...interface{})

	Info(s string)
	Infof(s string, v ...interface{})

	Warn(s string)
	Warnf(s string, v ...interface{})

	Error(s string)
	Errorf(s string, v ...interface{})

	// Fatalf logs at error-level and exits the process.
	Fatalf(s string, v ...interface{})
}
