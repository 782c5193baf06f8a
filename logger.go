package netbench

// NullLogger is a [Logger] that does not emit logs.
type NullLogger struct{}

// Debug implements Logger
func (nl *NullLogger) Debug(message string) {
	// nothing
}

// Debugf implements Logger
func (nl *NullLogger) Debugf(format string, v ...any) {
	// nothing
}

// Info implements Logger
func (nl *NullLogger) Info(message string) {
	// nothing
}

// Infof implements Logger
func (nl *NullLogger) Infof(format string, v ...any) {
	// nothing
}

// Warn implements Logger
func (nl *NullLogger) Warn(message string) {
	// nothing
}

// Warnf implements Logger
func (nl *NullLogger) Warnf(format string, v ...any) {
	// nothing
}

// Error implements Logger
func (nl *NullLogger) Error(message string) {
	// nothing
}

// Errorf implements Logger
func (nl *NullLogger) Errorf(format string, v ...any) {
	// nothing
}

var _ Logger = &NullLogger{}
