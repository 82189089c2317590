// Package logging decouples the import pipeline from the logging backend.
// Components receive a Logger through their constructors; the production
// implementation is backed by logrus and tests use MockLogger.
package logging

// Logger is the structured logger used throughout the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a derived logger carrying err.
	WithError(err error) Logger
	// WithField returns a derived logger carrying a single field.
	WithField(key string, value interface{}) Logger
	// WithFields returns a derived logger carrying all given fields.
	WithFields(fields ...Field) Logger

	// Fatalf logs and terminates the process. Only the CLI layer calls it.
	Fatalf(msg string, args ...interface{})
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field inline.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
