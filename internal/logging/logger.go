// Package logging provides a logging abstraction layer so the pipeline stages
// do not depend on a concrete logging framework.
package logging

// Logger is the structured logger every stage receives through its
// constructor. There is no Fatal level: stages return errors and the CLI
// decides the exit code after the store is closed.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a derived logger carrying err.
	WithError(err error) Logger
	// WithField returns a derived logger carrying one extra field.
	WithField(key string, value interface{}) Logger
	// WithFields returns a derived logger carrying the given fields.
	WithFields(fields ...Field) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// ForStage scopes a logger to one pipeline stage of one reference year.
func ForStage(l Logger, stage string, year int) Logger {
	return l.WithFields(F(FieldStage, stage), F(FieldYear, year))
}
