// Package logging wraps zerolog behind a small key/value Logger used across
// the service. Fields are passed as alternating key, value pairs.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with convenience methods.
type Logger struct {
	zl     zerolog.Logger
	fields map[string]interface{}
}

// Global logger instance, replaced at startup via SetGlobal.
var global *Logger

func init() {
	global = NewDevelopment()
}

// NewProduction creates a production logger with JSON output.
func NewProduction() *Logger {
	zl := zerolog.New(os.Stdout).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()

	return &Logger{zl: zl, fields: make(map[string]interface{})}
}

// NewDevelopment creates a development logger with pretty console output.
func NewDevelopment() *Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	zl := zerolog.New(output).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()

	return &Logger{zl: zl, fields: make(map[string]interface{})}
}

// NewWithWriter creates a logger with a custom writer.
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	zl := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{zl: zl, fields: make(map[string]interface{})}
}

// SetGlobal sets the global logger instance.
func SetGlobal(logger *Logger) {
	global = logger
}

// Global returns the global logger instance.
func Global() *Logger {
	return global
}

// emit applies stored and variadic fields to an event and sends it.
func (l *Logger) emit(e *zerolog.Event, msg string, fields []interface{}) {
	for k, v := range l.fields {
		e.Interface(k, v)
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if err, isErr := fields[i+1].(error); isErr && key == "error" {
			e.Str(key, err.Error())
			continue
		}
		e.Interface(key, fields[i+1])
	}
	e.Msg(msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...interface{}) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...interface{}) {
	l.emit(l.zl.Error(), msg, fields)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(msg string, fields ...interface{}) {
	l.emit(l.zl.Fatal(), msg, fields)
}

// With creates a child logger with additional fields.
func (l *Logger) With(fields ...interface{}) *Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields)/2)
	for k, v := range l.fields {
		newFields[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			newFields[key] = fields[i+1]
		}
	}

	return &Logger{zl: l.zl, fields: newFields}
}

// Global convenience functions.

// Debug logs a debug message using the global logger.
func Debug(msg string, fields ...interface{}) {
	global.Debug(msg, fields...)
}

// Info logs an info message using the global logger.
func Info(msg string, fields ...interface{}) {
	global.Info(msg, fields...)
}

// Warn logs a warning message using the global logger.
func Warn(msg string, fields ...interface{}) {
	global.Warn(msg, fields...)
}

// Error logs an error message using the global logger.
func Error(msg string, fields ...interface{}) {
	global.Error(msg, fields...)
}

// Fatal logs a fatal message and exits using the global logger.
func Fatal(msg string, fields ...interface{}) {
	global.Fatal(msg, fields...)
}
