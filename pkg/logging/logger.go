// Package logging provides the leveled log gate used by the slicing pipeline.
//
// The pipeline never writes to a global logger. It receives a Sink and wraps
// it in a Gate built from the per-call level, so a call with level None emits
// nothing at all.
package logging

import (
	"fmt"
	"strings"
	"time"
)

// Level is a numeric log level. Higher levels are more verbose.
type Level int

const (
	None Level = iota
	Error
	Warn
	Info
	Debug
	Verbose
)

var levelNames = [...]string{"NONE", "ERROR", "WARN", "INFO", "DEBUG", "VERBOSE"}

func (l Level) String() string {
	if l < None || l > Verbose {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel converts a level name (case-insensitive) to a Level.
// "WARNING" and "TRACE" are accepted as aliases of WARN and VERBOSE.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE", "OFF":
		return None, nil
	case "ERROR":
		return Error, nil
	case "WARN", "WARNING":
		return Warn, nil
	case "INFO":
		return Info, nil
	case "DEBUG":
		return Debug, nil
	case "VERBOSE", "TRACE":
		return Verbose, nil
	}
	return None, fmt.Errorf("unknown log level %q", s)
}

// Sink receives log events that passed the gate.
// Implementations can wrap zerolog or any other logging library.
type Sink interface {
	Emit(level Level, msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field.
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field with key "error".
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any creates a field with any value.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
