package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// ZerologSink implements Sink using zerolog.
type ZerologSink struct {
	logger zerolog.Logger
}

// NewZerologSink creates a sink writing human-readable lines to w.
func NewZerologSink(w io.Writer) *ZerologSink {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return &ZerologSink{logger: logger}
}

// NewZerologSinkWithLogger wraps an existing zerolog.Logger.
// The gate does the filtering, so the logger level should be permissive.
func NewZerologSinkWithLogger(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

// Emit writes the event at the matching zerolog level.
func (z *ZerologSink) Emit(level Level, msg string, fields ...Field) {
	var event *zerolog.Event
	switch level {
	case Error:
		event = z.logger.Error()
	case Warn:
		event = z.logger.Warn()
	case Info:
		event = z.logger.Info()
	case Debug:
		event = z.logger.Debug()
	case Verbose:
		// zerolog drops trace events unless the global level is lowered
		event = z.logger.Debug().Bool("verbose", true)
	default:
		return
	}
	for _, f := range fields {
		event = addField(event, f)
	}
	event.Msg(msg)
}

// addField adds a Field to a zerolog.Event.
func addField(event *zerolog.Event, f Field) *zerolog.Event {
	switch v := f.Value.(type) {
	case string:
		return event.Str(f.Key, v)
	case int:
		return event.Int(f.Key, v)
	case int64:
		return event.Int64(f.Key, v)
	case float64:
		return event.Float64(f.Key, v)
	case bool:
		return event.Bool(f.Key, v)
	case time.Duration:
		return event.Dur(f.Key, v)
	case error:
		return event.AnErr(f.Key, v)
	default:
		return event.Interface(f.Key, v)
	}
}

// Logger returns the underlying zerolog.Logger.
func (z *ZerologSink) Logger() zerolog.Logger {
	return z.logger
}
