package logging

// Gate forwards events to a Sink when their level is enabled.
// A nil *Gate is valid and drops everything.
type Gate struct {
	sink   Sink
	level  Level
	fields []Field
}

// NewGate creates a gate emitting events up to and including level.
func NewGate(sink Sink, level Level) *Gate {
	if sink == nil {
		sink = NoopSink{}
	}
	return &Gate{sink: sink, level: level}
}

// With returns a gate that appends fields to every event.
func (g *Gate) With(fields ...Field) *Gate {
	if g == nil {
		return nil
	}
	merged := make([]Field, 0, len(g.fields)+len(fields))
	merged = append(merged, g.fields...)
	merged = append(merged, fields...)
	return &Gate{sink: g.sink, level: g.level, fields: merged}
}

// Level returns the configured threshold.
func (g *Gate) Level() Level {
	if g == nil {
		return None
	}
	return g.level
}

// Enabled reports whether an event at level would be emitted.
func (g *Gate) Enabled(level Level) bool {
	return g != nil && level != None && g.level != None && level <= g.level
}

// Log emits msg at level if enabled.
func (g *Gate) Log(level Level, msg string, fields ...Field) {
	if !g.Enabled(level) {
		return
	}
	if len(g.fields) > 0 {
		fields = append(append(make([]Field, 0, len(g.fields)+len(fields)), g.fields...), fields...)
	}
	g.sink.Emit(level, msg, fields...)
}

func (g *Gate) Error(msg string, fields ...Field)   { g.Log(Error, msg, fields...) }
func (g *Gate) Warn(msg string, fields ...Field)    { g.Log(Warn, msg, fields...) }
func (g *Gate) Info(msg string, fields ...Field)    { g.Log(Info, msg, fields...) }
func (g *Gate) Debug(msg string, fields ...Field)   { g.Log(Debug, msg, fields...) }
func (g *Gate) Verbose(msg string, fields ...Field) { g.Log(Verbose, msg, fields...) }

// NoopSink discards all events.
type NoopSink struct{}

// Emit discards the event.
func (NoopSink) Emit(Level, string, ...Field) {}
