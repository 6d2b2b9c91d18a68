// Package logx writes tagged diagnostic lines ("[motor] max_duty=65535")
// to a pluggable sink without pulling fmt into MCU builds.
package logx

import "lightmotor-go/x/conv"

// Sink receives complete lines without a trailing newline.
type Sink interface {
	WriteLine(line string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(line string)

func (f SinkFunc) WriteLine(line string) { f(line) }

// Println writes to the runtime console (USB CDC or semihosting on MCUs).
var Println Sink = SinkFunc(func(line string) { println(line) })

// Discard drops every line.
var Discard Sink = SinkFunc(func(string) {})

// Tee fans each line out to every non-nil sink in order.
func Tee(sinks ...Sink) Sink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return SinkFunc(func(line string) {
		for _, s := range out {
			s.WriteLine(line)
		}
	})
}

type fieldKind uint8

const (
	kindStr fieldKind = iota
	kindUint
	kindInt
)

// Field is a key=value pair appended after the message.
type Field struct {
	key  string
	kind fieldKind
	s    string
	u    uint64
	i    int64
}

func Str(key, v string) Field        { return Field{key: key, kind: kindStr, s: v} }
func Uint(key string, v uint64) Field { return Field{key: key, kind: kindUint, u: v} }
func Int(key string, v int64) Field   { return Field{key: key, kind: kindInt, i: v} }

// Err renders err.Error() under "err"; a nil error renders as "<nil>".
func Err(err error) Field {
	if err == nil {
		return Str("err", "<nil>")
	}
	return Str("err", err.Error())
}

// Logger prefixes each line with a bracketed tag. A nil *Logger discards.
type Logger struct {
	tag  string
	sink Sink
}

func New(tag string, sink Sink) *Logger {
	if sink == nil {
		sink = Discard
	}
	return &Logger{tag: tag, sink: sink}
}

// With returns a logger on the same sink with a different tag.
func (l *Logger) With(tag string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{tag: tag, sink: l.sink}
}

func (l *Logger) Print(msg string, fields ...Field) {
	if l == nil {
		return
	}
	l.sink.WriteLine(Format(l.tag, msg, fields...))
}

// Format renders a line exactly as Print would write it.
func Format(tag, msg string, fields ...Field) string {
	buf := make([]byte, 0, 48)
	if tag != "" {
		buf = append(buf, '[')
		buf = append(buf, tag...)
		buf = append(buf, "] "...)
	}
	buf = append(buf, msg...)
	for _, f := range fields {
		buf = append(buf, ' ')
		buf = append(buf, f.key...)
		buf = append(buf, '=')
		switch f.kind {
		case kindUint:
			buf = conv.AppendUint(buf, f.u)
		case kindInt:
			buf = conv.AppendInt(buf, f.i)
		default:
			buf = append(buf, f.s...)
		}
	}
	return string(buf)
}
