package wat

import (
	"fmt"
	"io"
	"strings"
)

// emitter wraps an io.Writer with helpers for emitting indented text.
type emitter struct {
	w      io.Writer
	err    error // first write error
	indent int   // current nesting depth, two spaces per level
}

// emit writes a formatted line at the current indentation.
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, e.pad()+format+"\n", args...)
}

// pad returns the indentation for the current depth. Unbalanced block
// markers never make it negative.
func (e *emitter) pad() string {
	return strings.Repeat("  ", max(e.indent, 0))
}

// emitRaw writes a formatted string without indentation or newline.
func (e *emitter) emitRaw(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// emitInst writes one instruction line. Block markers adjust the
// indentation so nested bodies are visibly nested.
func (e *emitter) emitInst(in Instruction) {
	switch in.Op {
	case Else:
		e.indent--
		e.emit("%s", in)
		e.indent++
	case End:
		e.indent--
		e.emit("%s", in)
	case If:
		e.emit("%s", in)
		e.indent++
	default:
		e.emit("%s", in)
	}
}

// quote renders b as a text format string literal. Printable ASCII other
// than '"' and '\\' is written as is; every other byte as \hh.
func quote(b []byte) string {
	const hex = "0123456789abcdef"
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range b {
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('\\')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0xf])
	}
	sb.WriteByte('"')
	return sb.String()
}
