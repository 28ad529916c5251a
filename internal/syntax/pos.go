package syntax

import "fmt"

// Span locates a token or node in the source text.
// Start and End are byte offsets (End exclusive); Line is 1-based.
// The zero value is an invalid span.
type Span struct {
	Start int
	End   int
	Line  int
}

// NewSpan creates a new Span.
func NewSpan(start, end, line int) Span {
	return Span{Start: start, End: end, Line: line}
}

// String returns "line:start-end", or "line:start" for an empty span.
// An invalid span prints as "-".
func (s Span) String() string {
	if !s.IsValid() {
		return "-"
	}
	if s.Start == s.End {
		return fmt.Sprintf("%d:%d", s.Line, s.Start)
	}
	return fmt.Sprintf("%d:%d-%d", s.Line, s.Start, s.End)
}

// IsValid reports whether the span is valid.
// A span is valid if Line > 0.
func (s Span) IsValid() bool {
	return s.Line > 0
}
