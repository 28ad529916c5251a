package syntax

import "testing"

func TestSpanString(t *testing.T) {
	tests := []struct {
		span Span
		want string
	}{
		{NewSpan(0, 1, 1), "1:0-1"},
		{NewSpan(5, 9, 2), "2:5-9"},
		{NewSpan(9, 9, 1), "1:9"},
		{Span{}, "-"},
	}

	for _, tt := range tests {
		if got := tt.span.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.span, got, tt.want)
		}
	}
}

func TestSpanIsValid(t *testing.T) {
	if (Span{}).IsValid() {
		t.Error("zero Span should be invalid")
	}
	if !NewSpan(0, 0, 1).IsValid() {
		t.Error("span on line 1 should be valid")
	}
}
