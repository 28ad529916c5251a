package wat

import (
	"errors"
	"reflect"
	"testing"
)

func TestReadRoundTrip(t *testing.T) {
	modules := []*Module{
		sampleModule(),
		{
			Type:    I32,
			Entry:   "init",
			Memory:  true,
			Data:    []Data{{Offset: 1024, Bytes: []byte("a \"b\"\n\\\x00")}},
			Globals: []Global{{Name: "s", Mutable: true, Type: I32}, {Name: "c", Type: I32}},
			Functions: []*Function{{
				Name:   "init",
				Result: resultType(I32),
				Locals: []string{"t"},
				Body: []Instruction{
					{Op: I32Const, Imm: "1024"},
					{Op: LocalSet, Imm: "t"},
					{Op: LocalGet, Imm: "t"},
					{Op: I32Eqz},
				},
			}},
		},
		{Type: F64},
	}

	for i, m := range modules {
		text := Format(m)
		back, err := Read(text)
		if err != nil {
			t.Fatalf("module %d: Read: %v\n%s", i, err, text)
		}
		if again := Format(back); again != text {
			t.Errorf("module %d: round trip changed the text\nfirst:\n%s\nsecond:\n%s", i, text, again)
		}
		if back.Type != m.Type || back.Entry != m.Entry || back.Memory != m.Memory {
			t.Errorf("module %d: header = %v %q %v", i, back.Type, back.Entry, back.Memory)
		}
	}
}

func TestReadInstructions(t *testing.T) {
	m, err := Read(`(module
  ;; hand written
  (import "env" "log" (func $log (param f64)))
  (func $main
    f64.const 3.5 f64.neg
    call $log)
  (export "main" (func $main)))`)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []Instruction{
		{Op: F64Const, Imm: "3.5"},
		{Op: F64Neg},
		{Op: Call, Imm: "log"},
	}
	if got := m.Func("main").Body; !reflect.DeepEqual(got, want) {
		t.Errorf("Body = %v, want %v", got, want)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"not_module", "(func $f)"},
		{"unclosed", "(module"},
		{"stray_paren", ")"},
		{"trailing", "(module) x"},
		{"unknown_field", "(module (table 1))"},
		{"unknown_import", `(module (import "env" "exit" (func $exit)))`},
		{"bad_global_type", "(module (global $x (mut f16) (f64.const 0)))"},
		{"global_no_dollar", "(module (global x f64 (f64.const 0)))"},
		{"bad_data_offset", `(module (data (i32.const x) "a"))`},
		{"unknown_instruction", "(module (func $f i64.add))"},
		{"missing_operand", "(module (func $f local.get))"},
		{"operand_not_name", "(module (func $f local.get 0))"},
		{"header_after_body", "(module (func $f drop (local $x f64)))"},
		{"unterminated_string", `(module (data (i32.const 0) "abc))`},
		{"bad_escape", `(module (data (i32.const 0) "\zz"))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(tt.src); !errors.Is(err, ErrMalformed) {
				t.Errorf("Read(%q) error = %v, want ErrMalformed", tt.src, err)
			}
		})
	}
}
