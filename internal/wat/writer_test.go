package wat

import (
	"errors"
	"strings"
	"testing"
)

func resultType(t ValueType) *ValueType { return &t }

func sampleModule() *Module {
	return &Module{
		Type:    F64,
		Entry:   "main",
		Globals: []Global{{Name: "x", Mutable: true, Type: F64}},
		Functions: []*Function{
			{
				Name:   "sum",
				Params: []string{"a", "b"},
				Result: resultType(F64),
				Body: []Instruction{
					{Op: LocalGet, Imm: "a"},
					{Op: LocalGet, Imm: "b"},
					{Op: F64Add},
				},
			},
			{
				Name: "main",
				Body: []Instruction{
					{Op: F64Const, Imm: "10"},
					{Op: GlobalSet, Imm: "x"},
					{Op: GlobalGet, Imm: "x"},
					{Op: F64Const, Imm: "0"},
					{Op: F64Ne},
					{Op: If},
					{Op: F64Const, Imm: "1"},
					{Op: Call, Imm: "log"},
					{Op: Else},
					{Op: F64Const, Imm: "0"},
					{Op: Call, Imm: "log"},
					{Op: End},
				},
			},
		},
	}
}

func TestWrite(t *testing.T) {
	want := `(module
  (import "env" "log" (func $log (param f64)))
  (global $x (mut f64) (f64.const 0))
  (func $sum (param $a f64) (param $b f64) (result f64)
    local.get $a
    local.get $b
    f64.add
  )
  (func $main
    f64.const 10
    global.set $x
    global.get $x
    f64.const 0
    f64.ne
    if
      f64.const 1
      call $log
    else
      f64.const 0
      call $log
    end
  )
  (export "main" (func $main))
)
`
	if got := Format(sampleModule()); got != want {
		t.Errorf("Format mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteMemoryAndData(t *testing.T) {
	m := &Module{
		Type:   I32,
		Entry:  "init",
		Memory: true,
		Data: []Data{
			{Offset: 1024, Bytes: []byte("hi\x00")},
			{Offset: 1027, Bytes: []byte(`a "q" \`)},
		},
		Globals: []Global{{Name: "k", Type: I32}},
		Functions: []*Function{{
			Name:   "init",
			Result: resultType(I32),
			Body:   []Instruction{{Op: I32Const, Imm: "1024"}},
		}},
	}

	want := `(module
  (import "env" "log" (func $log (param i32)))
  (memory $memory 1)
  (global $k i32 (i32.const 0))
  (data (i32.const 1024) "hi\00")
  (data (i32.const 1027) "a \22q\22 \5c")
  (func $init (result i32)
    i32.const 1024
  )
  (export "init" (func $init))
  (export "memory" (memory $memory))
)
`
	if got := Format(m); got != want {
		t.Errorf("Format mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteLocals(t *testing.T) {
	m := &Module{
		Type: F64,
		Functions: []*Function{{
			Name:   "f",
			Params: []string{"a"},
			Result: resultType(F64),
			Locals: []string{"y", "z"},
			Body: []Instruction{
				{Op: LocalGet, Imm: "a"},
				{Op: LocalSet, Imm: "y"},
				{Op: LocalGet, Imm: "y"},
			},
		}},
	}

	got := Format(m)
	for _, line := range []string{
		"  (func $f (param $a f64) (result f64)\n",
		"    (local $y f64)\n    (local $z f64)\n    local.get $a\n",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("output missing %q:\n%s", line, got)
		}
	}
	if strings.Contains(got, "export") {
		t.Errorf("module without entry has an export:\n%s", got)
	}
}

func TestWriteUnbalancedBlocks(t *testing.T) {
	m := &Module{
		Type:      F64,
		Functions: []*Function{{Name: "f", Body: []Instruction{{Op: End}, {Op: End}, {Op: Else}}}},
	}
	// Must not panic on negative indentation.
	_ = Format(m)
}

type failWriter struct {
	n int // writes allowed before failing
}

var errDiskFull = errors.New("disk full")

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errDiskFull
	}
	w.n--
	return len(p), nil
}

func TestWriteStickyError(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		w := &failWriter{n: n}
		if err := Write(w, sampleModule()); !errors.Is(err, errDiskFull) {
			t.Errorf("Write after %d writes: err = %v, want %v", n, err, errDiskFull)
		}
	}
}

func TestWriteIdempotent(t *testing.T) {
	m := sampleModule()
	if a, b := Format(m), Format(m); a != b {
		t.Error("two writes of one module differ")
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"hello world", `"hello world"`},
		{"a\nb", `"a\0ab"`},
		{`"`, `"\22"`},
		{`\`, `"\5c"`},
		{"\x00\xff", `"\00\ff"`},
		{"é", `"\c3\a9"`},
	}

	for _, tt := range tests {
		if got := quote([]byte(tt.in)); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
