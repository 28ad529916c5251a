package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/teal/internal/codegen"
	"github.com/you-not-fish/teal/internal/compiler"
	"github.com/you-not-fish/teal/internal/syntax"
	"github.com/you-not-fish/teal/internal/wat"
)

func TestRunCompileWritesModule(t *testing.T) {
	p := &compiler.Pipeline{}
	code, out, errOut := captureOutput(t, func() int {
		return runCompile(p, "input.teal", "let x = 10; print x;", "")
	})

	if code != 0 {
		t.Fatalf("runCompile exit=%d\nstderr:\n%s", code, errOut)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	if !strings.HasPrefix(out, "(module\n") {
		t.Fatalf("output is not a module:\n%s", out)
	}
	if !strings.Contains(out, "(global $x (mut f64) (f64.const 0))") {
		t.Fatalf("output missing global x:\n%s", out)
	}
}

func TestRunCompileOutputFile(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "out.wat")
	p := &compiler.Pipeline{Config: codegen.Config{Type: wat.I32}}

	code, out, errOut := captureOutput(t, func() int {
		return runCompile(p, "input.teal", "print 1;", outFile)
	})
	if code != 0 {
		t.Fatalf("runCompile exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "" {
		t.Fatalf("unexpected stdout with -o:\n%s", out)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "i32.const 1\n    call $log") {
		t.Fatalf("output file missing body:\n%s", data)
	}
}

func TestRunCompileReportsErrors(t *testing.T) {
	p := &compiler.Pipeline{}
	code, out, errOut := captureOutput(t, func() int {
		return runCompile(p, "bad.teal", "let x = 1;\nprint y;", "")
	})

	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if out != "" {
		t.Fatalf("unexpected stdout:\n%s", out)
	}
	if want := "bad.teal: codegen: line 2: undefined: y\n"; errOut != want {
		t.Fatalf("stderr = %q, want %q", errOut, want)
	}
}

func TestRunProgram(t *testing.T) {
	p := &compiler.Pipeline{}
	code, out, errOut := captureOutput(t, func() int {
		return runProgram(p, "input.teal", "fun sum(a, b) { a + b; } print sum(4, 5) + 2; print 0.5;")
	})

	if code != 0 {
		t.Fatalf("runProgram exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "11\n0.5\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunProgramInitResult(t *testing.T) {
	p := &compiler.Pipeline{Config: codegen.Config{Type: wat.I32, Entry: codegen.Init}}
	code, out, errOut := captureOutput(t, func() int {
		return runProgram(p, "input.teal", "print 1; 6 * 7;")
	})

	if code != 0 {
		t.Fatalf("runProgram exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "1\n42\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunProgramTrap(t *testing.T) {
	p := &compiler.Pipeline{Config: codegen.Config{Type: wat.I32}}
	code, _, errOut := captureOutput(t, func() int {
		return runProgram(p, "div.teal", "print 1 / 0;")
	})

	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if !strings.HasPrefix(errOut, "div.teal: run: ") || !strings.Contains(errOut, "divide by zero") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestRunProgramWasm(t *testing.T) {
	p := &compiler.Pipeline{Engine: compiler.Wasm}
	code, out, errOut := captureOutput(t, func() int {
		return runProgram(p, "input.teal", "fun sum(a, b) { a + b; } print sum(4, 5) + 2; print 0.5;")
	})

	if code != 0 {
		t.Fatalf("runProgram exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "11\n0.5\n" {
		t.Fatalf("stdout = %q", out)
	}
	// Without cgo the program falls back to the built-in machine.
	if errOut != "" && !strings.Contains(errOut, "using the built-in machine") {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
}

func TestRunProgramWasmTrap(t *testing.T) {
	p := &compiler.Pipeline{Config: codegen.Config{Type: wat.I32}, Engine: compiler.Wasm}
	code, _, errOut := captureOutput(t, func() int {
		return runProgram(p, "div.teal", "print 1 / 0;")
	})

	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "div.teal: run: ") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestParseEngine(t *testing.T) {
	for _, name := range []string{"wasm", "vm"} {
		if eng, err := parseEngine(name); err != nil || eng == nil {
			t.Errorf("parseEngine(%q) = %v, %v", name, eng, err)
		}
	}
	if _, err := parseEngine("jit"); err == nil || !strings.Contains(err.Error(), `"jit"`) {
		t.Errorf("parseEngine(jit) err = %v", err)
	}
}

func TestRunEmitTokens(t *testing.T) {
	code, out, errOut := captureOutput(t, func() int {
		return runEmitTokens("input.teal", `let s = "a";`)
	})

	if code != 0 {
		t.Fatalf("runEmitTokens exit=%d\nstderr:\n%s", code, errOut)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	// header, rule, let s = "a" ; EOF
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "POSITION") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(lines[3], `NAME`) || !strings.Contains(lines[3], " name ") || !strings.Contains(lines[3], `"s"`) {
		t.Errorf("name line = %q", lines[3])
	}
	if !strings.HasPrefix(lines[7], "1:12 ") {
		t.Errorf("EOF line = %q, want position 1:12", lines[7])
	}
}

func TestTokenClass(t *testing.T) {
	items, err := syntax.Lex(`let x = -y(1, "s"); if x { }`)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, it := range items {
		got = append(got, tokenClass(it.Tok))
	}
	want := []string{
		"keyword", "name", "operator", "operator", "name", "delimiter",
		"literal", "delimiter", "literal", "delimiter", "delimiter",
		"keyword", "name", "delimiter", "delimiter", "eof",
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("classes:\ngot:  %v\nwant: %v", got, want)
	}
}

func TestRunEmitTokensError(t *testing.T) {
	code, _, errOut := captureOutput(t, func() int {
		return runEmitTokens("input.teal", "let x = @;")
	})

	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if want := "input.teal: line 1: unexpected character '@'\n"; errOut != want {
		t.Fatalf("stderr = %q, want %q", errOut, want)
	}
}

func TestRunEmitAST(t *testing.T) {
	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST("input.teal", "let x = 1 + 2;", "text")
	})
	if code != 0 {
		t.Fatalf("runEmitAST exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "LetAssign") {
		t.Fatalf("AST missing LetAssign:\n%s", out)
	}

	code, out, errOut = captureOutput(t, func() int {
		return runEmitAST("input.teal", "let x = 1 + 2;", "json")
	})
	if code != 0 {
		t.Fatalf("runEmitAST json exit=%d\nstderr:\n%s", code, errOut)
	}
	var v interface{}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	code, _, _ = captureOutput(t, func() int {
		return runEmitAST("input.teal", "let x = 1;", "yaml")
	})
	if code != 1 {
		t.Fatalf("unknown format: exit=%d, want 1", code)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig("i32", "init")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != wat.I32 || cfg.Entry != codegen.Init {
		t.Errorf("cfg = %+v", cfg)
	}

	for _, tt := range []struct{ typ, entry string }{
		{"i64", "main"},
		{"f32", "main"},
		{"number", "main"},
		{"f64", "start"},
	} {
		if _, err := parseConfig(tt.typ, tt.entry); err == nil {
			t.Errorf("parseConfig(%q, %q) succeeded", tt.typ, tt.entry)
		}
	}
}

func TestReadInput(t *testing.T) {
	name, src, err := readInput(nil, "print 1;")
	if err != nil || name != "<inline>" || src != "print 1;" {
		t.Errorf("inline: %q, %q, %v", name, src, err)
	}

	if _, _, err := readInput(nil, ""); err == nil {
		t.Error("no input: expected an error")
	}

	filename := writeTempTealFile(t, "print 2;")
	name, src, err = readInput([]string{filename}, "")
	if err != nil || name != filename || src != "print 2;" {
		t.Errorf("file: %q, %q, %v", name, src, err)
	}

	if _, _, err := readInput([]string{filepath.Join(t.TempDir(), "missing.teal")}, ""); err == nil {
		t.Error("missing file: expected an error")
	}
}

func TestTrace(t *testing.T) {
	p := &compiler.Pipeline{}
	var b strings.Builder
	p.Trace = traceTo(&b)
	if _, err := p.Compile("print 1;"); err != nil {
		t.Fatal(err)
	}
	for _, stage := range []string{"lex", "parse", "codegen", "write"} {
		if !strings.Contains(b.String(), "trace: "+stage) {
			t.Errorf("trace missing %s:\n%s", stage, b.String())
		}
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"abc", `"abc"`},
		{"a\nb", `"a\nb"`},
		{`say "hi"`, `"say \"hi\""`},
	}
	for _, tt := range tests {
		if got := formatLiteral(tt.in); got != tt.want {
			t.Errorf("formatLiteral(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func writeTempTealFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "input.teal")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
