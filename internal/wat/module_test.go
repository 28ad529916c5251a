package wat

import "testing"

func TestOpcodeNamesComplete(t *testing.T) {
	seen := make(map[string]Opcode)
	for op := OpInvalid + 1; op < opcodeCount; op++ {
		name := opcodeNames[op]
		if name == "" {
			t.Errorf("opcode %d has no name", op)
			continue
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("opcodes %d and %d share the name %q", prev, op, name)
		}
		seen[name] = op
		if got := LookupOpcode(name); got != op {
			t.Errorf("LookupOpcode(%q) = %v, want %d", name, got, op)
		}
	}
	if got := LookupOpcode("i64.add"); got != OpInvalid {
		t.Errorf("LookupOpcode(i64.add) = %v, want OpInvalid", got)
	}
	if got := opcodeCount.String(); got != "opcode(35)" {
		t.Errorf("out of range String() = %q", got)
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		in   Instruction
		want string
	}{
		{Instruction{Op: F64Const, Imm: "2.5"}, "f64.const 2.5"},
		{Instruction{Op: I32Const, Imm: "7"}, "i32.const 7"},
		{Instruction{Op: LocalGet, Imm: "a"}, "local.get $a"},
		{Instruction{Op: GlobalSet, Imm: "x"}, "global.set $x"},
		{Instruction{Op: Call, Imm: "log"}, "call $log"},
		{Instruction{Op: I32DivS}, "i32.div_s"},
		{Instruction{Op: F64ConvertI32U}, "f64.convert_i32_u"},
		{Instruction{Op: End}, "end"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestValueType(t *testing.T) {
	for _, typ := range []ValueType{I32, I64, F32, F64} {
		got, ok := ParseValueType(typ.String())
		if !ok || got != typ {
			t.Errorf("ParseValueType(%q) = %v, %v", typ, got, ok)
		}
	}
	if _, ok := ParseValueType("f16"); ok {
		t.Error("ParseValueType(f16) succeeded")
	}
	if got := ValueType(0).String(); got != "ValueType(0)" {
		t.Errorf("zero ValueType String() = %q", got)
	}
}

func TestModuleLookup(t *testing.T) {
	m := sampleModule()
	if f := m.Func("sum"); f == nil || len(f.Params) != 2 {
		t.Errorf("Func(sum) = %v", f)
	}
	if f := m.Func("missing"); f != nil {
		t.Errorf("Func(missing) = %v, want nil", f)
	}
	if i := m.GlobalIndex("x"); i != 0 {
		t.Errorf("GlobalIndex(x) = %d, want 0", i)
	}
	if i := m.GlobalIndex("y"); i != -1 {
		t.Errorf("GlobalIndex(y) = %d, want -1", i)
	}
}
