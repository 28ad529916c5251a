// Package wat models a WebAssembly module in the subset the compiler emits
// and converts it to and from the WebAssembly text format.
package wat

import "fmt"

// ValueType is a WebAssembly number type.
type ValueType uint8

const (
	I32 ValueType = iota + 1
	I64
	F32
	F64
)

var valueTypeNames = [...]string{
	I32: "i32",
	I64: "i64",
	F32: "f32",
	F64: "f64",
}

func (t ValueType) String() string {
	if t >= I32 && t <= F64 {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", uint8(t))
}

// ParseValueType returns the ValueType named s.
func ParseValueType(s string) (ValueType, bool) {
	for t := I32; t <= F64; t++ {
		if valueTypeNames[t] == s {
			return t, true
		}
	}
	return 0, false
}

// Opcode identifies an instruction.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	// Constants and variables
	I32Const
	F64Const
	LocalGet
	LocalSet
	GlobalGet
	GlobalSet

	// Control
	Call
	Drop
	If
	Else
	End

	// i32 arithmetic and comparison
	I32Add
	I32Sub
	I32Mul
	I32DivS
	I32Eqz
	I32Eq
	I32Ne
	I32LtS
	I32LeS
	I32GtS
	I32GeS

	// f64 arithmetic and comparison
	F64Add
	F64Sub
	F64Mul
	F64Div
	F64Neg
	F64Eq
	F64Ne
	F64Lt
	F64Le
	F64Gt
	F64Ge

	// Conversions
	F64ConvertI32U

	opcodeCount
)

var opcodeNames = [...]string{
	OpInvalid: "invalid",

	I32Const:  "i32.const",
	F64Const:  "f64.const",
	LocalGet:  "local.get",
	LocalSet:  "local.set",
	GlobalGet: "global.get",
	GlobalSet: "global.set",

	Call: "call",
	Drop: "drop",
	If:   "if",
	Else: "else",
	End:  "end",

	I32Add:  "i32.add",
	I32Sub:  "i32.sub",
	I32Mul:  "i32.mul",
	I32DivS: "i32.div_s",
	I32Eqz:  "i32.eqz",
	I32Eq:   "i32.eq",
	I32Ne:   "i32.ne",
	I32LtS:  "i32.lt_s",
	I32LeS:  "i32.le_s",
	I32GtS:  "i32.gt_s",
	I32GeS:  "i32.ge_s",

	F64Add: "f64.add",
	F64Sub: "f64.sub",
	F64Mul: "f64.mul",
	F64Div: "f64.div",
	F64Neg: "f64.neg",
	F64Eq:  "f64.eq",
	F64Ne:  "f64.ne",
	F64Lt:  "f64.lt",
	F64Le:  "f64.le",
	F64Gt:  "f64.gt",
	F64Ge:  "f64.ge",

	F64ConvertI32U: "f64.convert_i32_u",
}

// String returns the text format mnemonic of op.
func (op Opcode) String() string {
	if op < opcodeCount {
		return opcodeNames[op]
	}
	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// HasImm reports whether op takes an immediate operand.
func (op Opcode) HasImm() bool {
	switch op {
	case I32Const, F64Const, LocalGet, LocalSet, GlobalGet, GlobalSet, Call:
		return true
	}
	return false
}

// IsNamed reports whether op's immediate is a $-prefixed identifier.
func (op Opcode) IsNamed() bool {
	return op.HasImm() && op != I32Const && op != F64Const
}

// LookupOpcode maps a mnemonic to its opcode, or OpInvalid.
func LookupOpcode(name string) Opcode {
	return opcodeByName[name]
}

var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, opcodeCount)
	for op := OpInvalid + 1; op < opcodeCount; op++ {
		m[opcodeNames[op]] = op
	}
	return m
}()

// Instruction is one instruction of a function body.
// Imm holds the constant text or the referenced name without its '$'.
type Instruction struct {
	Op  Opcode
	Imm string
}

func (in Instruction) String() string {
	switch {
	case !in.Op.HasImm():
		return in.Op.String()
	case in.Op.IsNamed():
		return in.Op.String() + " $" + in.Imm
	}
	return in.Op.String() + " " + in.Imm
}

// Global is a module-level variable, zero-initialized.
type Global struct {
	Name    string
	Mutable bool
	Type    ValueType
}

// Data is a data segment placed in memory at Offset.
type Data struct {
	Offset int
	Bytes  []byte
}

// Function is a module function. Params and locals all have the
// module's value type.
type Function struct {
	Name   string
	Params []string
	Result *ValueType // nil if the function returns nothing
	Locals []string
	Body   []Instruction
}

// Module is a complete compiled module.
type Module struct {
	Type      ValueType // value type of every param, local, global and log argument
	Entry     string    // exported entry function
	Globals   []Global
	Data      []Data
	Functions []*Function
	Memory    bool // declare and export linear memory
}

// Func returns the function named name, or nil.
func (m *Module) Func(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// GlobalIndex returns the index of the global named name, or -1.
func (m *Module) GlobalIndex(name string) int {
	for i, g := range m.Globals {
		if g.Name == name {
			return i
		}
	}
	return -1
}
