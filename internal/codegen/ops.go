package codegen

import (
	"github.com/you-not-fish/teal/internal/syntax"
	"github.com/you-not-fish/teal/internal/wat"
)

// binaryOps returns the instructions that apply op to the two values on
// top of the stack. Comparisons yield an i32; on f64 it is converted back
// so every value keeps the module's type. Division and comparisons on i32
// are signed.
func binaryOps(typ wat.ValueType, op syntax.Token) []wat.Opcode {
	if typ == wat.I32 {
		switch op {
		case syntax.Add:
			return []wat.Opcode{wat.I32Add}
		case syntax.Sub:
			return []wat.Opcode{wat.I32Sub}
		case syntax.Mul:
			return []wat.Opcode{wat.I32Mul}
		case syntax.Div:
			return []wat.Opcode{wat.I32DivS}
		case syntax.Eql:
			return []wat.Opcode{wat.I32Eq}
		case syntax.Neq:
			return []wat.Opcode{wat.I32Ne}
		case syntax.Lss:
			return []wat.Opcode{wat.I32LtS}
		case syntax.Leq:
			return []wat.Opcode{wat.I32LeS}
		case syntax.Gtr:
			return []wat.Opcode{wat.I32GtS}
		case syntax.Geq:
			return []wat.Opcode{wat.I32GeS}
		}
		return nil
	}

	switch op {
	case syntax.Add:
		return []wat.Opcode{wat.F64Add}
	case syntax.Sub:
		return []wat.Opcode{wat.F64Sub}
	case syntax.Mul:
		return []wat.Opcode{wat.F64Mul}
	case syntax.Div:
		return []wat.Opcode{wat.F64Div}
	case syntax.Eql:
		return []wat.Opcode{wat.F64Eq, wat.F64ConvertI32U}
	case syntax.Neq:
		return []wat.Opcode{wat.F64Ne, wat.F64ConvertI32U}
	case syntax.Lss:
		return []wat.Opcode{wat.F64Lt, wat.F64ConvertI32U}
	case syntax.Leq:
		return []wat.Opcode{wat.F64Le, wat.F64ConvertI32U}
	case syntax.Gtr:
		return []wat.Opcode{wat.F64Gt, wat.F64ConvertI32U}
	case syntax.Geq:
		return []wat.Opcode{wat.F64Ge, wat.F64ConvertI32U}
	}
	return nil
}

// constOp returns the constant opcode for typ.
func constOp(typ wat.ValueType) wat.Opcode {
	if typ == wat.I32 {
		return wat.I32Const
	}
	return wat.F64Const
}
