package vm

import (
	"errors"
	"fmt"
)

// Execution error kinds.
var (
	ErrNoEntry         = errors.New("module has no entry function")
	ErrUnknownFunc     = errors.New("unknown function")
	ErrUnknownVar      = errors.New("unknown variable")
	ErrArity           = errors.New("wrong number of arguments")
	ErrStackUnderflow  = errors.New("operand stack underflow")
	ErrStackImbalance  = errors.New("values left on the operand stack")
	ErrBadBlock        = errors.New("unbalanced if/else/end")
	ErrBadConst        = errors.New("malformed constant")
	ErrBadOpcode       = errors.New("unsupported instruction")
	ErrDivideByZero    = errors.New("integer divide by zero")
	ErrIntegerOverflow = errors.New("integer overflow")
	ErrCallDepth       = errors.New("call stack exhausted")
	ErrMemory          = errors.New("data segment out of bounds")
)

// Trap is an execution error inside a function.
type Trap struct {
	Err  error  // one of the execution error kinds
	Func string // function executing when the trap occurred
	PC   int    // index of the failing instruction, -1 if none
}

func (e *Trap) Error() string {
	if e.PC < 0 {
		return fmt.Sprintf("%s: %v", e.Func, e.Err)
	}
	return fmt.Sprintf("%s+%d: %v", e.Func, e.PC, e.Err)
}

func (e *Trap) Unwrap() error { return e.Err }
