package codegen

import (
	"errors"
	"fmt"
)

// Generation error kinds.
var (
	ErrUndefined       = errors.New("undefined")
	ErrNotCallable     = errors.New("not a function")
	ErrUnknownFunc     = errors.New("unknown function")
	ErrArity           = errors.New("wrong number of arguments")
	ErrNoValue         = errors.New("expression has no value")
	ErrRedeclared      = errors.New("already declared")
	ErrNestedFunc      = errors.New("function definitions cannot be nested")
	ErrBadLiteral      = errors.New("malformed number literal")
	ErrUnsupportedType = errors.New("unsupported value type")
	ErrBadName         = errors.New("name is not representable in module text")
)

// GenError is a code generation error at a source line.
type GenError struct {
	Err  error  // one of the generation error kinds
	Name string // identifier or literal involved, if any
	Line int
}

func (e *GenError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Name)
}

func (e *GenError) Unwrap() error { return e.Err }
