// Package vm executes compiled modules in process. It stands in for the
// WebAssembly host: it provides the log import and memory, and calls the
// entry function.
package vm

import (
	"math"

	"github.com/you-not-fish/teal/internal/rtabi"
	"github.com/you-not-fish/teal/internal/wat"
)

// DefaultMaxDepth is the call depth at which execution traps.
const DefaultMaxDepth = 1024

// Machine runs one module instance.
type Machine struct {
	mod     *wat.Module
	sink    Sink
	funcs   map[string]*code
	globals map[string]Value
	memory  []byte
	depth   int

	// MaxDepth bounds the call depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

// code is a function prepared for execution: the jump targets of its
// block markers are resolved once.
type code struct {
	fn    *wat.Function
	elses map[int]int // if -> else, for ifs that have one
	ends  map[int]int // if and else -> matching end
}

// New instantiates m. Globals start at zero and data segments are copied
// into memory. Log output goes to sink.
func New(m *wat.Module, sink Sink) (*Machine, error) {
	vm := &Machine{
		mod:     m,
		sink:    sink,
		funcs:   make(map[string]*code, len(m.Functions)),
		globals: make(map[string]Value, len(m.Globals)),
	}

	for _, g := range m.Globals {
		vm.globals[g.Name] = Value{Type: g.Type}
	}

	if m.Memory || len(m.Data) > 0 {
		vm.memory = make([]byte, rtabi.MemoryPages*rtabi.PageSize)
		for _, d := range m.Data {
			if d.Offset < 0 || d.Offset+len(d.Bytes) > len(vm.memory) {
				return nil, &Trap{Err: ErrMemory, Func: "data", PC: -1}
			}
			copy(vm.memory[d.Offset:], d.Bytes)
		}
	}

	for _, fn := range m.Functions {
		c, err := prepare(fn)
		if err != nil {
			return nil, err
		}
		vm.funcs[fn.Name] = c
	}
	return vm, nil
}

// prepare matches every if with its else and end.
func prepare(fn *wat.Function) (*code, error) {
	c := &code{fn: fn, elses: make(map[int]int), ends: make(map[int]int)}
	var open []int // indexes of unclosed ifs
	for pc, in := range fn.Body {
		switch in.Op {
		case wat.If:
			open = append(open, pc)
		case wat.Else:
			if len(open) == 0 {
				return nil, &Trap{Err: ErrBadBlock, Func: fn.Name, PC: pc}
			}
			top := open[len(open)-1]
			if _, dup := c.elses[top]; dup {
				return nil, &Trap{Err: ErrBadBlock, Func: fn.Name, PC: pc}
			}
			c.elses[top] = pc
		case wat.End:
			if len(open) == 0 {
				return nil, &Trap{Err: ErrBadBlock, Func: fn.Name, PC: pc}
			}
			top := open[len(open)-1]
			open = open[:len(open)-1]
			c.ends[top] = pc
			if e, ok := c.elses[top]; ok {
				c.ends[e] = pc
			}
		}
	}
	if len(open) > 0 {
		return nil, &Trap{Err: ErrBadBlock, Func: fn.Name, PC: open[len(open)-1]}
	}
	return c, nil
}

// Run calls the module's entry function. For an entry without a result
// the returned Value has a zero Type.
func (vm *Machine) Run() (Value, error) {
	if vm.mod.Entry == "" || vm.mod.Func(vm.mod.Entry) == nil {
		return Value{}, &Trap{Err: ErrNoEntry, Func: vm.mod.Entry, PC: -1}
	}
	return vm.Call(vm.mod.Entry)
}

// Call calls the function name with args.
func (vm *Machine) Call(name string, args ...Value) (Value, error) {
	c := vm.funcs[name]
	if c == nil {
		return Value{}, &Trap{Err: ErrUnknownFunc, Func: name, PC: -1}
	}
	if len(args) != len(c.fn.Params) {
		return Value{}, &Trap{Err: ErrArity, Func: name, PC: -1}
	}
	return vm.call(c, args)
}

// CString returns the zero-terminated string at offset off in memory.
func (vm *Machine) CString(off int) (string, bool) {
	if off < 0 || off >= len(vm.memory) {
		return "", false
	}
	for end := off; end < len(vm.memory); end++ {
		if vm.memory[end] == 0 {
			return string(vm.memory[off:end]), true
		}
	}
	return "", false
}

// frame is one activation of a function.
type frame struct {
	code   *code
	locals map[string]Value
	stack  []Value
	pc     int
}

func (f *frame) trap(err error) error {
	return &Trap{Err: err, Func: f.code.fn.Name, PC: f.pc}
}

func (f *frame) push(v Value) {
	f.stack = append(f.stack, v)
}

func (f *frame) pop() (Value, error) {
	if len(f.stack) == 0 {
		return Value{}, f.trap(ErrStackUnderflow)
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v, nil
}

func (f *frame) pop2() (Value, Value, error) {
	y, err := f.pop()
	if err != nil {
		return Value{}, Value{}, err
	}
	x, err := f.pop()
	if err != nil {
		return Value{}, Value{}, err
	}
	return x, y, nil
}

func (vm *Machine) maxDepth() int {
	if vm.MaxDepth > 0 {
		return vm.MaxDepth
	}
	return DefaultMaxDepth
}

func (vm *Machine) call(c *code, args []Value) (Value, error) {
	if vm.depth >= vm.maxDepth() {
		return Value{}, &Trap{Err: ErrCallDepth, Func: c.fn.Name, PC: -1}
	}
	vm.depth++
	defer func() { vm.depth-- }()

	f := &frame{code: c, locals: make(map[string]Value, len(c.fn.Params)+len(c.fn.Locals))}
	for i, p := range c.fn.Params {
		f.locals[p] = args[i]
	}
	for _, l := range c.fn.Locals {
		f.locals[l] = Value{Type: vm.mod.Type}
	}

	body := c.fn.Body
	for f.pc < len(body) {
		next, err := vm.step(f, body[f.pc])
		if err != nil {
			return Value{}, err
		}
		f.pc = next
	}
	f.pc = -1

	if c.fn.Result == nil {
		if len(f.stack) != 0 {
			return Value{}, f.trap(ErrStackImbalance)
		}
		return Value{}, nil
	}
	if len(f.stack) != 1 {
		if len(f.stack) == 0 {
			return Value{}, f.trap(ErrStackUnderflow)
		}
		return Value{}, f.trap(ErrStackImbalance)
	}
	return f.stack[0], nil
}

// step executes one instruction and returns the index of the next one.
func (vm *Machine) step(f *frame, in wat.Instruction) (int, error) {
	next := f.pc + 1

	switch in.Op {
	case wat.I32Const, wat.F64Const:
		typ := wat.F64
		if in.Op == wat.I32Const {
			typ = wat.I32
		}
		v, ok := parseConst(typ, in.Imm)
		if !ok {
			return 0, f.trap(ErrBadConst)
		}
		f.push(v)

	case wat.LocalGet:
		v, ok := f.locals[in.Imm]
		if !ok {
			return 0, f.trap(ErrUnknownVar)
		}
		f.push(v)

	case wat.LocalSet:
		if _, ok := f.locals[in.Imm]; !ok {
			return 0, f.trap(ErrUnknownVar)
		}
		v, err := f.pop()
		if err != nil {
			return 0, err
		}
		f.locals[in.Imm] = v

	case wat.GlobalGet:
		v, ok := vm.globals[in.Imm]
		if !ok {
			return 0, f.trap(ErrUnknownVar)
		}
		f.push(v)

	case wat.GlobalSet:
		if _, ok := vm.globals[in.Imm]; !ok {
			return 0, f.trap(ErrUnknownVar)
		}
		v, err := f.pop()
		if err != nil {
			return 0, err
		}
		vm.globals[in.Imm] = v

	case wat.Call:
		if err := vm.callFrom(f, in.Imm); err != nil {
			return 0, err
		}

	case wat.Drop:
		if _, err := f.pop(); err != nil {
			return 0, err
		}

	case wat.If:
		cond, err := f.pop()
		if err != nil {
			return 0, err
		}
		if int32(cond.bits) == 0 {
			if e, ok := f.code.elses[f.pc]; ok {
				return e + 1, nil
			}
			return f.code.ends[f.pc], nil
		}

	case wat.Else:
		// Reached the end of a taken then-branch.
		return f.code.ends[f.pc], nil

	case wat.End:

	case wat.I32Eqz:
		x, err := f.pop()
		if err != nil {
			return 0, err
		}
		f.push(boolValue(x.Int() == 0))

	case wat.F64Neg:
		x, err := f.pop()
		if err != nil {
			return 0, err
		}
		f.push(F64(-x.Float()))

	case wat.F64ConvertI32U:
		x, err := f.pop()
		if err != nil {
			return 0, err
		}
		f.push(F64(float64(uint32(x.bits))))

	default:
		x, y, err := f.pop2()
		if err != nil {
			return 0, err
		}
		v, err := binary(in.Op, x, y)
		if err != nil {
			return 0, f.trap(err)
		}
		f.push(v)
	}
	return next, nil
}

// callFrom calls name with arguments popped from f's stack.
func (vm *Machine) callFrom(f *frame, name string) error {
	if name == rtabi.FnLog {
		v, err := f.pop()
		if err != nil {
			return err
		}
		if vm.sink == nil {
			return nil
		}
		return vm.sink.Log(v)
	}

	c := vm.funcs[name]
	if c == nil {
		return f.trap(ErrUnknownFunc)
	}
	n := len(c.fn.Params)
	if len(f.stack) < n {
		return f.trap(ErrStackUnderflow)
	}
	args := append([]Value(nil), f.stack[len(f.stack)-n:]...)
	f.stack = f.stack[:len(f.stack)-n]

	res, err := vm.call(c, args)
	if err != nil {
		return err
	}
	if c.fn.Result != nil {
		f.push(res)
	}
	return nil
}

// binary applies a two-operand instruction.
func binary(op wat.Opcode, x, y Value) (Value, error) {
	switch op {
	case wat.I32Add:
		return I32(x.Int() + y.Int()), nil
	case wat.I32Sub:
		return I32(x.Int() - y.Int()), nil
	case wat.I32Mul:
		return I32(x.Int() * y.Int()), nil
	case wat.I32DivS:
		if y.Int() == 0 {
			return Value{}, ErrDivideByZero
		}
		if x.Int() == math.MinInt32 && y.Int() == -1 {
			return Value{}, ErrIntegerOverflow
		}
		return I32(x.Int() / y.Int()), nil
	case wat.I32Eq:
		return boolValue(x.Int() == y.Int()), nil
	case wat.I32Ne:
		return boolValue(x.Int() != y.Int()), nil
	case wat.I32LtS:
		return boolValue(x.Int() < y.Int()), nil
	case wat.I32LeS:
		return boolValue(x.Int() <= y.Int()), nil
	case wat.I32GtS:
		return boolValue(x.Int() > y.Int()), nil
	case wat.I32GeS:
		return boolValue(x.Int() >= y.Int()), nil

	case wat.F64Add:
		return F64(x.Float() + y.Float()), nil
	case wat.F64Sub:
		return F64(x.Float() - y.Float()), nil
	case wat.F64Mul:
		return F64(x.Float() * y.Float()), nil
	case wat.F64Div:
		return F64(x.Float() / y.Float()), nil
	case wat.F64Eq:
		return boolValue(x.Float() == y.Float()), nil
	case wat.F64Ne:
		return boolValue(x.Float() != y.Float()), nil
	case wat.F64Lt:
		return boolValue(x.Float() < y.Float()), nil
	case wat.F64Le:
		return boolValue(x.Float() <= y.Float()), nil
	case wat.F64Gt:
		return boolValue(x.Float() > y.Float()), nil
	case wat.F64Ge:
		return boolValue(x.Float() >= y.Float()), nil
	}
	return Value{}, ErrBadOpcode
}
