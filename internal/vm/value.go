package vm

import (
	"fmt"
	"math"
	"strconv"

	"github.com/you-not-fish/teal/internal/wat"
)

// Value is a typed number on the operand stack.
type Value struct {
	Type wat.ValueType
	bits uint64
}

// F64 returns an f64 value.
func F64(f float64) Value { return Value{Type: wat.F64, bits: math.Float64bits(f)} }

// I32 returns an i32 value.
func I32(i int32) Value { return Value{Type: wat.I32, bits: uint64(uint32(i))} }

// Float returns v as a float64. An i32 is converted as signed.
func (v Value) Float() float64 {
	if v.Type == wat.I32 {
		return float64(int32(v.bits))
	}
	return math.Float64frombits(v.bits)
}

// Int returns v as an int32. An f64 is truncated.
func (v Value) Int() int32 {
	if v.Type == wat.F64 {
		return int32(math.Float64frombits(v.bits))
	}
	return int32(v.bits)
}

// String formats v the way log output shows it: shortest decimal for
// f64, plain decimal for i32.
func (v Value) String() string {
	switch v.Type {
	case wat.F64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case wat.I32:
		return strconv.FormatInt(int64(v.Int()), 10)
	}
	return fmt.Sprintf("%v(%#x)", v.Type, v.bits)
}

func boolValue(b bool) Value {
	if b {
		return I32(1)
	}
	return I32(0)
}

// parseConst parses the immediate of a const instruction.
func parseConst(typ wat.ValueType, imm string) (Value, bool) {
	if typ == wat.I32 {
		i, err := strconv.ParseInt(imm, 0, 32)
		if err != nil {
			return Value{}, false
		}
		return I32(int32(i)), true
	}
	f, err := strconv.ParseFloat(imm, 64)
	if err != nil {
		return Value{}, false
	}
	return F64(f), true
}
