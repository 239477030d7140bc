// Package resolve tracks what the disassembler knows about register values
// while it walks a branch.
package resolve

import "fmt"

type state uint8

const (
	unknown state = iota
	known
	bounded
)

// Value is the abstract contents of a register or operand: unknown, a known
// integer, or an integer known only to lie within [Min, Max).
type Value struct {
	state    state
	v        int32
	min, max int32
}

// Unknown returns a value with no information.
func Unknown() Value { return Value{} }

// Known returns a concrete value.
func Known(v int32) Value { return Value{state: known, v: v} }

// Range returns a value bounded by min (inclusive) and max (exclusive).
func Range(min, max int32) Value { return Value{state: bounded, min: min, max: max} }

// Get returns the concrete value, if there is one.
func (v Value) Get() (int32, bool) { return v.v, v.state == known }

// IsKnown reports whether the value is concrete.
func (v Value) IsKnown() bool { return v.state == known }

// IsRange reports whether the value is bounded.
func (v Value) IsRange() bool { return v.state == bounded }

// Min returns the lower bound of a range.
func (v Value) Min() int32 { return v.min }

// Max returns the upper bound of a range.
func (v Value) Max() int32 { return v.max }

// Or returns the concrete value or def.
func (v Value) Or(def int32) int32 {
	if v.state == known {
		return v.v
	}
	return def
}

func (v Value) String() string {
	switch v.state {
	case known:
		return fmt.Sprintf("%#x", v.v)
	case bounded:
		return fmt.Sprintf("[%d, %d)", v.min, v.max)
	}
	return "?"
}

// Map applies f to a concrete value. Anything else becomes unknown.
func (v Value) Map(f func(int32) int32) Value {
	if x, ok := v.Get(); ok {
		return Known(f(x))
	}
	return Unknown()
}

// Merge combines two concrete values with f. If either side is not concrete
// the result is unknown.
func Merge(dest, src Value, f func(dest, src int32) int32) Value {
	d, ok := dest.Get()
	if !ok {
		return Unknown()
	}
	s, ok := src.Get()
	if !ok {
		return Unknown()
	}
	return Known(f(d, s))
}
