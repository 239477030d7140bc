package bytecode

import "strings"

// Direction describes how an instruction uses an operand.
type Direction int

const (
	In Direction = iota
	Out
	Both
)

func (d Direction) String() string {
	switch d {
	case Out:
		return "out"
	case Both:
		return "both"
	default:
		return "in"
	}
}

// Modifies reports whether the instruction writes the operand.
func (d Direction) Modifies() bool { return d == Out || d == Both }

// ParseDirection maps the metadata spelling of a direction. Unknown values
// are treated as inputs.
func ParseDirection(s string) Direction {
	switch strings.ToLower(s) {
	case "out":
		return Out
	case "both":
		return Both
	default:
		return In
	}
}

// OpParam is a declared operand of an opcode.
type OpParam struct {
	Name      string
	Direction Direction
}

func in(name string) OpParam   { return OpParam{Name: name, Direction: In} }
func out(name string) OpParam  { return OpParam{Name: name, Direction: Out} }
func both(name string) OpParam { return OpParam{Name: name, Direction: Both} }

// Kind identifies an opcode semantically. Several opcode bytes share a kind
// (the rewind variants) and several kinds share a mnemonic (mov and mov 0).
type Kind int

const (
	KindYield Kind = iota
	KindRewind
	KindWait
	KindWaitCmp
	KindWaitCmp0
	KindMov
	KindSwapBroken
	KindMemcpy
	KindMov0
	KindAnd
	KindOr
	KindXor
	KindAndOr
	KindNot
	KindShl
	KindShr
	KindAdd
	KindSub
	KindSubRev
	KindIncr
	KindDecr
	KindNeg
	KindAbs
	KindMul
	KindDiv
	KindDivRev
	KindMod
	KindModRev
	KindMul12
	KindDiv12
	KindDiv12Rev
	KindMod43
	KindModRev44
	KindSqrt
	KindRand
	KindSin12
	KindCos12
	KindAtan2_12
	KindCall
	KindJmp
	KindJmpCmp
	KindJmpCmp0
	KindWhile
	KindJmpTable
	KindGosub
	KindReturn
	KindGosubTable
	KindDeallocate
	KindDeallocateOther
	KindFork
	KindForkReenter
	KindConsume
	KindDebug96
	KindDebug97
	KindDebug98
	KindDepth
)

// Opcode describes one instruction byte.
type Opcode struct {
	Code uint8
	Kind Kind
	Name string
	// HeaderParam names the header sub-field, empty when the opcode has none.
	HeaderParam string
	Params      []OpParam
}

// HasHeaderParam reports whether bits 16-31 of the header carry a value.
func (o *Opcode) HasHeaderParam() bool { return o.HeaderParam != "" }

// Terminal reports whether control never falls through the instruction.
func (o *Opcode) Terminal() bool {
	switch o.Kind {
	case KindRewind, KindReturn, KindDeallocate, KindConsume:
		return true
	}
	return false
}

var opcodes = [...]Opcode{
	{0x00, KindYield, "yield", "", nil},
	{0x01, KindRewind, "rewind", "", nil},
	{0x02, KindWait, "wait", "", []OpParam{in("frames")}},
	{0x03, KindWaitCmp, "wait_cmp", "operand", []OpParam{in("left"), in("right")}},
	{0x04, KindWaitCmp0, "wait_cmp", "operand", []OpParam{in("right")}},
	{0x05, KindRewind, "rewind", "", nil},
	{0x06, KindRewind, "rewind", "", nil},
	{0x07, KindRewind, "rewind", "", nil},
	{0x08, KindMov, "mov", "", []OpParam{in("source"), out("dest")}},
	{0x09, KindSwapBroken, "swap_broken", "", []OpParam{both("sourceDest"), out("dest")}},
	{0x0a, KindMemcpy, "memcpy", "", []OpParam{in("size"), in("src"), in("dest")}},
	{0x0b, KindRewind, "rewind", "", nil},
	{0x0c, KindMov0, "mov", "", []OpParam{out("dest")}},
	{0x0d, KindRewind, "rewind", "", nil},
	{0x0e, KindRewind, "rewind", "", nil},
	{0x0f, KindRewind, "rewind", "", nil},
	{0x10, KindAnd, "and", "", []OpParam{in("and"), both("operand")}},
	{0x11, KindOr, "or", "", []OpParam{in("or"), both("operand")}},
	{0x12, KindXor, "xor", "", []OpParam{in("xor"), both("operand")}},
	{0x13, KindAndOr, "andor", "", []OpParam{in("and"), in("or"), both("operand")}},
	{0x14, KindNot, "not", "", []OpParam{both("val")}},
	{0x15, KindShl, "shl", "", []OpParam{in("shift"), both("val")}},
	{0x16, KindShr, "shr", "", []OpParam{in("shift"), both("val")}},
	{0x18, KindAdd, "add", "", []OpParam{in("amount"), both("operand")}},
	{0x19, KindSub, "sub", "", []OpParam{in("amount"), both("operand")}},
	{0x1a, KindSubRev, "sub_rev", "", []OpParam{in("amount"), both("operand")}},
	{0x1b, KindIncr, "incr", "", []OpParam{both("operand")}},
	{0x1c, KindDecr, "decr", "", []OpParam{both("operand")}},
	{0x1d, KindNeg, "neg", "", []OpParam{both("operand")}},
	{0x1e, KindAbs, "abs", "", []OpParam{both("operand")}},
	{0x20, KindMul, "mul", "", []OpParam{in("amount"), both("operand")}},
	{0x21, KindDiv, "div", "", []OpParam{in("amount"), both("operand")}},
	{0x22, KindDivRev, "div_rev", "", []OpParam{in("amount"), both("operand")}},
	{0x23, KindMod, "mod", "", []OpParam{in("amount"), both("operand")}},
	{0x24, KindModRev, "mod_rev", "", []OpParam{in("amount"), both("operand")}},
	{0x28, KindMul12, "mul_12", "", []OpParam{in("amount"), both("operand")}},
	{0x29, KindDiv12, "div_12", "", []OpParam{in("amount"), both("operand")}},
	{0x2a, KindDiv12Rev, "div_12_rev", "", []OpParam{in("amount"), both("operand")}},
	{0x2b, KindMod43, "mod", "", []OpParam{in("amount"), both("operand")}},
	{0x2c, KindModRev44, "mod_rev", "", []OpParam{in("amount"), both("operand")}},
	{0x30, KindSqrt, "sqrt", "", []OpParam{in("val"), out("dest")}},
	{0x31, KindRand, "rand", "", []OpParam{in("bound"), out("dest")}},
	{0x32, KindSin12, "sin_12", "", []OpParam{in("angle"), out("dest")}},
	{0x33, KindCos12, "cos_12", "", []OpParam{in("angle"), out("dest")}},
	{0x34, KindAtan2_12, "atan2_12", "", []OpParam{in("y"), in("x"), out("dest")}},
	{0x38, KindCall, "call", "index", nil},
	{0x40, KindJmp, "jmp", "", []OpParam{in("addr")}},
	{0x41, KindJmpCmp, "jmp_cmp", "operator", []OpParam{in("left"), in("right"), in("addr")}},
	{0x42, KindJmpCmp0, "jmp_cmp", "operator", []OpParam{in("right"), in("addr")}},
	{0x43, KindWhile, "while", "", []OpParam{both("counter"), in("addr")}},
	{0x44, KindJmpTable, "jmp_table", "", []OpParam{in("index"), in("table")}},
	{0x48, KindGosub, "gosub", "", []OpParam{in("addr")}},
	{0x49, KindReturn, "return", "", nil},
	{0x4a, KindGosubTable, "gosub_table", "", []OpParam{in("index"), in("table")}},
	{0x50, KindDeallocate, "deallocate", "", nil},
	{0x52, KindDeallocate, "deallocate", "", nil},
	{0x53, KindDeallocateOther, "deallocate_other", "", []OpParam{in("index")}},
	{0x56, KindFork, "fork", "", []OpParam{in("index"), in("addr"), in("stor[32] value")}},
	{0x57, KindForkReenter, "fork_reenter", "", []OpParam{in("index"), in("entrypoint"), in("stor[32] value")}},
	{0x58, KindConsume, "consume", "", nil},
	{0x60, KindDebug96, "debug96", "?", []OpParam{in("?"), in("?")}},
	{0x61, KindDebug97, "debug97", "", nil},
	{0x62, KindDebug98, "debug98", "", []OpParam{in("?")}},
	{0x63, KindDepth, "depth", "", []OpParam{out("dest")}},
}

var byCode [256]*Opcode

func init() {
	for i := range opcodes {
		byCode[opcodes[i].Code] = &opcodes[i]
	}
}

// Lookup returns the descriptor for an opcode byte.
func Lookup(code uint8) (*Opcode, bool) {
	op := byCode[code]
	return op, op != nil
}

// Opcodes returns every known descriptor in opcode order.
func Opcodes() []*Opcode {
	out := make([]*Opcode, 0, len(opcodes))
	for i := range opcodes {
		out = append(out, &opcodes[i])
	}
	return out
}

var compareOperators = [...]string{"<=", "<", "==", "!=", ">", ">=", "&", "!&"}

// CompareOperator renders the header sub-field of the compare opcodes.
func CompareOperator(v int) (string, bool) {
	if v < 0 || v >= len(compareOperators) {
		return "", false
	}
	return compareOperators[v], true
}

// IsCompare reports whether the header sub-field is a comparison operator.
func (o *Opcode) IsCompare() bool {
	switch o.Kind {
	case KindWaitCmp, KindWaitCmp0, KindJmpCmp, KindJmpCmp0:
		return true
	}
	return false
}
