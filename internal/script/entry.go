// Package script holds the output of a disassembly run: one typed entry per
// word slot plus the label registry and the discovered flow sets.
package script

import (
	"fmt"

	"evscript/internal/bytecode"
	"evscript/internal/resolve"
)

// Entry is the contents of a word slot. Multi-word constructs store the same
// entry in every slot they cover. The set of implementations is closed.
type Entry interface {
	Address() int
	entry()
}

// Instruction is a decoded instruction header.
type Instruction struct {
	Addr        int
	Op          *bytecode.Opcode
	HeaderParam int
	Params      []*Operand
}

// Operand is one decoded operand of an instruction.
type Operand struct {
	Addr  int
	Type  bytecode.ParamType
	Raw   []int32
	Value resolve.Value
	// Label names the destination of an inline operand.
	Label string
	// Replaced holds the original operand when an out of range inline
	// pointer was rewritten as a zero immediate.
	Replaced *Operand
}

// PointerTable is a table of relative pointers. Labels shrink when the table
// is found to overrun its neighbours.
type PointerTable struct {
	Addr     int
	Original int32
	Labels   []string
}

// RawWord is a slot no other pass claimed.
type RawWord struct {
	Addr  int
	Value int32
}

// EntryPoint is a slot of the leading entrypoint vector.
type EntryPoint struct {
	Addr        int
	Label       string
	Destination int
}

// TextRun is a sequence of 16-bit character codes.
type TextRun struct {
	Addr       int
	Chars      []uint16
	Terminated bool
}

func (e *Instruction) Address() int  { return e.Addr }
func (e *Operand) Address() int      { return e.Addr }
func (e *PointerTable) Address() int { return e.Addr }
func (e *RawWord) Address() int      { return e.Addr }
func (e *EntryPoint) Address() int   { return e.Addr }
func (e *TextRun) Address() int      { return e.Addr }

func (*Instruction) entry()  {}
func (*Operand) entry()      {}
func (*PointerTable) entry() {}
func (*RawWord) entry()      {}
func (*EntryPoint) entry()   {}
func (*TextRun) entry()      {}

// Words returns how many slots the operand covers.
func (e *Operand) Words() int { return len(e.Raw) }

// Slots returns how many slots the text covers, counting the terminator.
func (e *TextRun) Slots() int {
	n := len(e.Chars)
	if e.Terminated {
		n++
	}
	return max(1, (n+1)/2)
}

func (e *Instruction) String() string {
	return fmt.Sprintf("%s@%#x", e.Op.Name, e.Addr)
}
