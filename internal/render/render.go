// Package render projects a disassembled script onto a text listing.
package render

import (
	"fmt"
	"slices"
	"strings"

	"evscript/internal/bytecode"
	"evscript/internal/meta"
	"evscript/internal/script"
)

// LineKind distinguishes listing lines.
type LineKind int

const (
	LineCode LineKind = iota
	LineLabel
	LineBanner
	LineBlank
)

// Line is one line of a listing. Only code lines carry an address.
type Line struct {
	Kind     LineKind
	Addr     int
	Mnemonic string
	Operands string
	// Annotations are appended after a semicolon.
	Annotations []string
}

// String formats the line with the annotation column at 50.
// This returns plain text - colorization is applied afterwards.
func (l Line) String() string {
	switch l.Kind {
	case LineLabel:
		return l.Mnemonic + ":"
	case LineBanner:
		return "; " + l.Mnemonic
	case LineBlank:
		return ""
	}

	base := fmt.Sprintf("%06x %s", l.Addr, l.Mnemonic)
	if l.Operands != "" {
		base += " " + l.Operands
	}
	if len(l.Annotations) > 0 {
		return fmt.Sprintf("%-50s ; %s", base, strings.Join(l.Annotations, ", "))
	}
	return base
}

// Text joins lines into a listing.
func Text(lines []Line) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Listing renders every slot of s. Calls are named from m, which may be nil.
func Listing(s *script.Script, m *meta.Meta) []Line {
	r := renderer{s: s, m: m}
	for i, e := range s.Entries {
		r.slot(i*bytecode.WordSize, e)
	}
	return r.lines
}

type renderer struct {
	s     *script.Script
	m     *meta.Meta
	lines []Line
}

func (r *renderer) emit(l Line) { r.lines = append(r.lines, l) }

func (r *renderer) banner(text string) {
	r.emit(Line{Kind: LineBlank})
	r.emit(Line{Kind: LineBanner, Mnemonic: text})
}

func (r *renderer) labels(addr int) {
	for _, name := range r.s.Labels[addr] {
		r.emit(Line{Kind: LineLabel, Mnemonic: name})
	}
}

func (r *renderer) slot(addr int, e script.Entry) {
	switch e := e.(type) {
	case *script.Operand:
		return
	case *script.TextRun:
		if addr != e.Addr && !r.s.HasLabel(addr) {
			return
		}
	}

	if r.s.Subs.Has(addr) {
		r.banner("SUBROUTINE")
	}
	if r.s.SubTables.Has(addr) {
		r.banner("SUBROUTINE TABLE")
	}
	if r.s.Reentries.Has(addr) {
		r.banner("FORK RE-ENTRY")
	}
	r.labels(addr)

	switch e := e.(type) {
	case *script.EntryPoint:
		r.emit(Line{Addr: addr, Mnemonic: "entrypoint", Operands: ":" + e.Label})
	case *script.RawWord:
		r.emit(data(addr, e.Value))
	case *script.PointerTable:
		i := (addr - e.Addr) / bytecode.WordSize
		if i >= len(e.Labels) {
			r.emit(data(addr, e.Original))
			return
		}
		r.emit(Line{Addr: addr, Mnemonic: "rel", Operands: ":" + e.Labels[i]})
	case *script.TextRun:
		r.emit(r.text(addr, e))
	case *script.Instruction:
		r.emit(r.instruction(e))
	case nil:
		r.emit(Line{Addr: addr, Mnemonic: "data", Annotations: []string{"unassigned"}})
	}
}

func data(addr int, v int32) Line {
	return Line{Addr: addr, Mnemonic: "data", Operands: fmt.Sprintf("0x%x", uint32(v))}
}

// text renders the part of a run that starts at addr and ends at the next
// labelled slot inside the run.
func (r *renderer) text(addr int, run *script.TextRun) Line {
	from := (addr - run.Addr) / 2
	to := len(run.Chars)
	last := true
	for slot := addr + bytecode.WordSize; slot < run.Addr+run.Slots()*bytecode.WordSize; slot += bytecode.WordSize {
		if r.s.HasLabel(slot) {
			to = min(to, (slot-run.Addr)/2)
			last = false
			break
		}
	}
	from = min(from, to)

	body := Chars(run.Chars[from:to])
	if !last || !run.Terminated {
		body += "<noterm>"
	}
	return Line{Addr: addr, Mnemonic: "data", Operands: "str[" + body + "]"}
}

// Chars renders 16-bit character codes. Printable ASCII is kept, anything
// else becomes a <xxxx> escape.
func Chars(chars []uint16) string {
	var sb strings.Builder
	for _, c := range chars {
		if c >= 0x20 && c < 0x7f && !strings.ContainsRune("<>[]", rune(c)) {
			sb.WriteByte(byte(c))
		} else {
			fmt.Fprintf(&sb, "<%04x>", c)
		}
	}
	return sb.String()
}

func (r *renderer) instruction(ins *script.Instruction) Line {
	op := ins.Op
	l := Line{Addr: ins.Addr, Mnemonic: op.Name}

	method, isCall := r.m.Method(ins.HeaderParam)
	isCall = isCall && op.Kind == bytecode.KindCall

	var operands []string
	switch {
	case isCall:
		operands = append(operands, method.Name)
	case op.HasHeaderParam():
		operands = append(operands, headerParam(ins))
	}
	switch op.Kind {
	case bytecode.KindWaitCmp0, bytecode.KindJmpCmp0, bytecode.KindMov0:
		operands = append(operands, "0")
	}
	for i, p := range ins.Params {
		operands = append(operands, r.operand(ins, i, p))
	}
	l.Operands = strings.Join(operands, ", ")

	if isCall && len(method.Params) > 0 {
		for _, p := range method.Params {
			l.Annotations = append(l.Annotations, p.String())
		}
	} else if op.Kind != bytecode.KindCall && (len(op.Params) > 0 || op.HasHeaderParam()) {
		if op.HasHeaderParam() {
			l.Annotations = append(l.Annotations, op.HeaderParam)
		}
		for _, p := range op.Params {
			l.Annotations = append(l.Annotations, p.Name)
		}
	}

	for _, p := range ins.Params {
		if p.Replaced != nil {
			l.Annotations = append(l.Annotations, fmt.Sprintf("was %s", r.operand(ins, -1, p.Replaced)))
		}
	}
	return l
}

func headerParam(ins *script.Instruction) string {
	if ins.Op.IsCompare() {
		if s, ok := bytecode.CompareOperator(ins.HeaderParam); ok {
			return s
		}
		return fmt.Sprintf("Unknown CMP operator %d", ins.HeaderParam)
	}
	return fmt.Sprintf("0x%x", ins.HeaderParam)
}

func (r *renderer) operand(ins *script.Instruction, i int, p *script.Operand) string {
	w := uint32(p.Raw[0])
	b0, b1, b2 := w&0xff, w>>8&0xff, w>>16&0xff
	var w1 uint32
	if len(p.Raw) > 1 {
		w1 = uint32(p.Raw[1])
	}

	if p.Label != "" {
		label := ":" + p.Label
		switch p.Type {
		case bytecode.Inline2:
			return fmt.Sprintf("inl[%s[stor[%d]]]", label, b2)
		case bytecode.InlineTable1:
			return fmt.Sprintf("inl[%[1]s[%[1]s[stor[%[2]d]]]]", label, b2)
		case bytecode.InlineTable2:
			return fmt.Sprintf("inl[%[1]s[%[1]s[stor[%[2]d]] + stor[%[3]d]]]", label, w1&0xff, w1>>8&0xff)
		case bytecode.InlineTable3:
			return fmt.Sprintf("inl[%[1]s + inl[%[1]s + 0x%[2]x]]", label, b2)
		case bytecode.InlineTable4:
			return fmt.Sprintf("inl[%[1]s[%[1]s[%[2]d] + %[3]d]]", label, w1&0xff, w1>>8&0xff)
		}
		return "inl[" + label + "]"
	}

	dest, _ := bytecode.InlineTarget(p.Type, ins.Addr, p.Raw[0])
	switch p.Type {
	case bytecode.Immediate:
		return r.immediate(ins, i, p.Raw[0])
	case bytecode.NextImmediate:
		return r.immediate(ins, i, int32(w1))
	case bytecode.Storage:
		return fmt.Sprintf("stor[%d]", b0)
	case bytecode.OtherOtherStorage:
		return fmt.Sprintf("stor[stor[stor[%d], %d], %d]", b0, b1, b2)
	case bytecode.OtherStorageOffset:
		return fmt.Sprintf("stor[stor[%d], %d + stor[%d]]", b0, b1, b2)
	case bytecode.Gamevar1:
		return fmt.Sprintf("var[%d]", b0)
	case bytecode.Gamevar2:
		return fmt.Sprintf("var[%d + stor[%d]]", b0, b1)
	case bytecode.GamevarArray1:
		return fmt.Sprintf("var[%d][stor[%d]]", b0, b1)
	case bytecode.GamevarArray2:
		return fmt.Sprintf("var[%d + stor[%d]][stor[%d]]", b0, b1, b2)
	case bytecode.Inline1, bytecode.Inline3:
		return fmt.Sprintf("inl[0x%x]", dest)
	case bytecode.Inline2:
		return fmt.Sprintf("inl[0x%x[stor[%d]]]", dest, b2)
	case bytecode.InlineTable1:
		return fmt.Sprintf("inl[0x%[1]x[0x%[1]x[stor[%[2]d]]]]", dest, b2)
	case bytecode.InlineTable2:
		return fmt.Sprintf("inl[0x%[1]x[0x%[1]x[stor[%[2]d]] + stor[%[3]d]]]", dest, w1&0xff, w1>>8&0xff)
	case bytecode.OtherStorage:
		return fmt.Sprintf("stor[stor[%d], %d]", b0, b1)
	case bytecode.Gamevar3:
		return fmt.Sprintf("var[%d + %d]", b0, b1)
	case bytecode.GamevarArray3:
		return fmt.Sprintf("var[%d][%d]", b0, b1)
	case bytecode.GamevarArray4:
		return fmt.Sprintf("var[%d + stor[%d]][%d]", b0, b1, b2)
	case bytecode.GamevarArray5:
		return fmt.Sprintf("var[%d + %d][stor[%d]]", b0, b1, b2)
	case bytecode.InlineTable3:
		return fmt.Sprintf("inl[0x%[1]x[inl[0x%[1]x + 0x%[2]x]]]", dest, b2*4)
	case bytecode.InlineTable4:
		return fmt.Sprintf("inl[0x%[1]x[0x%[1]x[%[2]d] + %[3]d]]", dest, w1&0xff, w1>>8&0xff)
	}
	return fmt.Sprintf("%s[0x%x]", p.Type, w)
}

// immediate names enum-typed call operands.
func (r *renderer) immediate(ins *script.Instruction, i int, v int32) string {
	if ins.Op.Kind == bytecode.KindCall && i >= 0 {
		if name, ok := r.m.EnumName(r.m.Param(ins.HeaderParam, i).Type, v); ok {
			return name
		}
	}
	return fmt.Sprintf("0x%x", uint32(v))
}

// Labels returns every label with its address, ordered by address.
func Labels(s *script.Script) []Line {
	addrs := make([]int, 0, len(s.Labels))
	for a := range s.Labels {
		addrs = append(addrs, a)
	}
	slices.Sort(addrs)

	var out []Line
	for _, a := range addrs {
		for _, name := range s.Labels[a] {
			l := Line{Addr: a, Mnemonic: name}
			if n := s.LabelUsage[name]; n > 1 {
				l.Annotations = []string{fmt.Sprintf("%d references", n)}
			}
			out = append(out, l)
		}
	}
	return out
}
