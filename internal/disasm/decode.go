package disasm

import (
	"evscript/internal/bytecode"
	"evscript/internal/resolve"
	"evscript/internal/script"
)

// lookahead is how many consecutive instructions looksLikeCode decodes.
const lookahead = 3

func (d *Disassembler) header(offset int) (bytecode.Header, bool) {
	return bytecode.DecodeHeader(d.cur, offset, d.meta)
}

// isValidOp reports whether addr is an aligned in-bounds instruction header.
func (d *Disassembler) isValidOp(addr int) bool {
	if addr&3 != 0 || addr < bytecode.WordSize || addr >= d.cur.Len() {
		return false
	}
	_, ok := d.header(addr)
	return ok
}

// looksLikeCode scores up to three instructions starting at addr. A decode
// failure costs the remaining lookahead, each success earns its position plus
// one for every operand that is not a plain immediate.
func (d *Disassembler) looksLikeCode(addr int) bool {
	if addr&3 != 0 || addr < bytecode.WordSize || addr >= d.cur.Len() {
		return false
	}
	if _, ok := d.s.At(addr).(*script.Instruction); ok {
		return true
	}

	certainty := 0
	for i := 0; i < lookahead; i++ {
		h, ok := d.header(addr)
		if !ok {
			certainty -= lookahead - i
			break
		}
		certainty += i + 1
		addr += bytecode.WordSize

		for range h.ParamCount {
			typ := bytecode.ParamTypeOf(d.cur.WordAt(addr))
			if typ != bytecode.Immediate {
				certainty++
			}
			addr += typ.Width() * bytecode.WordSize
		}
	}
	return certainty >= 2
}

// decodeOperands reads the operands of h without touching the script. ok is
// false when an operand runs past the end of the image.
func (d *Disassembler) decodeOperands(h bytecode.Header, regs *resolve.RegisterFile) ([]*script.Operand, bool) {
	ops := make([]*script.Operand, 0, h.ParamCount)
	at := h.Address + bytecode.WordSize
	for range h.ParamCount {
		first, ok := d.cur.ReadWord(at)
		if !ok {
			return nil, false
		}
		typ := bytecode.ParamTypeOf(first)
		raw := make([]int32, typ.Width())
		for n := range raw {
			if raw[n], ok = d.cur.ReadWord(at + n*bytecode.WordSize); !ok {
				return nil, false
			}
		}
		ops = append(ops, &script.Operand{
			Addr:  at,
			Type:  typ,
			Raw:   raw,
			Value: operandValue(regs, typ, h.Address, raw),
		})
		at += len(raw) * bytecode.WordSize
	}
	return ops, true
}

// operandValue resolves what can be known statically. Register-of-register
// and game variable reads are never tracked.
func operandValue(regs *resolve.RegisterFile, typ bytecode.ParamType, header int, raw []int32) resolve.Value {
	switch typ {
	case bytecode.Immediate:
		return resolve.Known(raw[0])
	case bytecode.NextImmediate:
		return resolve.Known(raw[1])
	case bytecode.Storage:
		return regs.Get(bytecode.StorageIndex(raw[0]))
	}
	if dest, ok := bytecode.InlineTarget(typ, header, raw[0]); ok {
		return resolve.Known(int32(dest))
	}
	return resolve.Unknown()
}

// target returns the concrete address an operand names. Operands rewritten
// because they pointed outside the image never resolve.
func target(op *script.Operand) (int, bool) {
	if op.Replaced != nil {
		return 0, false
	}
	v, ok := op.Value.Get()
	return int(v), ok
}
