package bytecode

import "encoding/binary"

// Program assembles a script image word by word. Gaps are zero filled.
type Program struct {
	words []uint32
}

// Put writes words starting at a byte address.
func (p *Program) Put(addr int, words ...uint32) *Program {
	slot := addr / WordSize
	if need := slot + len(words); need > len(p.words) {
		p.words = append(p.words, make([]uint32, need-len(p.words))...)
	}
	copy(p.words[slot:], words)
	return p
}

// Pad grows the image to at least size bytes.
func (p *Program) Pad(size int) *Program {
	if need := size / WordSize; need > len(p.words) {
		p.words = append(p.words, make([]uint32, need-len(p.words))...)
	}
	return p
}

// Bytes returns the little-endian image.
func (p *Program) Bytes() []byte {
	out := make([]byte, len(p.words)*WordSize)
	for i, w := range p.words {
		binary.LittleEndian.PutUint32(out[i*WordSize:], w)
	}
	return out
}

// Instr encodes a header followed by its operands.
func Instr(code uint8, sub int, operands ...[]uint32) []uint32 {
	out := []uint32{Encode(code, len(operands), sub)}
	for _, o := range operands {
		out = append(out, o...)
	}
	return out
}

// Imm encodes a 24-bit immediate operand.
func Imm(v int) []uint32 { return []uint32{EncodeParam(Immediate, v)} }

// Next encodes a full 32-bit immediate in the following word.
func Next(v int32) []uint32 { return []uint32{EncodeParam(NextImmediate, 0), uint32(v)} }

// Stor encodes a direct register reference.
func Stor(slot int) []uint32 { return []uint32{EncodeParam(Storage, slot&0xff)} }

// Inline encodes a header-relative operand of type p with a word displacement.
func Inline(p ParamType, disp int) []uint32 {
	w := []uint32{EncodeParam(p, disp&0xffff)}
	if p.Width() == 2 {
		w = append(w, 0)
	}
	return w
}
