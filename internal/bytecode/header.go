package bytecode

// Header is a decoded instruction header word.
type Header struct {
	Address     int
	Op          *Opcode
	HeaderParam int
	ParamCount  int
}

// CallTable reports how many callee indices a call header may name.
type CallTable interface {
	MethodCount() int
}

// DecodeHeader decodes the instruction at offset. It never fails loudly: ok
// is false when the offset is out of range, the opcode is unknown, a call
// names an index outside calls, the operand count disagrees with the opcode's
// fixed arity, or an opcode without a header sub-field carries one.
func DecodeHeader(c *Cursor, offset int, calls CallTable) (Header, bool) {
	word, ok := c.ReadWord(offset)
	if !ok {
		return Header{}, false
	}

	op, ok := Lookup(uint8(word))
	if !ok {
		return Header{}, false
	}

	sub := int(uint32(word) >> 16)
	count := int(uint32(word) >> 8 & 0xff)

	if op.Kind == KindCall {
		limit := 0
		if calls != nil {
			limit = calls.MethodCount()
		}
		if sub >= limit {
			return Header{}, false
		}
	} else if len(op.Params) != count {
		return Header{}, false
	}

	if !op.HasHeaderParam() && sub != 0 {
		return Header{}, false
	}

	return Header{Address: offset, Op: op, HeaderParam: sub, ParamCount: count}, true
}

// Encode packs a header word. It is the inverse of DecodeHeader and is used to
// synthesise scripts.
func Encode(code uint8, count, sub int) uint32 {
	return uint32(code) | uint32(count&0xff)<<8 | uint32(sub&0xffff)<<16
}

// EncodeParam packs an operand word from a tag and a 24-bit payload.
func EncodeParam(p ParamType, payload int) uint32 {
	return uint32(p)<<24 | uint32(payload)&0xffffff
}
