package bytecode

import "fmt"

// ParamType is an operand encoding, selected by the high byte of the
// operand's first word.
type ParamType uint8

const (
	Immediate          ParamType = 0x00
	NextImmediate      ParamType = 0x01
	Storage            ParamType = 0x02
	OtherOtherStorage  ParamType = 0x03
	OtherStorageOffset ParamType = 0x04
	Gamevar1           ParamType = 0x05
	Gamevar2           ParamType = 0x06
	GamevarArray1      ParamType = 0x07
	GamevarArray2      ParamType = 0x08
	Inline1            ParamType = 0x09
	Inline2            ParamType = 0x0a
	InlineTable1       ParamType = 0x0b
	InlineTable2       ParamType = 0x0c
	OtherStorage       ParamType = 0x0d
	Gamevar3           ParamType = 0x0e
	GamevarArray3      ParamType = 0x0f
	GamevarArray4      ParamType = 0x10
	GamevarArray5      ParamType = 0x11
	Reserved12         ParamType = 0x12
	Inline3            ParamType = 0x13
	InlineTable3       ParamType = 0x14
	Reserved15         ParamType = 0x15
	Reserved16         ParamType = 0x16
	InlineTable4       ParamType = 0x17
)

var paramNames = [...]string{
	"immediate", "next_immediate", "storage", "other_other_storage",
	"other_storage_offset", "gamevar_1", "gamevar_2", "gamevar_array_1",
	"gamevar_array_2", "inline_1", "inline_2", "inline_table_1",
	"inline_table_2", "other_storage", "gamevar_3", "gamevar_array_3",
	"gamevar_array_4", "gamevar_array_5", "reserved_12", "inline_3",
	"inline_table_3", "reserved_15", "reserved_16", "inline_table_4",
}

func (p ParamType) String() string {
	if int(p) < len(paramNames) {
		return paramNames[p]
	}
	return fmt.Sprintf("param_%02x", uint8(p))
}

// ParamTypeOf classifies an operand word by its tag byte. Tags outside the
// catalog are plain immediates carrying the whole word, which is how negative
// immediates appear in the stream.
func ParamTypeOf(word int32) ParamType {
	tag := ParamType(uint32(word) >> 24)
	if int(tag) >= len(paramNames) {
		return Immediate
	}
	return tag
}

// Width returns the number of words the encoding occupies.
func (p ParamType) Width() int {
	switch p {
	case NextImmediate, InlineTable2, InlineTable4:
		return 2
	}
	return 1
}

// IsInline reports whether the operand is an address relative to the header
// of the owning instruction.
func (p ParamType) IsInline() bool {
	switch p {
	case Inline1, Inline2, InlineTable1, InlineTable2, Inline3, InlineTable3, InlineTable4:
		return true
	}
	return false
}

// IsPointerTable reports whether a call operand of this encoding addresses a
// table of relative pointers.
func (p ParamType) IsPointerTable() bool {
	switch p {
	case Inline2, InlineTable1, InlineTable2, InlineTable3, InlineTable4:
		return true
	}
	return false
}

// IsNestedTable reports whether a dispatch table operand addresses a table
// of tables.
func (p ParamType) IsNestedTable() bool {
	switch p {
	case InlineTable1, InlineTable2, InlineTable3, InlineTable4:
		return true
	}
	return false
}

// IsStorage reports whether the operand names a register slot directly.
func (p ParamType) IsStorage() bool { return p == Storage }

// StorageIndex extracts the register slot of a storage operand.
func StorageIndex(word int32) int { return int(word & 0xff) }

// InlineTarget computes the destination of an inline operand whose first word
// is word and whose owning header sits at header. ok is false for encodings
// that are not inline.
func InlineTarget(p ParamType, header int, word int32) (int, bool) {
	disp := int(int16(word))
	switch p {
	case Inline1, Inline2, InlineTable1, InlineTable3:
		return header + disp*WordSize, true
	case InlineTable2, InlineTable4:
		return header + WordSize, true
	case Inline3:
		return header + (disp+int(uint32(word)>>16&0xff))*WordSize, true
	}
	return 0, false
}
