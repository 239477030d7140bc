// Package bytecode decodes the word-oriented event-script format: a cursor
// over little-endian words, the opcode catalog and the operand encodings.
package bytecode

import "encoding/binary"

// WordSize is the width of every addressable slot in a script.
const WordSize = 4

// Cursor is an addressable view over a script as 32-bit little-endian words.
// The header offset tracks the instruction currently being decoded, the
// current offset tracks the next word to read.
type Cursor struct {
	data    []byte
	header  int
	current int
}

// Mark is a saved cursor position.
type Mark struct {
	header  int
	current int
}

// NewCursor wraps data. A trailing partial word is ignored.
func NewCursor(data []byte) *Cursor {
	n := len(data) &^ (WordSize - 1)
	return &Cursor{data: data[:n]}
}

// Len returns the script length in bytes.
func (c *Cursor) Len() int { return len(c.data) }

// Words returns the number of word slots.
func (c *Cursor) Words() int { return len(c.data) / WordSize }

// InBounds reports whether a full word can be read at offset.
func (c *Cursor) InBounds(offset int) bool {
	return offset >= 0 && offset <= len(c.data)-WordSize
}

// WordAt returns the word at a byte offset, or 0 when the offset is out of
// bounds.
func (c *Cursor) WordAt(offset int) int32 {
	if !c.InBounds(offset) {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(c.data[offset:]))
}

// ReadWord is WordAt with an explicit bounds result.
func (c *Cursor) ReadWord(offset int) (int32, bool) {
	if !c.InBounds(offset) {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(c.data[offset:])), true
}

// CurrentWord returns the word under the cursor.
func (c *Cursor) CurrentWord() int32 { return c.WordAt(c.current) }

// HeaderWord returns the word at the header offset.
func (c *Cursor) HeaderWord() int32 { return c.WordAt(c.header) }

// HasMore reports whether a word remains at the current offset.
func (c *Cursor) HasMore() bool { return c.InBounds(c.current) }

// Jump moves both offsets to an absolute address.
func (c *Cursor) Jump(offset int) {
	c.header = offset
	c.current = offset
}

// Step starts a new instruction at the current offset.
func (c *Cursor) Step() { c.header = c.current }

// Advance moves the current offset forward by n words (one if n is omitted).
func (c *Cursor) Advance(n ...int) {
	words := 1
	if len(n) > 0 {
		words = n[0]
	}
	c.current += words * WordSize
}

// HeaderOffset returns the address of the instruction being decoded.
func (c *Cursor) HeaderOffset() int { return c.header }

// CurrentOffset returns the address of the next word to read.
func (c *Cursor) CurrentOffset() int { return c.current }

// Save captures both offsets.
func (c *Cursor) Save() Mark { return Mark{header: c.header, current: c.current} }

// Restore rewinds to a saved position.
func (c *Cursor) Restore(m Mark) {
	c.header = m.header
	c.current = m.current
}
