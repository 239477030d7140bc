// Package disasm recovers instructions, tables and text from event-script
// bytecode by recursively probing every reachable branch.
package disasm

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"evscript/internal/bytecode"
	"evscript/internal/meta"
	"evscript/internal/script"
)

// MaxEntrypoints bounds the leading entrypoint vector.
const MaxEntrypoints = 0x20

var (
	// ErrEmptyTable is returned when table discovery finds no valid entry.
	ErrEmptyTable = errors.New("empty table")
	// ErrStrict is returned by Strict when a run produced warnings.
	ErrStrict = errors.New("disassembly produced warnings")
)

// Options configures a run.
type Options struct {
	// ExtraBranches are probed after the entrypoints.
	ExtraBranches []int
	// TableLengths overrides the entry count of tables by address.
	TableLengths map[int]int
	// MaxProbes bounds the number of distinct branch origins. Zero means
	// unbounded.
	MaxProbes int
	// Logger receives progress and warnings. Nil discards them.
	Logger *log.Logger
}

// Disassembler turns a script image into a script.Script. It is not safe for
// concurrent use; each Disassemble call owns the instance until it returns.
type Disassembler struct {
	meta *meta.Meta
	opts Options
	log  *log.Logger

	cur          *bytecode.Cursor
	s            *script.Script
	budgetWarned bool
}

// New returns a disassembler resolving calls against m.
func New(m *meta.Meta, opts Options) *Disassembler {
	lg := opts.Logger
	if lg == nil {
		lg = log.New(io.Discard)
	}
	if m == nil {
		m = &meta.Meta{}
	}
	return &Disassembler{meta: m, opts: opts, log: lg}
}

// Disassemble partitions data into typed entries. Every slot of the returned
// script holds exactly one entry. The only error is ErrEmptyTable.
func (d *Disassembler) Disassemble(data []byte) (*script.Script, error) {
	d.cur = bytecode.NewCursor(data)
	d.s = script.New(d.cur.Words())
	d.budgetWarned = false

	d.readEntrypoints()

	for _, ep := range d.s.Entrypoints {
		if err := d.probeBranch(ep); err != nil {
			return nil, err
		}
	}

	d.reconcileTables()

	for _, addr := range d.opts.ExtraBranches {
		if err := d.probeBranch(addr); err != nil {
			return nil, err
		}
	}
	if len(d.opts.ExtraBranches) > 0 {
		d.reconcileTables()
	}

	for _, build := range d.s.BuildStrings {
		build()
	}

	d.fillStrings()
	d.fillData()

	d.log.Info("Probing complete",
		"words", len(d.s.Entries),
		"branches", len(d.s.Branches),
		"labels", len(d.s.Labels),
		"warnings", len(d.s.Warnings))

	return d.s, nil
}

func (d *Disassembler) readEntrypoints() {
	for i := 0; i < MaxEntrypoints && d.cur.HasMore(); i++ {
		dest := int(d.cur.CurrentWord())
		if !d.isValidOp(dest) {
			break
		}

		label := fmt.Sprintf("ENTRYPOINT_%d", i)
		d.s.Set(i*bytecode.WordSize, &script.EntryPoint{Addr: i * bytecode.WordSize, Label: label, Destination: dest})
		d.s.AddEntrypoint(dest)
		d.s.AddUniqueLabel(dest, label)
		d.cur.Advance()
	}
}

func (d *Disassembler) fillData() {
	for i, e := range d.s.Entries {
		if e == nil {
			addr := i * bytecode.WordSize
			d.s.Entries[i] = &script.RawWord{Addr: addr, Value: d.cur.WordAt(addr)}
		}
	}
}

func (d *Disassembler) warn(addr int, format string, args ...any) {
	w := d.s.Warn(addr, format, args...)
	d.log.Warn(w.Message, "addr", fmt.Sprintf("%#x", addr))
}

// Strict turns the first warning of s into an error.
func Strict(s *script.Script) error {
	if len(s.Warnings) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d warnings, first at %s", ErrStrict, len(s.Warnings), s.Warnings[0])
}
