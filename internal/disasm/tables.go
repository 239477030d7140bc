package disasm

import (
	"fmt"
	"slices"

	"evscript/internal/bytecode"
	"evscript/internal/resolve"
	"evscript/internal/script"
)

const (
	// terminator ends a text run.
	terminator = 0xa0ff
	// terminatorScan bounds the search for a terminator, in words.
	terminatorScan = 300
)

// lengthFunc decides whether entry i at entryAddr still belongs to a table,
// given the destination envelope seen so far.
type lengthFunc func(i, entryAddr, earliest, latest int) bool

// tableLength picks the length rule for a table: an explicit override, then a
// bounded index register, then sign consistency. The sign rule stops once a
// forward pointer would start inside the destinations already seen, or a
// backward pointer would start before them. It misjudges tables that mix
// forward and backward pointers.
func (d *Disassembler) tableLength(table int, index resolve.Value) lengthFunc {
	if n, ok := d.opts.TableLengths[table]; ok {
		return func(i, _, _, _ int) bool { return i < n }
	}
	if index.IsRange() {
		n := int(index.Max())
		return func(i, _, _, _ int) bool { return i < n }
	}
	return func(_, entryAddr, earliest, latest int) bool {
		if d.cur.WordAt(entryAddr) > 0 {
			return entryAddr < earliest
		}
		return entryAddr > latest
	}
}

func (d *Disassembler) relative(table, entryAddr int) int {
	return table + int(d.cur.WordAt(entryAddr))*bytecode.WordSize
}

// probeTableOfTables discovers a table whose entries address further branch
// tables.
func (d *Disassembler) probeTableOfTables(dests script.AddrSet, table int, index resolve.Value) error {
	accept := func(sub int) bool { return !d.looksLikeCode(sub) }
	visit := func(sub int) error {
		d.s.AddEdge(table, sub, script.EdgeTable)
		return d.probeTableOfBranches(dests, sub, resolve.Unknown())
	}
	return d.probeTable(table, accept, visit, index)
}

// probeTableOfBranches discovers a table of code addresses and probes them.
func (d *Disassembler) probeTableOfBranches(dests script.AddrSet, table int, index resolve.Value) error {
	visit := func(dest int) error {
		dests.Add(dest)
		return d.follow(table, dest, script.EdgeTable)
	}
	return d.probeTable(table, d.isValidOp, visit, index)
}

// probeTable claims the head of the table at table, labels its destinations
// and visits each distinct destination from the highest address down, so that
// later tables claim their heads before earlier ones can overrun them. The
// body slots stay open until reconcileTables.
func (d *Disassembler) probeTable(table int, accept func(int) bool, visit func(int) error, index resolve.Value) error {
	if !d.s.SubTables.Add(table) {
		return nil
	}

	within := d.tableLength(table, index)
	earliest, latest := d.cur.Len(), 0

	var (
		destinations []int
		labels       []string
	)
	for entry, i := table, 0; d.cur.InBounds(entry) &&
		d.s.At(entry) == nil &&
		within(i, entry, earliest, latest) &&
		(!d.looksLikeCode(entry) || d.isValidOp(d.relative(table, entry))); entry, i = entry+bytecode.WordSize, i+1 {
		dest := d.relative(table, entry)
		if dest < bytecode.WordSize || dest > d.cur.Len()-bytecode.WordSize {
			break
		}
		if !accept(dest) {
			break
		}

		earliest = min(earliest, dest)
		latest = max(latest, dest)

		destinations = append(destinations, dest)
		labels = append(labels, d.s.AddLabel(dest, fmt.Sprintf("JMP_%x_%d", table, len(labels))))
	}

	if len(labels) == 0 {
		return fmt.Errorf("%w at %#x", ErrEmptyTable, table)
	}

	d.s.Set(table, &script.PointerTable{Addr: table, Original: d.cur.WordAt(table), Labels: labels})
	d.log.Debug("Discovered table", "table", fmt.Sprintf("%#x", table), "entries", len(labels))

	slices.Sort(destinations)
	destinations = slices.Compact(destinations)
	for i := len(destinations) - 1; i >= 0; i-- {
		if err := visit(destinations[i]); err != nil {
			return err
		}
	}
	return nil
}

// handlePointerTable claims a table of relative pointers named by an
// instruction operand that is not a branch. Text tables accept entries that
// decode as code as long as their destination reaches a terminator.
func (d *Disassembler) handlePointerTable(ins *script.Instruction, paramIndex, table int, index resolve.Value) {
	if table < 0 || table >= d.s.Len() {
		d.warn(ins.Addr, "%s param %d points to invalid pointer table %#x", ins.Op.Name, paramIndex, table)
		return
	}
	if d.s.At(table) != nil {
		return
	}

	text := ins.Op.Kind == bytecode.KindCall && d.meta.Param(ins.HeaderParam, paramIndex).IsString()
	within := d.tableLength(table, index)
	earliest, latest := d.cur.Len(), 0

	var destinations []int
	for entry, i := table, 0; d.cur.InBounds(entry) && d.s.At(entry) == nil && within(i, entry, earliest, latest); entry, i = entry+bytecode.WordSize, i+1 {
		dest := d.relative(table, entry)

		if d.looksLikeCode(entry) && (!text || !d.terminatorAhead(dest)) {
			break
		}
		if dest < 0 || dest >= d.cur.Len()-bytecode.WordSize {
			break
		}

		earliest = min(earliest, dest)
		latest = max(latest, dest)
		destinations = append(destinations, dest)
	}

	labels := make([]string, len(destinations))
	for i, dest := range destinations {
		labels[i] = d.s.AddLabel(dest, fmt.Sprintf("PTR_%x_%d", table, i))
	}

	pt := &script.PointerTable{Addr: table, Original: d.cur.WordAt(table), Labels: labels}
	d.s.Set(table, pt)

	if text {
		d.s.BuildStrings = append(d.s.BuildStrings, func() {
			d.tableStrings(pt, destinations)
		})
	}
}

// terminatorAhead scans unclaimed words from addr for a text terminator.
func (d *Disassembler) terminatorAhead(addr int) bool {
	if addr < 0 {
		return false
	}
	start := addr / bytecode.WordSize
	for i := start; i < start+terminatorScan; i++ {
		if i >= len(d.s.Entries) || d.s.Entries[i] != nil {
			return false
		}
		w := uint32(d.cur.WordAt(i * bytecode.WordSize))
		if w&0xffff == terminator || w>>16 == terminator {
			return true
		}
	}
	return false
}
