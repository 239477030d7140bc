package disasm

import (
	"cmp"
	"slices"

	"evscript/internal/bytecode"
	"evscript/internal/script"
)

// tableStrings queues one text run per live destination of a text table.
// Each run is bounded by the next distinct destination.
func (d *Disassembler) tableStrings(pt *script.PointerTable, destinations []int) {
	if len(destinations) > len(pt.Labels) {
		destinations = destinations[:len(pt.Labels)]
	}
	sorted := slices.Clone(destinations)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	for i, start := range sorted {
		limit := script.Unbounded
		if i < len(sorted)-1 {
			limit = (sorted[i+1] - start) / 2
		}
		d.s.Strings = append(d.s.Strings, script.StringInfo{Start: start, MaxChars: limit})
	}
}

// fillStrings materialises queued text runs in address order. A run never
// overwrites a claimed slot.
func (d *Disassembler) fillStrings() {
	pending := slices.Clone(d.s.Strings)
	slices.SortStableFunc(pending, func(a, b script.StringInfo) int { return cmp.Compare(a.Start, b.Start) })
	pending = slices.CompactFunc(pending, func(a, b script.StringInfo) bool { return a.Start == b.Start })

	for _, str := range pending {
		d.fillString(str.Start, str.MaxChars)
	}
}

func (d *Disassembler) fillString(addr, maxChars int) {
	if addr < 0 || addr >= d.s.Len() || d.s.At(addr) != nil {
		return
	}

	limit := (d.s.Len() - addr) / 2
	if maxChars != script.Unbounded && maxChars < limit {
		limit = maxChars
	}

	run := &script.TextRun{Addr: addr}
	for i := 0; i < limit; i++ {
		slot := addr + i/2*bytecode.WordSize
		if i > 0 && i%2 == 0 && d.s.At(slot) != nil {
			break
		}
		chr := uint16(uint32(d.cur.WordAt(slot)) >> (uint(i%2) * 16))
		if chr == terminator {
			run.Terminated = true
			break
		}
		run.Chars = append(run.Chars, chr)
	}

	for i := range run.Slots() {
		slot := addr + i*bytecode.WordSize
		if slot < d.s.Len() && d.s.At(slot) == nil {
			d.s.Set(slot, run)
		}
	}
}
