package disasm

import (
	"fmt"

	"evscript/internal/bytecode"
	"evscript/internal/script"
)

// reconcileTables truncates every table whose span runs into a slot another
// pass claimed, or into a slot some label points at, then claims the body
// slots that remain. Truncated labels lose a reference and disappear once
// unreferenced; the freed slots are left for the later passes. Running it
// again after extra branches only shortens tables.
func (d *Disassembler) reconcileTables() {
	entries := d.s.Entries
	for head, e := range entries {
		pt, ok := e.(*script.PointerTable)
		if !ok || pt.Addr != head*bytecode.WordSize {
			continue
		}

		for n := 1; n < len(pt.Labels); n++ {
			slot := head + n
			other := entries[slot]
			_, raw := other.(*script.RawWord)
			if (other == nil || other == script.Entry(pt) || raw) && !d.s.HasLabel(slot*bytecode.WordSize) {
				continue
			}

			d.warn(pt.Addr, "Jump table overrun at %#x into %#x", pt.Addr, slot*bytecode.WordSize)
			d.log.Debug("Truncating table", "table", fmt.Sprintf("%#x", pt.Addr), "from", len(pt.Labels), "to", n)

			for _, name := range pt.Labels[n:] {
				d.s.ReleaseLabel(name)
			}
			pt.Labels = pt.Labels[:n:n]
			break
		}

		for n := 1; n < len(pt.Labels); n++ {
			entries[head+n] = pt
		}
		for s := head + max(1, len(pt.Labels)); s < len(entries) && entries[s] == script.Entry(pt); s++ {
			entries[s] = nil
		}
	}
}
