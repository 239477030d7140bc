package script

import (
	"fmt"
	"slices"

	"evscript/internal/bytecode"
	"evscript/internal/resolve"
)

// Unbounded marks a string whose extent is found by scanning for its
// terminator.
const Unbounded = -1

// AddrSet is a set of byte addresses.
type AddrSet map[int]struct{}

// Add inserts addr and reports whether it was new.
func (s AddrSet) Add(addr int) bool {
	if _, ok := s[addr]; ok {
		return false
	}
	s[addr] = struct{}{}
	return true
}

// Has reports membership.
func (s AddrSet) Has(addr int) bool {
	_, ok := s[addr]
	return ok
}

// Sorted returns the members in ascending order.
func (s AddrSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// Warning is a soft failure recorded during a run.
type Warning struct {
	Address int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%06x: %s", w.Address, w.Message)
}

// StringInfo is a pending text run.
type StringInfo struct {
	Start    int
	MaxChars int
}

// Script is the slot array and everything discovered about it.
type Script struct {
	Entries []Entry

	// Entrypoints lists unique entrypoint destinations in vector order.
	Entrypoints []int
	// AllEntrypoints lists every vector destination, duplicates included.
	AllEntrypoints []int

	Branches       AddrSet
	Subs           AddrSet
	SubTables      AddrSet
	Reentries      AddrSet
	ForkJumps      AddrSet
	JumpTableDests AddrSet

	Labels     map[int][]string
	LabelUsage map[string]int
	labelCount int

	// BuildStrings runs after table geometry is final.
	BuildStrings []func()
	Strings      []StringInfo

	Warnings  []Warning
	Edges     []Edge
	Registers resolve.Stack
}

// New allocates a script of the given number of word slots.
func New(words int) *Script {
	return &Script{
		Entries:        make([]Entry, words),
		Branches:       AddrSet{},
		Subs:           AddrSet{},
		SubTables:      AddrSet{},
		Reentries:      AddrSet{},
		ForkJumps:      AddrSet{},
		JumpTableDests: AddrSet{},
		Labels:         map[int][]string{},
		LabelUsage:     map[string]int{},
	}
}

// Len returns the script size in bytes.
func (s *Script) Len() int { return len(s.Entries) * bytecode.WordSize }

// At returns the entry covering addr, or nil.
func (s *Script) At(addr int) Entry {
	i := addr / bytecode.WordSize
	if addr < 0 || i >= len(s.Entries) {
		return nil
	}
	return s.Entries[i]
}

// Set stores e in the slot covering addr.
func (s *Script) Set(addr int, e Entry) {
	i := addr / bytecode.WordSize
	if addr < 0 || i >= len(s.Entries) {
		return
	}
	s.Entries[i] = e
}

// AddEntrypoint records a vector destination.
func (s *Script) AddEntrypoint(addr int) {
	s.AllEntrypoints = append(s.AllEntrypoints, addr)
	if !slices.Contains(s.Entrypoints, addr) {
		s.Entrypoints = append(s.Entrypoints, addr)
	}
}

// AddLabel returns the first label already at addr, bumping its usage,
// or registers name there.
func (s *Script) AddLabel(addr int, name string) string {
	if names := s.Labels[addr]; len(names) > 0 {
		s.LabelUsage[names[0]]++
		return names[0]
	}
	s.Labels[addr] = append(s.Labels[addr], name)
	s.LabelUsage[name]++
	s.labelCount++
	return name
}

// AddUniqueLabel registers name at addr even when other labels exist there.
func (s *Script) AddUniqueLabel(addr int, name string) string {
	s.Labels[addr] = append(s.Labels[addr], name)
	s.LabelUsage[name]++
	s.labelCount++
	return name
}

// ReleaseLabel drops one reference to name. The label disappears from every
// address once nothing references it; removed reports whether that happened.
func (s *Script) ReleaseLabel(name string) (removed bool) {
	if s.LabelUsage[name] > 1 {
		s.LabelUsage[name]--
		return false
	}
	delete(s.LabelUsage, name)
	for addr, names := range s.Labels {
		names = slices.DeleteFunc(names, func(n string) bool { return n == name })
		if len(names) == 0 {
			delete(s.Labels, addr)
		} else {
			s.Labels[addr] = names
		}
	}
	return true
}

// HasLabel reports whether any label points at addr.
func (s *Script) HasLabel(addr int) bool { return len(s.Labels[addr]) > 0 }

// LabelCount returns how many labels were ever registered. It names new
// inline labels, so it never decreases.
func (s *Script) LabelCount() int { return s.labelCount }

// Warn records a soft failure.
func (s *Script) Warn(addr int, format string, args ...any) Warning {
	w := Warning{Address: addr, Message: fmt.Sprintf(format, args...)}
	s.Warnings = append(s.Warnings, w)
	return w
}

// AddEdge records a followed control transfer.
func (s *Script) AddEdge(from, to int, kind EdgeKind) {
	s.Edges = append(s.Edges, Edge{From: from, To: to, Kind: kind})
}

// Unassigned returns the addresses of slots that hold no entry.
func (s *Script) Unassigned() []int {
	var out []int
	for i, e := range s.Entries {
		if e == nil {
			out = append(out, i*bytecode.WordSize)
		}
	}
	return out
}
