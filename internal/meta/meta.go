// Package meta describes the script callee table: names, operand types and
// branch annotations for every call index, plus per-script hint files.
package meta

import (
	"fmt"
	"strings"

	"evscript/internal/bytecode"
)

// Branch tells the disassembler how to treat an operand that holds code
// addresses.
type Branch string

const (
	BranchNone       Branch = "none"
	BranchJump       Branch = "jump"
	BranchSubroutine Branch = "subroutine"
	BranchForkJump   Branch = "fork_jump"
)

// Normalize folds case, maps the gosub alias and defaults to none.
func (b Branch) Normalize() Branch {
	s := Branch(strings.ToLower(strings.TrimSpace(string(b))))
	switch s {
	case "":
		return BranchNone
	case "gosub":
		return BranchSubroutine
	}
	return s
}

// IsNone reports whether the operand is not a branch.
func (b Branch) IsNone() bool { return b.Normalize() == BranchNone }

// Known reports whether the annotation is one the disassembler understands.
func (b Branch) Known() bool {
	switch b.Normalize() {
	case BranchNone, BranchJump, BranchSubroutine, BranchForkJump:
		return true
	}
	return false
}

// Param is one declared operand of a callee.
type Param struct {
	Name      string `yaml:"name" json:"name" jsonschema:"title=Name"`
	Type      string `yaml:"type" json:"type" jsonschema:"title=Type,description=Semantic type; string operands point at text and enum names select an enum table"`
	Direction string `yaml:"direction,omitempty" json:"direction,omitempty" jsonschema:"enum=in,enum=out,enum=both,default=in"`
	Branch    Branch `yaml:"branch,omitempty" json:"branch,omitempty" jsonschema:"enum=none,enum=jump,enum=subroutine,enum=gosub,enum=fork_jump,default=none"`
}

// Dir returns the operand direction.
func (p Param) Dir() bytecode.Direction { return bytecode.ParseDirection(p.Direction) }

// IsString reports whether the operand addresses text.
func (p Param) IsString() bool { return strings.EqualFold(p.Type, "string") }

func (p Param) String() string {
	s := p.Dir().String() + " " + p.Type + " " + p.Name
	if !p.Branch.IsNone() {
		s += " (" + string(p.Branch.Normalize()) + ")"
	}
	return s
}

// Method is one callee.
type Method struct {
	Name        string  `yaml:"name" json:"name" jsonschema:"title=Name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Params      []Param `yaml:"params,omitempty" json:"params,omitempty"`
}

// Meta is one version of the callee table.
type Meta struct {
	Version string              `yaml:"version,omitempty" json:"version,omitempty" jsonschema:"title=Version"`
	Methods []Method            `yaml:"methods" json:"methods" jsonschema:"title=Methods,description=Callees indexed by position"`
	Enums   map[string][]string `yaml:"enums,omitempty" json:"enums,omitempty" jsonschema:"title=Enums,description=Names for immediate operands keyed by operand type"`
}

// MethodCount returns how many callee indices are valid.
func (m *Meta) MethodCount() int {
	if m == nil {
		return 0
	}
	return len(m.Methods)
}

// Method returns the callee at index.
func (m *Meta) Method(index int) (*Method, bool) {
	if m == nil || index < 0 || index >= len(m.Methods) {
		return nil, false
	}
	return &m.Methods[index], true
}

// Param returns operand i of callee index. Operands beyond the declared list
// are plain inputs.
func (m *Meta) Param(index, i int) Param {
	method, ok := m.Method(index)
	if !ok || i < 0 || i >= len(method.Params) {
		return Param{Name: fmt.Sprintf("p%d", i), Type: "int"}
	}
	return method.Params[i]
}

// EnumName resolves an immediate of an enum-typed operand.
func (m *Meta) EnumName(typ string, v int32) (string, bool) {
	if m == nil {
		return "", false
	}
	values, ok := m.Enums[typ]
	if !ok || v < 0 || int(v) >= len(values) {
		return "", false
	}
	return values[v], true
}
