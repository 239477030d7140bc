package meta

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Hints carries per-script corrections for a disassembly run.
type Hints struct {
	// ExtraBranches are probed after the entrypoints even if nothing reaches
	// them.
	ExtraBranches []int `yaml:"extra_branches,omitempty" json:"extra_branches,omitempty" jsonschema:"title=Extra branches,description=Addresses to probe as code"`
	// TableLengths overrides the discovered entry count of the table at
	// each address.
	TableLengths map[int]int `yaml:"table_lengths,omitempty" json:"table_lengths,omitempty" jsonschema:"title=Table lengths,description=Entry count by table address"`
}

// LoadHints reads a hints file.
func LoadHints(path string) (*Hints, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var h Hints
	if err := yaml.Unmarshal(b, &h); err != nil {
		return nil, fmt.Errorf("%s: decode hints: %w", path, err)
	}
	return &h, nil
}
