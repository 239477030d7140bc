package cmd

import (
	"fmt"
	"os"
	pathpkg "path/filepath"
	"strings"
)

// summaryMarkdown describes a run for the summary view.
func summaryMarkdown(r *result) string {
	relPath := r.Path
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := pathpkg.Rel(cwd, r.Path); err == nil {
			relPath = rel
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# evscript\n\n```evscript\n; %s\n; %s\n; %d bytes, meta %s\n```\n\n",
		relPath, r.Digest, r.Size, metaVersion(r.Meta))

	s := r.Script
	sb.WriteString("## Summary\n\n| Item | Count |\n|---|---|\n")
	rows := []struct {
		name string
		n    int
	}{
		{"words", len(s.Entries)},
		{"entrypoints", len(s.Entrypoints)},
		{"branches", len(s.Branches)},
		{"subroutines", len(s.Subs)},
		{"tables", len(s.SubTables)},
		{"fork re-entries", len(s.Reentries)},
		{"labels", s.LabelCount()},
		{"strings", len(s.Strings)},
		{"warnings", len(s.Warnings)},
	}
	for _, row := range rows {
		fmt.Fprintf(&sb, "| %s | %d |\n", row.name, row.n)
	}

	if len(s.Warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, w := range s.Warnings {
			fmt.Fprintf(&sb, "- `%06x` %s\n", w.Address, escapeBackticks(w.Message))
		}
	}
	return sb.String()
}

func escapeBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
