// Package colorize highlights disassembly listings for the terminal.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
)

// Disabled reports whether EVSCRIPT_NO_COLOR turns highlighting off.
func Disabled() bool {
	return os.Getenv("EVSCRIPT_NO_COLOR") != ""
}

// getListingStyle returns the listing style with fallbacks
func getListingStyle() *chroma.Style {
	for _, name := range []string{"listing-dark", "dracula", "monokai"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Listing highlights a whole listing. On any failure the input is returned
// unchanged along with the error.
func Listing(code string) (string, error) {
	if Disabled() {
		return code, nil
	}

	iterator, err := Lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getListingStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Line highlights a single listing line, keeping its column layout.
func Line(line string) string {
	out, err := Listing(line)
	if err != nil {
		return line
	}
	// The lexer appends a newline, which the formatter may wrap in escapes.
	return strings.ReplaceAll(out, "\n", "")
}

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
