package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Lexer tokenises the listing syntax: six digit addresses, label lines,
// mnemonics, operand expressions and trailing comments.
var Lexer = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:      "evscript",
		Aliases:   []string{"evs"},
		Filenames: []string{"*.evs"},
		EnsureNL:  true,
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `;[^\n]*`, Type: chroma.Comment},
				{Pattern: `str\[[^\]\n]*\]`, Type: chroma.String},
				{Pattern: `[0-9a-f]{6}(?= )`, Type: chroma.NameAttribute},
				{Pattern: `[A-Za-z_][A-Za-z0-9_]*:(?=\n)`, Type: chroma.NameLabel},
				{Pattern: `:[A-Za-z_][A-Za-z0-9_]*`, Type: chroma.NameLabel},
				{Pattern: `0x[0-9a-fA-F]+`, Type: chroma.LiteralNumberHex},
				{Pattern: `\b(stor|var|inl)\b`, Type: chroma.NameBuiltin},
				{Pattern: `[A-Za-z_][A-Za-z0-9_]*`, Type: chroma.Keyword},
				{Pattern: `-?\d+`, Type: chroma.LiteralNumberInteger},
				{Pattern: `[<>=!&]+`, Type: chroma.Operator},
				{Pattern: `[\[\],+]`, Type: chroma.Punctuation},
				{Pattern: `\s+`, Type: chroma.Text},
				{Pattern: `.`, Type: chroma.Text},
			},
		}
	},
))

// Listing palette, shared with the summary markdown style.
const (
	ColorText       = "#FFFFFF"
	ColorBackground = "#1e1e1e"
	ColorComment    = "#6A9955"
	ColorAddress    = "#4F4F4F"
	ColorRegister   = "#7C9C9D"
	ColorLabel      = "#FFD700"
	ColorNumber     = "#FF5F87"
	ColorString     = "#EACD53"
)

// ListingDark matches the listing tokens to the viewer palette.
var ListingDark = styles.Register(chroma.MustNewStyle("listing-dark", chroma.StyleEntries{
	chroma.Text:       ColorText,
	chroma.Background: "bg:" + ColorBackground,
	chroma.Comment:    ColorComment,

	chroma.NameAttribute: ColorAddress,  // addresses
	chroma.Keyword:       ColorText,     // mnemonics and call names
	chroma.NameBuiltin:   ColorRegister, // stor, var, inl
	chroma.NameLabel:     ColorLabel,

	chroma.LiteralNumberHex:     ColorNumber,
	chroma.LiteralNumberInteger: ColorNumber,

	chroma.Operator:    ColorText,
	chroma.Punctuation: ColorText,

	chroma.String: ColorString,
}))
