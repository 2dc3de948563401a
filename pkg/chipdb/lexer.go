package chipdb

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ChipLexer tokenizes chip description files.
var ChipLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Shell style comments
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	{Name: "KwChip", Pattern: `(?i)\bchip\b`},

	{Name: "Hex", Pattern: `0[xX][0-9A-Fa-f]+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Semicolon", Pattern: `;`},
})
