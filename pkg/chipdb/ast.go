package chipdb

import "github.com/alecthomas/participle/v2/lexer"

// File is a parsed chip description file.
//
// Example:
//
//	# extra AT45 parts
//	chip 0x0100251F "Adesto AT45DB081E";
type File struct {
	Chips []*ChipDecl `@@*`
}

// ChipDecl declares one JEDEC ID to name mapping.
type ChipDecl struct {
	Pos lexer.Position

	ID   string `KwChip @Hex`
	Name string `@String Semicolon?`
}
