// Package chipdb loads additional chip table entries from description files.
package chipdb

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/OpenTraceLab/at45/pkg/dataflash"
	"github.com/alecthomas/participle/v2"
)

// Parser reads chip description files.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new chip file parser.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(ChipLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a chip file from r. name is used in error positions.
func (p *Parser) Parse(name string, r io.Reader) (*File, error) {
	f, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseString parses a chip file held in memory.
func (p *Parser) ParseString(input string) (*File, error) {
	f, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseFile parses the chip file at path.
func (p *Parser) ParseFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(path, file)
}

// Entries converts the declarations into table entries.
func (f *File) Entries() ([]dataflash.Chip, error) {
	out := make([]dataflash.Chip, 0, len(f.Chips))
	for _, decl := range f.Chips {
		id, err := strconv.ParseUint(decl.ID[2:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid JEDEC ID %s: %w", decl.Pos, decl.ID, err)
		}
		if decl.Name == "" {
			return nil, fmt.Errorf("%s: chip %s has an empty name", decl.Pos, decl.ID)
		}
		out = append(out, dataflash.Chip{JEDECID: dataflash.JEDECID(id), Name: decl.Name})
	}
	return out, nil
}
