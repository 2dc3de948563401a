package dataflash

import "fmt"

// Chip maps a JEDEC ID to a display name.
type Chip struct {
	JEDECID JEDECID
	Name    string
}

// chips holds the built-in supported parts. Page size and status semantics
// are AT45 specific, so only parts listed here are driven.
var chips = [...]Chip{
	{JEDECID: 0x0100241F, Name: "Adesto AT45DB041E"},
}

// Chips returns a copy of the built-in table.
func Chips() []Chip {
	return append([]Chip(nil), chips[:]...)
}

// Table is an ordered chip list searched front to back.
type Table []Chip

// NewTable returns the built-in chips followed by extra.
func NewTable(extra ...Chip) Table {
	t := make(Table, 0, len(chips)+len(extra))
	t = append(t, chips[:]...)
	return append(t, extra...)
}

// UnsupportedChipError is returned when no table entry matches an ID.
type UnsupportedChipError struct {
	ID JEDECID
}

func (e *UnsupportedChipError) Error() string {
	return fmt.Sprintf("no supported chips found (id = 0x%08X)", uint32(e.ID))
}

// Identify scans the table in order for an exact match of id. visit, if not
// nil, is called for every entry checked.
func (t Table) Identify(id JEDECID, visit func(Chip)) (Chip, error) {
	for _, c := range t {
		if visit != nil {
			visit(c)
		}
		if c.JEDECID == id {
			return c, nil
		}
	}
	return Chip{}, &UnsupportedChipError{ID: id}
}
