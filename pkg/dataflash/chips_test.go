package dataflash

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuiltinChips(t *testing.T) {
	want := []Chip{{JEDECID: 0x0100241F, Name: "Adesto AT45DB041E"}}
	if diff := cmp.Diff(want, Chips()); diff != "" {
		t.Fatalf("Chips mismatch (-want +got):\n%s", diff)
	}

	// Callers get a copy.
	c := Chips()
	c[0].Name = "changed"
	if Chips()[0].Name != "Adesto AT45DB041E" {
		t.Fatalf("built-in table was mutated through Chips()")
	}
}

func TestIdentifyVisitsInOrder(t *testing.T) {
	table := NewTable(
		Chip{JEDECID: 0x0100251F, Name: "Adesto AT45DB081E"},
		Chip{JEDECID: 0x0100261F, Name: "Adesto AT45DB161E"},
	)

	var visited []string
	chip, err := table.Identify(0x0100251F, func(c Chip) { visited = append(visited, c.Name) })
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if chip.Name != "Adesto AT45DB081E" {
		t.Fatalf("chip = %q", chip.Name)
	}
	if diff := cmp.Diff([]string{"Adesto AT45DB041E", "Adesto AT45DB081E"}, visited); diff != "" {
		t.Fatalf("visit order mismatch (-want +got):\n%s", diff)
	}
}

func TestIdentifyExhaustsTable(t *testing.T) {
	visits := 0
	_, err := NewTable().Identify(UnknownJEDECID, func(Chip) { visits++ })
	var unsupported *UnsupportedChipError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want *UnsupportedChipError", err)
	}
	if unsupported.ID != UnknownJEDECID {
		t.Fatalf("error ID = %s", unsupported.ID)
	}
	if visits != len(Chips()) {
		t.Fatalf("visited %d entries, want %d", visits, len(Chips()))
	}
}

func TestIdentifyFirstMatchWins(t *testing.T) {
	table := NewTable(Chip{JEDECID: 0x0100241F, Name: "duplicate"})
	chip, err := table.Identify(0x0100241F, nil)
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if chip.Name != "Adesto AT45DB041E" {
		t.Fatalf("chip = %q, want built-in entry first", chip.Name)
	}
}
