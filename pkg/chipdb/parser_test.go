package chipdb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/at45/pkg/dataflash"
	"github.com/google/go-cmp/cmp"
)

const sample = `
# Larger AT45 parts share the command set.
chip 0x0100251F "Adesto AT45DB081E";
CHIP 0x0100261f "Adesto AT45DB161E"   # trailing comment
`

func TestParseString(t *testing.T) {
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	file, err := parser.ParseString(sample)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(file.Chips) != 2 {
		t.Fatalf("Expected 2 chips, got %d", len(file.Chips))
	}

	got, err := file.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	want := []dataflash.Chip{
		{JEDECID: 0x0100251F, Name: "Adesto AT45DB081E"},
		{JEDECID: 0x0100261F, Name: "Adesto AT45DB161E"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	if _, err := parser.ParseString(`chip "missing id";`); err == nil {
		t.Errorf("expected parse error for missing ID")
	}

	file, err := parser.ParseString(`chip 0x1FFFFFFFF "too wide";`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if _, err := file.Entries(); err == nil || !strings.Contains(err.Error(), "invalid JEDEC ID") {
		t.Errorf("Entries error = %v, want invalid JEDEC ID", err)
	}

	file, err = parser.ParseString(`chip 0x1 "";`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if _, err := file.Entries(); err == nil {
		t.Errorf("expected error for empty name")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "at45.chips"), []byte(sample), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("not a chip file"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	chips, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(chips) != 2 {
		t.Fatalf("Load returned %d chips, want 2", len(chips))
	}

	table := dataflash.NewTable(chips...)
	if chip, err := table.Identify(0x0100261F, nil); err != nil || chip.Name != "Adesto AT45DB161E" {
		t.Fatalf("Identify = %+v, %v", chip, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.chips")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if chips, err := Load(); err != nil || chips != nil {
		t.Fatalf("Load() = %v, %v; want nil, nil", chips, err)
	}
}
