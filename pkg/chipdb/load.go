package chipdb

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/at45/pkg/dataflash"
)

// Load parses every path and returns their entries in order. Directories are
// walked recursively for *.chips files.
func Load(paths ...string) ([]dataflash.Chip, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}

	var out []dataflash.Chip
	add := func(path string) error {
		file, err := parser.ParseFile(path)
		if err != nil {
			return fmt.Errorf("chipdb: parse %s: %w", path, err)
		}
		entries, err := file.Entries()
		if err != nil {
			return fmt.Errorf("chipdb: %w", err)
		}
		out = append(out, entries...)
		return nil
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("chipdb: %w", err)
		}
		if !info.IsDir() {
			if err := add(path); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !isChipFile(p) {
				return nil
			}
			return add(p)
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func isChipFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".chips")
}
