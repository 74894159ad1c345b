package discover

import (
	"os"
	"path/filepath"

	"github.com/kpackage-labs/kpackage/internal/metadata"
)

// Scan walks dir recursively and parses every metadata.desktop descriptor
// found, in walk order. Descriptors that fail to parse or that lack required
// fields are silently dropped. A missing or unreadable directory yields an
// empty result, not an error.
func Scan(dir string) ([]metadata.Record, error) {
	var records []metadata.Record

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if d.IsDir() || d.Name() != metadata.DescriptorFileName {
			return nil
		}

		r, parseErr := metadata.ParseDesktop(path)
		if parseErr != nil || !r.Valid() {
			return nil
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// List returns the records for dir, trusting an index file when one exists
// and falling back to a live scan otherwise.
func List(dir string) []metadata.Record {
	if HasIndex(dir) {
		records, err := ReadIndex(dir)
		if err != nil {
			return nil
		}
		return records
	}

	records, err := Scan(dir)
	if err != nil {
		return nil
	}
	return records
}
