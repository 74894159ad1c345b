package discover

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/kpackage-labs/kpackage/internal/metadata"
)

// IndexFileName is the fixed name of the precomputed metadata index at the
// root of a plugin or package directory. The payload is a binary-encoded
// ordered array of record objects, not textual JSON, despite the name — the
// name is part of the on-disk contract.
const IndexFileName = "kpluginindex.json"

// HasIndex reports whether dir carries a metadata index file.
func HasIndex(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, IndexFileName))
	return err == nil && !info.IsDir()
}

// ReadIndex decodes the metadata index in dir into records, preserving entry
// order. Entries failing required-field validation are dropped.
func ReadIndex(dir string) ([]metadata.Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	if err != nil {
		return nil, fmt.Errorf("reading index in %s: %w", dir, err)
	}

	var objs []map[string]any
	if err := msgpack.Unmarshal(data, &objs); err != nil {
		return nil, fmt.Errorf("decoding index in %s: %w", dir, err)
	}

	var records []metadata.Record
	for _, obj := range objs {
		r := metadata.FromIndexObject(obj)
		if r.Valid() {
			records = append(records, r)
		}
	}
	return records, nil
}

// WriteIndex scans dir for descriptor files and writes the resulting records
// as a fresh index file at the directory root. An existing index is replaced.
func WriteIndex(dir string) (int, error) {
	records, err := Scan(dir)
	if err != nil {
		return 0, err
	}

	objs := make([]map[string]any, 0, len(records))
	for _, r := range records {
		objs = append(objs, r.IndexObject())
	}

	data, err := msgpack.Marshal(objs)
	if err != nil {
		return 0, fmt.Errorf("encoding index for %s: %w", dir, err)
	}

	path := filepath.Join(dir, IndexFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("writing index %s: %w", path, err)
	}
	return len(records), nil
}
