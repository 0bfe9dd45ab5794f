package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DocumentFile is a JSON array document on disk. It is the persistence
// adapter for the json storage driver: the whole collection is read at open
// and rewritten after each mutation.
type DocumentFile struct {
	path string
}

func NewDocumentFile(path string) *DocumentFile {
	return &DocumentFile{path: path}
}

func (f *DocumentFile) Path() string {
	return f.path
}

// ReadRecords returns the raw records of the document. A missing file is an
// empty database, not an error. Records are returned undecoded so the caller
// can reject malformed ones individually.
func (f *DocumentFile) ReadRecords() ([]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return records, nil
}

// WriteRecords replaces the document with the given collection. The write is
// atomic: a temp file in the same directory is renamed over the target, so a
// crash never leaves a half-written database.
func (f *DocumentFile) WriteRecords(records any) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calctl-db-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}
