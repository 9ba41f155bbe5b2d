package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// File is a Backend storing each key as a JSON file in a directory.
// Values are written to a temporary file and renamed into place, so a
// crash mid-write leaves the previous value intact.
type File struct {
	dir string
}

// NewFile creates a file backend in dir, creating it if needed.
// An empty dir selects [DefaultDir].
func NewFile(dir string) (*File, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &File{dir: dir}, nil
}

// fileEntry wraps stored data with metadata.
type fileEntry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data,omitempty"`
	Raw       []byte          `json:"raw,omitempty"` // non-JSON payloads
	UpdatedAt time.Time       `json:"updated_at"`
}

func (f *File) Name() string { return "file" }

// Dir returns the directory holding the files.
func (f *File) Dir() string { return f.dir }

// Get retrieves a value. Unreadable entries are reported as errors so the
// caller can decide how to recover.
func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", f.path(key), err)
	}
	if len(entry.Data) > 0 {
		return []byte(entry.Data), true, nil
	}
	return entry.Raw, true, nil
}

// Set stores a value atomically.
func (f *File) Set(ctx context.Context, key string, data []byte) error {
	entry := fileEntry{Key: key, UpdatedAt: time.Now().UTC()}
	if json.Valid(data) {
		entry.Data = data
	} else {
		entry.Raw = data
	}

	raw, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(raw); err != nil {
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
	return os.Rename(tmp.Name(), path)
}

// Delete removes a value.
func (f *File) Delete(ctx context.Context, key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file backend.
func (f *File) Close() error {
	return nil
}

// path converts a key to a file path, using the first two hex chars of
// the key's hash as a subdirectory.
func (f *File) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(f.dir, hash[:2], hash[2:]+".json")
}

// Ensure File implements Backend.
var _ Backend = (*File)(nil)
