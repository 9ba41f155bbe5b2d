// Package storage persists dashboard layout snapshots.
//
// A [Backend] is a plain key-value store holding opaque byte values.
// Five implementations are provided:
//   - [Memory]: in-process map, for tests and throwaway sessions
//   - [File]: one JSON file per key, written atomically, for the CLI
//   - [SQLite]: one row per key in a local database file
//   - [Redis]: a shared Redis instance, for multi-process deployments
//   - [Mongo]: one document per key in a MongoDB collection
//
// The layout store never sees a Backend directly. It is handed a
// [Persistence], which is a Backend bound to the single key that holds
// one dashboard's snapshot:
//
//	backend, err := storage.Open(ctx, cfg)
//	p := storage.Bind(backend, storage.LayoutKey(cfg.KeyPrefix, "default"))
//	data, ok, err := p.Read(ctx)
//
// Writes always replace the whole value; there is no partial update.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/observability"
)

// Backend is a key-value store for snapshot bytes.
type Backend interface {
	// Name identifies the backend in logs and hooks ("file", "redis", ...).
	Name() string

	// Get returns the value stored under key. A missing key is reported
	// as ok=false with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Persistence is the read/write capability handed to a layout store.
type Persistence interface {
	Read(ctx context.Context) (data []byte, ok bool, err error)
	Write(ctx context.Context, data []byte) error
}

// LayoutKey returns the key holding the snapshot of one dashboard.
// Format: <prefix>dashboard:<id>:layout
func LayoutKey(prefix, dashboardID string) string {
	return prefix + "dashboard:" + dashboardID + ":layout"
}

// Bind returns a Persistence reading and writing key in b.
func Bind(b Backend, key string) Persistence {
	return &binding{backend: b, key: key}
}

type binding struct {
	backend Backend
	key     string
}

func (p *binding) Read(ctx context.Context) ([]byte, bool, error) {
	data, ok, err := p.backend.Get(ctx, p.key)
	if err != nil {
		observability.Storage().OnError(ctx, p.backend.Name(), "get", err)
		return nil, false, errors.Wrap(errors.ErrCodeStorage, err, "read %s from %s", p.key, p.backend.Name())
	}
	observability.Storage().OnRead(ctx, p.backend.Name(), p.key, ok)
	return data, ok, nil
}

func (p *binding) Write(ctx context.Context, data []byte) error {
	if err := p.backend.Set(ctx, p.key, data); err != nil {
		observability.Storage().OnError(ctx, p.backend.Name(), "set", err)
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s to %s", p.key, p.backend.Name())
	}
	observability.Storage().OnWrite(ctx, p.backend.Name(), p.key, len(data))
	return nil
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// DefaultDir returns the data directory using the XDG standard
// (~/.local/share/dashgrid/).
func DefaultDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "dashgrid"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "dashgrid"), nil
}
