// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout mutations and persistence traffic.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the layout engine
// stays free of any particular metrics or tracing framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    observability.SetStorageHooks(&myStorageHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... mutate layout ...
//	observability.Store().OnMutation(ctx, "move", id, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from the dashboard layout store.
type StoreHooks interface {
	// OnMutation records a committed layout mutation. id is empty for
	// whole-layout operations such as compaction.
	OnMutation(ctx context.Context, op, id string, duration time.Duration)

	// OnLoad records a load. reseeded is true when the default layout
	// replaced a missing, stale or corrupt snapshot; reason says why.
	OnLoad(ctx context.Context, instances int, reseeded bool, reason string)

	// OnSave records a snapshot write attempt.
	OnSave(ctx context.Context, bytes int, duration time.Duration, err error)
}

// =============================================================================
// Storage Hooks
// =============================================================================

// StorageHooks receives events from persistence backends.
type StorageHooks interface {
	// OnRead records a read. hit is false when the key does not exist.
	OnRead(ctx context.Context, backend, key string, hit bool)

	// OnWrite records a successful write.
	OnWrite(ctx context.Context, backend, key string, size int)

	// OnError records a failed backend operation.
	OnError(ctx context.Context, backend, op string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnMutation(context.Context, string, string, time.Duration) {}
func (NoopStoreHooks) OnLoad(context.Context, int, bool, string)                 {}
func (NoopStoreHooks) OnSave(context.Context, int, time.Duration, error)         {}

// NoopStorageHooks is a no-op implementation of StorageHooks.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnRead(context.Context, string, string, bool)   {}
func (NoopStorageHooks) OnWrite(context.Context, string, string, int)   {}
func (NoopStorageHooks) OnError(context.Context, string, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks   StoreHooks   = NoopStoreHooks{}
	storageHooks StorageHooks = NoopStorageHooks{}
	hooksMu      sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store is created.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetStorageHooks registers custom storage hooks.
// This should be called once at application startup before any backend is opened.
func SetStorageHooks(h StorageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storageHooks = h
	}
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Storage returns the registered storage hooks.
func Storage() StorageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storageHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	storeHooks = NoopStoreHooks{}
	storageHooks = NoopStorageHooks{}
}
