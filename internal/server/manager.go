package server

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/storage"
)

// Manager hands out one loaded layout store per dashboard id. Stores are
// created on first use and share one backend.
type Manager struct {
	backend   storage.Backend
	keyPrefix string
	base      dashboard.Options
	logger    *log.Logger

	mu     sync.Mutex
	stores map[string]*dashboard.Store
}

// NewManager creates a manager. base supplies everything but the
// persistence, which is bound per dashboard to
// storage.LayoutKey(keyPrefix, id).
func NewManager(backend storage.Backend, keyPrefix string, base dashboard.Options) *Manager {
	logger := base.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Manager{
		backend:   backend,
		keyPrefix: keyPrefix,
		base:      base,
		logger:    logger,
		stores:    make(map[string]*dashboard.Store),
	}
}

// Store returns the store for id, loading it on first access.
func (m *Manager) Store(ctx context.Context, id string) (*dashboard.Store, error) {
	if err := errors.ValidateDashboardID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[id]; ok {
		return s, nil
	}

	opts := m.base
	opts.Persistence = storage.Bind(m.backend, storage.LayoutKey(m.keyPrefix, id))
	opts.Logger = m.logger.With("dashboard", id)
	s, err := dashboard.New(opts)
	if err != nil {
		return nil, err
	}
	s.Load(ctx)
	m.stores[id] = s
	m.logger.Debug("opened dashboard", "dashboard", id, "instances", len(s.Instances()))
	return s, nil
}

// Dashboards lists the ids opened so far.
func (m *Manager) Dashboards() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.stores))
	for id := range m.stores {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Close closes the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
