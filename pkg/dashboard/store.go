// Package dashboard implements the layout store: the stateful owner of a
// dashboard's widget instances.
//
// A [Store] is created explicitly with [New], loaded once with
// [Store.Load], and then mutated through its operations. Every committed
// mutation leaves the layout satisfying four invariants:
//
//   - no two instances share a cell
//   - every instance lies inside the grid (x >= 0, y >= 0, x+w <= cols)
//   - every instance is at least its kind's minimum size
//   - instance ids are unique
//
// and is written through the store's [storage.Persistence] as a whole
// [Snapshot]. Write failures are logged and reported to the observability
// hooks; the in-memory layout is never rolled back.
//
// Operations that take an instance id treat an unknown id as a silent
// no-op and report it through their bool result.
package dashboard

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/grid"
	"github.com/matzehuels/dashgrid/pkg/observability"
	"github.com/matzehuels/dashgrid/pkg/storage"
	"github.com/matzehuels/dashgrid/pkg/widget"
)

// DefaultDashboard is the dashboard id used when none is given.
const DefaultDashboard = "default"

// Options configures a Store. Zero values select the defaults noted on
// each field.
type Options struct {
	// Registry resolves widget kinds. Default: widget.DefaultCatalog().
	Registry widget.Registry

	// Persistence receives snapshots. Default: an in-memory backend.
	Persistence storage.Persistence

	// Breakpoint is the initial breakpoint. Default: grid.Large.
	Breakpoint grid.Breakpoint

	// Specs and Sizes default to grid.DefaultSpecs and grid.DefaultSizes.
	Specs grid.Specs
	Sizes grid.SizeTable

	// Defaults is the layout seeded on first load and on reset.
	// Default: DefaultLayout().
	Defaults []Seed

	// Logger receives debug and warning output. Default: discard.
	Logger *log.Logger

	// Clock stamps snapshots. Default: time.Now.
	Clock func() time.Time

	// IDs generates instance ids. Default: UUIDs.
	IDs IDFunc

	// Version is written to and expected from snapshots.
	// Default: CurrentVersion.
	Version string
}

// Store owns one dashboard's instance list. It is safe for concurrent
// use; operations are applied one at a time in call order.
type Store struct {
	mu sync.RWMutex

	registry widget.Registry
	persist  storage.Persistence
	specs    grid.Specs
	sizes    grid.SizeTable
	defaults []Seed
	logger   *log.Logger
	clock    func() time.Time
	ids      IDFunc
	version  string

	bp        grid.Breakpoint
	instances []Instance
}

// New creates an empty store. Call Load before use to pick up the
// persisted layout or seed the defaults.
func New(opts Options) (*Store, error) {
	if opts.Registry == nil {
		opts.Registry = widget.DefaultCatalog()
	}
	if opts.Persistence == nil {
		opts.Persistence = storage.Bind(storage.NewMemory(), storage.LayoutKey("", DefaultDashboard))
	}
	if opts.Breakpoint == "" {
		opts.Breakpoint = grid.Large
	}
	if opts.Specs == nil {
		opts.Specs = grid.DefaultSpecs()
	}
	if opts.Sizes == nil {
		opts.Sizes = grid.DefaultSizes()
	}
	if opts.Defaults == nil {
		opts.Defaults = DefaultLayout()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = UUIDs
	}
	if opts.Version == "" {
		opts.Version = CurrentVersion
	}

	if err := opts.Specs.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Sizes.Validate(opts.Specs); err != nil {
		return nil, err
	}
	if _, err := opts.Specs.Lookup(opts.Breakpoint); err != nil {
		return nil, err
	}
	if v, ok := opts.Registry.(interface{ Validate(grid.SizeTable) error }); ok {
		if err := v.Validate(opts.Sizes); err != nil {
			return nil, err
		}
	}

	return &Store{
		registry: opts.Registry,
		persist:  opts.Persistence,
		specs:    opts.Specs,
		sizes:    opts.Sizes,
		defaults: slices.Clone(opts.Defaults),
		logger:   opts.Logger,
		clock:    opts.Clock,
		ids:      opts.IDs,
		version:  opts.Version,
		bp:       opts.Breakpoint,
	}, nil
}

// =============================================================================
// Read access
// =============================================================================

// Instances returns a copy of the current instance list.
func (s *Store) Instances() []Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.instances)
}

// Get returns the instance with the given id.
func (s *Store) Get(id string) (Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Instance{}, false
	}
	return s.instances[i], true
}

// Breakpoint returns the current breakpoint.
func (s *Store) Breakpoint() grid.Breakpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bp
}

// Spec returns the grid constants of the current breakpoint.
func (s *Store) Spec() grid.Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec()
}

// Sizes returns the size table the store snaps to.
func (s *Store) Sizes() grid.SizeTable { return s.sizes }

// Registry returns the widget registry.
func (s *Store) Registry() widget.Registry { return s.registry }

// Preview returns where a move of id to pos would land, without
// committing anything.
func (s *Store) Preview(id string, pos grid.Position) (grid.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return grid.Position{}, false
	}
	return s.resolveLocked(s.instances[i].Rect().At(pos)), true
}

// Validate checks the current layout against the store invariants.
func (s *Store) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return validateLayout(s.instances, s.spec(), s.registry)
}

// =============================================================================
// Mutations
// =============================================================================

// Add places a new widget of kind at its default size in the first free
// cell in reading order. Existing instances are never touched. The only
// error is an unknown kind.
func (s *Store) Add(ctx context.Context, kind string) (Instance, error) {
	if err := errors.ValidateKind(kind); err != nil {
		return Instance{}, err
	}
	def, ok := s.registry.DefaultSize(kind)
	if !ok {
		return Instance{}, errors.New(errors.ErrCodeUnknownKind, "unknown widget kind %q", kind)
	}
	minSize, _ := s.registry.MinSize(kind)

	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	spec := s.spec()

	label, size := s.defaultShapeLocked(def, minSize)
	inst := Instance{ID: s.newIDLocked(s.instances), Kind: kind}
	inst.reshape(label, size)
	inst.moveTo(grid.FirstFit(Rects(s.instances), size, spec))

	s.instances = append(s.instances, inst)
	s.commitLocked(ctx, "add", inst.ID, start)
	return inst, nil
}

// RemoveOption customizes Remove.
type RemoveOption func(*removeOptions)

type removeOptions struct {
	compact bool
}

// WithoutCompaction leaves the gap a removed widget leaves behind.
func WithoutCompaction() RemoveOption {
	return func(o *removeOptions) { o.compact = false }
}

// Remove deletes the instance with id and, unless suppressed, compacts
// the layout. It reports whether the id existed.
func (s *Store) Remove(ctx context.Context, id string, opts ...RemoveOption) bool {
	o := removeOptions{compact: true}
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	start := time.Now()

	s.instances = slices.Delete(s.instances, i, i+1)
	if o.compact {
		s.compactLocked()
	}
	s.commitLocked(ctx, "remove", id, start)
	return true
}

// Move relocates id as close to pos as the other instances allow. The
// requested position is a preference; the committed position is
// returned. Moving an instance to where it already is changes nothing.
func (s *Store) Move(ctx context.Context, id string, pos grid.Position) (Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Instance{}, false
	}
	start := time.Now()

	inst := &s.instances[i]
	inst.moveTo(s.resolveLocked(inst.Rect().At(pos)))
	s.commitLocked(ctx, "move", id, start)
	return *inst, true
}

// Resize snaps size to the nearest size-table entry that satisfies the
// kind's minimum and applies it, relocating the instance if the new
// footprint would overlap a neighbour.
func (s *Store) Resize(ctx context.Context, id string, size grid.Size) (Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Instance{}, false
	}
	label := grid.NearestFitting(s.sizes, s.bp, size, s.minSize(s.instances[i].Kind))
	return s.reshapeLocked(ctx, "resize", i, label), true
}

// ResizeTo applies the given size label. Labels too small for the kind
// are raised to the first label that fits. An invalid label is a no-op.
func (s *Store) ResizeTo(ctx context.Context, id string, label grid.SizeLabel) (Instance, bool) {
	if !label.Valid() {
		return Instance{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Instance{}, false
	}
	label = grid.FitLabel(s.sizes, s.bp, label, s.minSize(s.instances[i].Kind))
	return s.reshapeLocked(ctx, "resizeTo", i, label), true
}

// CycleSize grows id to the next size label, staying at XL.
func (s *Store) CycleSize(ctx context.Context, id string) (Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Instance{}, false
	}
	inst := s.instances[i]
	next := s.labelOf(inst, s.bp).Next()
	next = grid.FitLabel(s.sizes, s.bp, next, s.minSize(inst.Kind))
	return s.reshapeLocked(ctx, "cycleSize", i, next), true
}

// SetBreakpoint switches the layout to bp. Every instance keeps its size
// label and takes that label's span at bp (raised if the kind's minimum
// needs it). The layout is then repaired in reading order: each instance
// is clamped into the new column count and, if it now overlaps an
// instance already settled, moved to the nearest free cell. Instances
// whose footprint did not change and did not collide stay where they
// are.
func (s *Store) SetBreakpoint(ctx context.Context, bp grid.Breakpoint) error {
	if _, err := s.specs.Lookup(bp); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if bp == s.bp {
		return nil
	}
	start := time.Now()

	from := s.bp
	s.bp = bp
	s.instances = s.remapLocked(s.instances, from)
	s.commitLocked(ctx, "setBreakpoint", "", start)
	return nil
}

// Compact pulls every instance up and left as far as it will go. It
// reports whether any instance moved.
func (s *Store) Compact(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	before := slices.Clone(s.instances)
	s.compactLocked()
	s.commitLocked(ctx, "compact", "", start)
	return !slices.Equal(before, s.instances)
}

// ResetToDefaults replaces the layout with the default seed and
// persists it.
func (s *Store) ResetToDefaults(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	s.instances = s.seedLocked()
	s.commitLocked(ctx, "reset", "", start)
}

// =============================================================================
// Persistence
// =============================================================================

// Load replaces the in-memory layout with the persisted snapshot. A
// missing, unreadable, undecodable, outdated or invalid snapshot is
// replaced by the default layout, which is persisted immediately. Load
// never fails; what happened is logged and reported to the hooks.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, reason := s.readLocked(ctx)
	if reason != "" {
		s.logger.Info("seeding default layout", "reason", reason)
		s.instances = s.seedLocked()
		s.persistLocked(ctx)
		observability.Store().OnLoad(ctx, len(s.instances), true, reason)
		return
	}

	s.instances = list
	s.logger.Debug("loaded layout", "instances", len(list), "breakpoint", s.bp)
	observability.Store().OnLoad(ctx, len(list), false, "")
}

// readLocked returns the stored instances adjusted to the current
// breakpoint, or a non-empty reason when the defaults must be used.
func (s *Store) readLocked(ctx context.Context) ([]Instance, string) {
	data, ok, err := s.persist.Read(ctx)
	if err != nil {
		s.logger.Warn("could not read layout", "err", err)
		return nil, "read failed"
	}
	if !ok {
		return nil, "no snapshot"
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.Warn("discarding unreadable layout", "err", err)
		return nil, "corrupt snapshot"
	}
	if snap.Version != s.version {
		s.logger.Info("discarding layout from another version", "stored", snap.Version, "current", s.version)
		return nil, "version mismatch"
	}

	from := s.bp
	if snap.Breakpoint != "" {
		from = snap.Breakpoint
	}
	spec, err := s.specs.Lookup(from)
	if err != nil {
		s.logger.Warn("discarding layout", "err", err)
		return nil, "invalid snapshot"
	}
	if err := validateLayout(snap.Instances, spec, s.registry); err != nil {
		s.logger.Warn("discarding invalid layout", "err", err)
		return nil, "invalid snapshot"
	}

	list := snap.Instances
	if list == nil {
		list = []Instance{}
	}
	for i := range list {
		list[i].Size = s.labelOf(list[i], from)
	}
	if from != s.bp {
		list = s.remapLocked(list, from)
		s.instances = list
		s.persistLocked(ctx)
	}
	return list, ""
}

// Save writes the current layout as one snapshot.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	start := time.Now()
	data, err := EncodeSnapshot(s.snapshotLocked())
	if err == nil {
		err = s.persist.Write(ctx, data)
	}
	observability.Store().OnSave(ctx, len(data), time.Since(start), err)
	return err
}

// Snapshot returns what Save would write.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Instances:    slices.Clone(s.instances),
		Version:      s.version,
		LastModified: s.clock().UTC(),
		Breakpoint:   s.bp,
	}
}

// persistLocked saves and logs a failure instead of returning it.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.saveLocked(ctx); err != nil {
		s.logger.Error("could not save layout", "err", err)
	}
}

// =============================================================================
// Helpers (callers hold s.mu)
// =============================================================================

func (s *Store) commitLocked(ctx context.Context, op, id string, start time.Time) {
	s.logger.Debug("layout mutation", "op", op, "id", id, "instances", len(s.instances))
	observability.Store().OnMutation(ctx, op, id, time.Since(start))
	s.persistLocked(ctx)
}

func (s *Store) spec() grid.Spec {
	spec, _ := s.specs.Lookup(s.bp)
	return spec
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.instances, func(inst Instance) bool { return inst.ID == id })
}

func (s *Store) minSize(kind string) grid.Size {
	m, ok := s.registry.MinSize(kind)
	if !ok {
		return grid.Size{W: 1, H: 1}
	}
	return m
}

// resolveLocked places moving against every other instance.
func (s *Store) resolveLocked(moving grid.Rect) grid.Position {
	return grid.PlaceWithoutOverlap(Rects(s.instances), moving, s.spec())
}

// reshapeLocked applies label to instance i and re-resolves its position
// with the new footprint, probing from its current cell.
func (s *Store) reshapeLocked(ctx context.Context, op string, i int, label grid.SizeLabel) Instance {
	start := time.Now()
	size, _ := s.sizes.Lookup(s.bp, label)

	inst := &s.instances[i]
	inst.reshape(label, size)
	inst.moveTo(s.resolveLocked(inst.Rect()))
	s.commitLocked(ctx, op, inst.ID, start)
	return *inst
}

// labelOf returns the cached label of inst when it still names inst's
// span at bp, otherwise the nearest label for that span.
func (s *Store) labelOf(inst Instance, bp grid.Breakpoint) grid.SizeLabel {
	if inst.Size.Valid() {
		if entry, ok := s.sizes.Lookup(bp, inst.Size); ok && entry == inst.Dims() {
			return inst.Size
		}
	}
	return grid.NearestSize(s.sizes, bp, inst.Dims())
}

// defaultShapeLocked returns the span a new widget starts with: its
// registry default when that is a size-table entry that fits the grid,
// otherwise the nearest entry that satisfies its minimum.
func (s *Store) defaultShapeLocked(def, minSize grid.Size) (grid.SizeLabel, grid.Size) {
	for _, label := range grid.SizeLabels {
		if entry, ok := s.sizes.Lookup(s.bp, label); ok && entry == def {
			return label, entry
		}
	}
	label := grid.NearestFitting(s.sizes, s.bp, def, minSize)
	size, _ := s.sizes.Lookup(s.bp, label)
	return label, size
}

// remapLocked converts list, sized for from, to the current breakpoint.
func (s *Store) remapLocked(list []Instance, from grid.Breakpoint) []Instance {
	spec := s.spec()
	out := slices.Clone(list)

	for i := range out {
		inst := &out[i]
		label := grid.FitLabel(s.sizes, s.bp, s.labelOf(*inst, from), s.minSize(inst.Kind))
		size, _ := s.sizes.Lookup(s.bp, label)
		inst.reshape(label, size)
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if out[a].Y != out[b].Y {
			return out[a].Y - out[b].Y
		}
		return out[a].X - out[b].X
	})

	settled := make([]grid.Rect, 0, len(out))
	for _, i := range order {
		inst := &out[i]
		inst.moveTo(grid.Clamp(inst.Position(), inst.Dims(), spec))
		inst.moveTo(grid.PlaceWithoutOverlap(settled, inst.Rect(), spec))
		settled = append(settled, inst.Rect())
	}
	return out
}

func (s *Store) compactLocked() {
	compacted := grid.Compact(Rects(s.instances), s.spec())
	pos := make(map[string]grid.Position, len(compacted))
	for _, r := range compacted {
		pos[r.ID] = r.Position()
	}
	for i := range s.instances {
		s.instances[i].moveTo(pos[s.instances[i].ID])
	}
}

// maxIDAttempts bounds retries of a generator that keeps colliding.
const maxIDAttempts = 16

// newIDLocked returns an id not used in list, falling back to a UUID
// when the configured generator keeps producing taken ids.
func (s *Store) newIDLocked(list []Instance) string {
	taken := func(id string) bool {
		return id == "" || slices.ContainsFunc(list, func(inst Instance) bool { return inst.ID == id })
	}
	for range maxIDAttempts {
		if id := s.ids(); !taken(id) {
			return id
		}
	}
	id := UUIDs()
	for taken(id) {
		id = UUIDs()
	}
	return id
}
