package dashboard

import (
	"context"
	"sync"

	"github.com/matzehuels/dashgrid/pkg/grid"
)

// Drag is one pointer-drag interaction on an instance. Updates compute a
// preview against the current layout without committing; Drop commits
// exactly one Move and Cancel commits nothing.
//
//	d, ok := store.BeginDrag(id, containerWidth)
//	for each pointer event { preview := d.Update(dx, dy) }
//	d.Drop(ctx) // or d.Cancel()
type Drag struct {
	store    *Store
	id       string
	size     grid.Size
	spec     grid.Spec
	colWidth float64
	origin   grid.PixelRect

	mu      sync.Mutex
	target  grid.Position
	preview grid.Position
	done    bool
}

// BeginDrag starts a drag of id in a grid container containerWidth
// pixels wide. It reports false for an unknown id.
func (s *Store) BeginDrag(id string, containerWidth float64) (*Drag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return nil, false
	}
	inst := s.instances[i]
	spec := s.spec()
	colWidth := grid.ColumnWidth(containerWidth, spec)

	return &Drag{
		store:    s,
		id:       id,
		size:     inst.Dims(),
		spec:     spec,
		colWidth: colWidth,
		origin:   grid.CellToPx(inst.Position(), inst.Dims(), spec, colWidth),
		target:   inst.Position(),
		preview:  inst.Position(),
	}, true
}

// ID returns the dragged instance id.
func (d *Drag) ID() string { return d.id }

// Update moves the drag to (dx, dy) pixels from where it started and
// returns the previewed cell. Updates after Drop or Cancel return the
// last preview.
func (d *Drag) Update(dxPx, dyPx float64) grid.Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return d.preview
	}

	p := grid.Point{X: d.origin.Left + dxPx, Y: d.origin.Top + dyPx}
	d.target = grid.PxToCell(p, grid.Point{}, d.spec, d.colWidth)
	if pos, ok := d.store.Preview(d.id, d.target); ok {
		d.preview = pos
	}
	return d.preview
}

// Preview returns the last previewed cell.
func (d *Drag) Preview() grid.Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.preview
}

// PreviewPx returns the pixel rectangle of the preview.
func (d *Drag) PreviewPx() grid.PixelRect {
	d.mu.Lock()
	defer d.mu.Unlock()
	return grid.CellToPx(d.preview, d.size, d.spec, d.colWidth)
}

// Drop commits the drag with a single Move to the last target. It
// reports false if the drag already ended or the instance is gone.
func (d *Drag) Drop(ctx context.Context) (Instance, bool) {
	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		return Instance{}, false
	}
	d.done = true
	target := d.target
	d.mu.Unlock()

	return d.store.Move(ctx, d.id, target)
}

// Cancel ends the drag without touching the layout.
func (d *Drag) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.done = true
}
