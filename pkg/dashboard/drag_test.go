package dashboard

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/dashgrid/pkg/grid"
	"github.com/matzehuels/dashgrid/pkg/observability"
)

const containerWidth = 1200

// pitch is one lg column plus gap for a 1200px container.
func pitch(t *testing.T, s *Store) (col, row float64) {
	t.Helper()
	spec := s.Spec()
	return grid.ColumnWidth(containerWidth, spec) + spec.GapPx, spec.RowHeightPx + spec.GapPx
}

func TestDragDropCommitsOnce(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, Options{})
	s.Load(ctx)
	before := s.Instances()

	hooks := &recordingStoreHooks{}
	observability.SetStoreHooks(hooks)
	defer observability.Reset()

	d, ok := s.BeginDrag("w1", containerWidth)
	if !ok {
		t.Fatal("BeginDrag reported unknown id")
	}
	col, row := pitch(t, s)

	// Across the occupied top row and then down below the panels.
	d.Update(col, 0)
	d.Update(2*col, 0)
	preview := d.Update(8*col+10, 7*row-5)
	if preview != (grid.Position{X: 8, Y: 7}) {
		t.Errorf("preview = %s, want (8,7)", preview)
	}
	if got := s.Instances(); !slices.Equal(got, before) {
		t.Error("Update must not mutate the layout")
	}
	if len(hooks.mutations) != 0 {
		t.Errorf("mutations during drag: %v", hooks.mutations)
	}

	inst, ok := d.Drop(ctx)
	if !ok {
		t.Fatal("Drop failed")
	}
	if inst.Position() != preview {
		t.Errorf("dropped at %s, preview was %s", inst.Position(), preview)
	}
	if !slices.Equal(hooks.mutations, []string{"move"}) {
		t.Errorf("mutations = %v, want exactly one move", hooks.mutations)
	}
	if _, ok := d.Drop(ctx); ok {
		t.Error("second Drop should fail")
	}
	mustValid(t, s)
}

func TestDragPreviewAvoidsCollisions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, Options{})
	s.Load(ctx)

	d, _ := s.BeginDrag("w1", containerWidth)
	col, _ := pitch(t, s)

	// (2,0) holds another stat.
	preview := d.Update(2*col, 0)
	if preview == (grid.Position{X: 2, Y: 0}) {
		t.Fatal("preview landed on an occupied cell")
	}
	probe := grid.Rect{ID: "w1", X: preview.X, Y: preview.Y, W: 1, H: 1}
	if hits := grid.CollidingWith(Rects(s.Instances()), probe); len(hits) != 0 {
		t.Errorf("preview %s collides with %v", preview, hits)
	}
	if d.Preview() != preview {
		t.Errorf("Preview() = %s, want %s", d.Preview(), preview)
	}

	px := d.PreviewPx()
	if px.Left != float64(preview.X)*col || px.Width != grid.ColumnWidth(containerWidth, s.Spec()) {
		t.Errorf("PreviewPx = %+v", px)
	}
}

func TestDragCancel(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, Options{})
	s.Load(ctx)
	before := s.Instances()

	d, _ := s.BeginDrag("w7", containerWidth)
	col, row := pitch(t, s)
	d.Update(5*col, 3*row)
	d.Cancel()

	if _, ok := d.Drop(ctx); ok {
		t.Error("Drop after Cancel should fail")
	}
	if got := s.Instances(); !slices.Equal(got, before) {
		t.Error("cancelled drag changed the layout")
	}
}

func TestDragWithoutMovement(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, Options{})
	s.Load(ctx)
	before := s.Instances()

	d, _ := s.BeginDrag("w5", containerWidth)
	d.Update(10, -12)
	d.Drop(ctx)

	if got := s.Instances(); !slices.Equal(got, before) {
		t.Errorf("small jitter moved the widget:\n got %+v\nwant %+v", got, before)
	}
}

func TestBeginDragUnknownID(t *testing.T) {
	s, _ := newTestStore(t, Options{})
	s.Load(context.Background())
	if _, ok := s.BeginDrag("missing", containerWidth); ok {
		t.Error("BeginDrag(unknown) = true")
	}
}
