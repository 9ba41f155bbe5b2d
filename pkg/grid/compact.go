package grid

import (
	"cmp"
	"slices"
)

// Compact pulls every rectangle in layout as far up and left as possible
// without creating overlaps and returns the result in processing order.
//
// Rectangles are processed in (y, x) order. Each one takes the first
// cell, scanning rows 0..y and columns 0..cols-w, that is clear of the
// rectangles already compacted and of the original footprint of the
// rectangles still waiting. The second condition keeps every rectangle's
// own original cell available to it, so no rectangle ever ends up lower
// than it started. Input that already overlaps can leave a rectangle
// without such a cell; it is then placed on the first free row below.
//
// The input slice is not modified.
func Compact(layout []Rect, spec Spec) []Rect {
	order := slices.Clone(layout)
	slices.SortStableFunc(order, func(a, b Rect) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})

	placed := make([]Rect, 0, len(order))
	for i, r := range order {
		pending := order[i+1:]
		pos, ok := compactSlot(r, spec, placed, pending)
		if !ok {
			pos = scanFrom(placed, r.Size(), spec, r.Y+1)
		}
		placed = append(placed, r.At(pos))
	}
	return placed
}

// compactSlot finds the first cell at or above r.Y that is clear of both
// placed and pending.
func compactSlot(r Rect, spec Spec, placed, pending []Rect) (Position, bool) {
	maxX := max(spec.Cols-r.W, 0)
	for y := 0; y <= r.Y; y++ {
		for x := 0; x <= maxX; x++ {
			cand := r.At(Position{X: x, Y: y})
			if overlapsAny(placed, cand) || overlapsAny(pending, cand) {
				continue
			}
			return cand.Position(), true
		}
	}
	return Position{}, false
}
