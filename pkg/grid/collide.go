package grid

// Intersects reports whether a and b share at least one cell.
// Rectangles touching only along an edge do not intersect.
func Intersects(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W &&
		a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// CollidingWith returns every rectangle in layout that intersects moving,
// skipping the entry whose ID equals moving.ID.
func CollidingWith(layout []Rect, moving Rect) []Rect {
	var hits []Rect
	for _, r := range layout {
		if r.ID == moving.ID {
			continue
		}
		if Intersects(r, moving) {
			hits = append(hits, r)
		}
	}
	return hits
}

// collides is the allocation-free form of CollidingWith.
func collides(layout []Rect, moving Rect) bool {
	for _, r := range layout {
		if r.ID != moving.ID && Intersects(r, moving) {
			return true
		}
	}
	return false
}

// overlapsAny reports whether r intersects any rectangle in layout,
// regardless of IDs.
func overlapsAny(layout []Rect, r Rect) bool {
	for _, o := range layout {
		if Intersects(o, r) {
			return true
		}
	}
	return false
}

// Bottom returns the first row below every rectangle in layout,
// or 0 for an empty layout.
func Bottom(layout []Rect) int {
	bottom := 0
	for _, r := range layout {
		bottom = max(bottom, r.Bottom())
	}
	return bottom
}

// Overlapping returns the ID pairs of every two rectangles in layout that
// intersect, in input order. A valid layout yields nil.
func Overlapping(layout []Rect) [][2]string {
	var pairs [][2]string
	for i := range layout {
		for j := i + 1; j < len(layout); j++ {
			if Intersects(layout[i], layout[j]) {
				pairs = append(pairs, [2]string{layout[i].ID, layout[j].ID})
			}
		}
	}
	return pairs
}

// without returns layout minus the rectangle with the given id.
func without(layout []Rect, id string) []Rect {
	out := make([]Rect, 0, len(layout))
	for _, r := range layout {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
