package grid

import (
	"slices"
	"testing"
)

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"identical", Rect{X: 0, Y: 0, W: 2, H: 2}, Rect{X: 0, Y: 0, W: 2, H: 2}, true},
		{"partial overlap", Rect{X: 0, Y: 0, W: 2, H: 2}, Rect{X: 1, Y: 1, W: 2, H: 2}, true},
		{"contained", Rect{X: 0, Y: 0, W: 6, H: 3}, Rect{X: 2, Y: 1, W: 1, H: 1}, true},
		{"shared vertical edge", Rect{X: 0, Y: 0, W: 2, H: 2}, Rect{X: 2, Y: 0, W: 2, H: 2}, false},
		{"shared horizontal edge", Rect{X: 0, Y: 0, W: 2, H: 2}, Rect{X: 0, Y: 2, W: 2, H: 2}, false},
		{"corner touch", Rect{X: 0, Y: 0, W: 1, H: 1}, Rect{X: 1, Y: 1, W: 1, H: 1}, false},
		{"disjoint", Rect{X: 0, Y: 0, W: 1, H: 1}, Rect{X: 5, Y: 5, W: 1, H: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.a, tt.b); got != tt.want {
				t.Errorf("Intersects(a, b) = %v, want %v", got, tt.want)
			}
			if got := Intersects(tt.b, tt.a); got != tt.want {
				t.Errorf("Intersects(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollidingWith(t *testing.T) {
	layout := []Rect{
		{ID: "a", X: 0, Y: 0, W: 2, H: 2},
		{ID: "b", X: 2, Y: 0, W: 2, H: 2},
		{ID: "c", X: 0, Y: 2, W: 4, H: 1},
		{ID: "moving", X: 9, Y: 9, W: 1, H: 1},
	}

	got := CollidingWith(layout, Rect{ID: "moving", X: 1, Y: 1, W: 2, H: 2})
	var ids []string
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(ids, want) {
		t.Errorf("CollidingWith() ids = %v, want %v", ids, want)
	}

	if got := CollidingWith(layout, Rect{ID: "x", X: 5, Y: 0, W: 1, H: 1}); len(got) != 0 {
		t.Errorf("CollidingWith(free cell) = %v, want none", got)
	}
}

func TestBottom(t *testing.T) {
	if got := Bottom(nil); got != 0 {
		t.Errorf("Bottom(nil) = %d, want 0", got)
	}
	layout := []Rect{{X: 0, Y: 0, W: 1, H: 1}, {X: 3, Y: 4, W: 2, H: 3}, {X: 0, Y: 2, W: 1, H: 1}}
	if got := Bottom(layout); got != 7 {
		t.Errorf("Bottom() = %d, want 7", got)
	}
}

func TestOverlapping(t *testing.T) {
	layout := []Rect{
		{ID: "a", X: 0, Y: 0, W: 2, H: 1},
		{ID: "b", X: 1, Y: 0, W: 2, H: 1},
		{ID: "c", X: 3, Y: 0, W: 1, H: 1},
	}
	got := Overlapping(layout)
	if len(got) != 1 || got[0] != [2]string{"a", "b"} {
		t.Errorf("Overlapping() = %v, want [[a b]]", got)
	}
	if got := Overlapping(layout[1:]); got != nil {
		t.Errorf("Overlapping(valid) = %v, want nil", got)
	}
}
