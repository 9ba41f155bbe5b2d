package grid

import (
	"fmt"
	"math/rand"
	"testing"
)

func byID(layout []Rect) map[string]Rect {
	m := make(map[string]Rect, len(layout))
	for _, r := range layout {
		m[r.ID] = r
	}
	return m
}

func TestCompactRemovesGap(t *testing.T) {
	spec := DefaultSpecs()[Large]
	layout := []Rect{
		{ID: "b", X: 0, Y: 1, W: 1, H: 1},
		{ID: "c", X: 0, Y: 2, W: 1, H: 1},
	}

	got := byID(Compact(layout, spec))
	if got["b"].Y != 0 || got["c"].Y != 1 {
		t.Errorf("Compact() = %+v, want b at y=0 and c at y=1", got)
	}
}

// A tall rectangle pulled up first must not claim the only columns a
// wider rectangle below it can use.
func TestCompactKeepsRoomForWaitingRectangles(t *testing.T) {
	spec := Spec{Cols: 4, RowHeightPx: 10}
	layout := []Rect{
		{ID: "a", X: 1, Y: 1, W: 2, H: 1},
		{ID: "b", X: 0, Y: 2, W: 1, H: 3},
		{ID: "c", X: 1, Y: 2, W: 3, H: 2},
	}

	got := Compact(layout, spec)
	want := map[string]Position{"a": {0, 0}, "b": {0, 1}, "c": {1, 1}}
	for id, pos := range want {
		if r := byID(got)[id]; r.Position() != pos {
			t.Errorf("%s at %v, want %v", id, r.Position(), pos)
		}
	}
	if pairs := Overlapping(got); len(pairs) != 0 {
		t.Errorf("Compact() overlaps: %v", pairs)
	}
}

func TestCompactPullsLeft(t *testing.T) {
	spec := DefaultSpecs()[Large]
	got := Compact([]Rect{{ID: "a", X: 5, Y: 3, W: 2, H: 2}}, spec)
	if got[0].Position() != (Position{0, 0}) {
		t.Errorf("Compact() = %v, want (0,0)", got[0].Position())
	}
}

func TestCompactDoesNotMutateInput(t *testing.T) {
	spec := DefaultSpecs()[Large]
	layout := []Rect{{ID: "a", X: 5, Y: 3, W: 2, H: 2}}
	Compact(layout, spec)
	if layout[0].X != 5 || layout[0].Y != 3 {
		t.Errorf("Compact() modified its input: %+v", layout[0])
	}
}

func TestCompactRespectsPendingFootprints(t *testing.T) {
	spec := DefaultSpecs()[Large]
	layout := []Rect{
		{ID: "tall", X: 4, Y: 0, W: 2, H: 2},
		{ID: "low", X: 0, Y: 1, W: 2, H: 1},
	}

	got := byID(Compact(layout, spec))
	if got["tall"].Position() != (Position{2, 0}) {
		t.Errorf("tall = %v, want (2,0)", got["tall"].Position())
	}
	if got["low"].Position() != (Position{0, 0}) {
		t.Errorf("low = %v, want (0,0)", got["low"].Position())
	}
	checkLayout(t, Compact(layout, spec), spec)
}

func TestCompactDeterministic(t *testing.T) {
	spec := DefaultSpecs()[Medium]
	layout := []Rect{
		{ID: "a", X: 4, Y: 6, W: 2, H: 2},
		{ID: "b", X: 0, Y: 3, W: 4, H: 3},
		{ID: "c", X: 6, Y: 1, W: 1, H: 1},
		{ID: "d", X: 2, Y: 9, W: 1, H: 1},
	}
	reversed := []Rect{layout[3], layout[2], layout[1], layout[0]}

	first := Compact(layout, spec)
	second := Compact(reversed, spec)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Compact() order-dependent: %+v vs %+v", first, second)
		}
	}
}

func TestCompactRepairsOverlaps(t *testing.T) {
	spec := DefaultSpecs()[Small]
	// What a breakpoint shrink can leave behind: overlaps and a rect that
	// sticks out past the last column.
	layout := []Rect{
		{ID: "a", X: 0, Y: 0, W: 4, H: 2},
		{ID: "b", X: 2, Y: 1, W: 2, H: 2},
		{ID: "c", X: 3, Y: 0, W: 4, H: 2},
	}

	checkLayout(t, Compact(layout, spec), spec)
}

func TestCompactProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, bp := range Breakpoints {
		spec := DefaultSpecs()[bp]
		sizes := DefaultSizes()[bp]

		for round := 0; round < 20; round++ {
			var layout []Rect
			for i := 0; i < 15; i++ {
				size := sizes[SizeLabels[rng.Intn(len(SizeLabels))]]
				r := Rect{ID: fmt.Sprintf("w%d", i), W: size.W, H: size.H}
				pref := Position{X: rng.Intn(spec.Cols), Y: rng.Intn(20)}
				layout = append(layout, r.At(PlaceWithoutOverlap(layout, r.At(pref), spec)))
			}
			checkLayout(t, layout, spec)

			before := byID(layout)
			after := Compact(layout, spec)
			checkLayout(t, after, spec)

			if len(after) != len(layout) {
				t.Fatalf("Compact() returned %d rects, want %d", len(after), len(layout))
			}
			for _, r := range after {
				orig := before[r.ID]
				if r.Y > orig.Y {
					t.Errorf("%s: y grew from %d to %d", r.ID, orig.Y, r.Y)
				}
				if r.Size() != orig.Size() {
					t.Errorf("%s: size changed from %v to %v", r.ID, orig.Size(), r.Size())
				}
			}
		}
	}
}
