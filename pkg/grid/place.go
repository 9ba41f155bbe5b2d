package grid

// MaxSearch bounds the number of cells PlaceWithoutOverlap will test
// before falling back to the row below the layout.
const MaxSearch = 4096

// neighbours is the BFS expansion order: orthogonal steps first, then
// diagonals.
var neighbours = [8]Position{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
	{X: 1, Y: 1},
	{X: -1, Y: 1},
	{X: 1, Y: -1},
	{X: -1, Y: -1},
}

// PlaceWithoutOverlap returns the collision-free position nearest to
// moving's preferred position, ignoring the layout entry that shares
// moving's ID.
//
// The preferred position (clamped to the grid) is tested first and
// returned unchanged when free, so an unmoved widget is never perturbed.
// Otherwise cells are explored breadth-first in [neighbours] order, each
// candidate clamped before testing. Cells below the layout's bottom edge
// are always free and are not expanded further, so the search terminates
// well within [MaxSearch] for any sane layout. If it does not, the
// widget goes to x=0 on the first empty row, which always succeeds.
func PlaceWithoutOverlap(layout []Rect, moving Rect, spec Spec) Position {
	size := moving.Size()
	start := Clamp(moving.Position(), size, spec)
	others := without(layout, moving.ID)

	if !collides(others, moving.At(start)) {
		return start
	}

	bottom := Bottom(others)
	visited := map[Position]bool{start: true}
	queue := []Position{start}

	for len(queue) > 0 && len(visited) < MaxSearch {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range neighbours {
			cand := Clamp(Position{X: cur.X + d.X, Y: cur.Y + d.Y}, size, spec)
			if visited[cand] {
				continue
			}
			visited[cand] = true

			if !collides(others, moving.At(cand)) {
				return cand
			}
			if cand.Y < bottom {
				queue = append(queue, cand)
			}
		}
	}

	return Position{X: 0, Y: bottom}
}

// FirstFit returns the first free cell for a widget of the given size,
// scanning rows top to bottom and columns left to right from (0,0).
// The row just below the layout is always free, so FirstFit never fails.
func FirstFit(layout []Rect, size Size, spec Spec) Position {
	return scanFrom(layout, size, spec, 0)
}

// scanFrom is FirstFit starting at row y0.
func scanFrom(layout []Rect, size Size, spec Spec, y0 int) Position {
	probe := Rect{W: size.W, H: size.H}
	maxX := max(spec.Cols-size.W, 0)
	bottom := max(Bottom(layout), y0)

	for y := y0; y < bottom; y++ {
		for x := 0; x <= maxX; x++ {
			if !overlapsAny(layout, probe.At(Position{X: x, Y: y})) {
				return Position{X: x, Y: y}
			}
		}
	}
	return Position{X: 0, Y: bottom}
}
