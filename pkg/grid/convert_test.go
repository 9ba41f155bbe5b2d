package grid

import "testing"

func TestColumnWidth(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		spec  Spec
		want  float64
	}{
		{"lg even split", 1376, Spec{Cols: 12, RowHeightPx: 80, GapPx: 16}, 100},
		{"sm even split", 424, Spec{Cols: 4, RowHeightPx: 64, GapPx: 8}, 100},
		{"no gap", 120, Spec{Cols: 12, RowHeightPx: 80}, 10},
		{"narrower than gaps", 50, Spec{Cols: 12, RowHeightPx: 80, GapPx: 16}, 0},
		{"zero cols", 1000, Spec{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColumnWidth(tt.width, tt.spec); got != tt.want {
				t.Errorf("ColumnWidth(%v) = %v, want %v", tt.width, got, tt.want)
			}
		})
	}
}

func TestPxToCell(t *testing.T) {
	spec := DefaultSpecs()[Large] // pitch 116 x 96 with 100px columns
	const colWidth = 100

	tests := []struct {
		name   string
		p      Point
		origin Point
		want   Position
	}{
		{"origin", Point{0, 0}, Point{}, Position{0, 0}},
		{"exact cell", Point{232, 192}, Point{}, Position{2, 2}},
		{"rounds down", Point{116*3 + 40, 96 + 20}, Point{}, Position{3, 1}},
		{"rounds up at half", Point{58, 48}, Point{}, Position{1, 1}},
		{"container offset", Point{126, 106}, Point{10, 10}, Position{1, 1}},
		{"negative clamps to zero", Point{-300, -50}, Point{}, Position{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PxToCell(tt.p, tt.origin, spec, colWidth); got != tt.want {
				t.Errorf("PxToCell(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestCellToPx(t *testing.T) {
	spec := DefaultSpecs()[Large]
	got := CellToPx(Position{2, 1}, Size{3, 2}, spec, 100)
	want := PixelRect{Left: 232, Top: 96, Width: 332, Height: 176}
	if got != want {
		t.Errorf("CellToPx() = %+v, want %+v", got, want)
	}
}

func TestCellToPxRoundTrip(t *testing.T) {
	for _, bp := range Breakpoints {
		spec := DefaultSpecs()[bp]
		colWidth := ColumnWidth(1280, spec)
		for x := 0; x < spec.Cols; x++ {
			for y := 0; y < 5; y++ {
				pos := Position{x, y}
				px := CellToPx(pos, Size{1, 1}, spec, colWidth)
				if got := PxToCell(Point{px.Left, px.Top}, Point{}, spec, colWidth); got != pos {
					t.Errorf("%s: round trip of %v = %v", bp, pos, got)
				}
			}
		}
	}
}

func TestClamp(t *testing.T) {
	spec := DefaultSpecs()[Large]

	tests := []struct {
		name string
		pos  Position
		size Size
		want Position
	}{
		{"inside", Position{4, 7}, Size{3, 2}, Position{4, 7}},
		{"past right edge", Position{11, 0}, Size{3, 2}, Position{9, 0}},
		{"negative", Position{-2, -5}, Size{1, 1}, Position{0, 0}},
		{"far below stays", Position{0, 500}, Size{1, 1}, Position{0, 500}},
		{"wider than grid", Position{5, 1}, Size{20, 1}, Position{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.pos, tt.size, spec); got != tt.want {
				t.Errorf("Clamp(%v, %v) = %v, want %v", tt.pos, tt.size, got, tt.want)
			}
		})
	}
}

func TestInBounds(t *testing.T) {
	spec := Spec{Cols: 4, RowHeightPx: 10}

	tests := []struct {
		r    Rect
		want bool
	}{
		{Rect{X: 0, Y: 0, W: 4, H: 1}, true},
		{Rect{X: 1, Y: 9, W: 3, H: 2}, true},
		{Rect{X: 2, Y: 0, W: 3, H: 1}, false},
		{Rect{X: -1, Y: 0, W: 1, H: 1}, false},
		{Rect{X: 0, Y: -1, W: 1, H: 1}, false},
		{Rect{X: 0, Y: 0, W: 0, H: 1}, false},
	}

	for _, tt := range tests {
		if got := InBounds(tt.r, spec); got != tt.want {
			t.Errorf("InBounds(%+v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}
