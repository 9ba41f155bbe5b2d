package grid

import "math"

// ColumnWidth divides the container width evenly across spec.Cols after
// subtracting the gaps between columns. It never returns a negative width.
func ColumnWidth(containerWidth float64, spec Spec) float64 {
	if spec.Cols < 1 {
		return 0
	}
	w := (containerWidth - spec.GapPx*float64(spec.Cols-1)) / float64(spec.Cols)
	return math.Max(w, 0)
}

// PxToCell converts a pixel point to the nearest grid cell.
// The pitch of a column is colWidth+gap and the pitch of a row is
// rowHeight+gap; results are rounded to the nearest cell and negative
// results are clamped to 0. The column count is not enforced here,
// see [Clamp].
func PxToCell(p, origin Point, spec Spec, colWidth float64) Position {
	colPitch := colWidth + spec.GapPx
	rowPitch := spec.RowHeightPx + spec.GapPx

	var x, y int
	if colPitch > 0 {
		x = int(math.Round((p.X - origin.X) / colPitch))
	}
	if rowPitch > 0 {
		y = int(math.Round((p.Y - origin.Y) / rowPitch))
	}
	return Position{X: max(x, 0), Y: max(y, 0)}
}

// CellToPx is the inverse of [PxToCell]: it returns the pixel rectangle
// covered by a widget of the given size at pos. Inner gaps are part of
// the rectangle, outer gaps are not.
func CellToPx(pos Position, size Size, spec Spec, colWidth float64) PixelRect {
	return PixelRect{
		Left:   float64(pos.X) * (colWidth + spec.GapPx),
		Top:    float64(pos.Y) * (spec.RowHeightPx + spec.GapPx),
		Width:  float64(size.W)*colWidth + float64(max(size.W-1, 0))*spec.GapPx,
		Height: float64(size.H)*spec.RowHeightPx + float64(max(size.H-1, 0))*spec.GapPx,
	}
}

// Clamp forces pos into the grid for a widget of the given size:
// x into [0, cols-w] and y into [0, ∞). Horizontal bounds are hard,
// vertical space is unbounded.
func Clamp(pos Position, size Size, spec Spec) Position {
	maxX := max(spec.Cols-size.W, 0)
	return Position{
		X: min(max(pos.X, 0), maxX),
		Y: max(pos.Y, 0),
	}
}

// InBounds reports whether r lies fully inside the grid described by spec.
func InBounds(r Rect, spec Spec) bool {
	return r.X >= 0 && r.Y >= 0 && r.W >= 1 && r.H >= 1 && r.Right() <= spec.Cols
}
