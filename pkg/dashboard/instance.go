package dashboard

import (
	"github.com/matzehuels/dashgrid/pkg/grid"
)

// Instance is one placed widget.
type Instance struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`

	// Size caches the label whose table entry equals W x H at the
	// breakpoint the instance was last sized for. Empty when unknown.
	Size grid.SizeLabel `json:"size,omitempty"`
}

// Rect returns the structural view used by the grid functions.
func (i Instance) Rect() grid.Rect {
	return grid.Rect{ID: i.ID, X: i.X, Y: i.Y, W: i.W, H: i.H}
}

// Position returns the top-left cell.
func (i Instance) Position() grid.Position { return grid.Position{X: i.X, Y: i.Y} }

// Dims returns the cell span.
func (i Instance) Dims() grid.Size { return grid.Size{W: i.W, H: i.H} }

func (i *Instance) moveTo(p grid.Position) { i.X, i.Y = p.X, p.Y }

func (i *Instance) reshape(label grid.SizeLabel, size grid.Size) {
	i.W, i.H, i.Size = size.W, size.H, label
}

// Rects converts instances to rectangles, preserving order.
func Rects(list []Instance) []grid.Rect {
	out := make([]grid.Rect, len(list))
	for i, inst := range list {
		out[i] = inst.Rect()
	}
	return out
}
