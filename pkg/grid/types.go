package grid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/dashgrid/pkg/errors"
)

// Breakpoint is a named viewport tier. The current breakpoint is decided
// by the caller; this package never measures anything.
type Breakpoint string

// Supported breakpoints, widest first.
const (
	Large  Breakpoint = "lg"
	Medium Breakpoint = "md"
	Small  Breakpoint = "sm"
)

// Breakpoints lists every supported breakpoint in declaration order.
var Breakpoints = []Breakpoint{Large, Medium, Small}

// ParseBreakpoint converts a name such as "lg" into a Breakpoint.
// Matching is case-insensitive.
func ParseBreakpoint(s string) (Breakpoint, error) {
	bp := Breakpoint(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Breakpoints {
		if bp == known {
			return bp, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidBreakpoint, "unknown breakpoint %q (want lg, md or sm)", s)
}

// Spec holds the per-breakpoint grid constants.
type Spec struct {
	Cols        int     `json:"cols"`
	RowHeightPx float64 `json:"rowHeightPx"`
	GapPx       float64 `json:"gapPx"`
}

// Specs maps each breakpoint to its grid constants.
type Specs map[Breakpoint]Spec

// DefaultSpecs returns the built-in grid constants.
func DefaultSpecs() Specs {
	return Specs{
		Large:  {Cols: 12, RowHeightPx: 80, GapPx: 16},
		Medium: {Cols: 8, RowHeightPx: 72, GapPx: 12},
		Small:  {Cols: 4, RowHeightPx: 64, GapPx: 8},
	}
}

// Lookup returns the spec for bp.
func (s Specs) Lookup(bp Breakpoint) (Spec, error) {
	spec, ok := s[bp]
	if !ok {
		return Spec{}, errors.New(errors.ErrCodeInvalidBreakpoint, "no grid spec for breakpoint %q", bp)
	}
	return spec, nil
}

// Validate checks that every breakpoint has a usable spec.
func (s Specs) Validate() error {
	for _, bp := range Breakpoints {
		spec, ok := s[bp]
		if !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "missing grid spec for breakpoint %q", bp)
		}
		if spec.Cols < 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "breakpoint %q: cols must be at least 1", bp)
		}
		if spec.RowHeightPx <= 0 || spec.GapPx < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "breakpoint %q: row height must be positive and gap non-negative", bp)
		}
	}
	return nil
}

// Position is a grid cell coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Size is a span in grid cells.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Covers reports whether s is at least as large as other in both dimensions.
func (s Size) Covers(other Size) bool { return s.W >= other.W && s.H >= other.H }

// Rect is the structural view of anything placed on the grid.
type Rect struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
	W  int    `json:"w"`
	H  int    `json:"h"`
}

// Position returns the top-left cell of r.
func (r Rect) Position() Position { return Position{X: r.X, Y: r.Y} }

// Size returns the span of r.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// At returns a copy of r moved to p.
func (r Rect) At(p Position) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// Right returns the first column past r.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first row past r.
func (r Rect) Bottom() int { return r.Y + r.H }

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PixelRect is a rendered rectangle relative to the grid container.
type PixelRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
