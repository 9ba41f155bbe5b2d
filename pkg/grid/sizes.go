package grid

import (
	"slices"
	"strings"

	"github.com/matzehuels/dashgrid/pkg/errors"
)

// SizeLabel is one of the discrete widget shapes, ordered S < M < L < XL.
type SizeLabel string

// Size labels in ascending order.
const (
	SizeS  SizeLabel = "S"
	SizeM  SizeLabel = "M"
	SizeL  SizeLabel = "L"
	SizeXL SizeLabel = "XL"
)

// SizeLabels lists every label in ascending order. Ties in [NearestSize]
// are broken by this order.
var SizeLabels = []SizeLabel{SizeS, SizeM, SizeL, SizeXL}

// ParseSizeLabel converts "s", "M", "xl", ... into a SizeLabel.
func ParseSizeLabel(s string) (SizeLabel, error) {
	l := SizeLabel(strings.ToUpper(strings.TrimSpace(s)))
	if l.index() < 0 {
		return "", errors.New(errors.ErrCodeInvalidSize, "unknown size %q (want S, M, L or XL)", s)
	}
	return l, nil
}

func (l SizeLabel) index() int { return slices.Index(SizeLabels, l) }

// Valid reports whether l is a known label.
func (l SizeLabel) Valid() bool { return l.index() >= 0 }

// Next returns the next larger label, staying at XL.
// Unknown labels return S.
func (l SizeLabel) Next() SizeLabel {
	i := l.index()
	if i < 0 {
		return SizeLabels[0]
	}
	return SizeLabels[min(i+1, len(SizeLabels)-1)]
}

// Prev returns the next smaller label, staying at S.
func (l SizeLabel) Prev() SizeLabel {
	return SizeLabels[max(l.index()-1, 0)]
}

// SizeTable maps (breakpoint, label) to a cell span.
type SizeTable map[Breakpoint]map[SizeLabel]Size

// DefaultSizes returns the built-in size table.
func DefaultSizes() SizeTable {
	return SizeTable{
		Large: {
			SizeS:  {W: 1, H: 1},
			SizeM:  {W: 3, H: 2},
			SizeL:  {W: 6, H: 3},
			SizeXL: {W: 12, H: 4},
		},
		Medium: {
			SizeS:  {W: 1, H: 1},
			SizeM:  {W: 2, H: 2},
			SizeL:  {W: 4, H: 3},
			SizeXL: {W: 8, H: 4},
		},
		Small: {
			SizeS:  {W: 1, H: 1},
			SizeM:  {W: 2, H: 2},
			SizeL:  {W: 4, H: 2},
			SizeXL: {W: 4, H: 4},
		},
	}
}

// Lookup returns the span for (bp, label).
func (t SizeTable) Lookup(bp Breakpoint, label SizeLabel) (Size, bool) {
	size, ok := t[bp][label]
	return size, ok
}

// Validate enforces completeness (every breakpoint defines every label)
// and fit (no entry is wider than its breakpoint's column count).
func (t SizeTable) Validate(specs Specs) error {
	for _, bp := range Breakpoints {
		spec, err := specs.Lookup(bp)
		if err != nil {
			return err
		}
		for _, label := range SizeLabels {
			size, ok := t.Lookup(bp, label)
			if !ok {
				return errors.New(errors.ErrCodeInvalidConfig, "size table: breakpoint %q has no %s entry", bp, label)
			}
			if size.W < 1 || size.H < 1 {
				return errors.New(errors.ErrCodeInvalidConfig, "size table: %s/%s must be at least 1x1, got %s", bp, label, size)
			}
			if size.W > spec.Cols {
				return errors.New(errors.ErrCodeInvalidConfig, "size table: %s/%s is %d wide but %s has %d columns", bp, label, size.W, bp, spec.Cols)
			}
		}
	}
	return nil
}

// NearestSize returns the label whose entry for bp minimises the
// Manhattan distance |Δw|+|Δh| to size. Ties go to the earlier label.
func NearestSize(t SizeTable, bp Breakpoint, size Size) SizeLabel {
	return NearestFitting(t, bp, size, Size{})
}

// NearestFitting is NearestSize restricted to labels whose entry covers
// minSize. When no entry is large enough, the largest label is returned.
func NearestFitting(t SizeTable, bp Breakpoint, size, minSize Size) SizeLabel {
	best, bestDist := SizeLabels[len(SizeLabels)-1], -1
	for _, label := range SizeLabels {
		entry, ok := t.Lookup(bp, label)
		if !ok || !entry.Covers(minSize) {
			continue
		}
		d := abs(entry.W-size.W) + abs(entry.H-size.H)
		if bestDist < 0 || d < bestDist {
			best, bestDist = label, d
		}
	}
	return best
}

// FitLabel returns label, or the first larger label whose entry for bp
// covers minSize. XL is returned when nothing fits.
func FitLabel(t SizeTable, bp Breakpoint, label SizeLabel, minSize Size) SizeLabel {
	start := max(label.index(), 0)
	for _, l := range SizeLabels[start:] {
		if entry, ok := t.Lookup(bp, l); ok && entry.Covers(minSize) {
			return l
		}
	}
	return SizeLabels[len(SizeLabels)-1]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
