package render

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/grid"
)

// Cell glyphs.
const (
	emptyCell   = '.'
	previewCell = '+'
)

const markerAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// ASCIIOptions configures [ASCII] and [Legend].
type ASCIIOptions struct {
	// Color styles cells with lipgloss. When false the output is plain
	// text and the selected widget is drawn in upper case.
	Color bool

	// Selected highlights one widget.
	Selected string

	// Preview draws a drag ghost over the layout.
	Preview *grid.Rect
}

var palette = []lipgloss.Color{"39", "205", "214", "42", "141", "203", "81", "178"}

var (
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
)

// kindStyle gives each kind a stable colour.
func kindStyle(kind string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(palette[kindIndex(kind, len(palette))])
}

// kindIndex hashes kind into [0, n).
func kindIndex(kind string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(kind))
	return int(h.Sum32() % uint32(n))
}

// Marker returns the glyph used for the i-th instance.
func Marker(i int) rune {
	if i < 0 || i >= len(markerAlphabet) {
		return '#'
	}
	return rune(markerAlphabet[i])
}

// ASCII draws instances as a cell map, two characters per cell, one line
// per row. Rows run from 0 to the bottom of the layout (or preview).
func ASCII(instances []dashboard.Instance, spec grid.Spec, opts ASCIIOptions) string {
	rects := dashboard.Rects(instances)
	rows := max(grid.Bottom(rects), 1)
	if opts.Preview != nil {
		rows = max(rows, opts.Preview.Bottom())
	}
	cols := max(spec.Cols, 1)

	owner := make([][]int, rows)
	for y := range owner {
		owner[y] = make([]int, cols)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}
	for i, r := range rects {
		for y := max(r.Y, 0); y < min(r.Bottom(), rows); y++ {
			for x := max(r.X, 0); x < min(r.Right(), cols); x++ {
				owner[y][x] = i
			}
		}
	}

	var b strings.Builder
	for y := range rows {
		for x := range cols {
			b.WriteString(cellText(instances, owner[y][x], x, y, opts))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func cellText(instances []dashboard.Instance, idx, x, y int, opts ASCIIOptions) string {
	if p := opts.Preview; p != nil && grid.Intersects(*p, grid.Rect{X: x, Y: y, W: 1, H: 1}) {
		return paint(opts.Color, previewStyle, previewCell)
	}
	if idx < 0 {
		return paint(opts.Color, emptyStyle, emptyCell)
	}

	inst := instances[idx]
	marker := Marker(idx)
	style := kindStyle(inst.Kind)
	if inst.ID == opts.Selected {
		if !opts.Color {
			marker = []rune(strings.ToUpper(string(marker)))[0]
		}
		style = style.Reverse(true).Bold(true)
	}
	return paint(opts.Color, style, marker)
}

func paint(color bool, style lipgloss.Style, r rune) string {
	s := string([]rune{r, r})
	if !color {
		return s
	}
	return style.Render(s)
}

// Legend lists each instance with its marker, one per line.
func Legend(instances []dashboard.Instance, opts ASCIIOptions) string {
	var b strings.Builder
	for i, inst := range instances {
		sel := " "
		if inst.ID == opts.Selected {
			sel = ">"
		}
		size := string(inst.Size)
		if size == "" {
			size = "-"
		}
		line := fmt.Sprintf("%s %c  %-16s %-2s %-5s at %-7s %s", sel, Marker(i), inst.Kind, size, inst.Dims(), inst.Position(), inst.ID)
		if opts.Color {
			line = kindStyle(inst.Kind).Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
