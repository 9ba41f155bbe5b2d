package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/grid"
)

// DefaultWidth is the container width used when none is given.
const DefaultWidth = 1200

// pointsPerInch converts pixels (taken as points) to Graphviz inches.
const pointsPerInch = 72.0

// DOTOptions configures [DOT].
type DOTOptions struct {
	// Width is the container width in pixels. Default: DefaultWidth.
	Width float64

	// Titles maps kinds to display names. Kinds without a title are
	// labelled with the kind itself.
	Titles map[string]string
}

// DOT converts a layout to Graphviz source. Every widget is a fixed-size
// box pinned at its pixel position, so neato reproduces the grid exactly.
func DOT(instances []dashboard.Instance, spec grid.Spec, opts DOTOptions) string {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	colWidth := grid.ColumnWidth(width, spec)
	bottom := grid.CellToPx(grid.Position{Y: grid.Bottom(dashboard.Rects(instances))}, grid.Size{}, spec, colWidth).Top

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=14];\n")
	buf.WriteString("\n")

	for _, inst := range instances {
		px := grid.CellToPx(inst.Position(), inst.Dims(), spec, colWidth)
		cx := px.Left + px.Width/2
		cy := bottom - (px.Top + px.Height/2) // Graphviz y grows upward
		label := inst.Kind
		if t, ok := opts.Titles[inst.Kind]; ok && t != "" {
			label = t
		}
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%s,%s!\", width=%s, height=%s, fillcolor=%q];\n",
			inst.ID, label, num(cx), num(cy),
			num(px.Width/pointsPerInch), num(px.Height/pointsPerInch),
			fillColor(inst.Kind))
	}

	buf.WriteString("}\n")
	return buf.String()
}

var fills = []string{"#dbeafe", "#fce7f3", "#fef3c7", "#dcfce7", "#ede9fe", "#fee2e2", "#cffafe", "#fef9c3"}

func fillColor(kind string) string { return fills[kindIndex(kind, len(fills))] }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// SVG renders DOT source produced by [DOT] with Graphviz's neato engine.
// Returns the SVG bytes ready for display or further conversion with
// [ToPDF] or [ToPNG].
func SVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag with one that scales
// cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
