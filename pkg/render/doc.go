// Package render draws dashboard layouts.
//
// # Overview
//
// Three outputs are provided:
//
//   - [ASCII]: a cell map for terminals, coloured with lipgloss
//   - [DOT]: Graphviz source with every widget pinned at its pixel position
//   - [SVG]: the DOT source rendered in-process with go-graphviz
//
// [ToPDF] and [ToPNG] convert the SVG with the external rsvg-convert tool.
//
//	dot := render.DOT(store.Instances(), store.Spec(), render.DOTOptions{Width: 1200})
//	svg, err := render.SVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2)
//
// Pixel geometry comes from [grid.CellToPx], so an exported picture
// matches what a browser surface of the same width would draw.
package render
