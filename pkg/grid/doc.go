// Package grid implements the geometry of the dashboard grid.
//
// Everything in this package is a pure function over plain coordinate
// data: no state is kept between calls and no input slice is modified.
// The [dashboard] package builds its stateful layout store on top of it.
//
// # Coordinates
//
// A grid has a fixed number of columns per [Breakpoint] (see [Spec]) and
// an unbounded number of rows. Cells are addressed by integer [Position]
// values with the origin at the top-left; a widget occupies the half-open
// cell range [x, x+w) × [y, y+h). Two rectangles that only share an edge
// do not intersect.
//
// # Placement
//
// [PlaceWithoutOverlap] resolves a preferred position into the nearest
// collision-free one using a breadth-first search over the 8-connected
// neighbourhood. A preferred position that is already free is returned
// unchanged. [FirstFit] scans rows top to bottom, columns left to right,
// and is used when there is no preferred position at all.
//
// # Compaction
//
// [Compact] pulls every rectangle as far up and left as it can go without
// creating overlaps, processing rectangles in (y, x) order so the result
// is deterministic for identical input.
//
// # Sizes
//
// Widgets take one of a small ordered set of discrete shapes ([SizeLabel]).
// A [SizeTable] maps every (breakpoint, label) pair to a cell span, and
// [NearestSize] snaps arbitrary dimensions onto that table.
//
// [dashboard]: github.com/matzehuels/dashgrid/pkg/dashboard
package grid
