// Package pkg provides the core libraries of dashgrid, a grid-layout engine
// for dashboard widgets.
//
// # Overview
//
// A dashboard is a set of widget instances placed on a column grid. Each
// instance has a kind, a position and one of a few discrete sizes. The
// engine keeps the layout free of overlaps and inside the grid's columns
// while widgets are added, moved, resized and removed, and it persists the
// layout after every change.
//
// The typical data flow:
//
//	Widget catalog + grid config
//	         ↓
//	    [dashboard] package (layout store: mutations, drag, persistence)
//	         ↓
//	    [grid] package (collision, placement, compaction, sizes)
//	         ↓
//	    [render] package (terminal grid, Graphviz DOT/SVG/PDF/PNG)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/dashgrid/pkg/dashboard"
//	    "github.com/matzehuels/dashgrid/pkg/grid"
//	    "github.com/matzehuels/dashgrid/pkg/render"
//	    "github.com/matzehuels/dashgrid/pkg/storage"
//	    "github.com/matzehuels/dashgrid/pkg/widget"
//	)
//
//	ctx := context.Background()
//	backend, _ := storage.Open(ctx, storage.Config{Backend: storage.BackendFile})
//	store, _ := dashboard.New(dashboard.Options{
//	    Persistence: storage.Bind(backend, storage.LayoutKey("", "default")),
//	})
//	store.Load(ctx)
//
//	inst, _ := store.Add(ctx, widget.KindOpenIssues)
//	store.Move(ctx, inst.ID, grid.Position{X: 6, Y: 0})
//	store.CycleSize(ctx, inst.ID)
//
//	fmt.Print(render.ASCII(store.Instances(), store.Spec(), render.ASCIIOptions{}))
//
// # Main Packages
//
// [grid] - Pure geometry: rectangles, collision tests, BFS placement,
// first-fit, compaction, breakpoints and the size table.
//
// [widget] - The registry of widget kinds with their minimum and default
// sizes.
//
// [dashboard] - The layout store. Owns the instance list, enforces the
// layout invariants on every mutation and writes a snapshot after each
// one. Also provides pointer-drag sessions and the default seed layout.
//
// [storage] - Key-value backends for layout snapshots: memory, file,
// SQLite, Redis and MongoDB.
//
// [render] - Terminal and Graphviz renderings of a layout, plus SVG
// conversion to PDF and PNG.
//
// [config] - TOML configuration for grids, sizes, extra widget kinds and
// storage.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for store mutations and storage access.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test ./pkg/grid/...               # Specific package
//	go test -run Example ./pkg/grid      # Examples only
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/dashgrid/pkg/grid
// [widget]: https://pkg.go.dev/github.com/matzehuels/dashgrid/pkg/widget
// [dashboard]: https://pkg.go.dev/github.com/matzehuels/dashgrid/pkg/dashboard
// [storage]: https://pkg.go.dev/github.com/matzehuels/dashgrid/pkg/storage
// [render]: https://pkg.go.dev/github.com/matzehuels/dashgrid/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/dashgrid/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/dashgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/dashgrid/pkg/observability
package pkg
