// Package cli implements the dashgrid command-line interface.
//
// This package provides commands for inspecting and editing a dashboard
// layout, exporting it as JSON, DOT, SVG, PDF or PNG, arranging it
// interactively in the terminal and serving it over HTTP. The CLI is
// built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - show: Print the layout as a cell map
//   - add, remove, move, resize, resize-to, cycle: Edit single widgets
//   - compact, breakpoint, reset: Edit the whole layout
//   - export: Write the layout in another format
//   - tui: Arrange the layout interactively
//   - serve: Run the HTTP API
//   - storage: Manage the file backend's data directory
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// registers logging observability hooks for the store and the storage
// backend. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered layout.svg (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports store and storage events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnMutation(_ context.Context, op, id string, d time.Duration) {
	h.logger.Debug("mutation", "op", op, "id", id, "took", d)
}

func (h logHooks) OnLoad(_ context.Context, instances int, reseeded bool, reason string) {
	if reseeded {
		h.logger.Debug("layout reseeded", "instances", instances, "reason", reason)
		return
	}
	h.logger.Debug("layout loaded", "instances", instances)
}

func (h logHooks) OnSave(_ context.Context, bytes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout save failed", "err", err)
		return
	}
	h.logger.Debug("layout saved", "bytes", bytes, "took", d)
}

func (h logHooks) OnRead(_ context.Context, backend, key string, hit bool) {
	h.logger.Debug("storage read", "backend", backend, "key", key, "hit", hit)
}

func (h logHooks) OnWrite(_ context.Context, backend, key string, size int) {
	h.logger.Debug("storage write", "backend", backend, "key", key, "bytes", size)
}

func (h logHooks) OnError(_ context.Context, backend, op string, err error) {
	h.logger.Debug("storage error", "backend", backend, "op", op, "err", err)
}
