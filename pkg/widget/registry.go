// Package widget describes the widget kinds a dashboard can hold.
//
// The layout engine only needs two facts about a kind: the smallest span
// it may be resized to and the span it gets when first added. How a kind
// renders is the business of whatever draws the grid.
package widget

import (
	"maps"
	"slices"

	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/grid"
)

// Registry resolves a widget kind to its size constraints.
type Registry interface {
	// MinSize returns the smallest span allowed for kind.
	MinSize(kind string) (grid.Size, bool)

	// DefaultSize returns the span a new widget of kind starts with.
	DefaultSize(kind string) (grid.Size, bool)
}

// Built-in helpdesk widget kinds.
const (
	KindStat           = "stat"
	KindOpenIssues     = "openIssues"
	KindTicketChart    = "ticketChart"
	KindRecentActivity = "recentActivity"
	KindTeamWorkload   = "teamWorkload"
	KindSLABreaches    = "slaBreaches"
)

// Kind is a catalog entry.
type Kind struct {
	Name        string    `json:"name" toml:"name"`
	Title       string    `json:"title" toml:"title"`
	MinSize     grid.Size `json:"minSize" toml:"-"`
	DefaultSize grid.Size `json:"defaultSize" toml:"-"`
}

// Catalog is a static, map-backed Registry.
type Catalog struct {
	kinds map[string]Kind
}

// NewCatalog builds a catalog from kinds. Later entries replace earlier
// ones with the same name.
func NewCatalog(kinds ...Kind) *Catalog {
	c := &Catalog{kinds: make(map[string]Kind, len(kinds))}
	for _, k := range kinds {
		c.kinds[k.Name] = k
	}
	return c
}

// DefaultCatalog returns the built-in helpdesk kinds.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Kind{Name: KindStat, Title: "Stat", MinSize: grid.Size{W: 1, H: 1}, DefaultSize: grid.Size{W: 1, H: 1}},
		Kind{Name: KindOpenIssues, Title: "Open issues", MinSize: grid.Size{W: 2, H: 2}, DefaultSize: grid.Size{W: 3, H: 2}},
		Kind{Name: KindTicketChart, Title: "Tickets over time", MinSize: grid.Size{W: 3, H: 2}, DefaultSize: grid.Size{W: 6, H: 3}},
		Kind{Name: KindRecentActivity, Title: "Recent activity", MinSize: grid.Size{W: 3, H: 2}, DefaultSize: grid.Size{W: 6, H: 3}},
		Kind{Name: KindTeamWorkload, Title: "Team workload", MinSize: grid.Size{W: 2, H: 2}, DefaultSize: grid.Size{W: 3, H: 2}},
		Kind{Name: KindSLABreaches, Title: "SLA breaches", MinSize: grid.Size{W: 2, H: 1}, DefaultSize: grid.Size{W: 3, H: 2}},
	)
}

// With returns a copy of c with extra kinds added or replaced.
func (c *Catalog) With(kinds ...Kind) *Catalog {
	out := &Catalog{kinds: maps.Clone(c.kinds)}
	for _, k := range kinds {
		out.kinds[k.Name] = k
	}
	return out
}

// MinSize implements Registry.
func (c *Catalog) MinSize(kind string) (grid.Size, bool) {
	k, ok := c.kinds[kind]
	return k.MinSize, ok
}

// DefaultSize implements Registry.
func (c *Catalog) DefaultSize(kind string) (grid.Size, bool) {
	k, ok := c.kinds[kind]
	return k.DefaultSize, ok
}

// Lookup returns the full catalog entry for kind.
func (c *Catalog) Lookup(kind string) (Kind, bool) {
	k, ok := c.kinds[kind]
	return k, ok
}

// Kinds returns every entry sorted by name.
func (c *Catalog) Kinds() []Kind {
	names := slices.Sorted(maps.Keys(c.kinds))
	out := make([]Kind, 0, len(names))
	for _, n := range names {
		out = append(out, c.kinds[n])
	}
	return out
}

// Validate checks every kind against the size table: names must be
// well-formed, sizes at least 1x1, the default must cover the minimum,
// and the minimum must fit inside the XL entry of every breakpoint so a
// widget can always be shown.
func (c *Catalog) Validate(sizes grid.SizeTable) error {
	for _, k := range c.Kinds() {
		if err := errors.ValidateKind(k.Name); err != nil {
			return err
		}
		if k.MinSize.W < 1 || k.MinSize.H < 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "kind %q: min size must be at least 1x1", k.Name)
		}
		if !k.DefaultSize.Covers(k.MinSize) {
			return errors.New(errors.ErrCodeInvalidConfig, "kind %q: default size %s is smaller than min size %s", k.Name, k.DefaultSize, k.MinSize)
		}
		for _, bp := range grid.Breakpoints {
			xl, ok := sizes.Lookup(bp, grid.SizeXL)
			if !ok || !xl.Covers(k.MinSize) {
				return errors.New(errors.ErrCodeInvalidConfig, "kind %q: min size %s does not fit breakpoint %s", k.Name, k.MinSize, bp)
			}
		}
	}
	return nil
}

// Ensure Catalog implements Registry.
var _ Registry = (*Catalog)(nil)
