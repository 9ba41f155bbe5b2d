package dashboard

import (
	"github.com/matzehuels/dashgrid/pkg/grid"
	"github.com/matzehuels/dashgrid/pkg/widget"
)

// Seed describes one widget of a default layout. Positions are
// preferences: seeding resolves each one against the widgets already
// seeded, so a seed written for a wide grid stays valid on a narrow one.
type Seed struct {
	Kind     string         `json:"kind" toml:"kind"`
	Size     grid.SizeLabel `json:"size" toml:"size"`
	Position grid.Position  `json:"position" toml:"-"`
}

// DefaultLayout returns the built-in arrangement: four stat tiles across
// the top row with two large panels and one medium panel below.
func DefaultLayout() []Seed {
	return []Seed{
		{Kind: widget.KindStat, Size: grid.SizeS, Position: grid.Position{X: 0, Y: 0}},
		{Kind: widget.KindStat, Size: grid.SizeS, Position: grid.Position{X: 1, Y: 0}},
		{Kind: widget.KindStat, Size: grid.SizeS, Position: grid.Position{X: 2, Y: 0}},
		{Kind: widget.KindStat, Size: grid.SizeS, Position: grid.Position{X: 3, Y: 0}},
		{Kind: widget.KindTicketChart, Size: grid.SizeL, Position: grid.Position{X: 0, Y: 1}},
		{Kind: widget.KindRecentActivity, Size: grid.SizeL, Position: grid.Position{X: 6, Y: 1}},
		{Kind: widget.KindTeamWorkload, Size: grid.SizeM, Position: grid.Position{X: 0, Y: 4}},
	}
}

// seedLocked builds a fresh layout from s.defaults for the current
// breakpoint. Seeds naming unknown kinds are skipped.
func (s *Store) seedLocked() []Instance {
	spec := s.spec()
	out := make([]Instance, 0, len(s.defaults))
	placed := make([]grid.Rect, 0, len(s.defaults))

	for _, seed := range s.defaults {
		minSize, ok := s.registry.MinSize(seed.Kind)
		if !ok {
			s.logger.Warn("skipping default widget of unknown kind", "kind", seed.Kind)
			continue
		}
		label := grid.FitLabel(s.sizes, s.bp, seed.Size, minSize)
		size, _ := s.sizes.Lookup(s.bp, label)

		inst := Instance{ID: s.newIDLocked(out), Kind: seed.Kind}
		inst.reshape(label, size)
		inst.moveTo(grid.Clamp(seed.Position, size, spec))
		inst.moveTo(grid.PlaceWithoutOverlap(placed, inst.Rect(), spec))

		out = append(out, inst)
		placed = append(placed, inst.Rect())
	}
	return out
}
