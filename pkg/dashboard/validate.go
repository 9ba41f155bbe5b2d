package dashboard

import (
	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/grid"
	"github.com/matzehuels/dashgrid/pkg/widget"
)

// validateLayout checks list against the store invariants for spec.
func validateLayout(list []Instance, spec grid.Spec, registry widget.Registry) error {
	seen := make(map[string]bool, len(list))
	for _, inst := range list {
		if inst.ID == "" {
			return errors.New(errors.ErrCodeInvalidLayout, "instance of kind %q has no id", inst.Kind)
		}
		if seen[inst.ID] {
			return errors.New(errors.ErrCodeInvalidLayout, "duplicate instance id %q", inst.ID)
		}
		seen[inst.ID] = true

		minSize, ok := registry.MinSize(inst.Kind)
		if !ok {
			return errors.New(errors.ErrCodeInvalidLayout, "instance %s: unknown kind %q", inst.ID, inst.Kind)
		}
		if inst.Size != "" && !inst.Size.Valid() {
			return errors.New(errors.ErrCodeInvalidLayout, "instance %s: unknown size label %q", inst.ID, inst.Size)
		}
		if !grid.InBounds(inst.Rect(), spec) {
			return errors.New(errors.ErrCodeInvalidLayout, "instance %s at %s size %s is outside a %d-column grid",
				inst.ID, inst.Position(), inst.Dims(), spec.Cols)
		}
		if !inst.Dims().Covers(minSize) {
			return errors.New(errors.ErrCodeInvalidLayout, "instance %s is %s, smaller than the %s minimum for %s",
				inst.ID, inst.Dims(), minSize, inst.Kind)
		}
	}

	if pairs := grid.Overlapping(Rects(list)); len(pairs) > 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "instances %s and %s overlap", pairs[0][0], pairs[0][1])
	}
	return nil
}
