package composition

import (
	"context"
	"math"

	"github.com/rekafoe/newCRM-sub001/internal/model"
)

// UseCase resolves the materials required to produce one unit of a line
// item, either from the stored preset table or from an explicit component
// list supplied by the caller.
type UseCase interface {
	// Resolve looks up the preset for (productType, productDescription).
	// A missing preset is the zero-requirement path: the item legitimately
	// consumes no materials and an empty list is returned, not an error.
	Resolve(ctx context.Context, productType, productDescription string) ([]model.Component, error)

	// ResolveExplicit validates a caller-supplied component list: every
	// referenced material must exist and every per-unit quantity must be
	// positive.
	ResolveExplicit(ctx context.Context, components []model.Component) ([]model.Component, error)
}

// Need converts a per-unit quantity into whole consumable units for the
// given number of produced units. Rounding is always up: sheets and similar
// materials cannot be partially consumed, and over-reporting consumption is
// the safe direction.
func Need(qtyPerUnit float64, units int) float64 {
	return math.Ceil(qtyPerUnit * float64(units))
}
