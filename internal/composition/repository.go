package composition

import (
	"context"

	"github.com/rekafoe/newCRM-sub001/internal/model"
)

type Repository interface {
	// GetPreset returns nil when no preset is configured for the pair.
	GetPreset(ctx context.Context, productType, productDescription string) (*model.CompositionPreset, error)

	// MissingMaterials returns the subset of ids with no materials row.
	MissingMaterials(ctx context.Context, materialIDs []string) ([]string, error)
}
