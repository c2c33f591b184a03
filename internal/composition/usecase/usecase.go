package usecase

import (
	"context"

	"github.com/rekafoe/newCRM-sub001/internal/composition"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
	"go.uber.org/zap"
)

type compositionUseCase struct {
	repo   composition.Repository
	logger logger.ZapLogger
}

func NewCompositionUseCase(repo composition.Repository, log logger.ZapLogger) composition.UseCase {
	return &compositionUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *compositionUseCase) Resolve(ctx context.Context, productType, productDescription string) ([]model.Component, error) {
	preset, err := uc.repo.GetPreset(ctx, productType, productDescription)
	if err != nil {
		return nil, err
	}
	if preset == nil {
		// Zero-requirement item: no preset configured means the item
		// consumes no materials.
		uc.logger.Debug("no composition preset, zero-requirement item",
			zap.String("product_type", productType),
			zap.String("product_description", productDescription),
		)
		return []model.Component{}, nil
	}
	return preset.Components, nil
}

func (uc *compositionUseCase) ResolveExplicit(ctx context.Context, components []model.Component) ([]model.Component, error) {
	ids := make([]string, 0, len(components))
	for _, c := range components {
		if c.MaterialID == "" {
			return nil, &model.InvalidInputError{Field: "components.material_id", Reason: "required"}
		}
		if c.QtyPerUnit <= 0 {
			return nil, &model.InvalidInputError{Field: "components.qty_per_unit", Reason: "must be positive"}
		}
		ids = append(ids, c.MaterialID)
	}

	missing, err := uc.repo.MissingMaterials(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, model.ErrMaterialNotFound
	}
	return components, nil
}
