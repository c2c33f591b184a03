package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rekafoe/newCRM-sub001/internal/composition"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/testutil"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
)

func TestResolveReturnsPresetComponents(t *testing.T) {
	repo := testutil.NewFakeCompositionRepo()
	repo.SeedPreset(model.CompositionPreset{
		ID:                 "p1",
		ProductType:        "flyers",
		ProductDescription: "A6 4+4",
		Components: model.ComponentList{
			{MaterialID: "paper-sra3", QtyPerUnit: 0.25},
			{MaterialID: "ink-cmyk", QtyPerUnit: 0.01},
		},
	})
	uc := NewCompositionUseCase(repo, logger.NewNop())

	components, err := uc.Resolve(context.Background(), "flyers", "A6 4+4")
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, "paper-sra3", components[0].MaterialID)
	assert.Equal(t, 0.25, components[0].QtyPerUnit)
}

func TestResolveZeroRequirementItem(t *testing.T) {
	uc := NewCompositionUseCase(testutil.NewFakeCompositionRepo(), logger.NewNop())

	components, err := uc.Resolve(context.Background(), "design-service", "logo")
	require.NoError(t, err, "missing preset is not an error")
	assert.Empty(t, components)
	assert.NotNil(t, components)
}

func TestResolveExplicitValidatesMaterials(t *testing.T) {
	repo := testutil.NewFakeCompositionRepo()
	repo.Existing["paper-sra3"] = true
	uc := NewCompositionUseCase(repo, logger.NewNop())

	components, err := uc.ResolveExplicit(context.Background(), []model.Component{
		{MaterialID: "paper-sra3", QtyPerUnit: 1},
	})
	require.NoError(t, err)
	assert.Len(t, components, 1)

	_, err = uc.ResolveExplicit(context.Background(), []model.Component{
		{MaterialID: "paper-sra3", QtyPerUnit: 1},
		{MaterialID: "ghost", QtyPerUnit: 2},
	})
	assert.ErrorIs(t, err, model.ErrMaterialNotFound)
}

func TestResolveExplicitRejectsBadQuantities(t *testing.T) {
	repo := testutil.NewFakeCompositionRepo()
	repo.Existing["paper-sra3"] = true
	uc := NewCompositionUseCase(repo, logger.NewNop())

	var invalid *model.InvalidInputError

	_, err := uc.ResolveExplicit(context.Background(), []model.Component{
		{MaterialID: "paper-sra3", QtyPerUnit: 0},
	})
	assert.ErrorAs(t, err, &invalid)

	_, err = uc.ResolveExplicit(context.Background(), []model.Component{
		{MaterialID: "", QtyPerUnit: 1},
	})
	assert.ErrorAs(t, err, &invalid)
}

func TestNeedRoundsUp(t *testing.T) {
	// Sheets cannot be partially consumed; rounding is always toward
	// over-reporting.
	assert.Equal(t, 60.0, composition.Need(1, 60))
	assert.Equal(t, 3.0, composition.Need(0.34, 7))
	assert.Equal(t, 5.0, composition.Need(2.5, 2))
	assert.Equal(t, 1.0, composition.Need(0.01, 1))
	assert.Equal(t, 0.0, composition.Need(0.5, 0))
}
