package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/internal/testutil"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
)

func TestExecuteBatchAllOrNothing(t *testing.T) {
	uc, repo := newLedger(t)
	repo.Seed(model.Material{ID: "mat-a", Name: "Material A", Unit: "pcs", Quantity: 100})
	repo.Seed(model.Material{ID: "mat-b", Name: "Material B", Unit: "pcs", Quantity: 5})

	_, err := uc.ExecuteBatch(context.Background(), []dto.BatchOperation{
		{Type: dto.BatchOpSpend, MaterialID: "mat-a", Quantity: 10},
		{Type: dto.BatchOpSpend, MaterialID: "mat-b", Quantity: 1000},
	})

	var batchErr *model.BatchOpError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Index)
	var insufficient *model.InsufficientStockError
	assert.ErrorAs(t, batchErr, &insufficient)

	// The first op already ran inside the transaction; the rollback must
	// take it back with everything else.
	assert.Equal(t, 100.0, repo.Materials["mat-a"].Quantity)
	assert.Equal(t, 5.0, repo.Materials["mat-b"].Quantity)
	assert.Empty(t, repo.Moves)
}

func TestExecuteBatchMixedOperations(t *testing.T) {
	uc, repo := newLedger(t)
	repo.Seed(model.Material{ID: "mat-a", Name: "Material A", Unit: "pcs", Quantity: 100})
	repo.Seed(model.Material{ID: "mat-b", Name: "Material B", Unit: "pcs", Quantity: 20})
	repo.Seed(model.Material{ID: "mat-c", Name: "Material C", Unit: "pcs", Quantity: 7})

	moves, err := uc.ExecuteBatch(context.Background(), []dto.BatchOperation{
		{Type: dto.BatchOpSpend, MaterialID: "mat-a", Quantity: 30, Reason: model.ReasonAutoDeduct},
		{Type: dto.BatchOpAdd, MaterialID: "mat-b", Quantity: 15},
		{Type: dto.BatchOpAdjust, MaterialID: "mat-c", NewQuantity: floatPtr(50)},
	})
	require.NoError(t, err)
	require.Len(t, moves, 3)

	assert.Equal(t, 70.0, repo.Materials["mat-a"].Quantity)
	assert.Equal(t, 35.0, repo.Materials["mat-b"].Quantity)
	assert.Equal(t, 50.0, repo.Materials["mat-c"].Quantity)

	assert.Equal(t, model.ReasonAutoDeduct, moves[0].Reason)
	assert.Equal(t, model.ReasonManualAdjust, moves[1].Reason, "reason defaults when unset")
	assert.Equal(t, model.ReasonManualCorrection, moves[2].Reason)
	assert.Equal(t, 43.0, moves[2].Delta)
}

func TestExecuteBatchValidation(t *testing.T) {
	uc, repo := newLedger(t)
	repo.Seed(model.Material{ID: "mat-a", Name: "Material A", Unit: "pcs", Quantity: 100})

	cases := []struct {
		name  string
		ops   []dto.BatchOperation
		index int
	}{
		{
			name:  "unknown type",
			ops:   []dto.BatchOperation{{Type: "transfer", MaterialID: "mat-a", Quantity: 1}},
			index: 0,
		},
		{
			name: "non positive quantity",
			ops: []dto.BatchOperation{
				{Type: dto.BatchOpSpend, MaterialID: "mat-a", Quantity: 5},
				{Type: dto.BatchOpAdd, MaterialID: "mat-a", Quantity: 0},
			},
			index: 1,
		},
		{
			name:  "adjust without target",
			ops:   []dto.BatchOperation{{Type: dto.BatchOpAdjust, MaterialID: "mat-a"}},
			index: 0,
		},
		{
			name:  "missing material id",
			ops:   []dto.BatchOperation{{Type: dto.BatchOpSpend, Quantity: 1}},
			index: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.ExecuteBatch(context.Background(), tc.ops)

			var batchErr *model.BatchOpError
			require.ErrorAs(t, err, &batchErr)
			assert.Equal(t, tc.index, batchErr.Index)
			var invalid *model.InvalidInputError
			assert.ErrorAs(t, batchErr, &invalid)

			assert.Equal(t, 100.0, repo.Materials["mat-a"].Quantity)
			assert.Empty(t, repo.Moves)
		})
	}
}

func TestExecuteBatchRejectsEmpty(t *testing.T) {
	uc, _ := newLedger(t)

	var invalid *model.InvalidInputError
	_, err := uc.ExecuteBatch(context.Background(), nil)
	assert.ErrorAs(t, err, &invalid)
}

func TestExecuteBatchRollsBackOnRepoFailure(t *testing.T) {
	repo := testutil.NewFakeStockRepo()
	txm := &testutil.FakeTxManager{Stores: []testutil.Snapshotter{repo}}
	uc := NewStockUseCase(repo, txm, logger.NewNop())
	repo.Seed(model.Material{ID: "mat-a", Name: "Material A", Unit: "pcs", Quantity: 100})

	repo.InsertErr = assert.AnError
	_, err := uc.ExecuteBatch(context.Background(), []dto.BatchOperation{
		{Type: dto.BatchOpSpend, MaterialID: "mat-a", Quantity: 10},
	})
	require.Error(t, err)

	assert.Equal(t, 100.0, repo.Materials["mat-a"].Quantity)
	assert.Empty(t, repo.Moves)
}
