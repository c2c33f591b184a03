package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/stock"
	"github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/internal/testutil"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
)

func newLedger(t *testing.T) (stock.UseCase, *testutil.FakeStockRepo) {
	t.Helper()
	repo := testutil.NewFakeStockRepo()
	txm := &testutil.FakeTxManager{Stores: []testutil.Snapshotter{repo}}
	return NewStockUseCase(repo, txm, logger.NewNop()), repo
}

func seedPaper(repo *testutil.FakeStockRepo, quantity float64, minQuantity *float64) {
	repo.Seed(model.Material{
		ID:          "paper-sra3",
		Name:        "Paper SRA3 150g",
		Unit:        "sheet",
		Quantity:    quantity,
		MinQuantity: minQuantity,
	})
}

func floatPtr(v float64) *float64 { return &v }

func TestAdjustSpendWritesQuantityAndMove(t *testing.T) {
	uc, repo := newLedger(t)
	seedPaper(repo, 1000, floatPtr(50))

	mv, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		MaterialID: "paper-sra3",
		Delta:      -60,
		Reason:     model.ReasonOrderAddItem,
	})
	require.NoError(t, err)

	assert.Equal(t, -60.0, mv.Delta)
	assert.Equal(t, 1000.0, mv.QuantityBefore)
	assert.Equal(t, 940.0, mv.QuantityAfter)
	assert.Equal(t, model.ReasonOrderAddItem, mv.Reason)

	assert.Equal(t, 940.0, repo.Materials["paper-sra3"].Quantity)
	require.Len(t, repo.Moves, 1)
}

func TestAdjustNeverGoesNegative(t *testing.T) {
	uc, repo := newLedger(t)
	seedPaper(repo, 5, nil)

	var insufficient *model.InsufficientStockError
	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		MaterialID: "paper-sra3",
		Delta:      -10,
		Reason:     model.ReasonManualAdjust,
	})
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "paper-sra3", insufficient.MaterialID)

	assert.Equal(t, 5.0, repo.Materials["paper-sra3"].Quantity)
	assert.Empty(t, repo.Moves, "failed adjust must not create a move")
}

func TestAdjustFloorAppliesToConsumptionOnly(t *testing.T) {
	uc, repo := newLedger(t)
	seedPaper(repo, 40, floatPtr(50))

	// Spend-classified reason: 40 - 5 = 35 < 50, rejected.
	var insufficient *model.InsufficientStockError
	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		MaterialID: "paper-sra3",
		Delta:      -5,
		Reason:     model.ReasonOrderAddItem,
	})
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 40.0, repo.Materials["paper-sra3"].Quantity)
	assert.Empty(t, repo.Moves)

	// Manual adjustment is floor-exempt; only the zero bound applies.
	_, err = uc.Adjust(context.Background(), &dto.AdjustStockInput{
		MaterialID: "paper-sra3",
		Delta:      -5,
		Reason:     model.ReasonManualAdjust,
	})
	require.NoError(t, err)
	assert.Equal(t, 35.0, repo.Materials["paper-sra3"].Quantity)
}

func TestAdjustReturnsAreFloorExempt(t *testing.T) {
	uc, repo := newLedger(t)
	seedPaper(repo, 40, floatPtr(50))

	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		MaterialID: "paper-sra3",
		Delta:      30,
		Reason:     model.ReasonOrderDeleteItem,
	})
	require.NoError(t, err)
	assert.Equal(t, 70.0, repo.Materials["paper-sra3"].Quantity)
}

func TestAdjustUnknownMaterial(t *testing.T) {
	uc, _ := newLedger(t)

	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		MaterialID: "ghost",
		Delta:      -1,
		Reason:     model.ReasonManualAdjust,
	})
	assert.ErrorIs(t, err, model.ErrMaterialNotFound)
}

func TestAdjustRejectsUnknownReason(t *testing.T) {
	uc, repo := newLedger(t)
	seedPaper(repo, 10, nil)

	var invalid *model.InvalidInputError
	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		MaterialID: "paper-sra3",
		Delta:      -1,
		Reason:     model.MoveReason("order add item"),
	})
	assert.ErrorAs(t, err, &invalid)
}

func TestSetQuantityComputesDeltaAndBypassesFloor(t *testing.T) {
	uc, repo := newLedger(t)
	seedPaper(repo, 100, floatPtr(50))

	mv, err := uc.SetQuantity(context.Background(), &dto.SetQuantityInput{
		MaterialID:  "paper-sra3",
		NewQuantity: 40,
	})
	require.NoError(t, err)

	assert.Equal(t, -60.0, mv.Delta)
	assert.Equal(t, model.ReasonManualCorrection, mv.Reason)
	assert.Equal(t, 40.0, repo.Materials["paper-sra3"].Quantity,
		"corrections may go below the floor")
}

func TestSetQuantityRejectsNegative(t *testing.T) {
	uc, repo := newLedger(t)
	seedPaper(repo, 100, nil)

	var invalid *model.InvalidInputError
	_, err := uc.SetQuantity(context.Background(), &dto.SetQuantityInput{
		MaterialID:  "paper-sra3",
		NewQuantity: -1,
	})
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, 100.0, repo.Materials["paper-sra3"].Quantity)
}

func TestLedgerStaysReconcilable(t *testing.T) {
	uc, repo := newLedger(t)
	seedPaper(repo, 100, nil)
	ctx := context.Background()

	steps := []dto.AdjustStockInput{
		{MaterialID: "paper-sra3", Delta: -30, Reason: model.ReasonOrderAddItem},
		{MaterialID: "paper-sra3", Delta: 10, Reason: model.ReasonOrderQtyDecrease},
		{MaterialID: "paper-sra3", Delta: -15, Reason: model.ReasonReservationFulfill},
		{MaterialID: "paper-sra3", Delta: 50, Reason: model.ReasonManualAdjust},
	}
	for i := range steps {
		_, err := uc.Adjust(ctx, &steps[i])
		require.NoError(t, err)
	}
	_, err := uc.SetQuantity(ctx, &dto.SetQuantityInput{MaterialID: "paper-sra3", NewQuantity: 77})
	require.NoError(t, err)

	sum, err := repo.SumMoveDeltas(ctx, "paper-sra3")
	require.NoError(t, err)
	assert.Equal(t, repo.Materials["paper-sra3"].Quantity, 100+sum,
		"initial quantity plus move deltas must equal current quantity")

	// Every move pairs before/after consistently.
	for _, mv := range repo.Moves {
		assert.Equal(t, mv.QuantityAfter, mv.QuantityBefore+mv.Delta)
	}
}

func TestCreateMaterialValidation(t *testing.T) {
	uc, _ := newLedger(t)

	var invalid *model.InvalidInputError
	_, err := uc.CreateMaterial(context.Background(), &dto.CreateMaterialInput{
		Name: "Paper", Unit: "sheet", Quantity: -1,
	})
	assert.ErrorAs(t, err, &invalid)

	m, err := uc.CreateMaterial(context.Background(), &dto.CreateMaterialInput{
		Name: "Paper", Unit: "sheet", Quantity: 10, MinQuantity: floatPtr(2),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, 10.0, m.Quantity)
}
