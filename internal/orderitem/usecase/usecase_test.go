package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	compusecase "github.com/rekafoe/newCRM-sub001/internal/composition/usecase"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/orderitem"
	"github.com/rekafoe/newCRM-sub001/internal/orderitem/dto"
	stockusecase "github.com/rekafoe/newCRM-sub001/internal/stock/usecase"
	"github.com/rekafoe/newCRM-sub001/internal/testutil"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
)

type binderFixture struct {
	uc        orderitem.UseCase
	stockRepo *testutil.FakeStockRepo
	itemRepo  *testutil.FakeOrderItemRepo
	compRepo  *testutil.FakeCompositionRepo
}

func newBinder(t *testing.T) *binderFixture {
	t.Helper()
	stockRepo := testutil.NewFakeStockRepo()
	itemRepo := testutil.NewFakeOrderItemRepo()
	compRepo := testutil.NewFakeCompositionRepo()
	txm := &testutil.FakeTxManager{Stores: []testutil.Snapshotter{stockRepo, itemRepo}}

	log := logger.NewNop()
	stockUC := stockusecase.NewStockUseCase(stockRepo, txm, log)
	compUC := compusecase.NewCompositionUseCase(compRepo, log)
	return &binderFixture{
		uc:        NewOrderItemUseCase(itemRepo, stockUC, compUC, txm, log),
		stockRepo: stockRepo,
		itemRepo:  itemRepo,
		compRepo:  compRepo,
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func (f *binderFixture) seedFlyerPreset(qtyPerUnit float64) {
	f.compRepo.SeedPreset(model.CompositionPreset{
		ProductType:        "flyers",
		ProductDescription: "A6 color",
		Components: []model.Component{
			{MaterialID: "paper-sra3", QtyPerUnit: qtyPerUnit},
		},
	})
}

func TestAddItemDeductsPerComponent(t *testing.T) {
	f := newBinder(t)
	f.stockRepo.Seed(model.Material{ID: "paper-sra3", Name: "Paper SRA3", Unit: "sheet", Quantity: 1000, MinQuantity: floatPtr(50)})
	f.seedFlyerPreset(1)

	item, err := f.uc.AddItem(context.Background(), &dto.AddLineItemInput{
		OrderID:     "order-1",
		ProductType: "flyers",
		Description: "A6 color",
		Quantity:    60,
	})
	require.NoError(t, err)

	assert.Equal(t, 940.0, f.stockRepo.Materials["paper-sra3"].Quantity)
	moves := f.stockRepo.MovesFor("paper-sra3")
	require.Len(t, moves, 1)
	assert.Equal(t, -60.0, moves[0].Delta)
	assert.Equal(t, model.ReasonOrderAddItem, moves[0].Reason)
	require.NotNil(t, moves[0].OrderID)
	assert.Equal(t, "order-1", *moves[0].OrderID)

	require.Len(t, item.Components, 1)
	assert.Contains(t, f.itemRepo.Items, item.ID)
}

func TestAddItemInsufficientStockLeavesNoTrace(t *testing.T) {
	f := newBinder(t)
	f.stockRepo.Seed(model.Material{ID: "paper-sra3", Name: "Paper SRA3", Unit: "sheet", Quantity: 40, MinQuantity: floatPtr(50)})
	f.seedFlyerPreset(1)

	var insufficient *model.InsufficientStockError
	_, err := f.uc.AddItem(context.Background(), &dto.AddLineItemInput{
		OrderID:     "order-1",
		ProductType: "flyers",
		Description: "A6 color",
		Quantity:    5,
	})
	require.ErrorAs(t, err, &insufficient)

	assert.Equal(t, 40.0, f.stockRepo.Materials["paper-sra3"].Quantity)
	assert.Empty(t, f.stockRepo.Moves)
	assert.Empty(t, f.itemRepo.Items, "no line item row on failure")
}

func TestUpdateItemQuantityDecreaseReturnsMaterials(t *testing.T) {
	f := newBinder(t)
	f.stockRepo.Seed(model.Material{ID: "paper-sra3", Name: "Paper SRA3", Unit: "sheet", Quantity: 1000, MinQuantity: floatPtr(50)})
	f.seedFlyerPreset(1)

	item, err := f.uc.AddItem(context.Background(), &dto.AddLineItemInput{
		OrderID:     "order-1",
		ProductType: "flyers",
		Description: "A6 color",
		Quantity:    60,
	})
	require.NoError(t, err)

	updated, err := f.uc.UpdateItem(context.Background(), &dto.UpdateLineItemInput{
		ID:    item.ID,
		Patch: dto.LineItemPatch{Quantity: intPtr(30)},
	})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Quantity)

	assert.Equal(t, 970.0, f.stockRepo.Materials["paper-sra3"].Quantity)
	moves := f.stockRepo.MovesFor("paper-sra3")
	require.Len(t, moves, 2)
	assert.Equal(t, 30.0, moves[1].Delta)
	assert.Equal(t, model.ReasonOrderQtyDecrease, moves[1].Reason)
}

func TestUpdateItemQuantityIncreaseChecksFloor(t *testing.T) {
	f := newBinder(t)
	f.stockRepo.Seed(model.Material{ID: "paper-sra3", Name: "Paper SRA3", Unit: "sheet", Quantity: 100, MinQuantity: floatPtr(50)})
	f.seedFlyerPreset(1)

	item, err := f.uc.AddItem(context.Background(), &dto.AddLineItemInput{
		OrderID:     "order-1",
		ProductType: "flyers",
		Description: "A6 color",
		Quantity:    10,
	})
	require.NoError(t, err)
	require.Equal(t, 90.0, f.stockRepo.Materials["paper-sra3"].Quantity)

	// Raising to 60 would need 50 more sheets, landing at 40 < floor 50.
	var insufficient *model.InsufficientStockError
	_, err = f.uc.UpdateItem(context.Background(), &dto.UpdateLineItemInput{
		ID:    item.ID,
		Patch: dto.LineItemPatch{Quantity: intPtr(60)},
	})
	require.ErrorAs(t, err, &insufficient)

	assert.Equal(t, 90.0, f.stockRepo.Materials["paper-sra3"].Quantity)
	assert.Equal(t, 10, f.itemRepo.Items[item.ID].Quantity, "quantity unchanged after rollback")
	assert.Len(t, f.stockRepo.MovesFor("paper-sra3"), 1)
}

func TestAddDeleteRoundTripWithCeiling(t *testing.T) {
	f := newBinder(t)
	f.stockRepo.Seed(model.Material{ID: "lam-film", Name: "Laminating film", Unit: "m", Quantity: 20})
	f.compRepo.SeedPreset(model.CompositionPreset{
		ProductType:        "cards",
		ProductDescription: "laminated",
		Components: []model.Component{
			{MaterialID: "lam-film", QtyPerUnit: 0.34},
		},
	})

	item, err := f.uc.AddItem(context.Background(), &dto.AddLineItemInput{
		OrderID:     "order-2",
		ProductType: "cards",
		Description: "laminated",
		Quantity:    7,
	})
	require.NoError(t, err)
	// ceil(0.34 * 7) = 3
	assert.Equal(t, 17.0, f.stockRepo.Materials["lam-film"].Quantity)

	require.NoError(t, f.uc.DeleteItem(context.Background(), item.ID, nil))
	assert.Equal(t, 20.0, f.stockRepo.Materials["lam-film"].Quantity, "delete returns exactly what add took")

	moves := f.stockRepo.MovesFor("lam-film")
	require.Len(t, moves, 2)
	assert.Equal(t, -3.0, moves[0].Delta)
	assert.Equal(t, 3.0, moves[1].Delta)
	assert.Equal(t, model.ReasonOrderDeleteItem, moves[1].Reason)
	assert.NotContains(t, f.itemRepo.Items, item.ID)
}

func TestDeleteItemIdempotent(t *testing.T) {
	f := newBinder(t)

	require.NoError(t, f.uc.DeleteItem(context.Background(), "never-existed", nil))
	assert.Empty(t, f.stockRepo.Moves)
}

func TestAddItemZeroQuantityConsumesOneUnit(t *testing.T) {
	f := newBinder(t)
	f.stockRepo.Seed(model.Material{ID: "paper-sra3", Name: "Paper SRA3", Unit: "sheet", Quantity: 10})
	f.seedFlyerPreset(2)

	_, err := f.uc.AddItem(context.Background(), &dto.AddLineItemInput{
		OrderID:     "order-3",
		ProductType: "flyers",
		Description: "A6 color",
		Quantity:    0,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.0, f.stockRepo.Materials["paper-sra3"].Quantity)
}

func TestAddItemWithoutPresetIsZeroRequirement(t *testing.T) {
	f := newBinder(t)

	item, err := f.uc.AddItem(context.Background(), &dto.AddLineItemInput{
		OrderID:     "order-4",
		ProductType: "design-service",
		Description: "logo",
		Quantity:    1,
	})
	require.NoError(t, err)

	assert.Empty(t, item.Components)
	assert.Empty(t, f.stockRepo.Moves)
	assert.Contains(t, f.itemRepo.Items, item.ID)
}

func TestAddItemExplicitComponentsArePersistedAndReversed(t *testing.T) {
	f := newBinder(t)
	f.stockRepo.Seed(model.Material{ID: "vinyl", Name: "Vinyl", Unit: "m", Quantity: 50})
	f.stockRepo.Seed(model.Material{ID: "ink-w", Name: "White ink", Unit: "ml", Quantity: 200})
	f.compRepo.Existing["vinyl"] = true
	f.compRepo.Existing["ink-w"] = true

	item, err := f.uc.AddItem(context.Background(), &dto.AddLineItemInput{
		OrderID:     "order-5",
		ProductType: "banner",
		Quantity:    2,
		Components: []model.Component{
			{MaterialID: "vinyl", QtyPerUnit: 3},
			{MaterialID: "ink-w", QtyPerUnit: 10.5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 44.0, f.stockRepo.Materials["vinyl"].Quantity)
	assert.Equal(t, 179.0, f.stockRepo.Materials["ink-w"].Quantity, "ceil(10.5*2) = 21")
	assert.Len(t, f.itemRepo.Items[item.ID].Components, 2)

	require.NoError(t, f.uc.DeleteItem(context.Background(), item.ID, nil))
	assert.Equal(t, 50.0, f.stockRepo.Materials["vinyl"].Quantity)
	assert.Equal(t, 200.0, f.stockRepo.Materials["ink-w"].Quantity)
}

func TestAddItemMultiMaterialFailureIsAtomic(t *testing.T) {
	f := newBinder(t)
	f.stockRepo.Seed(model.Material{ID: "vinyl", Name: "Vinyl", Unit: "m", Quantity: 50})
	f.stockRepo.Seed(model.Material{ID: "ink-w", Name: "White ink", Unit: "ml", Quantity: 5})
	f.compRepo.Existing["vinyl"] = true
	f.compRepo.Existing["ink-w"] = true

	_, err := f.uc.AddItem(context.Background(), &dto.AddLineItemInput{
		OrderID:     "order-6",
		ProductType: "banner",
		Quantity:    1,
		Components: []model.Component{
			{MaterialID: "vinyl", QtyPerUnit: 3},
			{MaterialID: "ink-w", QtyPerUnit: 10},
		},
	})
	require.Error(t, err)

	assert.Equal(t, 50.0, f.stockRepo.Materials["vinyl"].Quantity, "first deduction rolled back")
	assert.Empty(t, f.stockRepo.Moves)
	assert.Empty(t, f.itemRepo.Items)
}

func TestUpdateItemNonQuantityPatchMovesNothing(t *testing.T) {
	f := newBinder(t)
	f.stockRepo.Seed(model.Material{ID: "paper-sra3", Name: "Paper SRA3", Unit: "sheet", Quantity: 100})
	f.seedFlyerPreset(1)

	item, err := f.uc.AddItem(context.Background(), &dto.AddLineItemInput{
		OrderID:     "order-7",
		ProductType: "flyers",
		Description: "A6 color",
		Quantity:    10,
	})
	require.NoError(t, err)
	movesBefore := len(f.stockRepo.Moves)

	updated, err := f.uc.UpdateItem(context.Background(), &dto.UpdateLineItemInput{
		ID:    item.ID,
		Patch: dto.LineItemPatch{UnitPrice: floatPtr(4.2), Sides: intPtr(2)},
	})
	require.NoError(t, err)

	assert.Equal(t, 4.2, updated.UnitPrice)
	assert.Equal(t, 2, updated.Sides)
	assert.Equal(t, 10, updated.Quantity)
	assert.Len(t, f.stockRepo.Moves, movesBefore, "non-quantity patches never touch the ledger")
}

func TestUpdateItemNotFound(t *testing.T) {
	f := newBinder(t)

	_, err := f.uc.UpdateItem(context.Background(), &dto.UpdateLineItemInput{
		ID:    "missing",
		Patch: dto.LineItemPatch{Quantity: intPtr(5)},
	})
	assert.ErrorIs(t, err, model.ErrLineItemNotFound)
}
