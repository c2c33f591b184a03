package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rekafoe/newCRM-sub001/internal/composition"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/orderitem"
	"github.com/rekafoe/newCRM-sub001/internal/orderitem/dto"
	"github.com/rekafoe/newCRM-sub001/internal/stock"
	stockdto "github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
	"go.uber.org/zap"
)

type orderItemUseCase struct {
	repo   orderitem.Repository
	stock  stock.UseCase
	comp   composition.UseCase
	txm    postgres.TxManager
	logger logger.ZapLogger
}

func NewOrderItemUseCase(
	repo orderitem.Repository,
	stockUC stock.UseCase,
	compUC composition.UseCase,
	txm postgres.TxManager,
	log logger.ZapLogger,
) orderitem.UseCase {
	return &orderItemUseCase{
		repo:   repo,
		stock:  stockUC,
		comp:   compUC,
		txm:    txm,
		logger: log,
	}
}

// consumptionUnits is the unit count material needs are computed against at
// add and delete time. A zero-quantity item still consumes one unit's worth
// of materials.
func consumptionUnits(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

func (uc *orderItemUseCase) AddItem(ctx context.Context, input *dto.AddLineItemInput) (*model.LineItem, error) {
	if input.Quantity < 0 {
		return nil, &model.InvalidInputError{Field: "quantity", Reason: "must not be negative"}
	}
	if input.OrderID == "" {
		return nil, &model.InvalidInputError{Field: "order_id", Reason: "required"}
	}

	// Composition is fixed at add time: explicit components when supplied,
	// otherwise the preset for (type, description). Whatever is resolved is
	// persisted on the row so delete and update reverse exactly this list.
	var components []model.Component
	var err error
	if len(input.Components) > 0 {
		components, err = uc.comp.ResolveExplicit(ctx, input.Components)
	} else {
		components, err = uc.comp.Resolve(ctx, input.ProductType, input.Description)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := &model.LineItem{
		ID:          uuid.New().String(),
		OrderID:     input.OrderID,
		ProductType: input.ProductType,
		Description: input.Description,
		Params:      input.Params,
		UnitPrice:   input.UnitPrice,
		Quantity:    input.Quantity,
		Components:  components,
		Sides:       input.Sides,
		Sheets:      input.Sheets,
		Waste:       input.Waste,
		Clicks:      input.Clicks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	units := consumptionUnits(input.Quantity)
	err = uc.txm.WithinTx(ctx, func(ctx context.Context, q postgres.Querier) error {
		for _, c := range components {
			_, err := uc.stock.AdjustIn(ctx, q, &stockdto.AdjustStockInput{
				MaterialID: c.MaterialID,
				Delta:      -composition.Need(c.QtyPerUnit, units),
				Reason:     model.ReasonOrderAddItem,
				OrderID:    &input.OrderID,
				UserID:     input.UserID,
			})
			if err != nil {
				return err
			}
		}
		return uc.repo.Insert(ctx, q, item)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("line item added",
		zap.String("item_id", item.ID),
		zap.String("order_id", item.OrderID),
		zap.Int("materials", len(components)),
	)
	return item, nil
}

func (uc *orderItemUseCase) UpdateItem(ctx context.Context, input *dto.UpdateLineItemInput) (*model.LineItem, error) {
	if input.Patch.Quantity != nil && *input.Patch.Quantity < 0 {
		return nil, &model.InvalidInputError{Field: "quantity", Reason: "must not be negative"}
	}

	var updated *model.LineItem
	err := uc.txm.WithinTx(ctx, func(ctx context.Context, q postgres.Querier) error {
		item, err := uc.repo.GetByIDForUpdate(ctx, q, input.ID)
		if err != nil {
			return err
		}
		if item == nil {
			return model.ErrLineItemNotFound
		}

		// Only quantity changes move materials; all other patch fields are
		// pass-through. The stored component list is authoritative, presets
		// are never re-consulted here.
		if input.Patch.Quantity != nil {
			deltaQty := *input.Patch.Quantity - item.Quantity
			if err := uc.adjustForQuantityChange(ctx, q, item, deltaQty, input.UserID); err != nil {
				return err
			}
		}

		if err := uc.repo.Update(ctx, q, item.ID, &input.Patch, time.Now()); err != nil {
			return err
		}

		updated, err = uc.repo.GetByID(ctx, q, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *orderItemUseCase) adjustForQuantityChange(ctx context.Context, q postgres.Querier, item *model.LineItem, deltaQty int, userID *string) error {
	if deltaQty == 0 {
		return nil
	}

	reason := model.ReasonOrderQtyIncrease
	units := deltaQty
	sign := -1.0 // increase spends
	if deltaQty < 0 {
		reason = model.ReasonOrderQtyDecrease
		units = -deltaQty
		sign = 1.0 // decrease returns, no floor check applies
	}

	for _, c := range item.Components {
		_, err := uc.stock.AdjustIn(ctx, q, &stockdto.AdjustStockInput{
			MaterialID: c.MaterialID,
			Delta:      sign * composition.Need(c.QtyPerUnit, units),
			Reason:     reason,
			OrderID:    &item.OrderID,
			UserID:     userID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (uc *orderItemUseCase) DeleteItem(ctx context.Context, id string, userID *string) error {
	return uc.txm.WithinTx(ctx, func(ctx context.Context, q postgres.Querier) error {
		item, err := uc.repo.GetByIDForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if item == nil {
			// Idempotent delete: already gone, no ledger effect.
			uc.logger.Debug("line item already absent", zap.String("item_id", id))
			return nil
		}

		units := consumptionUnits(item.Quantity)
		for _, c := range item.Components {
			_, err := uc.stock.AdjustIn(ctx, q, &stockdto.AdjustStockInput{
				MaterialID: c.MaterialID,
				Delta:      composition.Need(c.QtyPerUnit, units),
				Reason:     model.ReasonOrderDeleteItem,
				OrderID:    &item.OrderID,
				UserID:     userID,
			})
			if err != nil {
				return err
			}
		}
		return uc.repo.Delete(ctx, q, item.ID)
	})
}

func (uc *orderItemUseCase) ListItems(ctx context.Context, orderID string) ([]model.LineItem, error) {
	return uc.repo.ListByOrder(ctx, orderID)
}
