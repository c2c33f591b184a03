package usecase

import (
	"context"

	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
	"go.uber.org/zap"
)

// ExecuteBatch applies every operation through the ledger inside one
// transaction. The first operation that fails validation aborts the whole
// batch; nothing is partially applied.
func (uc *stockUseCase) ExecuteBatch(ctx context.Context, ops []dto.BatchOperation) ([]model.MaterialMove, error) {
	if len(ops) == 0 {
		return nil, &model.InvalidInputError{Field: "operations", Reason: "must not be empty"}
	}
	for i, op := range ops {
		if err := validateBatchOp(&op); err != nil {
			return nil, &model.BatchOpError{Index: i, Err: err}
		}
	}

	moves := make([]model.MaterialMove, 0, len(ops))
	err := uc.txm.WithinTx(ctx, func(ctx context.Context, q postgres.Querier) error {
		for i, op := range ops {
			mv, err := uc.applyBatchOp(ctx, q, &op)
			if err != nil {
				return &model.BatchOpError{Index: i, Err: err}
			}
			moves = append(moves, *mv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("stock batch executed", zap.Int("operations", len(ops)))
	return moves, nil
}

func validateBatchOp(op *dto.BatchOperation) error {
	switch op.Type {
	case dto.BatchOpSpend, dto.BatchOpAdd:
		if op.Quantity <= 0 {
			return &model.InvalidInputError{Field: "quantity", Reason: "must be positive"}
		}
	case dto.BatchOpAdjust:
		if op.NewQuantity == nil {
			return &model.InvalidInputError{Field: "new_quantity", Reason: "required for adjust"}
		}
		if *op.NewQuantity < 0 {
			return &model.InvalidInputError{Field: "new_quantity", Reason: "must not be negative"}
		}
	default:
		return &model.InvalidInputError{Field: "type", Reason: "unknown operation type"}
	}
	if op.MaterialID == "" {
		return &model.InvalidInputError{Field: "material_id", Reason: "required"}
	}
	if op.Reason != "" && !op.Reason.Valid() {
		return &model.InvalidInputError{Field: "reason", Reason: "unknown move reason"}
	}
	return nil
}

func (uc *stockUseCase) applyBatchOp(ctx context.Context, q postgres.Querier, op *dto.BatchOperation) (*model.MaterialMove, error) {
	reason := op.Reason
	if reason == "" {
		reason = model.ReasonManualAdjust
	}

	switch op.Type {
	case dto.BatchOpSpend:
		return uc.AdjustIn(ctx, q, &dto.AdjustStockInput{
			MaterialID: op.MaterialID,
			Delta:      -op.Quantity,
			Reason:     reason,
			OrderID:    op.OrderID,
			UserID:     op.UserID,
		})
	case dto.BatchOpAdd:
		return uc.AdjustIn(ctx, q, &dto.AdjustStockInput{
			MaterialID: op.MaterialID,
			Delta:      op.Quantity,
			Reason:     reason,
			OrderID:    op.OrderID,
			UserID:     op.UserID,
		})
	default: // dto.BatchOpAdjust, validated upstream
		return uc.setQuantityIn(ctx, q, &dto.SetQuantityInput{
			MaterialID:  op.MaterialID,
			NewQuantity: *op.NewQuantity,
			UserID:      op.UserID,
		})
	}
}
