package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/stock"
	"github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
	"go.uber.org/zap"
)

type stockUseCase struct {
	repo   stock.Repository
	txm    postgres.TxManager
	logger logger.ZapLogger
}

func NewStockUseCase(repo stock.Repository, txm postgres.TxManager, log logger.ZapLogger) stock.UseCase {
	return &stockUseCase{
		repo:   repo,
		txm:    txm,
		logger: log,
	}
}

func (uc *stockUseCase) CreateMaterial(ctx context.Context, input *dto.CreateMaterialInput) (*model.Material, error) {
	if input.Quantity < 0 {
		return nil, &model.InvalidInputError{Field: "quantity", Reason: "must not be negative"}
	}
	if input.MinQuantity != nil && *input.MinQuantity < 0 {
		return nil, &model.InvalidInputError{Field: "min_quantity", Reason: "must not be negative"}
	}

	now := time.Now()
	m := &model.Material{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Unit:        input.Unit,
		Quantity:    input.Quantity,
		MinQuantity: input.MinQuantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, nil, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (uc *stockUseCase) GetMaterial(ctx context.Context, id string) (*model.Material, error) {
	m, err := uc.repo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, model.ErrMaterialNotFound
	}
	return m, nil
}

func (uc *stockUseCase) ListMaterials(ctx context.Context, filters *dto.MaterialFilters) ([]model.Material, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *stockUseCase) MaterialForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.Material, error) {
	m, err := uc.repo.GetByIDForUpdate(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, model.ErrMaterialNotFound
	}
	return m, nil
}

func (uc *stockUseCase) Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.MaterialMove, error) {
	var mv *model.MaterialMove
	err := uc.txm.WithinTx(ctx, func(ctx context.Context, q postgres.Querier) error {
		var err error
		mv, err = uc.AdjustIn(ctx, q, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

// AdjustIn is the ledger's core primitive: read the material under a row
// lock, validate the resulting quantity, write the new quantity and the
// matching audit move. It never opens its own transaction; the handle q
// decides the atomic unit.
func (uc *stockUseCase) AdjustIn(ctx context.Context, q postgres.Querier, input *dto.AdjustStockInput) (*model.MaterialMove, error) {
	if !input.Reason.Valid() {
		return nil, &model.InvalidInputError{Field: "reason", Reason: "unknown move reason"}
	}

	m, err := uc.repo.GetByIDForUpdate(ctx, q, input.MaterialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, model.ErrMaterialNotFound
	}

	newQuantity := m.Quantity + input.Delta
	if input.Delta < 0 {
		if newQuantity < 0 {
			return nil, &model.InsufficientStockError{
				MaterialID:   m.ID,
				MaterialName: m.Name,
				Requested:    -input.Delta,
				Available:    m.Quantity,
			}
		}
		if input.Reason.IsConsumption() && m.MinQuantity != nil && newQuantity < *m.MinQuantity {
			return nil, &model.InsufficientStockError{
				MaterialID:   m.ID,
				MaterialName: m.Name,
				Requested:    -input.Delta,
				Available:    m.Quantity - *m.MinQuantity,
			}
		}
	}

	now := time.Now()
	if err := uc.repo.UpdateQuantity(ctx, q, m.ID, newQuantity, now); err != nil {
		return nil, err
	}

	mv := &model.MaterialMove{
		ID:             uuid.New().String(),
		MaterialID:     m.ID,
		Delta:          input.Delta,
		QuantityBefore: m.Quantity,
		QuantityAfter:  newQuantity,
		Reason:         input.Reason,
		OrderID:        input.OrderID,
		UserID:         input.UserID,
		CreatedAt:      now,
	}
	if err := uc.repo.InsertMove(ctx, q, mv); err != nil {
		return nil, err
	}

	uc.logger.Debug("stock adjusted",
		zap.String("material_id", m.ID),
		zap.Float64("delta", input.Delta),
		zap.String("reason", string(input.Reason)),
	)
	return mv, nil
}

// SetQuantity performs a manual stock correction: the delta is computed
// implicitly and the floor check is bypassed. The result still may not be
// negative.
func (uc *stockUseCase) SetQuantity(ctx context.Context, input *dto.SetQuantityInput) (*model.MaterialMove, error) {
	if input.NewQuantity < 0 {
		return nil, &model.InvalidInputError{Field: "new_quantity", Reason: "must not be negative"}
	}

	var mv *model.MaterialMove
	err := uc.txm.WithinTx(ctx, func(ctx context.Context, q postgres.Querier) error {
		var err error
		mv, err = uc.setQuantityIn(ctx, q, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

func (uc *stockUseCase) setQuantityIn(ctx context.Context, q postgres.Querier, input *dto.SetQuantityInput) (*model.MaterialMove, error) {
	if input.NewQuantity < 0 {
		return nil, &model.InvalidInputError{Field: "new_quantity", Reason: "must not be negative"}
	}

	m, err := uc.repo.GetByIDForUpdate(ctx, q, input.MaterialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, model.ErrMaterialNotFound
	}

	now := time.Now()
	if err := uc.repo.UpdateQuantity(ctx, q, m.ID, input.NewQuantity, now); err != nil {
		return nil, err
	}

	mv := &model.MaterialMove{
		ID:             uuid.New().String(),
		MaterialID:     m.ID,
		Delta:          input.NewQuantity - m.Quantity,
		QuantityBefore: m.Quantity,
		QuantityAfter:  input.NewQuantity,
		Reason:         model.ReasonManualCorrection,
		UserID:         input.UserID,
		CreatedAt:      now,
	}
	if err := uc.repo.InsertMove(ctx, q, mv); err != nil {
		return nil, err
	}
	return mv, nil
}

func (uc *stockUseCase) Quantity(ctx context.Context, materialID string) (float64, error) {
	m, err := uc.GetMaterial(ctx, materialID)
	if err != nil {
		return 0, err
	}
	return m.Quantity, nil
}

func (uc *stockUseCase) MinQuantity(ctx context.Context, materialID string) (*float64, error) {
	m, err := uc.GetMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	return m.MinQuantity, nil
}

func (uc *stockUseCase) ListMoves(ctx context.Context, filters *dto.MoveFilters) ([]model.MaterialMove, int, error) {
	return uc.repo.ListMoves(ctx, filters)
}
