package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/reservation"
	"github.com/rekafoe/newCRM-sub001/internal/reservation/dto"
	"github.com/rekafoe/newCRM-sub001/internal/stock"
	stockdto "github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
	"go.uber.org/zap"
)

type reservationUseCase struct {
	repo   reservation.Repository
	stock  stock.UseCase
	txm    postgres.TxManager
	logger logger.ZapLogger
}

func NewReservationUseCase(repo reservation.Repository, stockUC stock.UseCase, txm postgres.TxManager, log logger.ZapLogger) reservation.UseCase {
	return &reservationUseCase{
		repo:   repo,
		stock:  stockUC,
		txm:    txm,
		logger: log,
	}
}

func (uc *reservationUseCase) Create(ctx context.Context, input *dto.CreateReservationInput) (*model.Reservation, error) {
	if input.Quantity <= 0 {
		return nil, &model.InvalidInputError{Field: "quantity", Reason: "must be positive"}
	}
	if input.ExpiresAt != nil && input.ExpiresAt.Before(time.Now()) {
		return nil, &model.InvalidInputError{Field: "expires_at", Reason: "must be in the future"}
	}

	now := time.Now()
	res := &model.Reservation{
		ID:               uuid.New().String(),
		MaterialID:       input.MaterialID,
		OrderID:          input.OrderID,
		QuantityReserved: input.Quantity,
		Status:           model.ReservationStatusActive,
		ExpiresAt:        input.ExpiresAt,
		ReservedBy:       input.ReservedBy,
		Notes:            input.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := uc.txm.WithinTx(ctx, func(ctx context.Context, q postgres.Querier) error {
		// The material row lock serializes concurrent availability checks
		// for the same material.
		m, err := uc.stock.MaterialForUpdate(ctx, q, input.MaterialID)
		if err != nil {
			return err
		}

		reserved, err := uc.repo.SumActive(ctx, q, input.MaterialID)
		if err != nil {
			return err
		}

		available := m.Quantity - reserved
		if input.Quantity > available {
			return &model.InsufficientStockError{
				MaterialID:   m.ID,
				MaterialName: m.Name,
				Requested:    input.Quantity,
				Available:    available,
			}
		}

		return uc.repo.Insert(ctx, q, res)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("material_id", res.MaterialID),
		zap.Float64("quantity", res.QuantityReserved),
	)
	return res, nil
}

// Fulfill converts a hold into a real spend. The ledger adjust and the
// status flip share one transaction: if stock disappeared since the
// reservation was made, the whole unit rolls back and the reservation stays
// active.
func (uc *reservationUseCase) Fulfill(ctx context.Context, id string, userID *string) (*model.Reservation, error) {
	var res *model.Reservation
	err := uc.txm.WithinTx(ctx, func(ctx context.Context, q postgres.Querier) error {
		var err error
		res, err = uc.repo.GetByIDForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if res == nil {
			return model.ErrReservationNotFound
		}

		if err := res.MarkFulfilled(); err != nil {
			return err
		}

		_, err = uc.stock.AdjustIn(ctx, q, &stockdto.AdjustStockInput{
			MaterialID: res.MaterialID,
			Delta:      -res.QuantityReserved,
			Reason:     model.ReasonReservationFulfill,
			OrderID:    res.OrderID,
			UserID:     userID,
		})
		if err != nil {
			return err
		}

		return uc.repo.UpdateStatus(ctx, q, res)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("reservation fulfilled", zap.String("reservation_id", res.ID))
	return res, nil
}

func (uc *reservationUseCase) Cancel(ctx context.Context, id string, reason string, userID *string) (*model.Reservation, error) {
	var res *model.Reservation
	err := uc.txm.WithinTx(ctx, func(ctx context.Context, q postgres.Querier) error {
		var err error
		res, err = uc.repo.GetByIDForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if res == nil {
			return model.ErrReservationNotFound
		}

		if err := res.MarkCancelled(reason); err != nil {
			return err
		}
		return uc.repo.UpdateStatus(ctx, q, res)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("reservation cancelled", zap.String("reservation_id", res.ID))
	return res, nil
}

func (uc *reservationUseCase) CleanupExpired(ctx context.Context) (int, error) {
	count, err := uc.repo.ExpireDue(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		uc.logger.Info("expired reservations reclaimed", zap.Int("count", count))
	}
	return count, nil
}

func (uc *reservationUseCase) AvailableQuantity(ctx context.Context, materialID string) (float64, error) {
	m, err := uc.stock.GetMaterial(ctx, materialID)
	if err != nil {
		return 0, err
	}
	reserved, err := uc.repo.SumActive(ctx, nil, materialID)
	if err != nil {
		return 0, err
	}
	return m.Quantity - reserved, nil
}

func (uc *reservationUseCase) List(ctx context.Context, filters *dto.ReservationFilters) ([]model.Reservation, int, error) {
	return uc.repo.FindAll(ctx, filters)
}
