package reservation

import (
	"context"
	"time"

	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/reservation/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
)

type Repository interface {
	Insert(ctx context.Context, q postgres.Querier, r *model.Reservation) error
	GetByID(ctx context.Context, q postgres.Querier, id string) (*model.Reservation, error)
	GetByIDForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, q postgres.Querier, r *model.Reservation) error
	// SumActive returns the total quantity held by active reservations for
	// a material.
	SumActive(ctx context.Context, q postgres.Querier, materialID string) (float64, error)
	// ExpireDue flips every active reservation whose expiry has passed to
	// expired and returns how many rows changed. Idempotent.
	ExpireDue(ctx context.Context, now time.Time) (int, error)
	FindAll(ctx context.Context, filters *dto.ReservationFilters) ([]model.Reservation, int, error)
}
