package reservation

import (
	"context"

	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/reservation/dto"
)

// UseCase manages non-destructive stock holds. Creating a reservation never
// touches on-hand quantity; only fulfillment produces a ledger spend.
type UseCase interface {
	Create(ctx context.Context, input *dto.CreateReservationInput) (*model.Reservation, error)
	Fulfill(ctx context.Context, id string, userID *string) (*model.Reservation, error)
	Cancel(ctx context.Context, id string, reason string, userID *string) (*model.Reservation, error)
	// CleanupExpired reclaims overdue holds; safe to run on any schedule.
	CleanupExpired(ctx context.Context) (int, error)
	// AvailableQuantity is on-hand minus the sum of active holds.
	AvailableQuantity(ctx context.Context, materialID string) (float64, error)
	List(ctx context.Context, filters *dto.ReservationFilters) ([]model.Reservation, int, error)
}
