package dto

import (
	"time"

	"github.com/rekafoe/newCRM-sub001/internal/model"
)

type CreateReservationInput struct {
	MaterialID string     `json:"material_id" binding:"required"`
	Quantity   float64    `json:"quantity" binding:"required,gt=0"`
	OrderID    *string    `json:"order_id,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Notes      string     `json:"notes"`
	ReservedBy *string    `json:"-"`
}

type ReservationFilters struct {
	MaterialID string
	OrderID    string
	Status     model.ReservationStatus
	Page       int
	PageSize   int
}
