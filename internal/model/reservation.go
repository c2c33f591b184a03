package model

import "time"

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusFulfilled ReservationStatus = "fulfilled"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusExpired   ReservationStatus = "expired"
)

// Reservation holds material quantity against a future order without
// touching the material's on-hand quantity. Active is the only non-terminal
// state: fulfilled, cancelled and expired reservations are never reopened.
type Reservation struct {
	ID               string            `db:"id" json:"id"`
	MaterialID       string            `db:"material_id" json:"material_id"`
	OrderID          *string           `db:"order_id" json:"order_id,omitempty"`
	QuantityReserved float64           `db:"quantity_reserved" json:"quantity_reserved"`
	Status           ReservationStatus `db:"status" json:"status"`
	ExpiresAt        *time.Time        `db:"expires_at" json:"expires_at,omitempty"`
	ReservedBy       *string           `db:"reserved_by" json:"reserved_by,omitempty"`
	Notes            string            `db:"notes" json:"notes"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at" json:"updated_at"`
}

func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// MarkFulfilled transitions active → fulfilled. The caller performs the
// matching ledger spend in the same transaction.
func (r *Reservation) MarkFulfilled() error {
	if r.Status != ReservationStatusActive {
		return ErrReservationNotActive
	}
	r.Status = ReservationStatusFulfilled
	r.UpdatedAt = time.Now()
	return nil
}

// MarkCancelled transitions active → cancelled. No ledger effect.
func (r *Reservation) MarkCancelled(reason string) error {
	if r.Status != ReservationStatusActive {
		return ErrReservationNotActive
	}
	r.Status = ReservationStatusCancelled
	if reason != "" {
		if r.Notes != "" {
			r.Notes += "; "
		}
		r.Notes += "cancelled: " + reason
	}
	r.UpdatedAt = time.Now()
	return nil
}

// IsExpired reports whether an expiry is set and has passed.
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}
