package model

import (
	"math"
	"time"
)

// Material is a trackable warehouse stock item. Quantity is mutated
// exclusively through the stock ledger adjustment primitives.
type Material struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Unit        string     `db:"unit" json:"unit"`
	Quantity    float64    `db:"quantity" json:"quantity"`
	MinQuantity *float64   `db:"min_quantity" json:"min_quantity,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Floor returns the configured stock floor, or negative infinity when no
// floor is set.
func (m *Material) Floor() float64 {
	if m.MinQuantity == nil {
		return math.Inf(-1)
	}
	return *m.MinQuantity
}
