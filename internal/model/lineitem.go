package model

import (
	"encoding/json"
	"time"
)

// LineItem belongs to an order. Material consumption is derived from
// quantity and the stored component list at every mutating operation, never
// stored on the row itself. Components captures the composition the item was
// bound with at add time, so later reversals are exact even if presets drift.
type LineItem struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order_id"`
	ProductType string          `db:"product_type" json:"product_type"`
	Description string          `db:"description" json:"description"`
	Params      json.RawMessage `db:"params" json:"params,omitempty"`
	UnitPrice   float64         `db:"unit_price" json:"unit_price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Components  ComponentList   `db:"components" json:"components"`

	// Derived production fields, stored alongside but irrelevant to
	// material logic.
	Sides  int `db:"sides" json:"sides"`
	Sheets int `db:"sheets" json:"sheets"`
	Waste  int `db:"waste" json:"waste"`
	Clicks int `db:"clicks" json:"clicks"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
