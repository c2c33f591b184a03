package dto

import (
	"encoding/json"

	"github.com/rekafoe/newCRM-sub001/internal/model"
)

type AddLineItemInput struct {
	OrderID     string            `json:"order_id"`
	ProductType string            `json:"product_type" binding:"required"`
	Description string            `json:"description"`
	Params      json.RawMessage   `json:"params,omitempty"`
	UnitPrice   float64           `json:"unit_price" binding:"gte=0"`
	Quantity    int               `json:"quantity" binding:"gte=0"`
	// Components, when supplied, override the preset lookup for this item.
	Components []model.Component `json:"components,omitempty"`

	Sides  int `json:"sides"`
	Sheets int `json:"sheets"`
	Waste  int `json:"waste"`
	Clicks int `json:"clicks"`

	UserID *string `json:"-"`
}

// LineItemPatch lists only the fields being changed. Nil fields are left
// untouched by the repository.
type LineItemPatch struct {
	Quantity  *int             `json:"quantity,omitempty"`
	UnitPrice *float64         `json:"unit_price,omitempty"`
	Params    *json.RawMessage `json:"params,omitempty"`
	Sides     *int             `json:"sides,omitempty"`
	Sheets    *int             `json:"sheets,omitempty"`
	Waste     *int             `json:"waste,omitempty"`
	Clicks    *int             `json:"clicks,omitempty"`
}

type UpdateLineItemInput struct {
	ID     string        `json:"-"`
	Patch  LineItemPatch `json:"patch"`
	UserID *string       `json:"-"`
}
