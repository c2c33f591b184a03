package dto

import "github.com/rekafoe/newCRM-sub001/internal/model"

type CreateMaterialInput struct {
	Name        string   `json:"name" binding:"required"`
	Unit        string   `json:"unit" binding:"required"`
	Quantity    float64  `json:"quantity" binding:"gte=0"`
	MinQuantity *float64 `json:"min_quantity,omitempty"`
}

type AdjustStockInput struct {
	MaterialID string
	Delta      float64
	Reason     model.MoveReason
	OrderID    *string
	UserID     *string
}

type SetQuantityInput struct {
	MaterialID  string
	NewQuantity float64
	UserID      *string
}

type BatchOpType string

const (
	BatchOpSpend  BatchOpType = "spend"
	BatchOpAdd    BatchOpType = "add"
	BatchOpAdjust BatchOpType = "adjust"
)

// BatchOperation is one entry of a generic stock transaction. Quantity is
// the positive amount for spend/add; NewQuantity is the target value for
// adjust. Reason defaults to manual_adjust when unset.
type BatchOperation struct {
	Type        BatchOpType      `json:"type" binding:"required"`
	MaterialID  string           `json:"material_id" binding:"required"`
	Quantity    float64          `json:"quantity"`
	NewQuantity *float64         `json:"new_quantity,omitempty"`
	Reason      model.MoveReason `json:"reason,omitempty"`
	OrderID     *string          `json:"order_id,omitempty"`
	UserID      *string          `json:"user_id,omitempty"`
}
