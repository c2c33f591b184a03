package model

import "time"

// MoveReason is a closed vocabulary of ledger movement reasons. Floor
// enforcement and reporting branch on the enum, never on display text.
type MoveReason string

const (
	ReasonOrderAddItem       MoveReason = "order_add_item"
	ReasonOrderDeleteItem    MoveReason = "order_delete_item"
	ReasonOrderQtyIncrease   MoveReason = "order_update_qty_plus"
	ReasonOrderQtyDecrease   MoveReason = "order_update_qty_minus"
	ReasonManualAdjust       MoveReason = "manual_adjust"
	ReasonManualCorrection   MoveReason = "manual_correction"
	ReasonReservationFulfill MoveReason = "reservation_fulfill"
	ReasonAutoDeduct         MoveReason = "auto_deduct"
)

func (r MoveReason) Valid() bool {
	switch r {
	case ReasonOrderAddItem, ReasonOrderDeleteItem,
		ReasonOrderQtyIncrease, ReasonOrderQtyDecrease,
		ReasonManualAdjust, ReasonManualCorrection,
		ReasonReservationFulfill, ReasonAutoDeduct:
		return true
	}
	return false
}

// IsConsumption reports whether the reason classifies a move as a spend.
// Only spend-classified moves are checked against a material's min_quantity
// floor; returns and manual corrections are exempt.
func (r MoveReason) IsConsumption() bool {
	switch r {
	case ReasonOrderAddItem, ReasonOrderQtyIncrease,
		ReasonReservationFulfill, ReasonAutoDeduct:
		return true
	}
	return false
}

// MaterialMove is an immutable audit record of a single signed quantity
// change. It is inserted in the same transaction as the quantity update it
// explains and is never mutated or deleted.
type MaterialMove struct {
	ID             string     `db:"id" json:"id"`
	MaterialID     string     `db:"material_id" json:"material_id"`
	Delta          float64    `db:"delta" json:"delta"`
	QuantityBefore float64    `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  float64    `db:"quantity_after" json:"quantity_after"`
	Reason         MoveReason `db:"reason" json:"reason"`
	OrderID        *string    `db:"order_id" json:"order_id,omitempty"`
	UserID         *string    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
