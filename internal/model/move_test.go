package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveReasonValid(t *testing.T) {
	valid := []MoveReason{
		ReasonOrderAddItem, ReasonOrderDeleteItem,
		ReasonOrderQtyIncrease, ReasonOrderQtyDecrease,
		ReasonManualAdjust, ReasonManualCorrection,
		ReasonReservationFulfill, ReasonAutoDeduct,
	}
	for _, r := range valid {
		assert.True(t, r.Valid(), "expected %q to be valid", r)
	}

	assert.False(t, MoveReason("").Valid())
	assert.False(t, MoveReason("order add item").Valid())
	assert.False(t, MoveReason("something_else").Valid())
}

func TestMoveReasonConsumptionClassification(t *testing.T) {
	spends := []MoveReason{
		ReasonOrderAddItem, ReasonOrderQtyIncrease,
		ReasonReservationFulfill, ReasonAutoDeduct,
	}
	for _, r := range spends {
		assert.True(t, r.IsConsumption(), "expected %q to be a spend", r)
	}

	exempt := []MoveReason{
		ReasonOrderDeleteItem, ReasonOrderQtyDecrease,
		ReasonManualAdjust, ReasonManualCorrection,
	}
	for _, r := range exempt {
		assert.False(t, r.IsConsumption(), "expected %q to be floor-exempt", r)
	}
}
