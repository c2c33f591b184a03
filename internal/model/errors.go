package model

import (
	"errors"
	"fmt"
)

var (
	ErrMaterialNotFound     = errors.New("material not found")
	ErrLineItemNotFound     = errors.New("line item not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrReservationNotActive = errors.New("reservation is not active")
)

// InsufficientStockError names the first material whose spend would drive
// quantity negative or below its configured floor.
type InsufficientStockError struct {
	MaterialID   string
	MaterialName string
	Requested    float64
	Available    float64
}

func (e *InsufficientStockError) Error() string {
	name := e.MaterialName
	if name == "" {
		name = e.MaterialID
	}
	return fmt.Sprintf("insufficient stock of %q: requested %.3f, available %.3f",
		name, e.Requested, e.Available)
}

type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// BatchOpError reports which operation of a multi-op batch failed; the whole
// batch has been rolled back by the time the caller sees it.
type BatchOpError struct {
	Index int
	Err   error
}

func (e *BatchOpError) Error() string {
	return fmt.Sprintf("batch operation %d failed: %v", e.Index, e.Err)
}

func (e *BatchOpError) Unwrap() error {
	return e.Err
}
