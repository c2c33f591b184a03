package dto

import "github.com/rekafoe/newCRM-sub001/internal/model"

type MaterialFilters struct {
	Name     string
	LowStock bool // quantity at or below min_quantity, where a floor is set
	Page     int
	PageSize int
}

type MoveFilters struct {
	MaterialID string
	Reason     model.MoveReason
	OrderID    string
	Page       int
	PageSize   int
}
