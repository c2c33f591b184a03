package orderitem

import (
	"context"

	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/orderitem/dto"
)

// UseCase binds order line items to material stock. Each operation is one
// atomic unit spanning the line-item row and every ledger adjustment it
// implies; a failed availability check rolls the whole operation back.
type UseCase interface {
	AddItem(ctx context.Context, input *dto.AddLineItemInput) (*model.LineItem, error)
	UpdateItem(ctx context.Context, input *dto.UpdateLineItemInput) (*model.LineItem, error)
	// DeleteItem returns the item's materials to stock and removes the row.
	// Deleting an id that no longer exists is a no-op success.
	DeleteItem(ctx context.Context, id string, userID *string) error
	ListItems(ctx context.Context, orderID string) ([]model.LineItem, error)
}
