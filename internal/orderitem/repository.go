package orderitem

import (
	"context"
	"time"

	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/orderitem/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
)

type Repository interface {
	Insert(ctx context.Context, q postgres.Querier, item *model.LineItem) error
	GetByID(ctx context.Context, q postgres.Querier, id string) (*model.LineItem, error)
	GetByIDForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.LineItem, error)
	// Update applies only the fields set on the patch, via a fixed
	// parameterized statement.
	Update(ctx context.Context, q postgres.Querier, id string, patch *dto.LineItemPatch, updatedAt time.Time) error
	Delete(ctx context.Context, q postgres.Querier, id string) error
	ListByOrder(ctx context.Context, orderID string) ([]model.LineItem, error)
}
