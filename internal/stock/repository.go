package stock

import (
	"context"
	"time"

	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
)

type Repository interface {
	// Materials
	Create(ctx context.Context, q postgres.Querier, m *model.Material) error
	GetByID(ctx context.Context, q postgres.Querier, id string) (*model.Material, error)
	// GetByIDForUpdate takes a row lock so the read-validate-write sequence
	// of concurrent spends is serialized by the store.
	GetByIDForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.Material, error)
	FindAll(ctx context.Context, filters *dto.MaterialFilters) ([]model.Material, int, error)
	UpdateQuantity(ctx context.Context, q postgres.Querier, id string, quantity float64, updatedAt time.Time) error

	// Movements / audit
	InsertMove(ctx context.Context, q postgres.Querier, mv *model.MaterialMove) error
	ListMoves(ctx context.Context, filters *dto.MoveFilters) ([]model.MaterialMove, int, error)
	SumMoveDeltas(ctx context.Context, materialID string) (float64, error)
}
