package stock

import (
	"context"

	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
)

// UseCase is the stock ledger: the single writer of material quantities.
// Every mutating call pairs the quantity change with exactly one audit move
// in one storage transaction. The *In variants run inside a caller-owned
// transaction handle so orchestrators (line-item binder, reservation
// manager, batch executor) can span several ledger calls atomically.
type UseCase interface {
	CreateMaterial(ctx context.Context, input *dto.CreateMaterialInput) (*model.Material, error)
	GetMaterial(ctx context.Context, id string) (*model.Material, error)
	ListMaterials(ctx context.Context, filters *dto.MaterialFilters) ([]model.Material, int, error)

	// MaterialForUpdate reads a material under a row lock inside the
	// caller's transaction. Used by collaborators that validate against
	// on-hand quantity before deciding to write.
	MaterialForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.Material, error)

	Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.MaterialMove, error)
	AdjustIn(ctx context.Context, q postgres.Querier, input *dto.AdjustStockInput) (*model.MaterialMove, error)
	SetQuantity(ctx context.Context, input *dto.SetQuantityInput) (*model.MaterialMove, error)

	Quantity(ctx context.Context, materialID string) (float64, error)
	MinQuantity(ctx context.Context, materialID string) (*float64, error)
	ListMoves(ctx context.Context, filters *dto.MoveFilters) ([]model.MaterialMove, int, error)

	// ExecuteBatch applies a list of named operations as one all-or-nothing
	// unit; the first failing operation aborts and is reported by index.
	ExecuteBatch(ctx context.Context, ops []dto.BatchOperation) ([]model.MaterialMove, error)
}
