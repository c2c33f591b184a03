// Package testutil provides in-memory fakes for the engine's repository and
// transaction interfaces. The fake transaction manager snapshots every
// registered store before the callback and restores it on error, so tests
// observe real rollback behavior without a database.
package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rekafoe/newCRM-sub001/internal/model"
	orderitemdto "github.com/rekafoe/newCRM-sub001/internal/orderitem/dto"
	reservationdto "github.com/rekafoe/newCRM-sub001/internal/reservation/dto"
	stockdto "github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
)

// Snapshotter is implemented by every fake store that participates in a
// fake transaction.
type Snapshotter interface {
	Snapshot() interface{}
	Restore(interface{})
}

type FakeTxManager struct {
	Stores []Snapshotter
	// BeginErr, when set, fails every transaction up front.
	BeginErr error
}

func (f *FakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, q postgres.Querier) error) error {
	if f.BeginErr != nil {
		return f.BeginErr
	}
	snaps := make([]interface{}, len(f.Stores))
	for i, s := range f.Stores {
		snaps[i] = s.Snapshot()
	}
	if err := fn(ctx, nil); err != nil {
		for i, s := range f.Stores {
			s.Restore(snaps[i])
		}
		return err
	}
	return nil
}

// --- stock ---

type FakeStockRepo struct {
	Materials map[string]*model.Material
	Moves     []model.MaterialMove

	UpdateErr error
	InsertErr error
}

func NewFakeStockRepo() *FakeStockRepo {
	return &FakeStockRepo{Materials: make(map[string]*model.Material)}
}

func (f *FakeStockRepo) Seed(m model.Material) {
	cp := m
	f.Materials[m.ID] = &cp
}

func (f *FakeStockRepo) Snapshot() interface{} {
	materials := make(map[string]*model.Material, len(f.Materials))
	for id, m := range f.Materials {
		cp := *m
		materials[id] = &cp
	}
	moves := make([]model.MaterialMove, len(f.Moves))
	copy(moves, f.Moves)
	return [2]interface{}{materials, moves}
}

func (f *FakeStockRepo) Restore(snap interface{}) {
	s := snap.([2]interface{})
	f.Materials = s[0].(map[string]*model.Material)
	f.Moves = s[1].([]model.MaterialMove)
}

func (f *FakeStockRepo) Create(ctx context.Context, q postgres.Querier, m *model.Material) error {
	cp := *m
	f.Materials[m.ID] = &cp
	return nil
}

func (f *FakeStockRepo) GetByID(ctx context.Context, q postgres.Querier, id string) (*model.Material, error) {
	m, ok := f.Materials[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *FakeStockRepo) GetByIDForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.Material, error) {
	return f.GetByID(ctx, q, id)
}

func (f *FakeStockRepo) FindAll(ctx context.Context, filters *stockdto.MaterialFilters) ([]model.Material, int, error) {
	var items []model.Material
	for _, m := range f.Materials {
		if filters.Name != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(filters.Name)) {
			continue
		}
		if filters.LowStock && (m.MinQuantity == nil || m.Quantity > *m.MinQuantity) {
			continue
		}
		items = append(items, *m)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, len(items), nil
}

func (f *FakeStockRepo) UpdateQuantity(ctx context.Context, q postgres.Querier, id string, quantity float64, updatedAt time.Time) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	m, ok := f.Materials[id]
	if !ok {
		return model.ErrMaterialNotFound
	}
	m.Quantity = quantity
	m.UpdatedAt = updatedAt
	return nil
}

func (f *FakeStockRepo) InsertMove(ctx context.Context, q postgres.Querier, mv *model.MaterialMove) error {
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.Moves = append(f.Moves, *mv)
	return nil
}

func (f *FakeStockRepo) ListMoves(ctx context.Context, filters *stockdto.MoveFilters) ([]model.MaterialMove, int, error) {
	var items []model.MaterialMove
	for _, mv := range f.Moves {
		if filters.MaterialID != "" && mv.MaterialID != filters.MaterialID {
			continue
		}
		if filters.Reason != "" && mv.Reason != filters.Reason {
			continue
		}
		items = append(items, mv)
	}
	return items, len(items), nil
}

func (f *FakeStockRepo) SumMoveDeltas(ctx context.Context, materialID string) (float64, error) {
	var sum float64
	for _, mv := range f.Moves {
		if mv.MaterialID == materialID {
			sum += mv.Delta
		}
	}
	return sum, nil
}

// MovesFor filters the recorded moves by material. Test helper.
func (f *FakeStockRepo) MovesFor(materialID string) []model.MaterialMove {
	var out []model.MaterialMove
	for _, mv := range f.Moves {
		if mv.MaterialID == materialID {
			out = append(out, mv)
		}
	}
	return out
}

// --- composition ---

type FakeCompositionRepo struct {
	Presets map[string]*model.CompositionPreset
	// Existing is the set of known material ids for explicit validation.
	Existing map[string]bool
}

func NewFakeCompositionRepo() *FakeCompositionRepo {
	return &FakeCompositionRepo{
		Presets:  make(map[string]*model.CompositionPreset),
		Existing: make(map[string]bool),
	}
}

func presetKey(productType, productDescription string) string {
	return productType + "|" + productDescription
}

func (f *FakeCompositionRepo) SeedPreset(p model.CompositionPreset) {
	cp := p
	f.Presets[presetKey(p.ProductType, p.ProductDescription)] = &cp
}

func (f *FakeCompositionRepo) GetPreset(ctx context.Context, productType, productDescription string) (*model.CompositionPreset, error) {
	p, ok := f.Presets[presetKey(productType, productDescription)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *FakeCompositionRepo) MissingMaterials(ctx context.Context, materialIDs []string) ([]string, error) {
	var missing []string
	for _, id := range materialIDs {
		if !f.Existing[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// --- order items ---

type FakeOrderItemRepo struct {
	Items map[string]*model.LineItem
}

func NewFakeOrderItemRepo() *FakeOrderItemRepo {
	return &FakeOrderItemRepo{Items: make(map[string]*model.LineItem)}
}

func (f *FakeOrderItemRepo) Snapshot() interface{} {
	items := make(map[string]*model.LineItem, len(f.Items))
	for id, it := range f.Items {
		cp := *it
		items[id] = &cp
	}
	return items
}

func (f *FakeOrderItemRepo) Restore(snap interface{}) {
	f.Items = snap.(map[string]*model.LineItem)
}

func (f *FakeOrderItemRepo) Insert(ctx context.Context, q postgres.Querier, item *model.LineItem) error {
	cp := *item
	f.Items[item.ID] = &cp
	return nil
}

func (f *FakeOrderItemRepo) GetByID(ctx context.Context, q postgres.Querier, id string) (*model.LineItem, error) {
	it, ok := f.Items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (f *FakeOrderItemRepo) GetByIDForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.LineItem, error) {
	return f.GetByID(ctx, q, id)
}

func (f *FakeOrderItemRepo) Update(ctx context.Context, q postgres.Querier, id string, patch *orderitemdto.LineItemPatch, updatedAt time.Time) error {
	it, ok := f.Items[id]
	if !ok {
		return model.ErrLineItemNotFound
	}
	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		it.UnitPrice = *patch.UnitPrice
	}
	if patch.Params != nil {
		it.Params = *patch.Params
	}
	if patch.Sides != nil {
		it.Sides = *patch.Sides
	}
	if patch.Sheets != nil {
		it.Sheets = *patch.Sheets
	}
	if patch.Waste != nil {
		it.Waste = *patch.Waste
	}
	if patch.Clicks != nil {
		it.Clicks = *patch.Clicks
	}
	it.UpdatedAt = updatedAt
	return nil
}

func (f *FakeOrderItemRepo) Delete(ctx context.Context, q postgres.Querier, id string) error {
	delete(f.Items, id)
	return nil
}

func (f *FakeOrderItemRepo) ListByOrder(ctx context.Context, orderID string) ([]model.LineItem, error) {
	var items []model.LineItem
	for _, it := range f.Items {
		if it.OrderID == orderID {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

// --- reservations ---

type FakeReservationRepo struct {
	Reservations map[string]*model.Reservation
}

func NewFakeReservationRepo() *FakeReservationRepo {
	return &FakeReservationRepo{Reservations: make(map[string]*model.Reservation)}
}

func (f *FakeReservationRepo) Snapshot() interface{} {
	items := make(map[string]*model.Reservation, len(f.Reservations))
	for id, r := range f.Reservations {
		cp := *r
		items[id] = &cp
	}
	return items
}

func (f *FakeReservationRepo) Restore(snap interface{}) {
	f.Reservations = snap.(map[string]*model.Reservation)
}

func (f *FakeReservationRepo) Insert(ctx context.Context, q postgres.Querier, r *model.Reservation) error {
	cp := *r
	f.Reservations[r.ID] = &cp
	return nil
}

func (f *FakeReservationRepo) GetByID(ctx context.Context, q postgres.Querier, id string) (*model.Reservation, error) {
	r, ok := f.Reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *FakeReservationRepo) GetByIDForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.Reservation, error) {
	return f.GetByID(ctx, q, id)
}

func (f *FakeReservationRepo) UpdateStatus(ctx context.Context, q postgres.Querier, r *model.Reservation) error {
	stored, ok := f.Reservations[r.ID]
	if !ok {
		return model.ErrReservationNotFound
	}
	stored.Status = r.Status
	stored.Notes = r.Notes
	stored.UpdatedAt = r.UpdatedAt
	return nil
}

func (f *FakeReservationRepo) SumActive(ctx context.Context, q postgres.Querier, materialID string) (float64, error) {
	var sum float64
	for _, r := range f.Reservations {
		if r.MaterialID == materialID && r.Status == model.ReservationStatusActive {
			sum += r.QuantityReserved
		}
	}
	return sum, nil
}

func (f *FakeReservationRepo) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	count := 0
	for _, r := range f.Reservations {
		if r.Status == model.ReservationStatusActive && r.IsExpired(now) {
			r.Status = model.ReservationStatusExpired
			r.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

func (f *FakeReservationRepo) FindAll(ctx context.Context, filters *reservationdto.ReservationFilters) ([]model.Reservation, int, error) {
	var items []model.Reservation
	for _, r := range f.Reservations {
		if filters.MaterialID != "" && r.MaterialID != filters.MaterialID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		items = append(items, *r)
	}
	return items, len(items), nil
}
