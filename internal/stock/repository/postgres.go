package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// q returns the caller's transaction handle, or the pool for plain reads
// made outside any transaction.
func (r *PGRepository) q(q postgres.Querier) postgres.Querier {
	if q == nil {
		return r.DB
	}
	return q
}

func (r *PGRepository) Create(ctx context.Context, q postgres.Querier, m *model.Material) error {
	query := `
        INSERT INTO materials (id, name, unit, quantity, min_quantity, created_at, updated_at)
        VALUES (:id, :name, :unit, :quantity, :min_quantity, :created_at, :updated_at)
    `
	_, err := sqlx.NamedExecContext(ctx, r.q(q), query, m)
	return err
}

func (r *PGRepository) GetByID(ctx context.Context, q postgres.Querier, id string) (*model.Material, error) {
	return r.getByID(ctx, q, id, false)
}

func (r *PGRepository) GetByIDForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.Material, error) {
	return r.getByID(ctx, q, id, true)
}

func (r *PGRepository) getByID(ctx context.Context, q postgres.Querier, id string, lock bool) (*model.Material, error) {
	query := `SELECT * FROM materials WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var m model.Material
	err := r.q(q).GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // caller maps to ErrMaterialNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.MaterialFilters) ([]model.Material, int, error) {
	var items []model.Material
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Name != "" {
		conditions = append(conditions, "name ILIKE :name")
		args["name"] = "%" + f.Name + "%"
	}
	if f.LowStock {
		conditions = append(conditions, "min_quantity IS NOT NULL AND quantity <= min_quantity")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM materials" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM materials" + whereClause + " ORDER BY name ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) UpdateQuantity(ctx context.Context, q postgres.Querier, id string, quantity float64, updatedAt time.Time) error {
	res, err := r.q(q).ExecContext(ctx,
		`UPDATE materials SET quantity = $2, updated_at = $3 WHERE id = $1`,
		id, quantity, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update material quantity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrMaterialNotFound
	}
	return nil
}

func (r *PGRepository) InsertMove(ctx context.Context, q postgres.Querier, mv *model.MaterialMove) error {
	query := `
        INSERT INTO material_moves (
            id, material_id, delta, quantity_before, quantity_after,
            reason, order_id, user_id, created_at
        )
        VALUES (
            :id, :material_id, :delta, :quantity_before, :quantity_after,
            :reason, :order_id, :user_id, :created_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, r.q(q), query, mv)
	if err != nil {
		return fmt.Errorf("failed to log material move: %w", err)
	}
	return nil
}

func (r *PGRepository) ListMoves(ctx context.Context, f *dto.MoveFilters) ([]model.MaterialMove, int, error) {
	var items []model.MaterialMove
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.MaterialID != "" {
		conditions = append(conditions, "material_id = :material_id")
		args["material_id"] = f.MaterialID
	}
	if f.Reason != "" {
		conditions = append(conditions, "reason = :reason")
		args["reason"] = string(f.Reason)
	}
	if f.OrderID != "" {
		conditions = append(conditions, "order_id = :order_id")
		args["order_id"] = f.OrderID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM material_moves" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM material_moves" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

// SumMoveDeltas supports reconciliation: for a consistent ledger,
// initial quantity + sum of deltas equals the current quantity.
func (r *PGRepository) SumMoveDeltas(ctx context.Context, materialID string) (float64, error) {
	var sum float64
	err := r.DB.GetContext(ctx, &sum,
		`SELECT COALESCE(SUM(delta), 0) FROM material_moves WHERE material_id = $1`,
		materialID,
	)
	return sum, err
}
