package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/orderitem/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) q(q postgres.Querier) postgres.Querier {
	if q == nil {
		return r.DB
	}
	return q
}

func (r *PGRepository) Insert(ctx context.Context, q postgres.Querier, item *model.LineItem) error {
	query := `
        INSERT INTO order_items (
            id, order_id, product_type, description, params, unit_price,
            quantity, components, sides, sheets, waste, clicks,
            created_at, updated_at
        )
        VALUES (
            :id, :order_id, :product_type, :description, :params, :unit_price,
            :quantity, :components, :sides, :sheets, :waste, :clicks,
            :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, r.q(q), query, item)
	if err != nil {
		return fmt.Errorf("failed to insert line item: %w", err)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, q postgres.Querier, id string) (*model.LineItem, error) {
	return r.getByID(ctx, q, id, false)
}

func (r *PGRepository) GetByIDForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.LineItem, error) {
	return r.getByID(ctx, q, id, true)
}

func (r *PGRepository) getByID(ctx context.Context, q postgres.Querier, id string, lock bool) (*model.LineItem, error) {
	query := `SELECT * FROM order_items WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var item model.LineItem
	err := r.q(q).GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) Update(ctx context.Context, q postgres.Querier, id string, patch *dto.LineItemPatch, updatedAt time.Time) error {
	// Fixed statement, nil patch fields keep the current value. No SQL
	// fragment assembly.
	query := `
        UPDATE order_items SET
            quantity   = COALESCE($2, quantity),
            unit_price = COALESCE($3, unit_price),
            params     = COALESCE($4, params),
            sides      = COALESCE($5, sides),
            sheets     = COALESCE($6, sheets),
            waste      = COALESCE($7, waste),
            clicks     = COALESCE($8, clicks),
            updated_at = $9
        WHERE id = $1
    `
	res, err := r.q(q).ExecContext(ctx, query,
		id, patch.Quantity, patch.UnitPrice, patch.Params,
		patch.Sides, patch.Sheets, patch.Waste, patch.Clicks, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update line item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrLineItemNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, q postgres.Querier, id string) error {
	_, err := r.q(q).ExecContext(ctx, `DELETE FROM order_items WHERE id = $1`, id)
	return err
}

func (r *PGRepository) ListByOrder(ctx context.Context, orderID string) ([]model.LineItem, error) {
	var items []model.LineItem
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY created_at ASC`,
		orderID,
	)
	return items, err
}
