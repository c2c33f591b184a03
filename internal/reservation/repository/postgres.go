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
	"github.com/rekafoe/newCRM-sub001/internal/reservation/dto"
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

func (r *PGRepository) Insert(ctx context.Context, q postgres.Querier, res *model.Reservation) error {
	query := `
        INSERT INTO material_reservations (
            id, material_id, order_id, quantity_reserved, status,
            expires_at, reserved_by, notes, created_at, updated_at
        )
        VALUES (
            :id, :material_id, :order_id, :quantity_reserved, :status,
            :expires_at, :reserved_by, :notes, :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, r.q(q), query, res)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, q postgres.Querier, id string) (*model.Reservation, error) {
	return r.getByID(ctx, q, id, false)
}

func (r *PGRepository) GetByIDForUpdate(ctx context.Context, q postgres.Querier, id string) (*model.Reservation, error) {
	return r.getByID(ctx, q, id, true)
}

func (r *PGRepository) getByID(ctx context.Context, q postgres.Querier, id string, lock bool) (*model.Reservation, error) {
	query := `SELECT * FROM material_reservations WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var res model.Reservation
	err := r.q(q).GetContext(ctx, &res, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, q postgres.Querier, res *model.Reservation) error {
	result, err := r.q(q).ExecContext(ctx, `
        UPDATE material_reservations
        SET status = $2, notes = $3, updated_at = $4
        WHERE id = $1
    `, res.ID, res.Status, res.Notes, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrReservationNotFound
	}
	return nil
}

func (r *PGRepository) SumActive(ctx context.Context, q postgres.Querier, materialID string) (float64, error) {
	var sum float64
	err := r.q(q).GetContext(ctx, &sum, `
        SELECT COALESCE(SUM(quantity_reserved), 0)
        FROM material_reservations
        WHERE material_id = $1 AND status = $2
    `, materialID, model.ReservationStatusActive)
	return sum, err
}

func (r *PGRepository) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE material_reservations
        SET status = $1, updated_at = $2
        WHERE status = $3 AND expires_at IS NOT NULL AND expires_at < $2
    `, model.ReservationStatusExpired, now, model.ReservationStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to expire reservations: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ReservationFilters) ([]model.Reservation, int, error) {
	var items []model.Reservation
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.MaterialID != "" {
		conditions = append(conditions, "material_id = :material_id")
		args["material_id"] = f.MaterialID
	}
	if f.OrderID != "" {
		conditions = append(conditions, "order_id = :order_id")
		args["order_id"] = f.OrderID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = string(f.Status)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM material_reservations" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM material_reservations" + whereClause + " ORDER BY created_at DESC"
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
