package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rekafoe/newCRM-sub001/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetPreset(ctx context.Context, productType, productDescription string) (*model.CompositionPreset, error) {
	var preset model.CompositionPreset
	err := r.DB.GetContext(ctx, &preset, `
        SELECT * FROM composition_presets
        WHERE product_type = $1 AND product_description = $2
    `, productType, productDescription)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &preset, nil
}

func (r *PGRepository) MissingMaterials(ctx context.Context, materialIDs []string) ([]string, error) {
	if len(materialIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT id FROM materials WHERE id IN (?)`, materialIDs)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var found []string
	if err := r.DB.SelectContext(ctx, &found, query, args...); err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(found))
	for _, id := range found {
		present[id] = true
	}

	var missing []string
	for _, id := range materialIDs {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
