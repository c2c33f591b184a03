package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Component is one entry of a composition: the material and the quantity
// consumed per produced unit.
type Component struct {
	MaterialID string  `db:"material_id" json:"material_id"`
	QtyPerUnit float64 `db:"qty_per_unit" json:"qty_per_unit"`
}

// ComponentList is stored as JSONB on line items so that delete and update
// can reverse exactly the composition the item was created with.
type ComponentList []Component

func (l ComponentList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *ComponentList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = ComponentList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported component list type %T", src)
	}
}

// CompositionPreset maps a (product type, product description) pair to the
// materials required per unit. Presets are maintained by admin tooling and
// read-only from the engine's perspective.
type CompositionPreset struct {
	ID                 string        `db:"id" json:"id"`
	ProductType        string        `db:"product_type" json:"product_type"`
	ProductDescription string        `db:"product_description" json:"product_description"`
	Components         ComponentList `db:"components" json:"components"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}
