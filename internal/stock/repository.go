package stock

import (
	"context"
	"database/sql"
)

type Repository interface {
	MovementsByProduct(ctx context.Context, productID int64) ([]Movement, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) MovementsByProduct(ctx context.Context, productID int64) ([]Movement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, type, quantity, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}

	return movements, rows.Err()
}
