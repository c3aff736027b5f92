package product

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetProduct(ctx context.Context, productID int64) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	query := `
		SELECT id, name, price_cents, quantity, seller_id
		FROM products
		WHERE id = $1
	`

	var p Product
	err := r.db.QueryRowContext(ctx, query, productID).
		Scan(&p.ID, &p.Name, &p.PriceCents, &p.Quantity, &p.SellerID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
