package address

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	// GetAddress returns nil when the address does not exist or is not owned
	// by the buyer.
	GetAddress(ctx context.Context, addressID, buyerID int64) (*Address, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAddress(ctx context.Context, addressID, buyerID int64) (*Address, error) {
	query := `
		SELECT id, user_id, street, number, complement, district, city, state, zip_code
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`

	var a Address
	err := r.db.QueryRowContext(ctx, query, addressID, buyerID).
		Scan(&a.ID, &a.BuyerID, &a.Street, &a.Number, &a.Complement,
			&a.District, &a.City, &a.State, &a.ZipCode)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}
