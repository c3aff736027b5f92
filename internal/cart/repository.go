package cart

import (
	"context"
	"database/sql"
	"errors"
)

// Reader is the snapshot view checkout consumes. Cart mutation (add, remove,
// quantity updates) lives elsewhere; the only write checkout performs is the
// clear, and that happens inside the checkout transaction.
type Reader interface {
	// GetCart returns nil when the buyer has no cart.
	GetCart(ctx context.Context, buyerID int64) (*Cart, error)
}

type reader struct {
	db *sql.DB
}

func NewReader(db *sql.DB) Reader {
	return &reader{db: db}
}

func (r *reader) GetCart(ctx context.Context, buyerID int64) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_cents
		FROM carts
		WHERE user_id = $1
	`, buyerID).Scan(&c.ID, &c.BuyerID, &c.TotalCents)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.product_id, p.name, i.quantity, i.unit_price_cents, p.seller_id, p.quantity
		FROM cart_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.cart_id = $1
		ORDER BY i.id
	`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.ProductID, &item.ProductName, &item.Quantity,
			&item.UnitPriceCents, &item.SellerID, &item.ProductQuantity,
		); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &c, nil
}
