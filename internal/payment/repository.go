package payment

import (
	"context"
	"database/sql"
	"errors"
)

// Repository only reads payments. The rows are created by the checkout
// transaction and transitioned by the reconciliation transaction, both owned
// by the order package.
type Repository interface {
	GetPaymentByOrder(ctx context.Context, orderID int64) (*Payment, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetPaymentByOrder(ctx context.Context, orderID int64) (*Payment, error) {
	var p Payment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, amount_cents, status, method, created_at, updated_at
		FROM payments
		WHERE order_id = $1
	`, orderID).Scan(
		&p.ID, &p.OrderID, &p.AmountCents, &p.Status, &p.Method,
		&p.CreatedAt, &p.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
