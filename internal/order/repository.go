package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"vitrine-be/internal/address"
	"vitrine-be/internal/cart"
	"vitrine-be/internal/logger"
	"vitrine-be/internal/payment"
	"vitrine-be/internal/stock"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx runs the whole checkout as one transaction: lock and
	// validate stock, insert the order with its items, address snapshot and
	// pending payment, decrement stock, clear the cart.
	CreateOrderTx(
		ctx context.Context,
		buyerID int64,
		addr *address.Address,
		c *cart.Cart,
		method string,
	) (*Order, error)

	// ReconcileTx applies the provider verdict to a pending order/payment
	// pair. alreadyFinal reports the idempotent no-op case.
	ReconcileTx(
		ctx context.Context,
		orderID int64,
		verdict Verdict,
	) (alreadyFinal bool, err error)

	GetOrderDetail(ctx context.Context, orderID int64) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrderTx(
	ctx context.Context,
	buyerID int64,
	addr *address.Address,
	c *cart.Cart,
	method string,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.Int64("buyer_id", buyerID),
		zap.Int("item_count", len(c.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// Lock product rows in id order so two concurrent checkouts touching the
	// same products cannot deadlock each other.
	items := make([]cart.Item, len(c.Items))
	copy(items, c.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	sellers := make(map[int64]int64, len(items))
	var totalCents int64

	for _, item := range items {
		var available int
		var sellerID int64

		err := tx.QueryRowContext(ctx, `
			SELECT quantity, seller_id
			FROM products
			WHERE id = $1
			FOR UPDATE
		`, item.ProductID).Scan(&available, &sellerID)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, stock.ErrProductNotFound)
		}
		if err != nil {
			return nil, err
		}

		if item.Quantity > available {
			log.Warn("insufficient stock",
				zap.Int64("product_id", item.ProductID),
				zap.Int("requested", item.Quantity),
				zap.Int("available", available),
			)
			return nil, fmt.Errorf("product %d %q: %w",
				item.ProductID, item.ProductName, stock.ErrInsufficientStock)
		}

		sellers[item.ProductID] = sellerID
		totalCents += int64(item.Quantity) * item.UnitPriceCents
	}

	order := &Order{
		BuyerID:    buyerID,
		TotalCents: totalCents,
		Status:     StatusPending,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_cents, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, buyerID, totalCents, StatusPending).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_addresses (
			order_id, street, number, complement, district, city, state, zip_code
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, order.ID, addr.Street, addr.Number, addr.Complement,
		addr.District, addr.City, addr.State, addr.ZipCode)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		oi := Item{
			OrderID:        order.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SellerID:       sellers[item.ProductID],
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price_cents, seller_id)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id
		`, oi.OrderID, oi.ProductID, oi.Quantity, oi.UnitPriceCents, oi.SellerID).Scan(&oi.ID)
		if err != nil {
			return nil, err
		}

		// Under the row lock taken above this cannot fail the quantity guard.
		if err := stock.Reserve(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}

		order.Items = append(order.Items, oi)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (order_id, amount_cents, status, method)
		VALUES ($1,$2,$3,$4)
	`, order.ID, totalCents, payment.StatusPending, method)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, c.ID); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE carts SET total_cents = 0 WHERE id = $1`, c.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit checkout transaction", zap.Error(err))
		return nil, err
	}

	committed = true
	log.Info("checkout transaction committed",
		zap.Int64("order_id", order.ID),
		zap.Int64("total_cents", totalCents),
	)

	return order, nil
}

func (r *repository) ReconcileTx(
	ctx context.Context,
	orderID int64,
	verdict Verdict,
) (bool, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ReconcileTx"),
		zap.Int64("order_id", orderID),
		zap.String("verdict", string(verdict)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// The order row lock serializes duplicate webhook deliveries; the loser
	// of the race observes the terminal status and no-ops.
	var status Status
	var paymentID int64
	err = tx.QueryRowContext(ctx, `
		SELECT o.status, p.id
		FROM orders o
		JOIN payments p ON p.order_id = o.id
		WHERE o.id = $1
		FOR UPDATE
	`, orderID).Scan(&status, &paymentID)

	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrOrderNotFound
	}
	if err != nil {
		return false, err
	}

	if status != StatusPending {
		log.Info("order already in terminal state", zap.String("status", string(status)))
		return true, nil
	}

	var paymentStatus payment.PaymentStatus
	var orderStatus Status
	switch verdict {
	case VerdictApproved:
		paymentStatus = payment.StatusAprovado
		orderStatus = StatusPaid
	case VerdictDeclined:
		paymentStatus = payment.StatusRecusado
		orderStatus = StatusCancelled
	default:
		return false, ErrInvalidVerdict
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2
	`, paymentStatus, paymentID); err != nil {
		return false, err
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = $1 WHERE id = $2
	`, orderStatus, orderID); err != nil {
		return false, err
	}

	if verdict == VerdictDeclined {
		if err := r.restoreStock(ctx, tx, orderID); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit reconciliation", zap.Error(err))
		return false, err
	}

	committed = true
	log.Info("order reconciled", zap.String("status", string(orderStatus)))

	return false, nil
}

// restoreStock compensates every item of a declined order with an ENTRADA
// movement, inside the reconciliation transaction.
func (r *repository) restoreStock(ctx context.Context, tx *sql.Tx, orderID int64) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return err
	}
	defer rows.Close()

	type line struct {
		productID int64
		qty       int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.qty); err != nil {
			return err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range lines {
		if err := stock.Release(ctx, tx, l.productID, l.qty); err != nil {
			return err
		}
	}

	return nil
}

func (r *repository) GetOrderDetail(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_cents, status, created_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(&o.ID, &o.BuyerID, &o.TotalCents, &o.Status, &o.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	var snap AddressSnapshot
	err = r.db.QueryRowContext(ctx, `
		SELECT order_id, street, number, complement, district, city, state, zip_code
		FROM order_addresses
		WHERE order_id = $1
	`, orderID).Scan(
		&snap.OrderID, &snap.Street, &snap.Number, &snap.Complement,
		&snap.District, &snap.City, &snap.State, &snap.ZipCode,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Snapshot is optional in the read model.
	case err != nil:
		return nil, err
	default:
		o.Address = &snap
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price_cents, seller_id
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.UnitPriceCents, &item.SellerID,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	return &o, rows.Err()
}
