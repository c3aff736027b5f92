package stock

import (
	"context"
	"database/sql"
)

// Reserve decrements a product's quantity and appends a SAIDA movement, both
// inside the caller's transaction. The guarded UPDATE is what keeps quantity
// from going negative under concurrent checkouts: zero affected rows means
// the product is missing or short on stock, and the caller must roll back.
func Reserve(ctx context.Context, tx *sql.Tx, productID int64, qty int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - $1
		WHERE id = $2 AND quantity >= $1
	`, qty, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_movements (product_id, type, quantity)
		VALUES ($1, $2, $3)
	`, productID, TypeSaida, qty)
	return err
}

// Release increments a product's quantity and appends a compensating ENTRADA
// movement inside the caller's transaction.
func Release(ctx context.Context, tx *sql.Tx, productID int64, qty int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity + $1
		WHERE id = $2
	`, qty, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_movements (product_id, type, quantity)
		VALUES ($1, $2, $3)
	`, productID, TypeEntrada, qty)
	return err
}
