package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/cafe-manager/internal/persistence"
)

// OrderRepository implements persistence.OrderRepository using SQLite.
type OrderRepository struct {
	pool *ConnectionPool
}

// NewOrderRepository creates a new SQLite order repository.
func NewOrderRepository(pool *ConnectionPool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// PlaceOrder records the order at the product's current price and decrements
// stock in the same transaction. When stock cannot cover the quantity the
// transaction rolls back and ErrInsufficientStock is returned, leaving stock
// untouched.
func (r *OrderRepository) PlaceOrder(ctx context.Context, order persistence.Order) (persistence.Order, error) {
	if order.ID == "" || order.SessionID == "" || order.ProductID == "" {
		return persistence.Order{}, persistence.ErrConstraintViolation
	}
	if order.Quantity < 1 {
		return persistence.Order{}, persistence.ErrConstraintViolation
	}

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var (
			stock int
			price float64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT stock, price FROM products WHERE id = ?`,
			order.ProductID,
		).Scan(&stock, &price)
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrNotFound
		}
		if err != nil {
			return mapError(err)
		}

		if stock < order.Quantity {
			return persistence.ErrInsufficientStock
		}

		order.UnitPrice = price
		order.Amount = price * float64(order.Quantity)

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - ?, updated_at = ? WHERE id = ?`,
			order.Quantity,
			time.Now().UTC().Format(time.RFC3339),
			order.ProductID,
		); err != nil {
			// The CHECK (stock >= 0) constraint backstops the guard above.
			return mapError(err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, session_id, product_id, quantity, unit_price, amount, placed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			order.ID,
			order.SessionID,
			order.ProductID,
			order.Quantity,
			order.UnitPrice,
			order.Amount,
			order.PlacedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return mapError(err)
		}
		return nil
	})
	if err != nil {
		return persistence.Order{}, err
	}

	return order, nil
}

// SessionOrderTotal sums the order amounts recorded for a session.
func (r *OrderRepository) SessionOrderTotal(ctx context.Context, sessionID string) (float64, error) {
	var total float64
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM orders WHERE session_id = ?`,
		sessionID,
	).Scan(&total)
	if err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// SessionOrderLines aggregates a session's orders per product for the order
// panel.
func (r *OrderRepository) SessionOrderLines(ctx context.Context, sessionID string) ([]persistence.OrderLine, error) {
	query := `
		SELECT p.name, SUM(o.quantity), SUM(o.amount)
		FROM orders o
		JOIN products p ON o.product_id = p.id
		WHERE o.session_id = ?
		GROUP BY p.name
		ORDER BY p.name
	`

	rows, err := r.pool.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	lines := make([]persistence.OrderLine, 0)
	for rows.Next() {
		var line persistence.OrderLine
		if err := rows.Scan(&line.ProductName, &line.Quantity, &line.Amount); err != nil {
			return nil, mapError(err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return lines, nil
}
