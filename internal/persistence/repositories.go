package persistence

import (
	"context"
	"time"

	"github.com/example/cafe-manager/internal/domain"
)

// TableRepository exposes the persistence operations for tables.
type TableRepository interface {
	CreateTable(ctx context.Context, table Table) error
	GetTable(ctx context.Context, id string) (Table, error)
	ListTables(ctx context.Context) ([]Table, error)
	UpdateTableStatus(ctx context.Context, id string, status domain.TableStatus) error
	SetOutOfService(ctx context.Context, id string, outOfService bool, status domain.TableStatus) error
	CountTables(ctx context.Context) (int, error)
}

// ProductRepository exposes the persistence operations for the catalog.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product Product) error
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context, category *domain.ProductCategory) ([]Product, error)
	CountProducts(ctx context.Context) (int, error)
}

// SessionRepository stores billing sessions. OpenSession and CloseSession
// mutate the owning table's status in the same transaction as the session
// write so the pair is atomic.
type SessionRepository interface {
	// OpenSession inserts the session and marks the table Occupied.
	OpenSession(ctx context.Context, session Session) (Session, error)
	// ActiveSessionForTable returns the open session on a table, or
	// ErrNotFound when the table is idle.
	ActiveSessionForTable(ctx context.Context, tableID string) (Session, error)
	// CloseSession finalizes the session and releases the table into the
	// given status. Both writes succeed or neither does.
	CloseSession(ctx context.Context, sessionID string, endedAt time.Time, billedMinutes int, timeCharge float64, release domain.TableStatus) (Session, error)
}

// OrderRepository stores order lines and keeps stock consistent.
type OrderRepository interface {
	// PlaceOrder inserts the order at the product's current price and
	// decrements stock in the same transaction. ErrInsufficientStock is
	// returned, and nothing changes, when stock cannot cover the quantity.
	PlaceOrder(ctx context.Context, order Order) (Order, error)
	// SessionOrderTotal sums the order amounts recorded for a session.
	SessionOrderTotal(ctx context.Context, sessionID string) (float64, error)
	// SessionOrderLines aggregates a session's orders per product.
	SessionOrderLines(ctx context.Context, sessionID string) ([]OrderLine, error)
}

// ReportRepository answers the date-ranged aggregation queries behind the
// daily revenue summary. The range is half-open: [from, to).
type ReportRepository interface {
	RevenueTotals(ctx context.Context, from, to time.Time) (RevenueTotals, error)
}
