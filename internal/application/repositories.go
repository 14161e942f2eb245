package application

import (
	"context"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

// TableRepository captures the table operations needed by the services.
type TableRepository interface {
	GetTable(ctx context.Context, id string) (persistence.Table, error)
	ListTables(ctx context.Context) ([]persistence.Table, error)
	UpdateTableStatus(ctx context.Context, id string, status domain.TableStatus) error
	SetOutOfService(ctx context.Context, id string, outOfService bool, status domain.TableStatus) error
}

// ProductRepository captures the catalog operations needed by the services.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (persistence.Product, error)
	ListProducts(ctx context.Context, category *domain.ProductCategory) ([]persistence.Product, error)
}

// SessionRepository captures the session operations needed by the services.
type SessionRepository interface {
	OpenSession(ctx context.Context, session persistence.Session) (persistence.Session, error)
	ActiveSessionForTable(ctx context.Context, tableID string) (persistence.Session, error)
	CloseSession(ctx context.Context, sessionID string, endedAt time.Time, billedMinutes int, timeCharge float64, release domain.TableStatus) (persistence.Session, error)
}

// OrderRepository captures the order operations needed by the services.
type OrderRepository interface {
	PlaceOrder(ctx context.Context, order persistence.Order) (persistence.Order, error)
	SessionOrderTotal(ctx context.Context, sessionID string) (float64, error)
	SessionOrderLines(ctx context.Context, sessionID string) ([]persistence.OrderLine, error)
}

// ReportRepository captures the aggregation queries behind the daily report.
type ReportRepository interface {
	RevenueTotals(ctx context.Context, from, to time.Time) (persistence.RevenueTotals, error)
}
