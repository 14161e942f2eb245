package persistence

import (
	"time"

	"github.com/example/cafe-manager/internal/domain"
)

// Table represents a cafe table as stored on disk. Tables are created by the
// seed step and are never deleted; only their status and out-of-service flag
// change afterwards.
type Table struct {
	ID           string
	Name         string
	Kind         domain.TableKind
	Status       domain.TableStatus
	Hardware     string
	OutOfService bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents a billing session on a table. A session with a nil
// EndedAt is open; the schema allows at most one open session per table.
type Session struct {
	ID             string
	TableID        string
	Mode           domain.SessionMode
	HourlyRate     float64
	FlatRate       float64
	PlannedMinutes *int
	StartedAt      time.Time
	EndedAt        *time.Time
	BilledMinutes  int
	TimeCharge     float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Product represents a catalog entry with its remaining stock. Stock never
// goes below zero; the schema enforces it alongside the repositories.
type Product struct {
	ID        string
	Name      string
	Category  domain.ProductCategory
	Price     float64
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order represents a single order line placed against a session. Orders are
// immutable once written; UnitPrice snapshots the product price at the time
// of the order.
type Order struct {
	ID        string
	SessionID string
	ProductID string
	Quantity  int
	UnitPrice float64
	Amount    float64
	PlacedAt  time.Time
}

// OrderLine is an aggregated view of the orders of one product within a
// session, shown on the order panel while the session is open.
type OrderLine struct {
	ProductName string
	Quantity    int
	Amount      float64
}

// RevenueTotals carries the aggregates the daily report is assembled from.
type RevenueTotals struct {
	SessionRevenue    float64
	SessionCount      int
	OrderRevenue      float64
	OrderCount        int
	CategoryTotals    map[domain.ProductCategory]float64
	ProductQuantities map[string]int
}
