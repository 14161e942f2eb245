package application

import (
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

// TableView is one entry of the floor grid: the table, its open session when
// occupied, and the running order total of that session.
type TableView struct {
	Table      persistence.Table
	Session    *persistence.Session
	OrderTotal float64
}

// StartSessionParams wraps the data required to open a billing session.
type StartSessionParams struct {
	TableID string
	Mode    domain.SessionMode
	// PlannedMinutes turns a Timed session into a prepaid block: the block
	// is billed regardless of elapsed time. Ignored for Unlimited sessions.
	PlannedMinutes *int
}

// Bill summarizes a closed session for the customer.
type Bill struct {
	SessionID  string
	TableID    string
	Mode       domain.SessionMode
	StartedAt  time.Time
	EndedAt    time.Time
	Minutes    int
	TimeCharge float64
	OrderTotal float64
	Total      float64
}

// PlaceOrderParams wraps the data required to record an order against the
// active session of a table.
type PlaceOrderParams struct {
	TableID   string
	ProductID string
	Quantity  int
}

// SessionOrders carries the aggregated order lines of an active session.
type SessionOrders struct {
	SessionID string
	Lines     []persistence.OrderLine
	Total     float64
}

// RevenueSummary is the derived end-of-day report. It is computed on demand
// and never persisted.
type RevenueSummary struct {
	Date              time.Time
	SessionCount      int
	SessionRevenue    float64
	OrderCount        int
	OrderRevenue      float64
	TotalRevenue      float64
	CategoryTotals    map[domain.ProductCategory]float64
	ProductQuantities map[string]int
}
