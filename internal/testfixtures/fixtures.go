// Package testfixtures provides deterministic builders and time/id sources
// for tests across the persistence and application layers.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

var (
	tableCounter   uint64
	productCounter uint64
	sessionCounter uint64
)

var referenceTime = time.Date(2026, time.August, 26, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// TableOption configures a generated table fixture.
type TableOption func(*persistence.Table)

// NewTable returns a deterministic table record with optional overrides.
func NewTable(opts ...TableOption) persistence.Table {
	idx := atomic.AddUint64(&tableCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	table := persistence.Table{
		ID:        fmt.Sprintf("table-%03d", idx),
		Name:      fmt.Sprintf("Table %d", idx),
		Kind:      domain.TableKindStandard,
		Status:    domain.TableStatusEmpty,
		Hardware:  "GTX 1650, 75Hz Monitor",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&table)
	}
	return table
}

// WithTableID overrides the generated table ID.
func WithTableID(id string) TableOption {
	return func(t *persistence.Table) {
		t.ID = id
	}
}

// WithTableKind overrides the table kind.
func WithTableKind(kind domain.TableKind) TableOption {
	return func(t *persistence.Table) {
		t.Kind = kind
	}
}

// WithTableStatus overrides the table status.
func WithTableStatus(status domain.TableStatus) TableOption {
	return func(t *persistence.Table) {
		t.Status = status
	}
}

// WithOutOfService sets the out-of-service flag.
func WithOutOfService(flag bool) TableOption {
	return func(t *persistence.Table) {
		t.OutOfService = flag
	}
}

// ProductOption configures a generated product fixture.
type ProductOption func(*persistence.Product)

// NewProduct returns a deterministic catalog entry with optional overrides.
func NewProduct(opts ...ProductOption) persistence.Product {
	idx := atomic.AddUint64(&productCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	product := persistence.Product{
		ID:        fmt.Sprintf("product-%03d", idx),
		Name:      fmt.Sprintf("Product %03d", idx),
		Category:  domain.ProductCategoryFood,
		Price:     3,
		Stock:     50,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&product)
	}
	return product
}

// WithProductID overrides the generated product ID.
func WithProductID(id string) ProductOption {
	return func(p *persistence.Product) {
		p.ID = id
	}
}

// WithProductCategory overrides the product category.
func WithProductCategory(category domain.ProductCategory) ProductOption {
	return func(p *persistence.Product) {
		p.Category = category
	}
}

// WithPrice overrides the product price.
func WithPrice(price float64) ProductOption {
	return func(p *persistence.Product) {
		p.Price = price
	}
}

// WithStock overrides the remaining stock.
func WithStock(stock int) ProductOption {
	return func(p *persistence.Product) {
		p.Stock = stock
	}
}

// SessionOption configures a generated session fixture.
type SessionOption func(*persistence.Session)

// NewSession returns a deterministic open session with optional overrides.
func NewSession(tableID string, opts ...SessionOption) persistence.Session {
	idx := atomic.AddUint64(&sessionCounter, 1)
	started := referenceTime.Add(time.Duration(idx) * time.Minute)
	session := persistence.Session{
		ID:         fmt.Sprintf("session-%03d", idx),
		TableID:    tableID,
		Mode:       domain.SessionModeTimed,
		HourlyRate: 20,
		FlatRate:   70,
		StartedAt:  started,
		CreatedAt:  started,
		UpdatedAt:  started,
	}
	for _, opt := range opts {
		opt(&session)
	}
	return session
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(s *persistence.Session) {
		s.ID = id
	}
}

// WithSessionMode overrides the billing mode.
func WithSessionMode(mode domain.SessionMode) SessionOption {
	return func(s *persistence.Session) {
		s.Mode = mode
	}
}

// WithRates overrides the snapshotted hourly and flat rates.
func WithRates(hourly, flat float64) SessionOption {
	return func(s *persistence.Session) {
		s.HourlyRate = hourly
		s.FlatRate = flat
	}
}

// WithPlannedMinutes sets a prepaid block on the session.
func WithPlannedMinutes(minutes int) SessionOption {
	return func(s *persistence.Session) {
		s.PlannedMinutes = &minutes
	}
}

// WithStartedAt overrides the session start time.
func WithStartedAt(startedAt time.Time) SessionOption {
	return func(s *persistence.Session) {
		s.StartedAt = startedAt
	}
}
