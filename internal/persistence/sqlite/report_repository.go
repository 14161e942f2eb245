package sqlite

import (
	"context"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

// ReportRepository implements persistence.ReportRepository using SQLite.
type ReportRepository struct {
	pool *ConnectionPool
}

// NewReportRepository creates a new SQLite report repository.
func NewReportRepository(pool *ConnectionPool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// RevenueTotals aggregates closed sessions and their orders within the
// half-open range [from, to). Open sessions never contribute. A range with
// no activity yields zero totals and empty maps, not an error.
func (r *ReportRepository) RevenueTotals(ctx context.Context, from, to time.Time) (persistence.RevenueTotals, error) {
	totals := persistence.RevenueTotals{
		CategoryTotals:    make(map[domain.ProductCategory]float64),
		ProductQuantities: make(map[string]int),
	}

	fromArg := from.UTC().Format(time.RFC3339)
	toArg := to.UTC().Format(time.RFC3339)

	err := r.pool.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(time_charge), 0), COUNT(*)
		FROM sessions
		WHERE ended_at IS NOT NULL AND ended_at >= ? AND ended_at < ?
	`, fromArg, toArg).Scan(&totals.SessionRevenue, &totals.SessionCount)
	if err != nil {
		return persistence.RevenueTotals{}, mapError(err)
	}

	err = r.pool.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(o.amount), 0), COALESCE(SUM(o.quantity), 0)
		FROM orders o
		JOIN sessions s ON o.session_id = s.id
		WHERE s.ended_at IS NOT NULL AND s.ended_at >= ? AND s.ended_at < ?
	`, fromArg, toArg).Scan(&totals.OrderRevenue, &totals.OrderCount)
	if err != nil {
		return persistence.RevenueTotals{}, mapError(err)
	}

	categoryRows, err := r.pool.db.QueryContext(ctx, `
		SELECT p.category, COALESCE(SUM(o.amount), 0)
		FROM orders o
		JOIN sessions s ON o.session_id = s.id
		JOIN products p ON o.product_id = p.id
		WHERE s.ended_at IS NOT NULL AND s.ended_at >= ? AND s.ended_at < ?
		GROUP BY p.category
	`, fromArg, toArg)
	if err != nil {
		return persistence.RevenueTotals{}, mapError(err)
	}
	defer categoryRows.Close()

	for categoryRows.Next() {
		var (
			category string
			amount   float64
		)
		if err := categoryRows.Scan(&category, &amount); err != nil {
			return persistence.RevenueTotals{}, mapError(err)
		}
		totals.CategoryTotals[domain.ProductCategory(category)] = amount
	}
	if err := categoryRows.Err(); err != nil {
		return persistence.RevenueTotals{}, mapError(err)
	}

	productRows, err := r.pool.db.QueryContext(ctx, `
		SELECT p.name, COALESCE(SUM(o.quantity), 0)
		FROM orders o
		JOIN sessions s ON o.session_id = s.id
		JOIN products p ON o.product_id = p.id
		WHERE s.ended_at IS NOT NULL AND s.ended_at >= ? AND s.ended_at < ?
		GROUP BY p.name
		ORDER BY p.name
	`, fromArg, toArg)
	if err != nil {
		return persistence.RevenueTotals{}, mapError(err)
	}
	defer productRows.Close()

	for productRows.Next() {
		var (
			name     string
			quantity int
		)
		if err := productRows.Scan(&name, &quantity); err != nil {
			return persistence.RevenueTotals{}, mapError(err)
		}
		totals.ProductQuantities[name] = quantity
	}
	if err := productRows.Err(); err != nil {
		return persistence.RevenueTotals{}, mapError(err)
	}

	return totals, nil
}
