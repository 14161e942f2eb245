package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/cafe-manager/internal/domain"
)

// ReportService computes the end-of-day revenue summary.
type ReportService struct {
	reports ReportRepository
	logger  *slog.Logger
}

// NewReportService constructs a report service with the provided dependencies.
func NewReportService(reports ReportRepository, logger *slog.Logger) *ReportService {
	return &ReportService{reports: reports, logger: defaultLogger(logger)}
}

func (s *ReportService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReportService", operation, attrs...)
}

// DailyRevenue sums the time charges of sessions that ended on the given
// day, plus the orders placed in them, grouped by category and product.
// A day with no activity yields a zero-valued summary, not an error. The
// day boundary follows date's location.
func (s *ReportService) DailyRevenue(ctx context.Context, date time.Time) (summary RevenueSummary, err error) {
	logger := s.loggerWith(ctx, "DailyRevenue", "date", date.Format("2006-01-02"))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to compute daily revenue", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("total_revenue", summary.TotalRevenue).InfoContext(ctx, "daily revenue computed")
	}()

	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)

	totals, err := s.reports.RevenueTotals(ctx, from, to)
	if err != nil {
		return
	}

	summary = RevenueSummary{
		Date:              from,
		SessionCount:      totals.SessionCount,
		SessionRevenue:    roundCents(totals.SessionRevenue),
		OrderCount:        totals.OrderCount,
		OrderRevenue:      roundCents(totals.OrderRevenue),
		TotalRevenue:      roundCents(totals.SessionRevenue + totals.OrderRevenue),
		CategoryTotals:    totals.CategoryTotals,
		ProductQuantities: totals.ProductQuantities,
	}
	if summary.CategoryTotals == nil {
		summary.CategoryTotals = map[domain.ProductCategory]float64{}
	}
	if summary.ProductQuantities == nil {
		summary.ProductQuantities = map[string]int{}
	}
	return summary, nil
}
