package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/cafe-manager/internal/application"
)

type reportService interface {
	DailyRevenue(ctx context.Context, date time.Time) (application.RevenueSummary, error)
}

// ReportHandler serves the end-of-day revenue report.
type ReportHandler struct {
	service   reportService
	responder responder
	logger    *slog.Logger
	now       func() time.Time
}

func NewReportHandler(service reportService, logger *slog.Logger) *ReportHandler {
	base := defaultLogger(logger)
	return &ReportHandler{service: service, responder: newResponder(base), logger: base, now: time.Now}
}

func (h *ReportHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReportHandler", operation, attrs...)
}

// Daily responds with the revenue summary for the date query parameter
// (YYYY-MM-DD), defaulting to today.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := h.now().Local()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		date = parsed
	}

	logger := h.log(r.Context(), "Daily", "date", date.Format("2006-01-02"))

	summary, err := h.service.DailyRevenue(r.Context(), date)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to compute daily revenue", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("total_revenue", summary.TotalRevenue).InfoContext(r.Context(), "daily revenue served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRevenueSummaryDTO(summary))
}

type revenueSummaryDTO struct {
	Date              string             `json:"date"`
	SessionCount      int                `json:"session_count"`
	SessionRevenue    float64            `json:"session_revenue"`
	OrderCount        int                `json:"order_count"`
	OrderRevenue      float64            `json:"order_revenue"`
	TotalRevenue      float64            `json:"total_revenue"`
	CategoryTotals    map[string]float64 `json:"category_totals"`
	ProductQuantities map[string]int     `json:"product_quantities"`
}

func toRevenueSummaryDTO(summary application.RevenueSummary) revenueSummaryDTO {
	categories := make(map[string]float64, len(summary.CategoryTotals))
	for category, total := range summary.CategoryTotals {
		categories[string(category)] = total
	}

	quantities := make(map[string]int, len(summary.ProductQuantities))
	for name, quantity := range summary.ProductQuantities {
		quantities[name] = quantity
	}

	return revenueSummaryDTO{
		Date:              summary.Date.Format("2006-01-02"),
		SessionCount:      summary.SessionCount,
		SessionRevenue:    summary.SessionRevenue,
		OrderCount:        summary.OrderCount,
		OrderRevenue:      summary.OrderRevenue,
		TotalRevenue:      summary.TotalRevenue,
		CategoryTotals:    categories,
		ProductQuantities: quantities,
	}
}
