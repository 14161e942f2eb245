package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/cafe-manager/internal/application"
)

type floorService interface {
	ListTables(ctx context.Context) ([]application.TableView, error)
	ReserveTable(ctx context.Context, tableID string) error
	CancelReservation(ctx context.Context, tableID string) error
	MarkOutOfService(ctx context.Context, tableID string) error
	ReturnToService(ctx context.Context, tableID string) error
}

// TableHandler serves the floor grid and the manual table state changes.
type TableHandler struct {
	service   floorService
	responder responder
	logger    *slog.Logger
}

func NewTableHandler(service floorService, logger *slog.Logger) *TableHandler {
	base := defaultLogger(logger)
	return &TableHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TableHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TableHandler", operation, attrs...)
}

// List responds with every table, its status, and its open session if any.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	views, err := h.service.ListTables(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list tables", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := tableListResponse{Tables: make([]tableDTO, 0, len(views))}
	for _, view := range views {
		payload.Tables = append(payload.Tables, toTableDTO(view))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Reserve moves an empty table to Reserved.
func (h *TableHandler) Reserve(w http.ResponseWriter, r *http.Request, tableID string) {
	h.stateChange(w, r, tableID, "Reserve", h.service.ReserveTable)
}

// CancelReservation moves a reserved table back to Empty.
func (h *TableHandler) CancelReservation(w http.ResponseWriter, r *http.Request, tableID string) {
	h.stateChange(w, r, tableID, "CancelReservation", h.service.CancelReservation)
}

// MarkOutOfService flags the table as out of order.
func (h *TableHandler) MarkOutOfService(w http.ResponseWriter, r *http.Request, tableID string) {
	h.stateChange(w, r, tableID, "MarkOutOfService", h.service.MarkOutOfService)
}

// ReturnToService clears the out-of-order flag.
func (h *TableHandler) ReturnToService(w http.ResponseWriter, r *http.Request, tableID string) {
	h.stateChange(w, r, tableID, "ReturnToService", h.service.ReturnToService)
}

func (h *TableHandler) stateChange(w http.ResponseWriter, r *http.Request, tableID, operation string, fn func(context.Context, string) error) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if tableID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTableID)
		return
	}

	logger := h.log(r.Context(), operation, "table_id", tableID)
	if err := fn(r.Context(), tableID); err != nil {
		logger.ErrorContext(r.Context(), "table state change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "table state changed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type tableListResponse struct {
	Tables []tableDTO `json:"tables"`
}

type tableDTO struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Kind         string            `json:"kind"`
	Status       string            `json:"status"`
	Hardware     string            `json:"hardware"`
	OutOfService bool              `json:"out_of_service"`
	Session      *activeSessionDTO `json:"session,omitempty"`
}

type activeSessionDTO struct {
	ID             string  `json:"id"`
	Mode           string  `json:"mode"`
	StartedAt      string  `json:"started_at"`
	PlannedMinutes *int    `json:"planned_minutes,omitempty"`
	HourlyRate     float64 `json:"hourly_rate"`
	FlatRate       float64 `json:"flat_rate"`
	OrderTotal     float64 `json:"order_total"`
}

func toTableDTO(view application.TableView) tableDTO {
	dto := tableDTO{
		ID:           view.Table.ID,
		Name:         view.Table.Name,
		Kind:         string(view.Table.Kind),
		Status:       string(view.Table.Status),
		Hardware:     view.Table.Hardware,
		OutOfService: view.Table.OutOfService,
	}
	if view.Session != nil {
		dto.Session = &activeSessionDTO{
			ID:             view.Session.ID,
			Mode:           string(view.Session.Mode),
			StartedAt:      view.Session.StartedAt.UTC().Format(time.RFC3339),
			PlannedMinutes: view.Session.PlannedMinutes,
			HourlyRate:     view.Session.HourlyRate,
			FlatRate:       view.Session.FlatRate,
			OrderTotal:     view.OrderTotal,
		}
	}
	return dto
}
