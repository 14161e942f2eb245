package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/cafe-manager/internal/application"
	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

type sessionService interface {
	StartSession(ctx context.Context, params application.StartSessionParams) (persistence.Session, error)
	StopSession(ctx context.Context, tableID string) (application.Bill, error)
}

// SessionHandler exposes the start/stop session controls.
type SessionHandler struct {
	service   sessionService
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(service sessionService, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SessionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SessionHandler", operation, attrs...)
}

// Start opens a session on the table.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request, tableID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Start", "table_id", tableID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode session request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Start", "table_id", tableID, "mode", req.Mode)

	session, err := h.service.StartSession(r.Context(), application.StartSessionParams{
		TableID:        tableID,
		Mode:           domain.SessionMode(req.Mode),
		PlannedMinutes: req.PlannedMinutes,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "session start failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("session_id", session.ID).InfoContext(r.Context(), "session started")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, sessionResponse{Session: toSessionDTO(session)})
}

// Stop closes the open session and responds with the bill.
func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request, tableID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Stop", "table_id", tableID)

	bill, err := h.service.StopSession(r.Context(), tableID)
	if err != nil {
		logger.ErrorContext(r.Context(), "session stop failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("session_id", bill.SessionID, "total", bill.Total).InfoContext(r.Context(), "session stopped")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, billResponse{Bill: toBillDTO(bill)})
}

type startSessionRequest struct {
	Mode           string `json:"mode"`
	PlannedMinutes *int   `json:"planned_minutes,omitempty"`
}

type sessionResponse struct {
	Session sessionDTO `json:"session"`
}

type sessionDTO struct {
	ID             string  `json:"id"`
	TableID        string  `json:"table_id"`
	Mode           string  `json:"mode"`
	StartedAt      string  `json:"started_at"`
	PlannedMinutes *int    `json:"planned_minutes,omitempty"`
	HourlyRate     float64 `json:"hourly_rate"`
	FlatRate       float64 `json:"flat_rate"`
}

func toSessionDTO(session persistence.Session) sessionDTO {
	return sessionDTO{
		ID:             session.ID,
		TableID:        session.TableID,
		Mode:           string(session.Mode),
		StartedAt:      session.StartedAt.UTC().Format(time.RFC3339),
		PlannedMinutes: session.PlannedMinutes,
		HourlyRate:     session.HourlyRate,
		FlatRate:       session.FlatRate,
	}
}

type billResponse struct {
	Bill billDTO `json:"bill"`
}

type billDTO struct {
	SessionID  string  `json:"session_id"`
	TableID    string  `json:"table_id"`
	Mode       string  `json:"mode"`
	StartedAt  string  `json:"started_at"`
	EndedAt    string  `json:"ended_at"`
	Minutes    int     `json:"minutes"`
	TimeCharge float64 `json:"time_charge"`
	OrderTotal float64 `json:"order_total"`
	Total      float64 `json:"total"`
}

func toBillDTO(bill application.Bill) billDTO {
	return billDTO{
		SessionID:  bill.SessionID,
		TableID:    bill.TableID,
		Mode:       string(bill.Mode),
		StartedAt:  bill.StartedAt.UTC().Format(time.RFC3339),
		EndedAt:    bill.EndedAt.UTC().Format(time.RFC3339),
		Minutes:    bill.Minutes,
		TimeCharge: bill.TimeCharge,
		OrderTotal: bill.OrderTotal,
		Total:      bill.Total,
	}
}
