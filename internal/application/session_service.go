package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

// SessionService opens and closes billing sessions and computes bills.
type SessionService struct {
	tables      TableRepository
	sessions    SessionRepository
	orders      OrderRepository
	rates       domain.RateCard
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSessionService constructs a session service with the provided dependencies.
func NewSessionService(tables TableRepository, sessions SessionRepository, orders OrderRepository, rates domain.RateCard, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SessionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if rates == nil {
		rates = domain.DefaultRateCard()
	}
	return &SessionService{
		tables:      tables,
		sessions:    sessions,
		orders:      orders,
		rates:       rates,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *SessionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SessionService", operation, attrs...)
}

// StartSession opens a session on an empty or reserved table and marks it
// Occupied. The rate card is snapshotted into the session so later rate
// changes never affect running sessions.
func (s *SessionService) StartSession(ctx context.Context, params StartSessionParams) (session persistence.Session, err error) {
	logger := s.loggerWith(ctx, "StartSession",
		"table_id", params.TableID,
		"mode", string(params.Mode),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to start session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", session.ID).InfoContext(ctx, "session started")
	}()

	if vErr := validateStartSession(params); vErr.HasErrors() {
		err = vErr
		return
	}

	table, err := s.tables.GetTable(ctx, params.TableID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if table.OutOfService || table.Status == domain.TableStatusOutOfOrder {
		err = fmt.Errorf("%w: table is out of order", ErrInvalidState)
		return
	}
	if table.Status != domain.TableStatusEmpty && table.Status != domain.TableStatusReserved {
		err = fmt.Errorf("%w: table is %s", ErrInvalidState, table.Status)
		return
	}

	rates := s.rates.RatesFor(table.Kind)
	session = persistence.Session{
		ID:         s.idGenerator(),
		TableID:    table.ID,
		Mode:       params.Mode,
		HourlyRate: rates.Hourly,
		FlatRate:   rates.Flat,
		StartedAt:  s.now().UTC(),
	}
	if params.Mode == domain.SessionModeTimed && params.PlannedMinutes != nil {
		minutes := *params.PlannedMinutes
		session.PlannedMinutes = &minutes
	}

	session, err = s.sessions.OpenSession(ctx, session)
	if err != nil {
		if errors.Is(err, persistence.ErrSessionOpen) {
			err = fmt.Errorf("%w: table already has an open session", ErrInvalidState)
			return
		}
		err = mapRepoError(err)
		return
	}

	return session, nil
}

// StopSession closes the open session on a table, computes the bill, and
// releases the table: back to Empty, or to OutOfOrder when the table was
// flagged while the session ran.
func (s *SessionService) StopSession(ctx context.Context, tableID string) (bill Bill, err error) {
	logger := s.loggerWith(ctx, "StopSession", "table_id", tableID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to stop session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", bill.SessionID, "total", bill.Total).InfoContext(ctx, "session stopped")
	}()

	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	session, err := s.sessions.ActiveSessionForTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNoActiveSession
			return
		}
		return
	}

	endedAt := s.now().UTC()
	charge, minutes := timeCharge(session, endedAt)

	orderTotal, err := s.orders.SessionOrderTotal(ctx, session.ID)
	if err != nil {
		return
	}

	release := domain.TableStatusEmpty
	if table.OutOfService {
		release = domain.TableStatusOutOfOrder
	}

	closed, err := s.sessions.CloseSession(ctx, session.ID, endedAt, minutes, charge, release)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNoActiveSession
			return
		}
		return
	}

	bill = Bill{
		SessionID:  closed.ID,
		TableID:    closed.TableID,
		Mode:       closed.Mode,
		StartedAt:  closed.StartedAt,
		EndedAt:    endedAt,
		Minutes:    minutes,
		TimeCharge: charge,
		OrderTotal: roundCents(orderTotal),
		Total:      roundCents(charge + orderTotal),
	}
	return bill, nil
}

func validateStartSession(params StartSessionParams) *ValidationError {
	vErr := &ValidationError{}

	if params.TableID == "" {
		vErr.add("table_id", "table id is required")
	}
	if !params.Mode.Valid() {
		vErr.add("mode", "mode must be Timed or Unlimited")
	}
	if params.PlannedMinutes != nil {
		if params.Mode == domain.SessionModeUnlimited {
			vErr.add("planned_minutes", "planned minutes only apply to Timed sessions")
		} else if *params.PlannedMinutes <= 0 {
			vErr.add("planned_minutes", "planned minutes must be positive")
		}
	}

	return vErr
}
