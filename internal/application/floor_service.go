package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

// FloorService manages the table grid: listing tables with their live
// session, reservations, and the out-of-service flag.
type FloorService struct {
	tables   TableRepository
	sessions SessionRepository
	orders   OrderRepository
	logger   *slog.Logger
}

// NewFloorService constructs a floor service with the provided dependencies.
func NewFloorService(tables TableRepository, sessions SessionRepository, orders OrderRepository, logger *slog.Logger) *FloorService {
	return &FloorService{tables: tables, sessions: sessions, orders: orders, logger: defaultLogger(logger)}
}

func (s *FloorService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "FloorService", operation, attrs...)
}

// ListTables returns every table with its open session and running order
// total, in floor order.
func (s *FloorService) ListTables(ctx context.Context) (views []TableView, err error) {
	logger := s.loggerWith(ctx, "ListTables")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list tables", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(views)).InfoContext(ctx, "tables listed")
	}()

	tables, err := s.tables.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	views = make([]TableView, 0, len(tables))
	for _, table := range tables {
		view := TableView{Table: table}

		session, err := s.sessions.ActiveSessionForTable(ctx, table.ID)
		switch {
		case errors.Is(err, persistence.ErrNotFound):
			// Idle table.
		case err != nil:
			return nil, err
		default:
			view.Session = &session
			total, err := s.orders.SessionOrderTotal(ctx, session.ID)
			if err != nil {
				return nil, err
			}
			view.OrderTotal = total
		}

		views = append(views, view)
	}

	return views, nil
}

// ReserveTable moves an empty table to Reserved.
func (s *FloorService) ReserveTable(ctx context.Context, tableID string) error {
	logger := s.loggerWith(ctx, "ReserveTable", "table_id", tableID)

	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to reserve table", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if table.OutOfService || table.Status != domain.TableStatusEmpty {
		err = fmt.Errorf("%w: cannot reserve a %s table", ErrInvalidState, table.Status)
		logger.ErrorContext(ctx, "failed to reserve table", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.tables.UpdateTableStatus(ctx, tableID, domain.TableStatusReserved); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to reserve table", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "table reserved")
	return nil
}

// CancelReservation moves a reserved table back to Empty.
func (s *FloorService) CancelReservation(ctx context.Context, tableID string) error {
	logger := s.loggerWith(ctx, "CancelReservation", "table_id", tableID)

	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to cancel reservation", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if table.Status != domain.TableStatusReserved {
		err = fmt.Errorf("%w: table is %s, not Reserved", ErrInvalidState, table.Status)
		logger.ErrorContext(ctx, "failed to cancel reservation", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.tables.UpdateTableStatus(ctx, tableID, domain.TableStatusEmpty); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to cancel reservation", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "reservation cancelled")
	return nil
}

// MarkOutOfService flags a table as out of order. The flag may be set while a
// session is running; the grid shows OutOfOrder immediately and StopSession
// releases the table into OutOfOrder instead of Empty.
func (s *FloorService) MarkOutOfService(ctx context.Context, tableID string) error {
	logger := s.loggerWith(ctx, "MarkOutOfService", "table_id", tableID)

	if _, err := s.tables.GetTable(ctx, tableID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to mark table out of service", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.tables.SetOutOfService(ctx, tableID, true, domain.TableStatusOutOfOrder); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to mark table out of service", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "table marked out of service")
	return nil
}

// ReturnToService clears the out-of-service flag. The table returns to
// Occupied when a session is still running on it, Empty otherwise.
func (s *FloorService) ReturnToService(ctx context.Context, tableID string) error {
	logger := s.loggerWith(ctx, "ReturnToService", "table_id", tableID)

	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to return table to service", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if !table.OutOfService {
		err = fmt.Errorf("%w: table is not out of service", ErrInvalidState)
		logger.ErrorContext(ctx, "failed to return table to service", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	status := domain.TableStatusEmpty
	_, err = s.sessions.ActiveSessionForTable(ctx, tableID)
	switch {
	case err == nil:
		status = domain.TableStatusOccupied
	case errors.Is(err, persistence.ErrNotFound):
		// Idle table.
	default:
		logger.ErrorContext(ctx, "failed to return table to service", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.tables.SetOutOfService(ctx, tableID, false, status); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to return table to service", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.With("status", status).InfoContext(ctx, "table returned to service")
	return nil
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
