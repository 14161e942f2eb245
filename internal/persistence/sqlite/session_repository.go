package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	pool *ConnectionPool
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// OpenSession inserts the session and marks the table Occupied in one
// transaction. The partial unique index on open sessions turns a double
// start into ErrSessionOpen.
func (r *SessionRepository) OpenSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.TableID == "" || !session.Mode.Valid() {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO sessions (id, table_id, mode, hourly_rate, flat_rate, planned_minutes, started_at, ended_at, billed_minutes, time_charge, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, NULL, 0, 0, ?, ?)
		`

		var planned sql.NullInt64
		if session.PlannedMinutes != nil {
			planned.Int64 = int64(*session.PlannedMinutes)
			planned.Valid = true
		}

		if _, err := tx.ExecContext(ctx, query,
			session.ID,
			session.TableID,
			string(session.Mode),
			session.HourlyRate,
			session.FlatRate,
			planned,
			session.StartedAt.UTC().Format(time.RFC3339),
			session.CreatedAt.Format(time.RFC3339),
			session.UpdatedAt.Format(time.RFC3339),
		); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed: sessions.table_id") {
				return persistence.ErrSessionOpen
			}
			return mapError(err)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE cafe_tables SET status = ?, updated_at = ? WHERE id = ?`,
			string(domain.TableStatusOccupied),
			now.Format(time.RFC3339),
			session.TableID,
		)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return persistence.Session{}, err
	}

	return session, nil
}

// ActiveSessionForTable returns the open session on a table.
func (r *SessionRepository) ActiveSessionForTable(ctx context.Context, tableID string) (persistence.Session, error) {
	if tableID == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, table_id, mode, hourly_rate, flat_rate, planned_minutes, started_at, ended_at, billed_minutes, time_charge, created_at, updated_at
		FROM sessions
		WHERE table_id = ? AND ended_at IS NULL
	`

	session, err := scanSession(r.pool.db.QueryRowContext(ctx, query, tableID))
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	return session, nil
}

// CloseSession finalizes the session and releases the table into the given
// status. Both writes succeed or neither does.
func (r *SessionRepository) CloseSession(ctx context.Context, sessionID string, endedAt time.Time, billedMinutes int, timeCharge float64, release domain.TableStatus) (persistence.Session, error) {
	if sessionID == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}
	if !release.Valid() {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()

	var closed persistence.Session
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var tableID string
		err := tx.QueryRowContext(ctx,
			`SELECT table_id FROM sessions WHERE id = ? AND ended_at IS NULL`,
			sessionID,
		).Scan(&tableID)
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrNotFound
		}
		if err != nil {
			return mapError(err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET ended_at = ?, billed_minutes = ?, time_charge = ?, updated_at = ? WHERE id = ?`,
			endedAt.UTC().Format(time.RFC3339),
			billedMinutes,
			timeCharge,
			now.Format(time.RFC3339),
			sessionID,
		); err != nil {
			return mapError(err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE cafe_tables SET status = ?, updated_at = ? WHERE id = ?`,
			string(release),
			now.Format(time.RFC3339),
			tableID,
		); err != nil {
			return mapError(err)
		}

		closed, err = scanSession(tx.QueryRowContext(ctx,
			`SELECT id, table_id, mode, hourly_rate, flat_rate, planned_minutes, started_at, ended_at, billed_minutes, time_charge, created_at, updated_at
			 FROM sessions WHERE id = ?`,
			sessionID,
		))
		if err != nil {
			return mapError(err)
		}
		return nil
	})
	if err != nil {
		return persistence.Session{}, err
	}

	return closed, nil
}

func scanSession(row rowScanner) (persistence.Session, error) {
	var (
		session   persistence.Session
		mode      string
		planned   sql.NullInt64
		startedAt string
		endedAt   sql.NullString
		createdAt string
		updatedAt string
	)

	if err := row.Scan(&session.ID, &session.TableID, &mode, &session.HourlyRate, &session.FlatRate, &planned, &startedAt, &endedAt, &session.BilledMinutes, &session.TimeCharge, &createdAt, &updatedAt); err != nil {
		return persistence.Session{}, err
	}

	session.Mode = domain.SessionMode(mode)
	if planned.Valid {
		minutes := int(planned.Int64)
		session.PlannedMinutes = &minutes
	}

	var err error
	if session.StartedAt, err = parseTimestamp(startedAt); err != nil {
		return persistence.Session{}, err
	}
	if endedAt.Valid {
		ts, err := parseTimestamp(endedAt.String)
		if err != nil {
			return persistence.Session{}, err
		}
		session.EndedAt = &ts
	}
	if session.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Session{}, err
	}
	if session.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}
