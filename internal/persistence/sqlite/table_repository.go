package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

// TableRepository implements persistence.TableRepository using SQLite.
type TableRepository struct {
	pool *ConnectionPool
}

// NewTableRepository creates a new SQLite table repository.
func NewTableRepository(pool *ConnectionPool) *TableRepository {
	return &TableRepository{pool: pool}
}

// CreateTable inserts a new table. Used by seeding only; tables are never
// created through the application.
func (r *TableRepository) CreateTable(ctx context.Context, table persistence.Table) error {
	if table.ID == "" || !table.Kind.Valid() || !table.Status.Valid() {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO cafe_tables (id, name, kind, status, hardware, out_of_service, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		table.ID,
		table.Name,
		string(table.Kind),
		string(table.Status),
		table.Hardware,
		boolToInt(table.OutOfService),
		table.CreatedAt.UTC().Format(time.RFC3339),
		table.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetTable retrieves a table by ID.
func (r *TableRepository) GetTable(ctx context.Context, id string) (persistence.Table, error) {
	if id == "" {
		return persistence.Table{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, kind, status, hardware, out_of_service, created_at, updated_at
		FROM cafe_tables
		WHERE id = ?
	`

	table, err := scanTable(r.pool.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Table{}, mapError(err)
	}
	return table, nil
}

// ListTables returns all tables in floor order (by name, seeded sequentially).
func (r *TableRepository) ListTables(ctx context.Context) ([]persistence.Table, error) {
	query := `
		SELECT id, name, kind, status, hardware, out_of_service, created_at, updated_at
		FROM cafe_tables
		ORDER BY created_at, name
	`

	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	tables := make([]persistence.Table, 0)
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, mapError(err)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return tables, nil
}

// UpdateTableStatus moves a table to the given status.
func (r *TableRepository) UpdateTableStatus(ctx context.Context, id string, status domain.TableStatus) error {
	if !status.Valid() {
		return persistence.ErrConstraintViolation
	}

	query := `UPDATE cafe_tables SET status = ?, updated_at = ? WHERE id = ?`

	result, err := r.pool.db.ExecContext(ctx, query,
		string(status),
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// SetOutOfService flips the out-of-service flag and the visible status in one
// statement.
func (r *TableRepository) SetOutOfService(ctx context.Context, id string, outOfService bool, status domain.TableStatus) error {
	if !status.Valid() {
		return persistence.ErrConstraintViolation
	}

	query := `UPDATE cafe_tables SET out_of_service = ?, status = ?, updated_at = ? WHERE id = ?`

	result, err := r.pool.db.ExecContext(ctx, query,
		boolToInt(outOfService),
		string(status),
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// CountTables returns the number of seeded tables.
func (r *TableRepository) CountTables(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cafe_tables`).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTable(row rowScanner) (persistence.Table, error) {
	var (
		table        persistence.Table
		kind         string
		status       string
		outOfService int
		createdAt    string
		updatedAt    string
	)

	if err := row.Scan(&table.ID, &table.Name, &kind, &status, &table.Hardware, &outOfService, &createdAt, &updatedAt); err != nil {
		return persistence.Table{}, err
	}

	table.Kind = domain.TableKind(kind)
	table.Status = domain.TableStatus(status)
	table.OutOfService = outOfService != 0

	var err error
	if table.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Table{}, err
	}
	if table.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Table{}, err
	}
	return table, nil
}

func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return ts, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
