package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
	"github.com/example/cafe-manager/internal/testfixtures"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestPool opens a migrated database in a per-test temp directory.
func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	pool, err := Open(filepath.Join(t.TempDir(), "cafe.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := Migrate(pool, discardLogger()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return pool
}

func insertTable(t *testing.T, pool *ConnectionPool, id string, kind domain.TableKind) persistence.Table {
	t.Helper()

	table := testfixtures.NewTable(
		testfixtures.WithTableID(id),
		testfixtures.WithTableKind(kind),
	)
	table.Name = "Table " + id
	if err := NewTableRepository(pool).CreateTable(context.Background(), table); err != nil {
		t.Fatalf("failed to insert table %q: %v", id, err)
	}
	return table
}

func insertProduct(t *testing.T, pool *ConnectionPool, id string, category domain.ProductCategory, price float64, stock int) persistence.Product {
	t.Helper()

	product := testfixtures.NewProduct(
		testfixtures.WithProductID(id),
		testfixtures.WithProductCategory(category),
		testfixtures.WithPrice(price),
		testfixtures.WithStock(stock),
	)
	product.Name = "Product " + id
	if err := NewProductRepository(pool).CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("failed to insert product %q: %v", id, err)
	}
	return product
}

func openSession(t *testing.T, pool *ConnectionPool, id, tableID string, startedAt time.Time) persistence.Session {
	t.Helper()

	session, err := NewSessionRepository(pool).OpenSession(context.Background(), testfixtures.NewSession(tableID,
		testfixtures.WithSessionID(id),
		testfixtures.WithStartedAt(startedAt),
	))
	if err != nil {
		t.Fatalf("failed to open session %q: %v", id, err)
	}
	return session
}
