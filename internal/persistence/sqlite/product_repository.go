package sqlite

import (
	"context"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

// ProductRepository implements persistence.ProductRepository using SQLite.
type ProductRepository struct {
	pool *ConnectionPool
}

// NewProductRepository creates a new SQLite product repository.
func NewProductRepository(pool *ConnectionPool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// CreateProduct inserts a new catalog entry. Used by seeding only.
func (r *ProductRepository) CreateProduct(ctx context.Context, product persistence.Product) error {
	if product.ID == "" || !product.Category.Valid() || product.Price < 0 || product.Stock < 0 {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO products (id, name, category, price, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		string(product.Category),
		product.Price,
		product.Stock,
		product.CreatedAt.UTC().Format(time.RFC3339),
		product.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetProduct retrieves a product by ID.
func (r *ProductRepository) GetProduct(ctx context.Context, id string) (persistence.Product, error) {
	if id == "" {
		return persistence.Product{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, category, price, stock, created_at, updated_at
		FROM products
		WHERE id = ?
	`

	product, err := scanProduct(r.pool.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Product{}, mapError(err)
	}
	return product, nil
}

// ListProducts returns the catalog ordered by name, optionally narrowed to a
// category for the order entry form.
func (r *ProductRepository) ListProducts(ctx context.Context, category *domain.ProductCategory) ([]persistence.Product, error) {
	query := `
		SELECT id, name, category, price, stock, created_at, updated_at
		FROM products
	`
	args := make([]any, 0, 1)
	if category != nil {
		query += ` WHERE category = ?`
		args = append(args, string(*category))
	}
	query += ` ORDER BY name`

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	products := make([]persistence.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, mapError(err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return products, nil
}

// CountProducts returns the number of catalog entries.
func (r *ProductRepository) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func scanProduct(row rowScanner) (persistence.Product, error) {
	var (
		product   persistence.Product
		category  string
		createdAt string
		updatedAt string
	)

	if err := row.Scan(&product.ID, &product.Name, &category, &product.Price, &product.Stock, &createdAt, &updatedAt); err != nil {
		return persistence.Product{}, err
	}

	product.Category = domain.ProductCategory(category)

	var err error
	if product.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Product{}, err
	}
	if product.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Product{}, err
	}
	return product, nil
}
