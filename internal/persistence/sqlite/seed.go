package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

const (
	seedTableCount = 20
	seedVIPCount   = 5

	vipHardware      = "RTX 4060 Ti, 165Hz Monitor"
	standardHardware = "GTX 1650, 75Hz Monitor"
)

type seedProduct struct {
	name     string
	category domain.ProductCategory
	price    float64
	stock    int
}

var seedProducts = []seedProduct{
	{"Cheese Toast", domain.ProductCategoryFood, 50, 50},
	{"Sausage Toast", domain.ProductCategoryFood, 60, 50},
	{"Mixed Toast", domain.ProductCategoryFood, 70, 50},
	{"Patso Sandwich", domain.ProductCategoryFood, 45, 40},
	{"Pizza", domain.ProductCategoryFood, 120, 30},
	{"Water", domain.ProductCategoryDrink, 10, 100},
	{"Tea", domain.ProductCategoryDrink, 15, 100},
	{"Cola", domain.ProductCategoryDrink, 25, 80},
	{"Fanta", domain.ProductCategoryDrink, 25, 80},
	{"Sprite", domain.ProductCategoryDrink, 25, 80},
}

// Seed inserts the default floor layout and product catalog. Each group is
// inserted only when its table is empty, so re-running against an existing
// database never duplicates rows or resets stock.
func Seed(ctx context.Context, pool *ConnectionPool, logger *slog.Logger) error {
	tables := NewTableRepository(pool)
	products := NewProductRepository(pool)

	tableCount, err := tables.CountTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tables: %w", err)
	}

	if tableCount == 0 {
		now := time.Now().UTC()
		for i := 1; i <= seedTableCount; i++ {
			kind := domain.TableKindStandard
			hardware := standardHardware
			if i <= seedVIPCount {
				kind = domain.TableKindVIP
				hardware = vipHardware
			}

			table := persistence.Table{
				ID:        uuid.NewString(),
				Name:      fmt.Sprintf("Table %d", i),
				Kind:      kind,
				Status:    domain.TableStatusEmpty,
				Hardware:  hardware,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tables.CreateTable(ctx, table); err != nil {
				return fmt.Errorf("failed to seed table %q: %w", table.Name, err)
			}
		}
		logger.Info("seeded tables", "count", seedTableCount)
	}

	productCount, err := products.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	if productCount == 0 {
		now := time.Now().UTC()
		for _, entry := range seedProducts {
			product := persistence.Product{
				ID:        uuid.NewString(),
				Name:      entry.name,
				Category:  entry.category,
				Price:     entry.price,
				Stock:     entry.stock,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := products.CreateProduct(ctx, product); err != nil {
				return fmt.Errorf("failed to seed product %q: %w", product.Name, err)
			}
		}
		logger.Info("seeded products", "count", len(seedProducts))
	}

	return nil
}
