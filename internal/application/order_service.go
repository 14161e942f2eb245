package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

// OrderService records orders against active sessions and serves the catalog.
type OrderService struct {
	sessions    SessionRepository
	orders      OrderRepository
	products    ProductRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewOrderService constructs an order service with the provided dependencies.
func NewOrderService(sessions SessionRepository, orders OrderRepository, products ProductRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *OrderService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		sessions:    sessions,
		orders:      orders,
		products:    products,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *OrderService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "OrderService", operation, attrs...)
}

// ListProducts returns the catalog with remaining stock, optionally narrowed
// to one category for the order entry form.
func (s *OrderService) ListProducts(ctx context.Context, category *domain.ProductCategory) (products []persistence.Product, err error) {
	logger := s.loggerWith(ctx, "ListProducts")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list products", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(products)).InfoContext(ctx, "products listed")
	}()

	if category != nil && !category.Valid() {
		vErr := &ValidationError{}
		vErr.add("category", "category must be Food, Drink, or Other")
		err = vErr
		return
	}

	products, err = s.products.ListProducts(ctx, category)
	return
}

// PlaceOrder records an order against the active session of a table,
// snapshotting the unit price and decrementing stock atomically. Stock is
// never driven negative: an oversized order fails with ErrInsufficientStock
// and changes nothing.
func (s *OrderService) PlaceOrder(ctx context.Context, params PlaceOrderParams) (order persistence.Order, err error) {
	logger := s.loggerWith(ctx, "PlaceOrder",
		"table_id", params.TableID,
		"product_id", params.ProductID,
		"quantity", params.Quantity,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to place order", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("order_id", order.ID, "amount", order.Amount).InfoContext(ctx, "order placed")
	}()

	if vErr := validatePlaceOrder(params); vErr.HasErrors() {
		err = vErr
		return
	}

	session, err := s.sessions.ActiveSessionForTable(ctx, params.TableID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNoActiveSession
			return
		}
		return
	}

	order, err = s.orders.PlaceOrder(ctx, persistence.Order{
		ID:        s.idGenerator(),
		SessionID: session.ID,
		ProductID: params.ProductID,
		Quantity:  params.Quantity,
		PlacedAt:  s.now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, persistence.ErrInsufficientStock):
			err = ErrInsufficientStock
		case errors.Is(err, persistence.ErrNotFound):
			err = ErrNotFound
		}
		return
	}

	return order, nil
}

// ActiveSessionOrders returns the aggregated order lines of the open session
// on a table, for the order panel next to the grid.
func (s *OrderService) ActiveSessionOrders(ctx context.Context, tableID string) (result SessionOrders, err error) {
	logger := s.loggerWith(ctx, "ActiveSessionOrders", "table_id", tableID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list session orders", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	session, err := s.sessions.ActiveSessionForTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNoActiveSession
			return
		}
		return
	}

	lines, err := s.orders.SessionOrderLines(ctx, session.ID)
	if err != nil {
		return
	}
	total, err := s.orders.SessionOrderTotal(ctx, session.ID)
	if err != nil {
		return
	}

	result = SessionOrders{
		SessionID: session.ID,
		Lines:     lines,
		Total:     roundCents(total),
	}
	return result, nil
}

func validatePlaceOrder(params PlaceOrderParams) *ValidationError {
	vErr := &ValidationError{}

	if params.TableID == "" {
		vErr.add("table_id", "table id is required")
	}
	if params.ProductID == "" {
		vErr.add("product_id", "product id is required")
	}
	if params.Quantity < 1 {
		vErr.add("quantity", "quantity must be at least 1")
	}

	return vErr
}
