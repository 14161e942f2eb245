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

type orderService interface {
	ListProducts(ctx context.Context, category *domain.ProductCategory) ([]persistence.Product, error)
	PlaceOrder(ctx context.Context, params application.PlaceOrderParams) (persistence.Order, error)
	ActiveSessionOrders(ctx context.Context, tableID string) (application.SessionOrders, error)
}

// OrderHandler exposes the product catalog and the order entry form.
type OrderHandler struct {
	service   orderService
	responder responder
	logger    *slog.Logger
}

func NewOrderHandler(service orderService, logger *slog.Logger) *OrderHandler {
	base := defaultLogger(logger)
	return &OrderHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *OrderHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "OrderHandler", operation, attrs...)
}

// ListProducts responds with the catalog, optionally filtered by the
// category query parameter.
func (h *OrderHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var category *domain.ProductCategory
	if raw := r.URL.Query().Get("category"); raw != "" {
		parsed := domain.ProductCategory(raw)
		if !parsed.Valid() {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCategory)
			return
		}
		category = &parsed
	}

	products, err := h.service.ListProducts(r.Context(), category)
	if err != nil {
		h.log(r.Context(), "ListProducts").ErrorContext(r.Context(), "failed to list products", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := productListResponse{Products: make([]productDTO, 0, len(products))}
	for _, product := range products {
		payload.Products = append(payload.Products, toProductDTO(product))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Place records an order against the table's active session.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request, tableID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Place", "table_id", tableID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode order request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Place", "table_id", tableID, "product_id", req.ProductID, "quantity", req.Quantity)

	order, err := h.service.PlaceOrder(r.Context(), application.PlaceOrderParams{
		TableID:   tableID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "order placement failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("order_id", order.ID).InfoContext(r.Context(), "order placed")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, orderResponse{Order: toOrderDTO(order)})
}

// SessionOrders responds with the aggregated order lines of the table's
// active session.
func (h *OrderHandler) SessionOrders(w http.ResponseWriter, r *http.Request, tableID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orders, err := h.service.ActiveSessionOrders(r.Context(), tableID)
	if err != nil {
		h.log(r.Context(), "SessionOrders", "table_id", tableID).ErrorContext(r.Context(), "failed to list session orders", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := sessionOrdersResponse{
		SessionID: orders.SessionID,
		Total:     orders.Total,
		Lines:     make([]orderLineDTO, 0, len(orders.Lines)),
	}
	for _, line := range orders.Lines {
		payload.Lines = append(payload.Lines, orderLineDTO{
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Amount:      line.Amount,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

type placeOrderRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type productListResponse struct {
	Products []productDTO `json:"products"`
}

type productDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

func toProductDTO(product persistence.Product) productDTO {
	return productDTO{
		ID:       product.ID,
		Name:     product.Name,
		Category: string(product.Category),
		Price:    product.Price,
		Stock:    product.Stock,
	}
}

type orderResponse struct {
	Order orderDTO `json:"order"`
}

type orderDTO struct {
	ID        string  `json:"id"`
	SessionID string  `json:"session_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Amount    float64 `json:"amount"`
	PlacedAt  string  `json:"placed_at"`
}

func toOrderDTO(order persistence.Order) orderDTO {
	return orderDTO{
		ID:        order.ID,
		SessionID: order.SessionID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
		UnitPrice: order.UnitPrice,
		Amount:    order.Amount,
		PlacedAt:  order.PlacedAt.UTC().Format(time.RFC3339),
	}
}

type sessionOrdersResponse struct {
	SessionID string         `json:"session_id"`
	Lines     []orderLineDTO `json:"lines"`
	Total     float64        `json:"total"`
}

type orderLineDTO struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount"`
}
