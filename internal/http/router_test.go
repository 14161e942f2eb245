package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/cafe-manager/internal/application"
	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

type floorServiceStub struct {
	views []application.TableView
	err   error
	calls []string
}

func (s *floorServiceStub) ListTables(context.Context) ([]application.TableView, error) {
	return s.views, s.err
}

func (s *floorServiceStub) ReserveTable(_ context.Context, tableID string) error {
	s.calls = append(s.calls, "reserve:"+tableID)
	return s.err
}

func (s *floorServiceStub) CancelReservation(_ context.Context, tableID string) error {
	s.calls = append(s.calls, "cancel:"+tableID)
	return s.err
}

func (s *floorServiceStub) MarkOutOfService(_ context.Context, tableID string) error {
	s.calls = append(s.calls, "flag:"+tableID)
	return s.err
}

func (s *floorServiceStub) ReturnToService(_ context.Context, tableID string) error {
	s.calls = append(s.calls, "unflag:"+tableID)
	return s.err
}

type sessionServiceStub struct {
	session    persistence.Session
	bill       application.Bill
	startErr   error
	stopErr    error
	lastParams application.StartSessionParams
}

func (s *sessionServiceStub) StartSession(_ context.Context, params application.StartSessionParams) (persistence.Session, error) {
	s.lastParams = params
	return s.session, s.startErr
}

func (s *sessionServiceStub) StopSession(context.Context, string) (application.Bill, error) {
	return s.bill, s.stopErr
}

type orderServiceStub struct {
	products     []persistence.Product
	order        persistence.Order
	orders       application.SessionOrders
	err          error
	lastCategory *domain.ProductCategory
	lastParams   application.PlaceOrderParams
}

func (s *orderServiceStub) ListProducts(_ context.Context, category *domain.ProductCategory) ([]persistence.Product, error) {
	s.lastCategory = category
	return s.products, s.err
}

func (s *orderServiceStub) PlaceOrder(_ context.Context, params application.PlaceOrderParams) (persistence.Order, error) {
	s.lastParams = params
	return s.order, s.err
}

func (s *orderServiceStub) ActiveSessionOrders(context.Context, string) (application.SessionOrders, error) {
	return s.orders, s.err
}

type reportServiceStub struct {
	summary  application.RevenueSummary
	err      error
	lastDate time.Time
}

func (s *reportServiceStub) DailyRevenue(_ context.Context, date time.Time) (application.RevenueSummary, error) {
	s.lastDate = date
	return s.summary, s.err
}

type routerStubs struct {
	floor    *floorServiceStub
	sessions *sessionServiceStub
	orders   *orderServiceStub
	reports  *reportServiceStub
}

func newTestRouter(stubs routerStubs) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := RouterConfig{}
	if stubs.floor != nil {
		cfg.Tables = NewTableHandler(stubs.floor, logger)
	}
	if stubs.sessions != nil {
		cfg.Sessions = NewSessionHandler(stubs.sessions, logger)
	}
	if stubs.orders != nil {
		cfg.Orders = NewOrderHandler(stubs.orders, logger)
	}
	if stubs.reports != nil {
		cfg.Reports = NewReportHandler(stubs.reports, logger)
	}
	return NewRouter(cfg)
}

func decodeBody(t *testing.T, body io.Reader, target any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(target); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestRouterTables(t *testing.T) {
	t.Run("lists the floor", func(t *testing.T) {
		planned := 60
		floor := &floorServiceStub{views: []application.TableView{
			{
				Table: persistence.Table{ID: "table-1", Name: "Table 1", Kind: domain.TableKindVIP, Status: domain.TableStatusOccupied},
				Session: &persistence.Session{
					ID:             "session-1",
					Mode:           domain.SessionModeTimed,
					StartedAt:      time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
					PlannedMinutes: &planned,
					HourlyRate:     30,
					FlatRate:       100,
				},
				OrderTotal: 12.5,
			},
			{Table: persistence.Table{ID: "table-2", Name: "Table 2", Kind: domain.TableKindStandard, Status: domain.TableStatusEmpty}},
		}}
		router := newTestRouter(routerStubs{floor: floor})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tables", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var payload tableListResponse
		decodeBody(t, rec.Body, &payload)
		if len(payload.Tables) != 2 {
			t.Fatalf("got %d tables, want 2", len(payload.Tables))
		}
		occupied := payload.Tables[0]
		if occupied.Session == nil || occupied.Session.OrderTotal != 12.5 {
			t.Errorf("occupied table session = %+v, want order total 12.5", occupied.Session)
		}
		if payload.Tables[1].Session != nil {
			t.Errorf("idle table session = %+v, want omitted", payload.Tables[1].Session)
		}
	})

	t.Run("state changes respond with no content", func(t *testing.T) {
		cases := []struct {
			method string
			path   string
			call   string
		}{
			{http.MethodPost, "/tables/table-1/reservation", "reserve:table-1"},
			{http.MethodDelete, "/tables/table-1/reservation", "cancel:table-1"},
			{http.MethodPost, "/tables/table-1/out-of-service", "flag:table-1"},
			{http.MethodDelete, "/tables/table-1/out-of-service", "unflag:table-1"},
		}

		for _, tc := range cases {
			t.Run(tc.call, func(t *testing.T) {
				floor := &floorServiceStub{}
				router := newTestRouter(routerStubs{floor: floor})

				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

				if rec.Code != http.StatusNoContent {
					t.Fatalf("status = %d, want 204", rec.Code)
				}
				if len(floor.calls) != 1 || floor.calls[0] != tc.call {
					t.Fatalf("calls = %v, want [%s]", floor.calls, tc.call)
				}
			})
		}
	})

	t.Run("an invalid transition is a conflict", func(t *testing.T) {
		floor := &floorServiceStub{err: application.ErrInvalidState}
		router := newTestRouter(routerStubs{floor: floor})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tables/table-1/reservation", nil))

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		var payload errorResponse
		decodeBody(t, rec.Body, &payload)
		if payload.ErrorCode != "INVALID_TABLE_STATE" {
			t.Fatalf("error_code = %q, want INVALID_TABLE_STATE", payload.ErrorCode)
		}
	})

	t.Run("an unknown table is a 404", func(t *testing.T) {
		floor := &floorServiceStub{err: application.ErrNotFound}
		router := newTestRouter(routerStubs{floor: floor})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tables/missing/reservation", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		var payload errorResponse
		decodeBody(t, rec.Body, &payload)
		if payload.ErrorCode != "NOT_FOUND" {
			t.Fatalf("error_code = %q, want NOT_FOUND", payload.ErrorCode)
		}
	})

	t.Run("rejects unsupported methods", func(t *testing.T) {
		router := newTestRouter(routerStubs{floor: &floorServiceStub{}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/tables", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", rec.Code)
		}
		if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
			t.Fatalf("Allow = %q, want GET", allow)
		}
	})

	t.Run("an unknown subresource is a 404", func(t *testing.T) {
		router := newTestRouter(routerStubs{floor: &floorServiceStub{}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tables/table-1/coffee", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestRouterSessions(t *testing.T) {
	started := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

	t.Run("starts a session", func(t *testing.T) {
		sessions := &sessionServiceStub{session: persistence.Session{
			ID:         "session-1",
			TableID:    "table-1",
			Mode:       domain.SessionModeTimed,
			HourlyRate: 20,
			FlatRate:   70,
			StartedAt:  started,
		}}
		router := newTestRouter(routerStubs{sessions: sessions})

		body := strings.NewReader(`{"mode":"Timed","planned_minutes":120}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tables/table-1/session", body))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if sessions.lastParams.TableID != "table-1" || sessions.lastParams.Mode != domain.SessionModeTimed {
			t.Errorf("params = %+v, want table-1 Timed", sessions.lastParams)
		}
		if sessions.lastParams.PlannedMinutes == nil || *sessions.lastParams.PlannedMinutes != 120 {
			t.Errorf("planned minutes = %v, want 120", sessions.lastParams.PlannedMinutes)
		}

		var payload sessionResponse
		decodeBody(t, rec.Body, &payload)
		if payload.Session.ID != "session-1" || payload.Session.StartedAt != "2026-08-26T10:00:00Z" {
			t.Errorf("session = %+v, want session-1 at 2026-08-26T10:00:00Z", payload.Session)
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		router := newTestRouter(routerStubs{sessions: &sessionServiceStub{}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tables/table-1/session", strings.NewReader("{")))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("surfaces validation failures", func(t *testing.T) {
		vErr := &application.ValidationError{FieldErrors: map[string]string{"mode": "mode must be Timed or Unlimited"}}
		sessions := &sessionServiceStub{startErr: vErr}
		router := newTestRouter(routerStubs{sessions: sessions})

		body := strings.NewReader(`{"mode":"Hourly"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tables/table-1/session", body))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
		var payload errorResponse
		decodeBody(t, rec.Body, &payload)
		if payload.ErrorCode != "VALIDATION_FAILED" {
			t.Errorf("error_code = %q, want VALIDATION_FAILED", payload.ErrorCode)
		}
		if payload.Errors["mode"] == "" {
			t.Errorf("errors = %v, want mode entry", payload.Errors)
		}
	})

	t.Run("stopping responds with the bill", func(t *testing.T) {
		sessions := &sessionServiceStub{bill: application.Bill{
			SessionID:  "session-1",
			TableID:    "table-1",
			Mode:       domain.SessionModeTimed,
			StartedAt:  started,
			EndedAt:    started.Add(time.Hour),
			Minutes:    60,
			TimeCharge: 20,
			OrderTotal: 6,
			Total:      26,
		}}
		router := newTestRouter(routerStubs{sessions: sessions})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/tables/table-1/session", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var payload billResponse
		decodeBody(t, rec.Body, &payload)
		if payload.Bill.Total != 26 || payload.Bill.Minutes != 60 {
			t.Errorf("bill = %+v, want total 26 over 60 minutes", payload.Bill)
		}
	})

	t.Run("stopping without a session is a conflict", func(t *testing.T) {
		sessions := &sessionServiceStub{stopErr: application.ErrNoActiveSession}
		router := newTestRouter(routerStubs{sessions: sessions})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/tables/table-1/session", nil))

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		var payload errorResponse
		decodeBody(t, rec.Body, &payload)
		if payload.ErrorCode != "NO_ACTIVE_SESSION" {
			t.Errorf("error_code = %q, want NO_ACTIVE_SESSION", payload.ErrorCode)
		}
	})
}

func TestRouterOrders(t *testing.T) {
	t.Run("lists the catalog with a category filter", func(t *testing.T) {
		orders := &orderServiceStub{products: []persistence.Product{
			{ID: "product-1", Name: "Cola", Category: domain.ProductCategoryDrink, Price: 1.5, Stock: 80},
		}}
		router := newTestRouter(routerStubs{orders: orders})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?category=Drink", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if orders.lastCategory == nil || *orders.lastCategory != domain.ProductCategoryDrink {
			t.Errorf("category = %v, want Drink", orders.lastCategory)
		}
		var payload productListResponse
		decodeBody(t, rec.Body, &payload)
		if len(payload.Products) != 1 || payload.Products[0].Name != "Cola" {
			t.Errorf("products = %+v, want only Cola", payload.Products)
		}
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		router := newTestRouter(routerStubs{orders: &orderServiceStub{}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?category=Snacks", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("places an order", func(t *testing.T) {
		orders := &orderServiceStub{order: persistence.Order{
			ID:        "order-1",
			SessionID: "session-1",
			ProductID: "product-1",
			Quantity:  2,
			UnitPrice: 3,
			Amount:    6,
			PlacedAt:  time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		}}
		router := newTestRouter(routerStubs{orders: orders})

		body := strings.NewReader(`{"product_id":"product-1","quantity":2}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tables/table-1/orders", body))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if orders.lastParams.TableID != "table-1" || orders.lastParams.ProductID != "product-1" || orders.lastParams.Quantity != 2 {
			t.Errorf("params = %+v, want table-1/product-1 x2", orders.lastParams)
		}
		var payload orderResponse
		decodeBody(t, rec.Body, &payload)
		if payload.Order.Amount != 6 {
			t.Errorf("order = %+v, want amount 6", payload.Order)
		}
	})

	t.Run("short stock is a conflict", func(t *testing.T) {
		orders := &orderServiceStub{err: application.ErrInsufficientStock}
		router := newTestRouter(routerStubs{orders: orders})

		body := strings.NewReader(`{"product_id":"product-1","quantity":99}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tables/table-1/orders", body))

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		var payload errorResponse
		decodeBody(t, rec.Body, &payload)
		if payload.ErrorCode != "INSUFFICIENT_STOCK" {
			t.Errorf("error_code = %q, want INSUFFICIENT_STOCK", payload.ErrorCode)
		}
	})

	t.Run("serves the session order panel", func(t *testing.T) {
		orders := &orderServiceStub{orders: application.SessionOrders{
			SessionID: "session-1",
			Lines: []persistence.OrderLine{
				{ProductName: "Cola", Quantity: 2, Amount: 3},
			},
			Total: 3,
		}}
		router := newTestRouter(routerStubs{orders: orders})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tables/table-1/orders", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var payload sessionOrdersResponse
		decodeBody(t, rec.Body, &payload)
		if payload.SessionID != "session-1" || len(payload.Lines) != 1 || payload.Total != 3 {
			t.Errorf("payload = %+v, want session-1 with one line", payload)
		}
	})
}

func TestRouterReports(t *testing.T) {
	t.Run("serves the daily summary for an explicit date", func(t *testing.T) {
		reports := &reportServiceStub{summary: application.RevenueSummary{
			Date:              time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local),
			SessionCount:      3,
			SessionRevenue:    120,
			OrderCount:        7,
			OrderRevenue:      31.5,
			TotalRevenue:      151.5,
			CategoryTotals:    map[domain.ProductCategory]float64{domain.ProductCategoryDrink: 31.5},
			ProductQuantities: map[string]int{"Cola": 7},
		}}
		router := newTestRouter(routerStubs{reports: reports})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/daily?date=2026-08-25", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := reports.lastDate.Format("2006-01-02"); got != "2026-08-25" {
			t.Errorf("date = %s, want 2026-08-25", got)
		}

		var payload revenueSummaryDTO
		decodeBody(t, rec.Body, &payload)
		if payload.TotalRevenue != 151.5 || payload.Date != "2026-08-25" {
			t.Errorf("payload = %+v, want total 151.5 on 2026-08-25", payload)
		}
		if payload.CategoryTotals["Drink"] != 31.5 {
			t.Errorf("category totals = %v, want Drink 31.5", payload.CategoryTotals)
		}
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		router := newTestRouter(routerStubs{reports: &reportServiceStub{}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/daily?date=yesterday", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}
