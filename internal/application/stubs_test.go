package application

import (
	"context"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

type statusCall struct {
	tableID string
	status  domain.TableStatus
}

type flagCall struct {
	tableID      string
	outOfService bool
	status       domain.TableStatus
}

type tableRepoStub struct {
	tables      []persistence.Table
	statusCalls []statusCall
	flagCalls   []flagCall
	listErr     error
}

func (s *tableRepoStub) GetTable(_ context.Context, id string) (persistence.Table, error) {
	for _, table := range s.tables {
		if table.ID == id {
			return table, nil
		}
	}
	return persistence.Table{}, persistence.ErrNotFound
}

func (s *tableRepoStub) ListTables(_ context.Context) ([]persistence.Table, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.tables, nil
}

func (s *tableRepoStub) UpdateTableStatus(_ context.Context, id string, status domain.TableStatus) error {
	s.statusCalls = append(s.statusCalls, statusCall{tableID: id, status: status})
	for i := range s.tables {
		if s.tables[i].ID == id {
			s.tables[i].Status = status
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *tableRepoStub) SetOutOfService(_ context.Context, id string, outOfService bool, status domain.TableStatus) error {
	s.flagCalls = append(s.flagCalls, flagCall{tableID: id, outOfService: outOfService, status: status})
	for i := range s.tables {
		if s.tables[i].ID == id {
			s.tables[i].OutOfService = outOfService
			s.tables[i].Status = status
			return nil
		}
	}
	return persistence.ErrNotFound
}

type closeCall struct {
	sessionID     string
	endedAt       time.Time
	billedMinutes int
	timeCharge    float64
	release       domain.TableStatus
}

type sessionRepoStub struct {
	active  map[string]persistence.Session // keyed by table ID
	opened  []persistence.Session
	closed  []closeCall
	openErr error
}

func (s *sessionRepoStub) OpenSession(_ context.Context, session persistence.Session) (persistence.Session, error) {
	if s.openErr != nil {
		return persistence.Session{}, s.openErr
	}
	s.opened = append(s.opened, session)
	if s.active == nil {
		s.active = make(map[string]persistence.Session)
	}
	s.active[session.TableID] = session
	return session, nil
}

func (s *sessionRepoStub) ActiveSessionForTable(_ context.Context, tableID string) (persistence.Session, error) {
	session, ok := s.active[tableID]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (s *sessionRepoStub) CloseSession(_ context.Context, sessionID string, endedAt time.Time, billedMinutes int, timeCharge float64, release domain.TableStatus) (persistence.Session, error) {
	s.closed = append(s.closed, closeCall{
		sessionID:     sessionID,
		endedAt:       endedAt,
		billedMinutes: billedMinutes,
		timeCharge:    timeCharge,
		release:       release,
	})
	for tableID, session := range s.active {
		if session.ID == sessionID {
			delete(s.active, tableID)
			session.EndedAt = &endedAt
			session.BilledMinutes = billedMinutes
			session.TimeCharge = timeCharge
			return session, nil
		}
	}
	return persistence.Session{}, persistence.ErrNotFound
}

type orderRepoStub struct {
	placed   []persistence.Order
	totals   map[string]float64
	lines    map[string][]persistence.OrderLine
	placeErr error
}

func (s *orderRepoStub) PlaceOrder(_ context.Context, order persistence.Order) (persistence.Order, error) {
	if s.placeErr != nil {
		return persistence.Order{}, s.placeErr
	}
	s.placed = append(s.placed, order)
	return order, nil
}

func (s *orderRepoStub) SessionOrderTotal(_ context.Context, sessionID string) (float64, error) {
	return s.totals[sessionID], nil
}

func (s *orderRepoStub) SessionOrderLines(_ context.Context, sessionID string) ([]persistence.OrderLine, error) {
	return s.lines[sessionID], nil
}

type productRepoStub struct {
	products []persistence.Product
	listErr  error
	lastCat  *domain.ProductCategory
}

func (s *productRepoStub) GetProduct(_ context.Context, id string) (persistence.Product, error) {
	for _, product := range s.products {
		if product.ID == id {
			return product, nil
		}
	}
	return persistence.Product{}, persistence.ErrNotFound
}

func (s *productRepoStub) ListProducts(_ context.Context, category *domain.ProductCategory) ([]persistence.Product, error) {
	s.lastCat = category
	if s.listErr != nil {
		return nil, s.listErr
	}
	if category == nil {
		return s.products, nil
	}
	filtered := make([]persistence.Product, 0, len(s.products))
	for _, product := range s.products {
		if product.Category == *category {
			filtered = append(filtered, product)
		}
	}
	return filtered, nil
}

type reportRepoStub struct {
	totals   persistence.RevenueTotals
	err      error
	lastFrom time.Time
	lastTo   time.Time
}

func (s *reportRepoStub) RevenueTotals(_ context.Context, from, to time.Time) (persistence.RevenueTotals, error) {
	s.lastFrom = from
	s.lastTo = to
	if s.err != nil {
		return persistence.RevenueTotals{}, s.err
	}
	return s.totals, nil
}
