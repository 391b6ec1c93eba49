package handler

import (
	"context"
	"net/http"
	"time"

	"parrot-ordering/internal/middleware"
	"parrot-ordering/internal/model"
	"parrot-ordering/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var testDate = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

func testClock() service.Clock {
	return service.NewClockFunc(time.UTC, func() time.Time {
		return testDate.Add(12 * time.Hour)
	})
}

// withActor attaches an actor to the request as the identity middleware would.
func withActor(r *http.Request, id string, role model.Role) *http.Request {
	return r.WithContext(middleware.WithActor(r.Context(), model.Actor{ID: id, Role: role}))
}

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, category string, limit, offset int) ([]model.Dish, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Dish), args.Error(1)
}

func (m *MockCatalogService) GetByID(ctx context.Context, id int64) (*model.Dish, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dish), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, req *model.CreateDishRequest) (*model.Dish, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dish), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, id int64, req *model.UpdateDishRequest) (*model.Dish, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dish), args.Error(1)
}

func (m *MockCatalogService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLedgerService is a mock implementation of LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Publish(ctx context.Context, cookID string, date time.Time, items []model.MenuItem) ([]model.DailyOffer, error) {
	args := m.Called(ctx, cookID, date, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailyOffer), args.Error(1)
}

func (m *MockLedgerService) AvailableQuantity(ctx context.Context, dishID int64, date time.Time) (int, error) {
	args := m.Called(ctx, dishID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) ListTodayOffers(ctx context.Context, date time.Time) ([]model.OfferView, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OfferView), args.Error(1)
}

func (m *MockLedgerService) ListCookOffers(ctx context.Context, cookID string, date time.Time) ([]model.OfferView, error) {
	args := m.Called(ctx, cookID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OfferView), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, offerID uuid.UUID) error {
	args := m.Called(ctx, offerID)
	return args.Error(0)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, customerID string, date time.Time, req *model.AddCartItemRequest) (*model.CartLine, error) {
	args := m.Called(ctx, customerID, date, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, customerID string, date time.Time, lineID uuid.UUID, quantity int) (*model.CartLine, error) {
	args := m.Called(ctx, customerID, date, lineID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, customerID string, lineID uuid.UUID) error {
	args := m.Called(ctx, customerID, lineID)
	return args.Error(0)
}

func (m *MockCartService) ViewCart(ctx context.Context, customerID string) (*model.CartView, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) TotalPrice(ctx context.Context, customerID string) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Submit(ctx context.Context, customerID string, date time.Time) (*model.OrderReceipt, error) {
	args := m.Called(ctx, customerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderReceipt), args.Error(1)
}

func (m *MockOrderService) ListByCustomer(ctx context.Context, customerID string) ([]model.OrderReceipt, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderReceipt), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, customerID string, orderID uuid.UUID) (*model.OrderReceipt, error) {
	args := m.Called(ctx, customerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderReceipt), args.Error(1)
}

func (m *MockOrderService) ListCookItems(ctx context.Context, cookID string, date time.Time) ([]model.CookOrderItem, error) {
	args := m.Called(ctx, cookID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CookOrderItem), args.Error(1)
}
