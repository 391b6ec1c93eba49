package service

import (
	"context"
	"time"

	"parrot-ordering/internal/events"
	"parrot-ordering/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// testNow is the instant service clocks report in tests.
var testNow = time.Date(2026, 3, 9, 11, 30, 0, 0, time.UTC)

func testClock() Clock {
	return NewClockFunc(time.UTC, func() time.Time { return testNow })
}

// MockDishRepository is a mock implementation of DishRepository.
type MockDishRepository struct {
	mock.Mock
}

func (m *MockDishRepository) List(ctx context.Context, category string, limit, offset int) ([]model.Dish, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Dish), args.Error(1)
}

func (m *MockDishRepository) GetByID(ctx context.Context, id int64) (*model.Dish, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dish), args.Error(1)
}

func (m *MockDishRepository) GetByIDsForShare(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]model.Dish, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]model.Dish), args.Error(1)
}

func (m *MockDishRepository) Create(ctx context.Context, dish *model.Dish) error {
	args := m.Called(ctx, dish)
	return args.Error(0)
}

func (m *MockDishRepository) Update(ctx context.Context, dish *model.Dish) error {
	args := m.Called(ctx, dish)
	return args.Error(0)
}

func (m *MockDishRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOfferRepository is a mock implementation of OfferRepository.
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOfferRepository) LockCookMenu(ctx context.Context, tx pgx.Tx, cookID string, date time.Time) error {
	args := m.Called(ctx, tx, cookID, date)
	return args.Error(0)
}

func (m *MockOfferRepository) FindForeignOffers(ctx context.Context, tx pgx.Tx, cookID string, date time.Time, dishIDs []int64) ([]model.DailyOffer, error) {
	args := m.Called(ctx, tx, cookID, date, dishIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailyOffer), args.Error(1)
}

func (m *MockOfferRepository) DeleteByCookAndDate(ctx context.Context, tx pgx.Tx, cookID string, date time.Time) (int64, error) {
	args := m.Called(ctx, tx, cookID, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOfferRepository) CreateOffers(ctx context.Context, tx pgx.Tx, offers []model.DailyOffer) error {
	args := m.Called(ctx, tx, offers)
	return args.Error(0)
}

func (m *MockOfferRepository) GetByDishAndDate(ctx context.Context, dishID int64, date time.Time) (*model.DailyOffer, error) {
	args := m.Called(ctx, dishID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyOffer), args.Error(1)
}

func (m *MockOfferRepository) LockByDishes(ctx context.Context, tx pgx.Tx, date time.Time, dishIDs []int64) (map[int64]model.DailyOffer, error) {
	args := m.Called(ctx, tx, date, dishIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]model.DailyOffer), args.Error(1)
}

func (m *MockOfferRepository) Decrement(ctx context.Context, tx pgx.Tx, offerID uuid.UUID, amount int) (int, error) {
	args := m.Called(ctx, tx, offerID, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockOfferRepository) ListByDate(ctx context.Context, date time.Time) ([]model.OfferView, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OfferView), args.Error(1)
}

func (m *MockOfferRepository) ListByCookAndDate(ctx context.Context, cookID string, date time.Time) ([]model.OfferView, error) {
	args := m.Called(ctx, cookID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OfferView), args.Error(1)
}

func (m *MockOfferRepository) Delete(ctx context.Context, offerID uuid.UUID) (*model.DailyOffer, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyOffer), args.Error(1)
}

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CartLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartRepository) ListViewByCustomer(ctx context.Context, customerID string) ([]model.CartLineView, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLineView), args.Error(1)
}

func (m *MockCartRepository) QuantityForDish(ctx context.Context, customerID string, dishID int64, excludeID uuid.UUID) (int, error) {
	args := m.Called(ctx, customerID, dishID, excludeID)
	return args.Int(0), args.Error(1)
}

func (m *MockCartRepository) AddQuantity(ctx context.Context, line *model.CartLine) (*model.CartLine, error) {
	args := m.Called(ctx, line)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (*model.CartLine, error) {
	args := m.Called(ctx, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) LockByCustomer(ctx context.Context, tx pgx.Tx, customerID string) ([]model.CartLine, error) {
	args := m.Called(ctx, tx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *MockCartRepository) DeleteByCustomer(ctx context.Context, tx pgx.Tx, customerID string) (int64, error) {
	args := m.Called(ctx, tx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Get(1).([]model.OrderItem), args.Error(2)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, map[uuid.UUID][]model.OrderItem, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]model.Order), args.Get(1).(map[uuid.UUID][]model.OrderItem), args.Error(2)
}

func (m *MockOrderRepository) ListCookItems(ctx context.Context, cookID string, date time.Time) ([]model.CookOrderItem, error) {
	args := m.Called(ctx, cookID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CookOrderItem), args.Error(1)
}

// MockOffersCache is a mock implementation of cache.OffersCache.
type MockOffersCache struct {
	mock.Mock
}

func (m *MockOffersCache) Get(ctx context.Context, date time.Time) ([]model.OfferView, bool, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]model.OfferView), args.Bool(1), args.Error(2)
}

func (m *MockOffersCache) Set(ctx context.Context, date time.Time, offers []model.OfferView) error {
	args := m.Called(ctx, date, offers)
	return args.Error(0)
}

func (m *MockOffersCache) Invalidate(ctx context.Context, date time.Time) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) MenuPublished(ctx context.Context, e events.MenuPublished) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockPublisher) OrderCommitted(ctx context.Context, e events.OrderCommitted) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockPublisher) OfferWithdrawn(ctx context.Context, e events.OfferWithdrawn) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

var testDate = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
