package repository

import (
	"context"
	"time"

	"parrot-ordering/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DishRepository defines the interface for catalogue data access operations.
type DishRepository interface {
	// List retrieves dishes ordered by name, optionally filtered by category.
	List(ctx context.Context, category string, limit, offset int) ([]model.Dish, error)

	// GetByID retrieves a single dish by its ID. Returns nil when it does not exist.
	GetByID(ctx context.Context, id int64) (*model.Dish, error)

	// GetByIDsForShare reads dishes inside tx and holds a share lock on them,
	// so prices cannot change until the transaction ends.
	GetByIDsForShare(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]model.Dish, error)

	// Create inserts a dish and fills in its generated ID and timestamps.
	Create(ctx context.Context, dish *model.Dish) error

	// Update persists every mutable field of dish.
	Update(ctx context.Context, dish *model.Dish) error

	// Delete removes a dish together with stale cart lines. It fails with
	// model.ErrDishInUse while offers or order items reference the dish.
	Delete(ctx context.Context, id int64) error
}

// OfferRepository defines the interface for daily offer ledger operations.
type OfferRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// LockCookMenu serializes publishes of one cook's menu for date until tx ends.
	LockCookMenu(ctx context.Context, tx pgx.Tx, cookID string, date time.Time) error

	// FindForeignOffers locks and returns offers on date for dishIDs that
	// belong to a cook other than cookID.
	FindForeignOffers(ctx context.Context, tx pgx.Tx, cookID string, date time.Time, dishIDs []int64) ([]model.DailyOffer, error)

	// DeleteByCookAndDate removes all offers of cookID for date.
	DeleteByCookAndDate(ctx context.Context, tx pgx.Tx, cookID string, date time.Time) (int64, error)

	// CreateOffers inserts offers within the provided transaction.
	CreateOffers(ctx context.Context, tx pgx.Tx, offers []model.DailyOffer) error

	// GetByDishAndDate returns the offer for a dish on date, or nil.
	GetByDishAndDate(ctx context.Context, dishID int64, date time.Time) (*model.DailyOffer, error)

	// LockByDishes returns the offers for dishIDs on date keyed by dish ID.
	// Rows are locked FOR UPDATE in ascending dish ID order.
	LockByDishes(ctx context.Context, tx pgx.Tx, date time.Time, dishIDs []int64) (map[int64]model.DailyOffer, error)

	// Decrement atomically subtracts amount from the offer's remaining quantity.
	// It never lets the quantity go below zero and returns the new remaining quantity.
	Decrement(ctx context.Context, tx pgx.Tx, offerID uuid.UUID, amount int) (int, error)

	// ListByDate returns offers on date joined with their dishes.
	ListByDate(ctx context.Context, date time.Time) ([]model.OfferView, error)

	// ListByCookAndDate returns the offers of one cook on date joined with their dishes.
	ListByCookAndDate(ctx context.Context, cookID string, date time.Time) ([]model.OfferView, error)

	// Delete removes a single offer and returns it, or nil when it does not exist.
	Delete(ctx context.Context, offerID uuid.UUID) (*model.DailyOffer, error)
}

// CartRepository defines the interface for shopping cart data access operations.
type CartRepository interface {
	// GetByID retrieves a cart line, or nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CartLine, error)

	// ListViewByCustomer returns the customer's cart lines joined with dishes.
	ListViewByCustomer(ctx context.Context, customerID string) ([]model.CartLineView, error)

	// QuantityForDish sums the customer's cart quantity for dishID,
	// ignoring the line excludeID when it is not uuid.Nil.
	QuantityForDish(ctx context.Context, customerID string, dishID int64, excludeID uuid.UUID) (int, error)

	// AddQuantity creates the customer's line for the dish or adds to it.
	AddQuantity(ctx context.Context, line *model.CartLine) (*model.CartLine, error)

	// SetQuantity overwrites the quantity of a line.
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (*model.CartLine, error)

	// Delete removes a line and reports whether it existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// LockByCustomer returns the customer's lines within tx, locked FOR UPDATE
	// in ascending dish ID order.
	LockByCustomer(ctx context.Context, tx pgx.Tx, customerID string) ([]model.CartLine, error)

	// DeleteByCustomer empties the customer's cart within tx.
	DeleteByCustomer(ctx context.Context, tx pgx.Tx, customerID string) (int64, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByCustomer returns the customer's orders, newest first, with their items.
	ListByCustomer(ctx context.Context, customerID string) ([]model.Order, map[uuid.UUID][]model.OrderItem, error)

	// ListCookItems returns the order items attributed to cookID for orders on date.
	ListCookItems(ctx context.Context, cookID string, date time.Time) ([]model.CookOrderItem, error)
}
