package service

import (
	"context"
	"time"

	"parrot-ordering/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService defines operations for dish catalogue management.
type CatalogService interface {
	// List retrieves dishes with pagination, optionally filtered by category.
	List(ctx context.Context, category string, limit, offset int) ([]model.Dish, error)

	// GetByID retrieves a single dish by ID.
	GetByID(ctx context.Context, id int64) (*model.Dish, error)

	// Create adds a dish to the catalogue.
	Create(ctx context.Context, req *model.CreateDishRequest) (*model.Dish, error)

	// Update changes the fields set in req.
	Update(ctx context.Context, id int64, req *model.UpdateDishRequest) (*model.Dish, error)

	// Delete removes a dish. Referenced dishes cannot be deleted.
	Delete(ctx context.Context, id int64) error
}

// LedgerService defines operations on the daily offer ledger.
type LedgerService interface {
	// Publish replaces all of cookID's offers for date with items.
	// Items with a non-positive quantity are skipped.
	Publish(ctx context.Context, cookID string, date time.Time, items []model.MenuItem) ([]model.DailyOffer, error)

	// AvailableQuantity returns the remaining quantity of a dish on date, 0 when not offered.
	AvailableQuantity(ctx context.Context, dishID int64, date time.Time) (int, error)

	// ListTodayOffers returns every offer on date with its dish and cook.
	ListTodayOffers(ctx context.Context, date time.Time) ([]model.OfferView, error)

	// ListCookOffers returns the offers of one cook on date.
	ListCookOffers(ctx context.Context, cookID string, date time.Time) ([]model.OfferView, error)

	// Withdraw removes a single offer.
	Withdraw(ctx context.Context, offerID uuid.UUID) error
}

// CartService defines operations on a customer's cart.
type CartService interface {
	// AddItem stages quantity units of a dish offered on date.
	AddItem(ctx context.Context, customerID string, date time.Time, req *model.AddCartItemRequest) (*model.CartLine, error)

	// UpdateItem sets a line's quantity. A non-positive quantity removes the
	// line, in which case the returned line is nil.
	UpdateItem(ctx context.Context, customerID string, date time.Time, lineID uuid.UUID, quantity int) (*model.CartLine, error)

	// RemoveItem deletes a line owned by customerID.
	RemoveItem(ctx context.Context, customerID string, lineID uuid.UUID) error

	// ViewCart returns the customer's lines and their total.
	ViewCart(ctx context.Context, customerID string) (*model.CartView, error)

	// TotalPrice sums price times quantity over the customer's lines.
	TotalPrice(ctx context.Context, customerID string) (decimal.Decimal, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Submit commits the customer's cart against the offers of date.
	Submit(ctx context.Context, customerID string, date time.Time) (*model.OrderReceipt, error)

	// ListByCustomer returns the customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]model.OrderReceipt, error)

	// GetByID returns one of the customer's orders.
	GetByID(ctx context.Context, customerID string, orderID uuid.UUID) (*model.OrderReceipt, error)

	// ListCookItems returns the order items a cook has to fulfil on date.
	ListCookItems(ctx context.Context, cookID string, date time.Time) ([]model.CookOrderItem, error)
}
