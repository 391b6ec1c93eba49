package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a committed customer order.
type Order struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	CustomerID string          `json:"customerId" db:"customer_id"`
	OfferDate  time.Time       `json:"offerDate" db:"offer_date"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem represents a line item in an order. CookID, DishName and
// UnitPrice are captured at commit time.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"orderId" db:"order_id"`
	DishID    int64           `json:"dishId" db:"dish_id"`
	CookID    string          `json:"cookId" db:"cook_id"`
	DishName  string          `json:"dishName" db:"dish_name"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity  int             `json:"quantity" db:"quantity"`
}

// Subtotal returns unit price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderReceipt is returned by order submission and order lookups.
type OrderReceipt struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID string          `json:"customerId"`
	OfferDate  string          `json:"offerDate"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
	Items      []OrderItem     `json:"items"`
}

// NewOrderReceipt assembles a receipt from an order and its items.
func NewOrderReceipt(order *Order, items []OrderItem) *OrderReceipt {
	if items == nil {
		items = []OrderItem{}
	}
	return &OrderReceipt{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		OfferDate:  order.OfferDate.Format(DateLayout),
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
		Items:      items,
	}
}

// CookOrderItem is an order item as seen by the cook who fulfils it.
type CookOrderItem struct {
	OrderItemID uuid.UUID `json:"orderItemId"`
	OrderID     uuid.UUID `json:"orderId"`
	CustomerID  string    `json:"customerId"`
	DishID      int64     `json:"dishId"`
	DishName    string    `json:"dishName"`
	Quantity    int       `json:"quantity"`
	OrderedAt   time.Time `json:"orderedAt"`
}
