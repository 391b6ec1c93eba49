package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is a customer's tentative reservation of a dish.
type CartLine struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID string    `json:"customerId" db:"customer_id"`
	DishID     int64     `json:"dishId" db:"dish_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// AddCartItemRequest is the payload for adding a dish to the cart.
type AddCartItemRequest struct {
	DishID   int64 `json:"dishId"`
	Quantity int   `json:"quantity"`
}

// UpdateCartItemRequest is the payload for changing a cart line quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineView is a cart line joined with its dish.
type CartLineView struct {
	ID        uuid.UUID       `json:"id"`
	DishID    int64           `json:"dishId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartView is the customer's cart with its total computed on demand.
type CartView struct {
	Lines      []CartLineView  `json:"lines"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}
