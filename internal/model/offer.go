package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// DailyOffer is a cook's published quantity of a dish for one date.
type DailyOffer struct {
	ID                uuid.UUID `json:"id" db:"id"`
	CookID            string    `json:"cookId" db:"cook_id"`
	DishID            int64     `json:"dishId" db:"dish_id"`
	Date              time.Time `json:"date" db:"offer_date"`
	PublishedQuantity int       `json:"publishedQuantity" db:"published_quantity"`
	QuantityRemaining int       `json:"quantityRemaining" db:"quantity_remaining"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// MenuItem is one (dish, quantity) pair of a cook's daily menu.
type MenuItem struct {
	DishID   int64 `json:"dishId"`
	Quantity int   `json:"quantity"`
}

// PublishMenuRequest is the payload a cook submits for today's menu.
type PublishMenuRequest struct {
	Items []MenuItem `json:"items"`
}

// OfferView is one row of the today's offers listing, aggregated by dish and cook.
type OfferView struct {
	OfferID           uuid.UUID       `json:"offerId"`
	DishID            int64           `json:"dishId"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Description       string          `json:"description"`
	ImageURL          string          `json:"imageUrl"`
	CookID            string          `json:"cookId"`
	QuantityRemaining int             `json:"quantityRemaining"`
}
