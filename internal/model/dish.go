package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish represents a dish in the catalogue.
type Dish struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Category    string          `json:"category" db:"category"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Description string          `json:"description" db:"description"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// CreateDishRequest is the payload for adding a dish to the catalogue.
type CreateDishRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
}

// UpdateDishRequest carries the fields an administrator may change.
// Nil fields are left untouched.
type UpdateDishRequest struct {
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description *string          `json:"description,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
}

// Apply copies the non-nil fields onto d.
func (r *UpdateDishRequest) Apply(d *Dish) {
	if r.Name != nil {
		d.Name = *r.Name
	}
	if r.Category != nil {
		d.Category = *r.Category
	}
	if r.Price != nil {
		d.Price = *r.Price
	}
	if r.Description != nil {
		d.Description = *r.Description
	}
	if r.ImageURL != nil {
		d.ImageURL = *r.ImageURL
	}
}
