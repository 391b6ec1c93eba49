package catalogimport

import (
	"context"
	"strings"

	"parrot-ordering/internal/model"

	"github.com/shopspring/decimal"
)

// DishRecord is one line of a catalogue import file.
type DishRecord struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
}

// Request converts the record into a catalogue create request.
func (r DishRecord) Request() *model.CreateDishRequest {
	return &model.CreateDishRequest{
		Name:        strings.TrimSpace(r.Name),
		Category:    strings.TrimSpace(r.Category),
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

// Loader defines the interface for loading catalogue import files.
type Loader interface {
	// Load reads a gzipped JSON-lines file and returns its records in file order.
	Load(ctx context.Context, filePath string) ([]DishRecord, error)
}

// DishCreator is the part of the catalogue the importer writes to.
type DishCreator interface {
	Create(ctx context.Context, req *model.CreateDishRequest) (*model.Dish, error)
}
