package service

import (
	"context"
	"fmt"
	"strings"

	"parrot-ordering/internal/model"
	"parrot-ordering/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxPrice is the first value the NUMERIC(10,2) price column cannot hold.
var maxPrice = decimal.New(1, 8)

// catalogService implements CatalogService.
type catalogService struct {
	dishRepo repository.DishRepository
	logger   zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(dishRepo repository.DishRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		dishRepo: dishRepo,
		logger:   logger.With().Str("service", "catalog").Logger(),
	}
}

// List retrieves dishes with pagination, optionally filtered by category.
func (s *catalogService) List(ctx context.Context, category string, limit, offset int) ([]model.Dish, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	dishes, err := s.dishRepo.List(ctx, strings.TrimSpace(category), limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", category).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list dishes")
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}

	s.logger.Debug().
		Int("count", len(dishes)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved dishes")

	return dishes, nil
}

// GetByID retrieves a single dish by ID.
func (s *catalogService) GetByID(ctx context.Context, id int64) (*model.Dish, error) {
	if id <= 0 {
		return nil, model.DishNotFoundError(id)
	}

	dish, err := s.dishRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("dish_id", id).Msg("failed to get dish by ID")
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}

	if dish == nil {
		s.logger.Debug().Int64("dish_id", id).Msg("dish not found")
		return nil, model.DishNotFoundError(id)
	}

	return dish, nil
}

// Create adds a dish to the catalogue.
func (s *catalogService) Create(ctx context.Context, req *model.CreateDishRequest) (*model.Dish, error) {
	if req == nil {
		return nil, model.ValidationError("dish request is required")
	}

	dish := &model.Dish{
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := validateDish(dish); err != nil {
		return nil, err
	}

	if err := s.dishRepo.Create(ctx, dish); err != nil {
		s.logger.Error().Err(err).Str("name", dish.Name).Msg("failed to create dish")
		return nil, fmt.Errorf("failed to create dish: %w", err)
	}

	s.logger.Info().Int64("dish_id", dish.ID).Str("name", dish.Name).Msg("dish created")
	return dish, nil
}

// Update changes the fields set in req. Past order items keep their snapshot.
func (s *catalogService) Update(ctx context.Context, id int64, req *model.UpdateDishRequest) (*model.Dish, error) {
	if req == nil {
		return nil, model.ValidationError("dish update is required")
	}

	dish, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(dish)
	dish.Name = strings.TrimSpace(dish.Name)
	dish.Category = strings.TrimSpace(dish.Category)
	if err := validateDish(dish); err != nil {
		return nil, err
	}

	if err := s.dishRepo.Update(ctx, dish); err != nil {
		s.logger.Error().Err(err).Int64("dish_id", id).Msg("failed to update dish")
		return nil, fmt.Errorf("failed to update dish: %w", err)
	}

	s.logger.Info().Int64("dish_id", id).Msg("dish updated")
	return dish, nil
}

// Delete removes a dish. Referenced dishes cannot be deleted.
func (s *catalogService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.DishNotFoundError(id)
	}

	if err := s.dishRepo.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("dish_id", id).Msg("failed to delete dish")
		return fmt.Errorf("failed to delete dish: %w", err)
	}

	s.logger.Info().Int64("dish_id", id).Msg("dish deleted")
	return nil
}

func validateDish(d *model.Dish) error {
	switch {
	case d.Name == "":
		return model.ValidationError("dish name is required")
	case d.Category == "":
		return model.ValidationError("dish category is required")
	case d.Price.IsNegative():
		return model.ValidationError("dish price must not be negative")
	case !d.Price.Equal(d.Price.Round(2)):
		return model.ValidationError("dish price must have at most two decimal places")
	case d.Price.GreaterThanOrEqual(maxPrice):
		return model.ValidationError("dish price must be below %s", maxPrice.String())
	}
	return nil
}
