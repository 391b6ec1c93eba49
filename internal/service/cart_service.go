package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"parrot-ordering/internal/model"
	"parrot-ordering/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService. Its availability checks only see the
// customer's own cart: other customers' staged lines are not subtracted, and
// the authoritative check happens when the order is submitted.
type cartService struct {
	cartRepo  repository.CartRepository
	dishRepo  repository.DishRepository
	offerRepo repository.OfferRepository
	logger    zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	dishRepo repository.DishRepository,
	offerRepo repository.OfferRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:  cartRepo,
		dishRepo:  dishRepo,
		offerRepo: offerRepo,
		logger:    logger.With().Str("service", "cart").Logger(),
	}
}

// AddItem stages quantity units of a dish offered on date, merging into the
// customer's existing line for that dish.
func (s *cartService) AddItem(ctx context.Context, customerID string, date time.Time, req *model.AddCartItemRequest) (*model.CartLine, error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, err
	}
	if req == nil || req.DishID <= 0 {
		return nil, model.ValidationError("dish ID is required")
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	if err := checkMaxQuantity(req.Quantity); err != nil {
		return nil, err
	}

	dish, err := s.dishRepo.GetByID(ctx, req.DishID)
	if err != nil {
		s.logger.Error().Err(err).Int64("dish_id", req.DishID).Msg("failed to get dish")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	if dish == nil {
		return nil, model.DishNotFoundError(req.DishID)
	}

	available, err := s.availableToday(ctx, req.DishID, date)
	if err != nil {
		return nil, err
	}

	staged, err := s.cartRepo.QuantityForDish(ctx, customerID, req.DishID, uuid.Nil)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to read staged quantity")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	if req.Quantity > available-staged {
		s.logger.Warn().
			Str("customer_id", customerID).
			Int64("dish_id", req.DishID).
			Int("requested", req.Quantity).
			Int("staged", staged).
			Int("available", available).
			Msg("cart request exceeds available quantity")
		return nil, model.ExceedsAvailableError(req.DishID, available-staged)
	}

	line, err := s.cartRepo.AddQuantity(ctx, &model.CartLine{
		ID:         uuid.New(),
		CustomerID: customerID,
		DishID:     req.DishID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Int64("dish_id", req.DishID).Msg("failed to add cart item")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Debug().
		Str("customer_id", customerID).
		Int64("dish_id", req.DishID).
		Int("quantity", line.Quantity).
		Msg("cart item added")

	return line, nil
}

// UpdateItem sets a line's quantity, validated against what is available
// minus the customer's other lines for the same dish.
func (s *cartService) UpdateItem(ctx context.Context, customerID string, date time.Time, lineID uuid.UUID, quantity int) (*model.CartLine, error) {
	if err := checkMaxQuantity(quantity); err != nil {
		return nil, err
	}

	line, err := s.ownedLine(ctx, customerID, lineID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if _, err := s.cartRepo.Delete(ctx, lineID); err != nil {
			s.logger.Error().Err(err).Str("cart_line_id", lineID.String()).Msg("failed to delete cart line")
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
		s.logger.Debug().Str("cart_line_id", lineID.String()).Msg("cart line removed by zero quantity")
		return nil, nil
	}

	available, err := s.availableToday(ctx, line.DishID, date)
	if err != nil {
		return nil, err
	}

	others, err := s.cartRepo.QuantityForDish(ctx, customerID, line.DishID, lineID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to read staged quantity")
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	if quantity > available-others {
		s.logger.Warn().
			Str("customer_id", customerID).
			Int64("dish_id", line.DishID).
			Int("requested", quantity).
			Int("available", available-others).
			Msg("cart update exceeds available quantity")
		return nil, model.ExceedsAvailableError(line.DishID, available-others)
	}

	updated, err := s.cartRepo.SetQuantity(ctx, lineID, quantity)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_line_id", lineID.String()).Msg("failed to update cart line")
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return updated, nil
}

// RemoveItem deletes a line owned by customerID. Removing a line that is
// already gone fails with ErrCartLineNotFound.
func (s *cartService) RemoveItem(ctx context.Context, customerID string, lineID uuid.UUID) error {
	if _, err := s.ownedLine(ctx, customerID, lineID); err != nil {
		return err
	}

	deleted, err := s.cartRepo.Delete(ctx, lineID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_line_id", lineID.String()).Msg("failed to delete cart line")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if !deleted {
		return model.ErrCartLineNotFound
	}

	s.logger.Debug().Str("cart_line_id", lineID.String()).Msg("cart line removed")
	return nil
}

// ViewCart returns the customer's lines and their total.
func (s *cartService) ViewCart(ctx context.Context, customerID string) (*model.CartView, error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, err
	}

	lines, err := s.cartRepo.ListViewByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to list cart")
		return nil, fmt.Errorf("failed to view cart: %w", err)
	}

	return &model.CartView{Lines: lines, TotalPrice: sumLines(lines)}, nil
}

// TotalPrice sums price times quantity over the customer's lines.
func (s *cartService) TotalPrice(ctx context.Context, customerID string) (decimal.Decimal, error) {
	view, err := s.ViewCart(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	return view.TotalPrice, nil
}

// ownedLine loads a line and checks that customerID owns it.
func (s *cartService) ownedLine(ctx context.Context, customerID string, lineID uuid.UUID) (*model.CartLine, error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, err
	}

	line, err := s.cartRepo.GetByID(ctx, lineID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_line_id", lineID.String()).Msg("failed to get cart line")
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}
	if line == nil {
		return nil, model.ErrCartLineNotFound
	}
	if line.CustomerID != customerID {
		s.logger.Warn().
			Str("cart_line_id", lineID.String()).
			Str("customer_id", customerID).
			Msg("cart line belongs to another customer")
		return nil, model.ErrForbidden
	}
	return line, nil
}

// availableToday returns the offer's remaining quantity, failing NotAvailable
// when the dish is not offered on date.
func (s *cartService) availableToday(ctx context.Context, dishID int64, date time.Time) (int, error) {
	offer, err := s.offerRepo.GetByDishAndDate(ctx, dishID, date)
	if err != nil {
		s.logger.Error().Err(err).Int64("dish_id", dishID).Msg("failed to get offer")
		return 0, fmt.Errorf("failed to get offer: %w", err)
	}
	if offer == nil {
		s.logger.Debug().Int64("dish_id", dishID).Str("date", formatDate(date)).Msg("dish not offered")
		return 0, model.NotAvailableError(dishID)
	}
	return offer.QuantityRemaining, nil
}

func sumLines(lines []model.CartLineView) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// maxQuantity is the largest quantity the int4 quantity columns hold.
const maxQuantity = math.MaxInt32

func checkMaxQuantity(quantity int) error {
	if quantity > maxQuantity {
		return model.ValidationError("quantity must not exceed %d", maxQuantity)
	}
	return nil
}

func requireCustomer(customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return model.ValidationError("customer ID is required")
	}
	return nil
}
