package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"parrot-ordering/internal/cache"
	"parrot-ordering/internal/events"
	"parrot-ordering/internal/model"
	"parrot-ordering/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	offerRepo repository.OfferRepository
	dishRepo  repository.DishRepository
	cache     cache.OffersCache
	publisher events.Publisher
	clock     Clock
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	offerRepo repository.OfferRepository,
	dishRepo repository.DishRepository,
	offersCache cache.OffersCache,
	publisher events.Publisher,
	clock Clock,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		offerRepo: offerRepo,
		dishRepo:  dishRepo,
		cache:     offersCache,
		publisher: publisher,
		clock:     clock,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Submit commits the customer's cart against the offers of date in a single
// transaction. Cart lines and offers stay locked until it ends, offers in
// ascending dish order. Any failure rolls back every decrement, the order
// rows and the cart deletion.
func (s *orderService) Submit(ctx context.Context, customerID string, date time.Time) (receipt *model.OrderReceipt, err error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	lines, err := s.cartRepo.LockByCustomer(ctx, tx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}
	if len(lines) == 0 {
		s.logger.Debug().Str("customer_id", customerID).Msg("submit with empty cart")
		return nil, model.ErrEmptyCart
	}

	// The unique (customer, dish) constraint makes this one entry per line,
	// but summing keeps the check correct regardless.
	demand := make(map[int64]int, len(lines))
	for _, l := range lines {
		demand[l.DishID] += l.Quantity
	}
	dishIDs := make([]int64, 0, len(demand))
	for id := range demand {
		dishIDs = append(dishIDs, id)
	}
	sort.Slice(dishIDs, func(i, j int) bool { return dishIDs[i] < dishIDs[j] })

	offers, err := s.offerRepo.LockByDishes(ctx, tx, date, dishIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}
	for _, id := range dishIDs {
		offer, ok := offers[id]
		if !ok || offer.QuantityRemaining < demand[id] {
			available := 0
			if ok {
				available = offer.QuantityRemaining
			}
			s.logger.Warn().
				Str("customer_id", customerID).
				Int64("dish_id", id).
				Int("requested", demand[id]).
				Int("available", available).
				Msg("insufficient stock at commit")
			return nil, model.InsufficientStockError(id, available)
		}
	}

	// Prices are read under a share lock so the total matches the items.
	dishes, err := s.dishRepo.GetByIDsForShare(ctx, tx, dishIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	order := &model.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		OfferDate:  date,
		TotalPrice: decimal.Zero,
		CreatedAt:  s.clock.Now(),
	}

	items := make([]model.OrderItem, 0, len(dishIDs))
	for _, id := range dishIDs {
		dish, ok := dishes[id]
		if !ok {
			return nil, model.DishNotFoundError(id)
		}
		item := model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			DishID:    id,
			CookID:    offers[id].CookID,
			DishName:  dish.Name,
			UnitPrice: dish.Price,
			Quantity:  demand[id],
		}
		order.TotalPrice = order.TotalPrice.Add(item.Subtotal())
		items = append(items, item)
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	for _, item := range items {
		if _, err = s.offerRepo.Decrement(ctx, tx, offers[item.DishID].ID, item.Quantity); err != nil {
			s.logger.Warn().
				Err(err).
				Str("order_id", order.ID.String()).
				Int64("dish_id", item.DishID).
				Msg("offer decrement failed, aborting commit")
			return nil, fmt.Errorf("failed to submit order: %w", err)
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	if _, err = s.cartRepo.DeleteByCustomer(ctx, tx, customerID); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("customer_id", customerID).
		Int("item_count", len(items)).
		Str("total", order.TotalPrice.StringFixed(2)).
		Msg("order committed")

	s.afterCommit(ctx, order, items)

	return model.NewOrderReceipt(order, items), nil
}

// afterCommit refreshes the offers cache and emits the order event. Neither
// can undo the committed order, so failures are only logged.
func (s *orderService) afterCommit(ctx context.Context, order *model.Order, items []model.OrderItem) {
	if err := s.cache.Invalidate(ctx, order.OfferDate); err != nil {
		s.logger.Warn().Err(err).Msg("offers cache invalidation failed")
	}

	lines := make([]events.OrderLine, len(items))
	for i, item := range items {
		lines[i] = events.OrderLine{DishID: item.DishID, CookID: item.CookID, Quantity: item.Quantity}
	}
	err := s.publisher.OrderCommitted(ctx, events.OrderCommitted{
		OrderID:    order.ID.String(),
		CustomerID: order.CustomerID,
		Date:       formatDate(order.OfferDate),
		Total:      order.TotalPrice,
		Items:      lines,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order event")
	}
}

// ListByCustomer returns the customer's orders, newest first.
func (s *orderService) ListByCustomer(ctx context.Context, customerID string) ([]model.OrderReceipt, error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, err
	}

	orders, items, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	receipts := make([]model.OrderReceipt, 0, len(orders))
	for i := range orders {
		receipts = append(receipts, *model.NewOrderReceipt(&orders[i], items[orders[i].ID]))
	}
	return receipts, nil
}

// GetByID returns one of the customer's orders. Orders of other customers
// are reported as not found.
func (s *orderService) GetByID(ctx context.Context, customerID string, orderID uuid.UUID) (*model.OrderReceipt, error) {
	order, items, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil || order.CustomerID != customerID {
		s.logger.Debug().Str("order_id", orderID.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return model.NewOrderReceipt(order, items), nil
}

// ListCookItems returns the order items a cook has to fulfil on date.
func (s *orderService) ListCookItems(ctx context.Context, cookID string, date time.Time) ([]model.CookOrderItem, error) {
	items, err := s.orderRepo.ListCookItems(ctx, cookID, date)
	if err != nil {
		s.logger.Error().Err(err).Str("cook_id", cookID).Msg("failed to list cook order items")
		return nil, fmt.Errorf("failed to list cook order items: %w", err)
	}
	return items, nil
}
