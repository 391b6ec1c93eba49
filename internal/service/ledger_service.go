package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"parrot-ordering/internal/cache"
	"parrot-ordering/internal/events"
	"parrot-ordering/internal/model"
	"parrot-ordering/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ledgerService implements LedgerService.
type ledgerService struct {
	offerRepo repository.OfferRepository
	cache     cache.OffersCache
	publisher events.Publisher
	clock     Clock
	logger    zerolog.Logger
}

// NewLedgerService creates a new daily offer ledger service.
func NewLedgerService(
	offerRepo repository.OfferRepository,
	offersCache cache.OffersCache,
	publisher events.Publisher,
	clock Clock,
	logger zerolog.Logger,
) LedgerService {
	return &ledgerService{
		offerRepo: offerRepo,
		cache:     offersCache,
		publisher: publisher,
		clock:     clock,
		logger:    logger.With().Str("service", "ledger").Logger(),
	}
}

// Publish replaces all of cookID's offers for date with items. Either every
// offer is written or, on a conflict with another cook, none is.
func (s *ledgerService) Publish(ctx context.Context, cookID string, date time.Time, items []model.MenuItem) (offers []model.DailyOffer, err error) {
	cookID = strings.TrimSpace(cookID)
	if cookID == "" {
		return nil, model.ValidationError("cook ID is required")
	}

	kept, err := s.validateMenu(items)
	if err != nil {
		return nil, err
	}

	dishIDs := make([]int64, len(kept))
	for i, item := range kept {
		dishIDs[i] = item.DishID
	}

	tx, err := s.offerRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to publish menu: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.offerRepo.LockCookMenu(ctx, tx, cookID, date); err != nil {
		return nil, fmt.Errorf("failed to publish menu: %w", err)
	}

	foreign, err := s.offerRepo.FindForeignOffers(ctx, tx, cookID, date, dishIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to publish menu: %w", err)
	}
	if len(foreign) > 0 {
		s.logger.Warn().
			Str("cook_id", cookID).
			Int64("dish_id", foreign[0].DishID).
			Str("owner_cook_id", foreign[0].CookID).
			Msg("dish already offered by another cook")
		return nil, model.ConflictError(foreign[0].DishID)
	}

	replaced, err := s.offerRepo.DeleteByCookAndDate(ctx, tx, cookID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to publish menu: %w", err)
	}

	now := s.clock.Now()
	offers = make([]model.DailyOffer, len(kept))
	for i, item := range kept {
		offers[i] = model.DailyOffer{
			ID:                uuid.New(),
			CookID:            cookID,
			DishID:            item.DishID,
			Date:              date,
			PublishedQuantity: item.Quantity,
			QuantityRemaining: item.Quantity,
			CreatedAt:         now,
		}
	}

	if err = s.offerRepo.CreateOffers(ctx, tx, offers); err != nil {
		return nil, fmt.Errorf("failed to publish menu: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("cook_id", cookID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to publish menu: %w", err)
	}

	s.logger.Info().
		Str("cook_id", cookID).
		Str("date", formatDate(date)).
		Int64("replaced", replaced).
		Int("published", len(offers)).
		Msg("menu published")

	s.invalidate(ctx, date)

	entries := make([]events.MenuEntry, len(offers))
	for i, o := range offers {
		entries[i] = events.MenuEntry{DishID: o.DishID, Quantity: o.PublishedQuantity}
	}
	if pubErr := s.publisher.MenuPublished(ctx, events.MenuPublished{
		CookID: cookID,
		Date:   formatDate(date),
		Dishes: entries,
	}); pubErr != nil {
		s.logger.Warn().Err(pubErr).Str("cook_id", cookID).Msg("failed to publish menu event")
	}

	return offers, nil
}

// validateMenu drops items with a non-positive quantity and returns the rest
// in ascending dish order.
func (s *ledgerService) validateMenu(items []model.MenuItem) ([]model.MenuItem, error) {
	seen := make(map[int64]struct{}, len(items))
	kept := make([]model.MenuItem, 0, len(items))

	for i, item := range items {
		if item.DishID <= 0 {
			return nil, model.ValidationError("item %d: dish ID is required", i)
		}
		if _, dup := seen[item.DishID]; dup {
			return nil, model.ValidationError("item %d: dish %d is listed more than once", i, item.DishID)
		}
		seen[item.DishID] = struct{}{}

		if item.Quantity > maxQuantity {
			return nil, model.ValidationError("item %d: quantity must not exceed %d", i, maxQuantity)
		}

		if item.Quantity <= 0 {
			s.logger.Debug().Int64("dish_id", item.DishID).Int("quantity", item.Quantity).Msg("skipping menu item")
			continue
		}
		kept = append(kept, item)
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].DishID < kept[j].DishID })
	return kept, nil
}

// AvailableQuantity returns the remaining quantity of a dish on date, 0 when not offered.
func (s *ledgerService) AvailableQuantity(ctx context.Context, dishID int64, date time.Time) (int, error) {
	offer, err := s.offerRepo.GetByDishAndDate(ctx, dishID, date)
	if err != nil {
		s.logger.Error().Err(err).Int64("dish_id", dishID).Msg("failed to get offer")
		return 0, fmt.Errorf("failed to get available quantity: %w", err)
	}
	if offer == nil {
		return 0, nil
	}
	return offer.QuantityRemaining, nil
}

// ListTodayOffers reads through the offers cache. Cache failures fall back to the database.
func (s *ledgerService) ListTodayOffers(ctx context.Context, date time.Time) ([]model.OfferView, error) {
	cached, ok, err := s.cache.Get(ctx, date)
	if err != nil {
		s.logger.Warn().Err(err).Msg("offers cache read failed")
	} else if ok {
		s.logger.Debug().Str("date", formatDate(date)).Msg("offers cache hit")
		return cached, nil
	}

	offers, err := s.offerRepo.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", formatDate(date)).Msg("failed to list offers")
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	if err := s.cache.Set(ctx, date, offers); err != nil {
		s.logger.Warn().Err(err).Msg("offers cache write failed")
	}
	return offers, nil
}

// ListCookOffers returns the offers of one cook on date.
func (s *ledgerService) ListCookOffers(ctx context.Context, cookID string, date time.Time) ([]model.OfferView, error) {
	offers, err := s.offerRepo.ListByCookAndDate(ctx, cookID, date)
	if err != nil {
		s.logger.Error().Err(err).Str("cook_id", cookID).Msg("failed to list cook offers")
		return nil, fmt.Errorf("failed to list cook offers: %w", err)
	}
	return offers, nil
}

// Withdraw removes a single offer. Staged cart lines for it become unorderable.
func (s *ledgerService) Withdraw(ctx context.Context, offerID uuid.UUID) error {
	offer, err := s.offerRepo.Delete(ctx, offerID)
	if err != nil {
		s.logger.Error().Err(err).Str("offer_id", offerID.String()).Msg("failed to withdraw offer")
		return fmt.Errorf("failed to withdraw offer: %w", err)
	}
	if offer == nil {
		return model.ErrOfferNotFound
	}

	s.logger.Info().
		Str("offer_id", offerID.String()).
		Int64("dish_id", offer.DishID).
		Str("cook_id", offer.CookID).
		Msg("offer withdrawn")

	s.invalidate(ctx, offer.Date)

	if pubErr := s.publisher.OfferWithdrawn(ctx, events.OfferWithdrawn{
		OfferID: offer.ID.String(),
		DishID:  offer.DishID,
		CookID:  offer.CookID,
		Date:    formatDate(offer.Date),
	}); pubErr != nil {
		s.logger.Warn().Err(pubErr).Str("offer_id", offerID.String()).Msg("failed to publish withdrawal event")
	}
	return nil
}

func (s *ledgerService) invalidate(ctx context.Context, date time.Time) {
	if err := s.cache.Invalidate(ctx, date); err != nil {
		s.logger.Warn().Err(err).Str("date", formatDate(date)).Msg("offers cache invalidation failed")
	}
}
