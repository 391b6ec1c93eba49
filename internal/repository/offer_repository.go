package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parrot-ordering/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const offerColumns = `id, cook_id, dish_id, offer_date, published_quantity, quantity_remaining, created_at`

// offerRepository implements the OfferRepository interface using PostgreSQL.
type offerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOfferRepository creates a new PostgreSQL-backed daily offer repository.
func NewOfferRepository(pool *pgxpool.Pool, logger zerolog.Logger) OfferRepository {
	return &offerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "offer").Logger(),
	}
}

func scanOffer(row pgx.Row) (model.DailyOffer, error) {
	var o model.DailyOffer
	err := row.Scan(&o.ID, &o.CookID, &o.DishID, &o.Date, &o.PublishedQuantity, &o.QuantityRemaining, &o.CreatedAt)
	return o, err
}

func collectOffers(rows pgx.Rows) ([]model.DailyOffer, error) {
	defer rows.Close()

	var offers []model.DailyOffer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}
	return offers, nil
}

// BeginTx starts a new database transaction.
func (r *offerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, r.logger)
}

// LockCookMenu takes a transaction-scoped advisory lock on cookID's menu for
// date, so publishes by the same cook run one after another.
func (r *offerRepository) LockCookMenu(ctx context.Context, tx pgx.Tx, cookID string, date time.Time) error {
	key := cookID + "/" + date.Format(model.DateLayout)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		r.logger.Error().Err(err).Str("cook_id", cookID).Msg("failed to lock cook menu")
		return fmt.Errorf("failed to lock cook menu: %w", err)
	}
	return nil
}

// FindForeignOffers locks and returns offers of other cooks for the given dishes.
func (r *offerRepository) FindForeignOffers(ctx context.Context, tx pgx.Tx, cookID string, date time.Time, dishIDs []int64) ([]model.DailyOffer, error) {
	if len(dishIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + offerColumns + `
		FROM daily_offers
		WHERE offer_date = $1 AND dish_id = ANY($2) AND cook_id <> $3
		ORDER BY dish_id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, date, dishIDs, cookID)
	if err != nil {
		r.logger.Error().Err(err).Str("cook_id", cookID).Msg("failed to query foreign offers")
		return nil, fmt.Errorf("failed to query foreign offers: %w", err)
	}

	offers, err := collectOffers(rows)
	if err != nil {
		r.logger.Error().Err(err).Str("cook_id", cookID).Msg("failed to read foreign offers")
		return nil, err
	}
	return offers, nil
}

// DeleteByCookAndDate removes all offers of cookID for date.
func (r *offerRepository) DeleteByCookAndDate(ctx context.Context, tx pgx.Tx, cookID string, date time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM daily_offers WHERE cook_id = $1 AND offer_date = $2`, cookID, date)
	if err != nil {
		r.logger.Error().Err(err).Str("cook_id", cookID).Msg("failed to delete cook offers")
		return 0, fmt.Errorf("failed to delete cook offers: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CreateOffers inserts offers within the provided transaction.
func (r *offerRepository) CreateOffers(ctx context.Context, tx pgx.Tx, offers []model.DailyOffer) error {
	if len(offers) == 0 {
		return nil
	}

	query := `
		INSERT INTO daily_offers (id, cook_id, dish_id, offer_date, published_quantity, quantity_remaining, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, o := range offers {
		batch.Queue(query, o.ID, o.CookID, o.DishID, o.Date, o.PublishedQuantity, o.QuantityRemaining, o.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(offers); i++ {
		if _, err := results.Exec(); err != nil {
			if isUniqueViolation(err, offerDishDateConstraint) {
				r.logger.Warn().
					Int64("dish_id", offers[i].DishID).
					Str("cook_id", offers[i].CookID).
					Msg("dish claimed concurrently by another cook")
				return model.ConflictError(offers[i].DishID)
			}
			if isForeignKeyViolation(err) {
				return model.DishNotFoundError(offers[i].DishID)
			}
			r.logger.Error().
				Err(err).
				Int64("dish_id", offers[i].DishID).
				Msg("failed to create offer")
			return fmt.Errorf("failed to create offer: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(offers)).Msg("offers created successfully")
	return nil
}

// GetByDishAndDate returns the offer for a dish on date, or nil.
func (r *offerRepository) GetByDishAndDate(ctx context.Context, dishID int64, date time.Time) (*model.DailyOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM daily_offers WHERE dish_id = $1 AND offer_date = $2`

	o, err := scanOffer(r.pool.QueryRow(ctx, query, dishID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("dish_id", dishID).Msg("failed to query offer")
		return nil, fmt.Errorf("failed to query offer: %w", err)
	}
	return &o, nil
}

// LockByDishes returns the offers for dishIDs on date, locked in ascending dish order.
func (r *offerRepository) LockByDishes(ctx context.Context, tx pgx.Tx, date time.Time, dishIDs []int64) (map[int64]model.DailyOffer, error) {
	locked := make(map[int64]model.DailyOffer, len(dishIDs))
	if len(dishIDs) == 0 {
		return locked, nil
	}

	query := `
		SELECT ` + offerColumns + `
		FROM daily_offers
		WHERE offer_date = $1 AND dish_id = ANY($2)
		ORDER BY dish_id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, date, dishIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(dishIDs)).Msg("failed to lock offers")
		return nil, fmt.Errorf("failed to lock offers: %w", err)
	}

	offers, err := collectOffers(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read locked offers")
		return nil, err
	}
	for _, o := range offers {
		locked[o.DishID] = o
	}
	return locked, nil
}

// Decrement atomically subtracts amount from the offer's remaining quantity.
func (r *offerRepository) Decrement(ctx context.Context, tx pgx.Tx, offerID uuid.UUID, amount int) (int, error) {
	if amount <= 0 {
		return 0, model.ErrInvalidQuantity
	}

	query := `
		UPDATE daily_offers
		SET quantity_remaining = quantity_remaining - $2
		WHERE id = $1 AND quantity_remaining >= $2
		RETURNING quantity_remaining
	`

	var remaining int
	err := tx.QueryRow(ctx, query, offerID, amount).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error().Err(err).Str("offer_id", offerID.String()).Msg("failed to decrement offer")
		return 0, fmt.Errorf("failed to decrement offer: %w", err)
	}

	// Nothing updated: either the offer is gone or it holds too little.
	var dishID int64
	err = tx.QueryRow(ctx, `SELECT dish_id, quantity_remaining FROM daily_offers WHERE id = $1`, offerID).
		Scan(&dishID, &remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrOfferNotFound
		}
		r.logger.Error().Err(err).Str("offer_id", offerID.String()).Msg("failed to query offer")
		return 0, fmt.Errorf("failed to query offer: %w", err)
	}

	r.logger.Warn().
		Str("offer_id", offerID.String()).
		Int("requested", amount).
		Int("remaining", remaining).
		Msg("insufficient stock for decrement")
	return remaining, model.InsufficientStockError(dishID, remaining)
}

const offerViewQuery = `
	SELECT o.id, o.dish_id, d.name, d.category, d.price, d.description, d.image_url, o.cook_id, o.quantity_remaining
	FROM daily_offers o
	JOIN dishes d ON d.id = o.dish_id
`

func collectOfferViews(rows pgx.Rows) ([]model.OfferView, error) {
	defer rows.Close()

	views := []model.OfferView{}
	for rows.Next() {
		var v model.OfferView
		var price pgtype.Numeric
		err := rows.Scan(&v.OfferID, &v.DishID, &v.Name, &v.Category, &price, &v.Description, &v.ImageURL, &v.CookID, &v.QuantityRemaining)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer view: %w", err)
		}
		v.Price = numericToDecimal(price)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offer views: %w", err)
	}
	return views, nil
}

// ListByDate returns offers on date joined with their dishes.
func (r *offerRepository) ListByDate(ctx context.Context, date time.Time) ([]model.OfferView, error) {
	rows, err := r.pool.Query(ctx, offerViewQuery+` WHERE o.offer_date = $1 ORDER BY o.dish_id, o.cook_id`, date)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query offers by date")
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}

	views, err := collectOfferViews(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read offers by date")
		return nil, err
	}
	return views, nil
}

// ListByCookAndDate returns the offers of a single cook on date.
func (r *offerRepository) ListByCookAndDate(ctx context.Context, cookID string, date time.Time) ([]model.OfferView, error) {
	rows, err := r.pool.Query(ctx, offerViewQuery+` WHERE o.cook_id = $1 AND o.offer_date = $2 ORDER BY o.dish_id`, cookID, date)
	if err != nil {
		r.logger.Error().Err(err).Str("cook_id", cookID).Msg("failed to query cook offers")
		return nil, fmt.Errorf("failed to query cook offers: %w", err)
	}

	views, err := collectOfferViews(rows)
	if err != nil {
		r.logger.Error().Err(err).Str("cook_id", cookID).Msg("failed to read cook offers")
		return nil, err
	}
	return views, nil
}

// Delete removes a single offer and returns it, or nil when it does not exist.
func (r *offerRepository) Delete(ctx context.Context, offerID uuid.UUID) (*model.DailyOffer, error) {
	query := `DELETE FROM daily_offers WHERE id = $1 RETURNING ` + offerColumns

	o, err := scanOffer(r.pool.QueryRow(ctx, query, offerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("offer_id", offerID.String()).Msg("failed to delete offer")
		return nil, fmt.Errorf("failed to delete offer: %w", err)
	}

	r.logger.Debug().Str("offer_id", offerID.String()).Msg("offer deleted")
	return &o, nil
}
