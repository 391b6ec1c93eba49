package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parrot-ordering/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const dishColumns = `id, name, category, price, description, image_url, created_at, updated_at`

// dishRepository implements the DishRepository interface using PostgreSQL.
type dishRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDishRepository creates a new PostgreSQL-backed dish repository.
func NewDishRepository(pool *pgxpool.Pool, logger zerolog.Logger) DishRepository {
	return &dishRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "dish").Logger(),
	}
}

// scanDish reads one dish row in dishColumns order.
func scanDish(row pgx.Row) (model.Dish, error) {
	var d model.Dish
	var price pgtype.Numeric
	err := row.Scan(&d.ID, &d.Name, &d.Category, &price, &d.Description, &d.ImageURL, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return d, err
	}
	d.Price = numericToDecimal(price)
	return d, nil
}

// List retrieves dishes ordered by name, optionally filtered by category.
func (r *dishRepository) List(ctx context.Context, category string, limit, offset int) ([]model.Dish, error) {
	query := `
		SELECT ` + dishColumns + `
		FROM dishes
		WHERE ($1 = '' OR category = $1)
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, category, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("category", category).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query dishes")
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer rows.Close()

	dishes := []model.Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan dish row")
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, d)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating dish rows")
		return nil, fmt.Errorf("error iterating dishes: %w", err)
	}

	return dishes, nil
}

// GetByID retrieves a single dish by its ID.
func (r *dishRepository) GetByID(ctx context.Context, id int64) (*model.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE id = $1`

	d, err := scanDish(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("dish_id", id).Msg("dish not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("dish_id", id).Msg("failed to query dish")
		return nil, fmt.Errorf("failed to query dish: %w", err)
	}

	return &d, nil
}

// GetByIDsForShare reads dishes inside tx with a share lock.
func (r *dishRepository) GetByIDsForShare(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]model.Dish, error) {
	dishes := make(map[int64]model.Dish, len(ids))
	if len(ids) == 0 {
		return dishes, nil
	}

	query := `
		SELECT ` + dishColumns + `
		FROM dishes
		WHERE id = ANY($1)
		ORDER BY id
		FOR SHARE
	`

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to lock dishes")
		return nil, fmt.Errorf("failed to lock dishes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan dish row")
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes[d.ID] = d
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating dish rows")
		return nil, fmt.Errorf("error iterating dishes: %w", err)
	}

	return dishes, nil
}

// Create inserts a dish and fills in its generated ID and timestamps.
func (r *dishRepository) Create(ctx context.Context, dish *model.Dish) error {
	query := `
		INSERT INTO dishes (name, category, price, description, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		dish.Name, dish.Category, decimalToNumeric(dish.Price), dish.Description, dish.ImageURL,
	).Scan(&dish.ID, &dish.CreatedAt, &dish.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", dish.Name).Msg("failed to create dish")
		return fmt.Errorf("failed to create dish: %w", err)
	}

	r.logger.Debug().Int64("dish_id", dish.ID).Msg("dish created successfully")
	return nil
}

// Update persists every mutable field of dish.
func (r *dishRepository) Update(ctx context.Context, dish *model.Dish) error {
	query := `
		UPDATE dishes
		SET name = $2, category = $3, price = $4, description = $5, image_url = $6, updated_at = $7
		WHERE id = $1
	`

	dish.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx, query,
		dish.ID, dish.Name, dish.Category, decimalToNumeric(dish.Price), dish.Description, dish.ImageURL, dish.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("dish_id", dish.ID).Msg("failed to update dish")
		return fmt.Errorf("failed to update dish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.DishNotFoundError(dish.ID)
	}

	r.logger.Debug().Int64("dish_id", dish.ID).Msg("dish updated successfully")
	return nil
}

// Delete removes a dish together with stale cart lines.
func (r *dishRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := beginTx(ctx, r.pool, r.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM cart_lines WHERE dish_id = $1`, id); err != nil {
		r.logger.Error().Err(err).Int64("dish_id", id).Msg("failed to delete cart lines of dish")
		return fmt.Errorf("failed to delete cart lines of dish: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			r.logger.Warn().Int64("dish_id", id).Msg("dish is still referenced")
			return model.DishInUseError(id)
		}
		r.logger.Error().Err(err).Int64("dish_id", id).Msg("failed to delete dish")
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = model.DishNotFoundError(id)
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Int64("dish_id", id).Msg("failed to commit dish deletion")
		return fmt.Errorf("failed to delete dish: %w", err)
	}

	r.logger.Debug().Int64("dish_id", id).Msg("dish deleted successfully")
	return nil
}
