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
	"github.com/shopspring/decimal"
)

const cartLineColumns = `id, customer_id, dish_id, quantity, created_at, updated_at`

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func scanCartLine(row pgx.Row) (model.CartLine, error) {
	var l model.CartLine
	err := row.Scan(&l.ID, &l.CustomerID, &l.DishID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// GetByID retrieves a cart line, or nil when it does not exist.
func (r *cartRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CartLine, error) {
	query := `SELECT ` + cartLineColumns + ` FROM cart_lines WHERE id = $1`

	l, err := scanCartLine(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("cart_line_id", id.String()).Msg("cart line not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_line_id", id.String()).Msg("failed to query cart line")
		return nil, fmt.Errorf("failed to query cart line: %w", err)
	}
	return &l, nil
}

// ListViewByCustomer returns the customer's cart lines joined with dishes.
func (r *cartRepository) ListViewByCustomer(ctx context.Context, customerID string) ([]model.CartLineView, error) {
	query := `
		SELECT c.id, c.dish_id, d.name, d.price, c.quantity
		FROM cart_lines c
		JOIN dishes d ON d.id = c.dish_id
		WHERE c.customer_id = $1
		ORDER BY c.dish_id, c.created_at
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	lines := []model.CartLineView{}
	for rows.Next() {
		var v model.CartLineView
		var price pgtype.Numeric
		if err := rows.Scan(&v.ID, &v.DishID, &v.Name, &price, &v.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		v.UnitPrice = numericToDecimal(price)
		v.Subtotal = v.UnitPrice.Mul(decimal.NewFromInt(int64(v.Quantity)))
		lines = append(lines, v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}
	return lines, nil
}

// QuantityForDish sums the customer's cart quantity for dishID, skipping excludeID.
func (r *cartRepository) QuantityForDish(ctx context.Context, customerID string, dishID int64, excludeID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM cart_lines
		WHERE customer_id = $1 AND dish_id = $2 AND id <> $3
	`

	var total int
	if err := r.pool.QueryRow(ctx, query, customerID, dishID, excludeID).Scan(&total); err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Int64("dish_id", dishID).Msg("failed to sum cart quantity")
		return 0, fmt.Errorf("failed to sum cart quantity: %w", err)
	}
	return total, nil
}

// AddQuantity creates the customer's line for the dish or adds to the existing one.
func (r *cartRepository) AddQuantity(ctx context.Context, line *model.CartLine) (*model.CartLine, error) {
	query := `
		INSERT INTO cart_lines (id, customer_id, dish_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT ON CONSTRAINT cart_lines_customer_dish_key
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING ` + cartLineColumns

	now := time.Now()
	saved, err := scanCartLine(r.pool.QueryRow(ctx, query, line.ID, line.CustomerID, line.DishID, line.Quantity, now))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.DishNotFoundError(line.DishID)
		}
		r.logger.Error().Err(err).
			Str("customer_id", line.CustomerID).
			Int64("dish_id", line.DishID).
			Msg("failed to add cart quantity")
		return nil, fmt.Errorf("failed to add cart quantity: %w", err)
	}
	return &saved, nil
}

// SetQuantity overwrites the quantity of a line.
func (r *cartRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (*model.CartLine, error) {
	query := `
		UPDATE cart_lines SET quantity = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + cartLineColumns

	saved, err := scanCartLine(r.pool.QueryRow(ctx, query, id, quantity, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCartLineNotFound
		}
		r.logger.Error().Err(err).Str("cart_line_id", id.String()).Msg("failed to update cart line")
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}
	return &saved, nil
}

// Delete removes a line and reports whether it existed.
func (r *cartRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_line_id", id.String()).Msg("failed to delete cart line")
		return false, fmt.Errorf("failed to delete cart line: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// LockByCustomer returns the customer's lines locked FOR UPDATE in ascending dish order.
func (r *cartRepository) LockByCustomer(ctx context.Context, tx pgx.Tx, customerID string) ([]model.CartLine, error) {
	query := `
		SELECT ` + cartLineColumns + `
		FROM cart_lines
		WHERE customer_id = $1
		ORDER BY dish_id, id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}
	return lines, nil
}

// DeleteByCustomer empties the customer's cart within tx.
func (r *cartRepository) DeleteByCustomer(ctx context.Context, tx pgx.Tx, customerID string) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE customer_id = $1`, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to empty cart")
		return 0, fmt.Errorf("failed to empty cart: %w", err)
	}
	return tag.RowsAffected(), nil
}
