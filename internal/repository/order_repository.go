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

const orderItemColumns = `id, order_id, dish_id, cook_id, dish_name, unit_price, quantity`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(ctx, r.pool, r.logger)
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, offer_date, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.CustomerID,
		order.OfferDate,
		decimalToNumeric(order.TotalPrice),
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("customer_id", order.CustomerID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `INSERT INTO order_items (` + orderItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID,
			item.OrderID,
			item.DishID,
			item.CookID,
			item.DishName,
			decimalToNumeric(item.UnitPrice),
			item.Quantity,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Int64("dish_id", items[i].DishID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	var total pgtype.Numeric
	if err := row.Scan(&o.ID, &o.CustomerID, &o.OfferDate, &total, &o.CreatedAt); err != nil {
		return o, err
	}
	o.TotalPrice = numericToDecimal(total)
	return o, nil
}

func scanOrderItem(row pgx.Row) (model.OrderItem, error) {
	var item model.OrderItem
	var price pgtype.Numeric
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.DishID,
		&item.CookID,
		&item.DishName,
		&price,
		&item.Quantity,
	)
	if err != nil {
		return item, err
	}
	item.UnitPrice = numericToDecimal(price)
	return item, nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	orderQuery := `
		SELECT id, customer_id, offer_date, total_price, created_at
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, orderQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY dish_id, id`

	grouped, err := r.queryItems(ctx, itemsQuery, id)
	if err != nil {
		return nil, nil, err
	}

	return &order, grouped[id], nil
}

// ListByCustomer returns the customer's orders, newest first, with their items.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, map[uuid.UUID][]model.OrderItem, error) {
	ordersQuery := `
		SELECT id, customer_id, offer_date, total_price, created_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, ordersQuery, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to query orders")
		return nil, nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, nil, fmt.Errorf("error iterating orders: %w", err)
	}

	itemsQuery := `
		SELECT i.id, i.order_id, i.dish_id, i.cook_id, i.dish_name, i.unit_price, i.quantity
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.customer_id = $1
		ORDER BY i.order_id, i.dish_id, i.id
	`

	items, err := r.queryItems(ctx, itemsQuery, customerID)
	if err != nil {
		return nil, nil, err
	}

	return orders, items, nil
}

// queryItems runs an order item query and groups the rows by order ID.
func (r *orderRepository) queryItems(ctx context.Context, query string, args ...any) (map[uuid.UUID][]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]model.OrderItem)
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		grouped[item.OrderID] = append(grouped[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return grouped, nil
}

// ListCookItems returns the order items attributed to cookID for orders on date.
func (r *orderRepository) ListCookItems(ctx context.Context, cookID string, date time.Time) ([]model.CookOrderItem, error) {
	query := `
		SELECT i.id, i.order_id, o.customer_id, i.dish_id, i.dish_name, i.quantity, o.created_at
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE i.cook_id = $1 AND o.offer_date = $2
		ORDER BY o.created_at, i.dish_id
	`

	rows, err := r.pool.Query(ctx, query, cookID, date)
	if err != nil {
		r.logger.Error().Err(err).Str("cook_id", cookID).Msg("failed to query cook order items")
		return nil, fmt.Errorf("failed to query cook order items: %w", err)
	}
	defer rows.Close()

	items := []model.CookOrderItem{}
	for rows.Next() {
		var it model.CookOrderItem
		err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.CustomerID, &it.DishID, &it.DishName, &it.Quantity, &it.OrderedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cook order item row")
			return nil, fmt.Errorf("failed to scan cook order item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cook order item rows")
		return nil, fmt.Errorf("error iterating cook order items: %w", err)
	}
	return items, nil
}
