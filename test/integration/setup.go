package integration

import (
	"context"
	"testing"
	"time"

	"parrot-ordering/internal/cache"
	"parrot-ordering/internal/database"
	"parrot-ordering/internal/events"
	"parrot-ordering/internal/repository"
	"parrot-ordering/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = 20

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Services wires the ordering services against a test database with the
// cache and event publisher disabled.
type Services struct {
	Catalog service.CatalogService
	Ledger  service.LedgerService
	Cart    service.CartService
	Orders  service.OrderService
}

// NewServices builds every service on top of pool.
func NewServices(pool *pgxpool.Pool) *Services {
	logger := zerolog.Nop()

	dishRepo := repository.NewDishRepository(pool, logger)
	offerRepo := repository.NewOfferRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	clock := service.NewClockFunc(time.UTC, func() time.Time { return Today.Add(12 * time.Hour) })

	return &Services{
		Catalog: service.NewCatalogService(dishRepo, logger),
		Ledger:  service.NewLedgerService(offerRepo, cache.Nop{}, events.Nop{}, clock, logger),
		Cart:    service.NewCartService(cartRepo, dishRepo, offerRepo, logger),
		Orders:  service.NewOrderService(orderRepo, cartRepo, offerRepo, dishRepo, cache.Nop{}, events.Nop{}, clock, logger),
	}
}

// Today is the fixed business date used by the scenarios.
var Today = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

// SeedDish inserts a dish and returns its ID.
func SeedDish(t *testing.T, pool *pgxpool.Pool, name, price string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO dishes (name, category, price) VALUES ($1, $2, $3::text::numeric) RETURNING id",
		name, "Mains", decimal.RequireFromString(price).String(),
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed dish %s: %v", name, err)
	}
	return id
}

// RemainingQuantity reads an offer's remaining quantity straight from the table.
func RemainingQuantity(t *testing.T, pool *pgxpool.Pool, dishID int64, date time.Time) int {
	t.Helper()

	var remaining int
	err := pool.QueryRow(context.Background(),
		"SELECT quantity_remaining FROM daily_offers WHERE dish_id = $1 AND offer_date = $2",
		dishID, date,
	).Scan(&remaining)
	if err != nil {
		t.Fatalf("failed to read remaining quantity of dish %d: %v", dishID, err)
	}
	return remaining
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE order_items, orders, cart_lines, daily_offers, dishes RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}
