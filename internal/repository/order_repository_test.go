package repository

import (
	"context"
	"testing"
	"time"

	"parrot-ordering/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(customerID string, total string, createdAt time.Time) *model.Order {
	return &model.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		OfferDate:  testDate(),
		TotalPrice: decimal.RequireFromString(total),
		CreatedAt:  createdAt,
	}
}

func newTestItem(orderID uuid.UUID, dish model.Dish, cookID string, qty int) model.OrderItem {
	return model.OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		DishID:    dish.ID,
		CookID:    cookID,
		DishName:  dish.Name,
		UnitPrice: dish.Price,
		Quantity:  qty,
	}
}

// commitOrder persists an order and its items in one transaction.
func commitOrder(t *testing.T, repo OrderRepository, order *model.Order, items ...model.OrderItem) {
	t.Helper()
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))
}

func TestOrderRepository_BeginTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)

	require.NoError(t, err)
	require.NotNil(t, tx)

	err = tx.Rollback(ctx)
	assert.NoError(t, err)
}

func TestOrderRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	soup := seedDish(t, pool, "Soup", "soup", "3.00")
	bread := seedDish(t, pool, "Bread", "side", "0.80")

	order := newTestOrder("cust-1", "6.80", time.Now())
	commitOrder(t, repo, order,
		newTestItem(order.ID, soup, "cook-a", 2),
		newTestItem(order.ID, bread, "cook-b", 1),
	)

	tests := []struct {
		name          string
		orderID       uuid.UUID
		expectNil     bool
		expectedItems int
	}{
		{name: "Order exists with items", orderID: order.ID, expectedItems: 2},
		{name: "Order does not exist", orderID: uuid.New(), expectNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, items, err := repo.GetByID(ctx, tt.orderID)
			require.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, got)
				assert.Nil(t, items)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, "cust-1", got.CustomerID)
			assert.Equal(t, "6.80", got.TotalPrice.StringFixed(2))
			assert.Equal(t, testDate().Format(model.DateLayout), got.OfferDate.Format(model.DateLayout))

			require.Len(t, items, tt.expectedItems)
			assert.Equal(t, soup.ID, items[0].DishID)
			assert.Equal(t, "Soup", items[0].DishName)
			assert.Equal(t, "cook-a", items[0].CookID)
			assert.Equal(t, "3.00", items[0].UnitPrice.StringFixed(2))
			assert.Equal(t, 2, items[0].Quantity)
		})
	}
}

func TestOrderRepository_PriceSnapshotSurvivesDishUpdate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	dishes := NewDishRepository(pool, zerolog.Nop())
	ctx := context.Background()

	dish := seedDish(t, pool, "Ramen", "main", "9.00")
	order := newTestOrder("cust-1", "9.00", time.Now())
	commitOrder(t, repo, order, newTestItem(order.ID, dish, "cook-a", 1))

	dish.Price = decimal.RequireFromString("11.00")
	dish.Name = "Spicy Ramen"
	require.NoError(t, dishes.Update(ctx, &dish))

	_, items, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ramen", items[0].DishName)
	assert.Equal(t, "9.00", items[0].UnitPrice.StringFixed(2))
}

func TestOrderRepository_TransactionRollback(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	order := newTestOrder("cust-1", "1.00", time.Now())
	require.NoError(t, repo.CreateOrder(ctx, tx, order))

	require.NoError(t, tx.Rollback(ctx))

	got, _, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderRepository_ListByCustomer(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	dish := seedDish(t, pool, "Pie", "dessert", "2.00")
	now := time.Now()

	older := newTestOrder("cust-1", "2.00", now.Add(-time.Hour))
	newer := newTestOrder("cust-1", "4.00", now)
	foreign := newTestOrder("cust-2", "2.00", now)
	commitOrder(t, repo, older, newTestItem(older.ID, dish, "cook-a", 1))
	commitOrder(t, repo, newer, newTestItem(newer.ID, dish, "cook-a", 2))
	commitOrder(t, repo, foreign, newTestItem(foreign.ID, dish, "cook-a", 1))

	orders, items, err := repo.ListByCustomer(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
	assert.Len(t, items[newer.ID], 1)
	assert.Equal(t, 2, items[newer.ID][0].Quantity)
	_, found := items[foreign.ID]
	assert.False(t, found)

	none, _, err := repo.ListByCustomer(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrderRepository_ListCookItems(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	soup := seedDish(t, pool, "Soup", "soup", "3.00")
	cake := seedDish(t, pool, "Cake", "dessert", "2.50")

	order := newTestOrder("cust-1", "8.50", time.Now())
	commitOrder(t, repo, order,
		newTestItem(order.ID, soup, "cook-a", 2),
		newTestItem(order.ID, cake, "cook-b", 1),
	)

	items, err := repo.ListCookItems(ctx, "cook-a", testDate())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, order.ID, items[0].OrderID)
	assert.Equal(t, "cust-1", items[0].CustomerID)
	assert.Equal(t, "Soup", items[0].DishName)
	assert.Equal(t, 2, items[0].Quantity)

	otherDay, err := repo.ListCookItems(ctx, "cook-a", testDate().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, otherDay)
}
