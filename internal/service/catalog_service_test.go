package service

import (
	"context"
	"errors"
	"testing"

	"parrot-ordering/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_List(t *testing.T) {
	ctx := context.Background()
	dishes := []model.Dish{{ID: 1, Name: "Soup"}, {ID: 2, Name: "Wrap"}}

	tests := []struct {
		name           string
		limit          int
		offset         int
		expectedLimit  int
		expectedOffset int
		mockError      error
		expectError    bool
	}{
		{name: "Success with valid pagination", limit: 10, offset: 0, expectedLimit: 10},
		{name: "Zero limit defaults to 10", limit: 0, expectedLimit: 10},
		{name: "Limit capped at 100", limit: 500, expectedLimit: 100},
		{name: "Negative offset becomes 0", limit: 5, offset: -3, expectedLimit: 5},
		{name: "Repository error", limit: 10, expectedLimit: 10, mockError: errors.New("db down"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDishRepository)
			svc := NewCatalogService(repo, zerolog.Nop())

			if tt.mockError != nil {
				repo.On("List", ctx, "soup", tt.expectedLimit, tt.expectedOffset).Return(nil, tt.mockError)
			} else {
				repo.On("List", ctx, "soup", tt.expectedLimit, tt.expectedOffset).Return(dishes, nil)
			}

			got, err := svc.List(ctx, " soup ", tt.limit, tt.offset)
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Len(t, got, 2)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		repo := new(MockDishRepository)
		repo.On("GetByID", ctx, int64(3)).Return(&model.Dish{ID: 3, Name: "Pie"}, nil)

		dish, err := NewCatalogService(repo, zerolog.Nop()).GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Pie", dish.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		repo := new(MockDishRepository)
		repo.On("GetByID", ctx, int64(4)).Return(nil, nil)

		_, err := NewCatalogService(repo, zerolog.Nop()).GetByID(ctx, 4)
		assert.ErrorIs(t, err, model.ErrDishNotFound)
	})

	t.Run("Non-positive ID skips the repository", func(t *testing.T) {
		repo := new(MockDishRepository)

		_, err := NewCatalogService(repo, zerolog.Nop()).GetByID(ctx, 0)
		assert.ErrorIs(t, err, model.ErrDishNotFound)
		repo.AssertNotCalled(t, "GetByID")
	})
}

func TestCatalogService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *model.CreateDishRequest
		wantErr error
	}{
		{name: "Valid dish", req: &model.CreateDishRequest{Name: " Soup ", Category: "soup", Price: decimal.RequireFromString("3.20")}},
		{name: "Nil request", req: nil, wantErr: model.ErrValidation},
		{name: "Missing name", req: &model.CreateDishRequest{Category: "soup"}, wantErr: model.ErrValidation},
		{name: "Missing category", req: &model.CreateDishRequest{Name: "Soup"}, wantErr: model.ErrValidation},
		{name: "Negative price", req: &model.CreateDishRequest{Name: "Soup", Category: "soup", Price: decimal.NewFromInt(-1)}, wantErr: model.ErrValidation},
		{name: "Trailing zeros are fine", req: &model.CreateDishRequest{Name: "Soup", Category: "soup", Price: decimal.RequireFromString("1.500")}},
		{name: "Sub-cent price", req: &model.CreateDishRequest{Name: "Soup", Category: "soup", Price: decimal.RequireFromString("1.005")}, wantErr: model.ErrValidation},
		{name: "Price beyond column range", req: &model.CreateDishRequest{Name: "Soup", Category: "soup", Price: decimal.RequireFromString("100000000")}, wantErr: model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDishRepository)
			svc := NewCatalogService(repo, zerolog.Nop())

			if tt.wantErr == nil {
				repo.On("Create", ctx, mock.AnythingOfType("*model.Dish")).Run(func(args mock.Arguments) {
					args.Get(1).(*model.Dish).ID = 7
				}).Return(nil)
			}

			dish, err := svc.Create(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), dish.ID)
			assert.Equal(t, "Soup", dish.Name)
		})
	}
}

func TestCatalogService_Update(t *testing.T) {
	ctx := context.Background()
	newPrice := decimal.RequireFromString("6.00")
	emptyName := ""

	t.Run("Applies only set fields", func(t *testing.T) {
		repo := new(MockDishRepository)
		repo.On("GetByID", ctx, int64(1)).Return(&model.Dish{ID: 1, Name: "Curry", Category: "main", Price: decimal.NewFromInt(5)}, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*model.Dish")).Return(nil)

		dish, err := NewCatalogService(repo, zerolog.Nop()).Update(ctx, 1, &model.UpdateDishRequest{Price: &newPrice})
		require.NoError(t, err)
		assert.Equal(t, "Curry", dish.Name)
		assert.True(t, dish.Price.Equal(newPrice))
		repo.AssertExpectations(t)
	})

	t.Run("Rejects blank name", func(t *testing.T) {
		repo := new(MockDishRepository)
		repo.On("GetByID", ctx, int64(1)).Return(&model.Dish{ID: 1, Name: "Curry", Category: "main"}, nil)

		_, err := NewCatalogService(repo, zerolog.Nop()).Update(ctx, 1, &model.UpdateDishRequest{Name: &emptyName})
		assert.ErrorIs(t, err, model.ErrValidation)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("Rejects sub-cent price", func(t *testing.T) {
		repo := new(MockDishRepository)
		repo.On("GetByID", ctx, int64(1)).Return(&model.Dish{ID: 1, Name: "Curry", Category: "main"}, nil)
		subCent := decimal.RequireFromString("1.005")

		_, err := NewCatalogService(repo, zerolog.Nop()).Update(ctx, 1, &model.UpdateDishRequest{Price: &subCent})
		assert.ErrorIs(t, err, model.ErrValidation)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("Unknown dish", func(t *testing.T) {
		repo := new(MockDishRepository)
		repo.On("GetByID", ctx, int64(9)).Return(nil, nil)

		_, err := NewCatalogService(repo, zerolog.Nop()).Update(ctx, 9, &model.UpdateDishRequest{})
		assert.ErrorIs(t, err, model.ErrDishNotFound)
	})
}

func TestCatalogService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "Deleted"},
		{name: "Dish in use", repoErr: model.DishInUseError(1), wantErr: model.ErrDishInUse},
		{name: "Dish missing", repoErr: model.DishNotFoundError(1), wantErr: model.ErrDishNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDishRepository)
			repo.On("Delete", ctx, int64(1)).Return(tt.repoErr)

			err := NewCatalogService(repo, zerolog.Nop()).Delete(ctx, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
