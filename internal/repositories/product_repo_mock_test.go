package repositories_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/models"
	"inventory/internal/repositories"
)

func TestMockProductRepository_CreateAssignsFields(t *testing.T) {
	repo := repositories.NewMockProductRepository()

	product := &models.Product{Name: "Widget", Quantity: 5, Price: 9.99}
	err := repo.Create(context.Background(), product)

	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)
	assert.False(t, product.CreatedAt.IsZero())
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)
}

func TestMockProductRepository_UpdateRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()

	product := &models.Product{Name: "Widget", Quantity: 5, Price: 9.99}
	require.NoError(t, repo.Create(ctx, product))
	created := *product

	time.Sleep(5 * time.Millisecond)

	updated := &models.Product{ID: created.ID, Name: "Widget v2", Quantity: 7, Price: 12.5}
	require.NoError(t, repo.Update(ctx, updated))

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestMockProductRepository_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()

	first := &models.Product{Name: "Widget"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Delete(ctx, first.ID))

	second := &models.Product{Name: "Gadget"}
	require.NoError(t, repo.Create(ctx, second))

	assert.Greater(t, second.ID, first.ID)
}

func TestMockProductRepository_GetAllOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &models.Product{Name: fmt.Sprintf("p%d", i)}))
	}

	products, err := repo.GetAll(ctx)

	require.NoError(t, err)
	require.Len(t, products, 5)
	for i := 1; i < len(products); i++ {
		assert.Less(t, products[i-1].ID, products[i].ID)
	}
}

func TestMockProductRepository_ConcurrentCreatesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()

	const workers = 50
	ids := make(chan int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			product := &models.Product{Name: fmt.Sprintf("p%d", n)}
			if err := repo.Create(ctx, product); err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- product.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestMockProductRepository_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()

	product := &models.Product{Name: "Widget"}
	require.NoError(t, repo.Create(ctx, product))

	require.NoError(t, repo.Delete(ctx, product.ID))
	err := repo.Delete(ctx, product.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	_, err = repo.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}
