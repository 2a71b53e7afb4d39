package cache

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"canteen-service/internal/repository/memory"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingMenu records how many reads reach the underlying repository.
type countingMenu struct {
	repository.MenuRepository
	gets, lists int
}

func (c *countingMenu) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	c.gets++
	return c.MenuRepository.GetByID(ctx, id)
}

func (c *countingMenu) GetAll(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	c.lists++
	return c.MenuRepository.GetAll(ctx, filter)
}

func setup(t *testing.T) (*CachedMenuRepository, *countingMenu, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	inner := &countingMenu{MenuRepository: memory.New().Repos().Menu}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCachedMenuRepository(inner, rdb, time.Minute, logger), inner, mr
}

func TestGetByIDReadsThrough(t *testing.T) {
	ctx := context.Background()
	c, inner, _ := setup(t)

	item := &models.MenuItem{Date: "2025-01-15", Type: models.Lunch, Name: "Борщ", Price: 120, Available: true}
	require.NoError(t, c.Create(ctx, item))

	for range 3 {
		got, err := c.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Борщ", got.Name)
	}
	assert.Equal(t, 1, inner.gets)
}

func TestGetByIDCachesNotFound(t *testing.T) {
	ctx := context.Background()
	c, inner, mr := setup(t)

	_, err := c.GetByID(ctx, 99)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = c.GetByID(ctx, 99)
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, inner.gets)

	mr.FastForward(notFoundTTL + time.Second)
	_, err = c.GetByID(ctx, 99)
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 2, inner.gets)
}

func TestWritesInvalidateListings(t *testing.T) {
	ctx := context.Background()
	c, inner, _ := setup(t)

	filter := models.MenuFilter{Date: "2025-01-15"}
	first := &models.MenuItem{Date: "2025-01-15", Type: models.Breakfast, Name: "Каша", Price: 70, Available: true}
	require.NoError(t, c.Create(ctx, first))

	items, err := c.GetAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, items, 1)
	_, err = c.GetAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.lists)

	require.NoError(t, c.Create(ctx, &models.MenuItem{Date: "2025-01-15", Type: models.Lunch, Name: "Суп", Price: 120}))
	items, err = c.GetAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, inner.lists)

	require.NoError(t, c.SetAvailable(ctx, first.ID, false))
	got, err := c.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
}

func TestRedisDownFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	c, inner, mr := setup(t)

	item := &models.MenuItem{Date: "2025-01-15", Type: models.Lunch, Name: "Плов", Price: 130}
	require.NoError(t, c.Create(ctx, item))

	mr.SetError("LOADING redis is loading the dataset")

	got, err := c.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Плов", got.Name)
	assert.Equal(t, 1, inner.gets)
}

func TestInvalidateAllDropsEntriesWrittenAround(t *testing.T) {
	ctx := context.Background()
	c, inner, mr := setup(t)

	filter := models.MenuFilter{Date: "2025-01-15"}
	_, err := c.GetByID(ctx, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
	items, err := c.GetAll(ctx, filter)
	require.NoError(t, err)
	require.Empty(t, items)

	item := &models.MenuItem{Date: "2025-01-15", Type: models.Lunch, Name: "Борщ", Price: 120, Available: true}
	require.NoError(t, inner.MenuRepository.Create(ctx, item))
	require.Equal(t, int64(1), item.ID)

	_, err = c.GetByID(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, c.InvalidateAll(ctx))
	assert.Empty(t, mr.Keys())

	got, err := c.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Борщ", got.Name)
	items, err = c.GetAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, c.InvalidateAll(ctx))
}
