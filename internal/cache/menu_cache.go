package cache

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	notFoundMarker  = "notfound"
	notFoundTTL     = time.Minute
	menuListPattern = "menu:list:*"
	menuPattern     = "menu:*"
)

var _ repository.MenuRepository = (*CachedMenuRepository)(nil)

// CachedMenuRepository is a read-through redis cache in front of a
// MenuRepository. Redis failures are logged and the call falls through to
// the wrapped repository.
type CachedMenuRepository struct {
	realRepo repository.MenuRepository
	redis    *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

func NewCachedMenuRepository(realRepo repository.MenuRepository, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedMenuRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedMenuRepository{
		realRepo: realRepo,
		redis:    rdb,
		ttl:      ttl,
		logger:   logger.With("component", "menu_cache"),
	}
}

func itemKey(id int64) string {
	return fmt.Sprintf("menu:item:%d", id)
}

func listKey(filter models.MenuFilter) string {
	return fmt.Sprintf("menu:list:%s:%s", filter.Date, filter.Type)
}

func (c *CachedMenuRepository) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	key := itemKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, repository.ErrNotFound
		}

		var item models.MenuItem
		if err := json.Unmarshal(data, &item); err != nil {
			c.logger.Warn("failed to unmarshal cached menu item, continuing with store", "key", key, "error", err)
			break
		}
		return &item, nil

	case errors.Is(err, redis.Nil):

	default:
		c.logger.Warn("redis error, continuing with store", "key", key, "error", err)
	}

	item, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, notFoundTTL).Err(); setErr != nil {
				c.logger.Warn("failed to cache notfound", "key", key, "error", setErr)
			}
		}
		return nil, err
	}

	c.store(ctx, key, item)
	return item, nil
}

func (c *CachedMenuRepository) GetAll(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	key := listKey(filter)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []models.MenuItem
		if err := json.Unmarshal(data, &items); err != nil {
			c.logger.Warn("failed to unmarshal cached menu, continuing with store", "key", key, "error", err)
			break
		}
		return items, nil

	case errors.Is(err, redis.Nil):

	default:
		c.logger.Warn("redis error, continuing with store", "key", key, "error", err)
	}

	items, err := c.realRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, items)
	return items, nil
}

func (c *CachedMenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	if err := c.realRepo.Create(ctx, item); err != nil {
		return err
	}
	c.invalidate(ctx, item.ID)
	return nil
}

func (c *CachedMenuRepository) SetAvailable(ctx context.Context, id int64, available bool) error {
	if err := c.realRepo.SetAvailable(ctx, id, available); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedMenuRepository) store(ctx context.Context, key string, v any) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("failed to marshal menu", "key", key, "error", err)
		return
	}
	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache menu", "key", key, "error", err)
	}
}

// invalidate drops the item key and every cached listing, since any filter
// may include the changed item.
func (c *CachedMenuRepository) invalidate(ctx context.Context, id int64) {
	if err := c.deleteMatching(ctx, menuListPattern, itemKey(id)); err != nil {
		c.logger.Warn("failed to invalidate menu cache", "menu_item_id", id, "error", err)
	}
}

// InvalidateAll drops every cached menu entry, including not-found markers.
// Call it after menu rows were written without going through the cache.
func (c *CachedMenuRepository) InvalidateAll(ctx context.Context) error {
	if err := c.deleteMatching(ctx, menuPattern); err != nil {
		return fmt.Errorf("invalidate menu cache: %w", err)
	}
	return nil
}

func (c *CachedMenuRepository) deleteMatching(ctx context.Context, pattern string, keys ...string) error {
	iter := c.redis.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	scanErr := iter.Err()

	if len(keys) == 0 {
		return scanErr
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	return scanErr
}
