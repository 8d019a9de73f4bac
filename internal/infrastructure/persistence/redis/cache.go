package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"textbook-assistant-api/pkg/logger"
)

// Cache is a JSON cache on top of the Redis client.
type Cache struct {
	client *Client
	group  singleflight.Group
}

// NewCache creates a cache.
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// Get unmarshals the cached value into dest. Returns redis.Nil on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return nil
}

// Set marshals value to JSON and stores it with a TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl)
}

// Delete removes keys from the cache.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...)
}

// GetOrLoad reads through the cache, calling loader on a miss and caching
// the result. Loader errors are returned without caching.
func (c *Cache) GetOrLoad(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !IsNil(err) {
		logger.Warn(ctx, "cache read failed, falling back to loader", "key", key, "error", err)
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		logger.Warn(ctx, "cache write failed", "key", key, "error", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal loaded value: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// GetOrLoadSafe is GetOrLoad with singleflight so concurrent misses on the
// same key run the loader once.
func (c *Cache) GetOrLoadSafe(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !IsNil(err) {
		logger.Warn(ctx, "cache read failed, falling back to loader", "key", key, "error", err)
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another flight may have filled the cache while we waited.
		var cached json.RawMessage
		if err := c.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}

		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		if err := c.Set(ctx, key, loaded, ttl); err != nil {
			logger.Warn(ctx, "cache write failed", "key", key, "error", err)
		}
		return loaded, nil
	})
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal loaded value: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// InvalidatePattern deletes every key matching the glob pattern.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) error {
	iter := c.client.Redis().Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...); err != nil {
			return fmt.Errorf("failed to delete keys: %w", err)
		}
		logger.Debug(ctx, "cache invalidated", "pattern", pattern, "keys", len(keys))
	}
	return nil
}

// InvalidateChapter drops cached curriculum and translation entries for a
// chapter after its content changes.
func (c *Cache) InvalidateChapter(ctx context.Context, chapterID string) error {
	if err := c.InvalidatePattern(ctx, fmt.Sprintf("chapter:%s*", chapterID)); err != nil {
		return err
	}
	return c.InvalidatePattern(ctx, fmt.Sprintf("translation:%s:*", chapterID))
}

// InvalidateModule drops cached listings for a module.
func (c *Cache) InvalidateModule(ctx context.Context, moduleID string) error {
	if err := c.InvalidatePattern(ctx, fmt.Sprintf("module:%s*", moduleID)); err != nil {
		return err
	}
	return c.InvalidatePattern(ctx, "modules:list:*")
}

// ModuleListKey builds the cache key for a module listing page.
func ModuleListKey(subject string, page, pageSize int) string {
	if subject == "" {
		subject = "all"
	}
	return fmt.Sprintf("modules:list:%s:%d:%d", subject, page, pageSize)
}

// ChapterListKey builds the cache key for a module's chapter listing.
func ChapterListKey(moduleID string) string {
	return fmt.Sprintf("module:%s:chapters", moduleID)
}

// ChapterKey builds the cache key for a single chapter.
func ChapterKey(chapterID string) string {
	return fmt.Sprintf("chapter:%s", chapterID)
}
