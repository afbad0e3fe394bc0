package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dverano/villadesk/internal/gridstore"
)

// Redis is the shared FolderCache for multi-instance deployments. Redis
// errors degrade to cache misses; the listing path stays usable without the
// cache.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func NewRedis(rdb *redis.Client, ttl time.Duration, prefix string, logger *slog.Logger) *Redis {
	if prefix == "" {
		prefix = "villadesk:folders"
	}
	return &Redis{rdb: rdb, ttl: ttl, prefix: prefix, logger: logger}
}

func (c *Redis) key(folderID string) string { return c.prefix + ":" + folderID }

func (c *Redis) Get(ctx context.Context, folderID string) ([]gridstore.WorkbookInfo, bool) {
	raw, err := c.rdb.Get(ctx, c.key(folderID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("folder cache read failed", "folder_id", folderID, "err", err)
		}
		return nil, false
	}
	var items []gridstore.WorkbookInfo
	if err := json.Unmarshal(raw, &items); err != nil {
		if c.logger != nil {
			c.logger.Warn("folder cache entry corrupt", "folder_id", folderID, "err", err)
		}
		return nil, false
	}
	return items, true
}

func (c *Redis) Put(ctx context.Context, folderID string, items []gridstore.WorkbookInfo) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(folderID), raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("folder cache write failed", "folder_id", folderID, "err", err)
	}
}

func (c *Redis) Invalidate(ctx context.Context, folderID string) {
	if err := c.rdb.Del(ctx, c.key(folderID)).Err(); err != nil && c.logger != nil {
		c.logger.Warn("folder cache invalidate failed", "folder_id", folderID, "err", err)
	}
}

func ReadyCheck(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
