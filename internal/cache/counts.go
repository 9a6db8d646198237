package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Interaction counters are always derived from rows; redis only shields the
// COUNT query. A miss or a redis failure falls through to storage, so the
// cache can never make a counter wrong for longer than its TTL.

const defaultCountTTL = time.Minute

type CountCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCountCache(client *goredis.Client) *CountCache {
	return &CountCache{client: client, ttl: defaultCountTTL}
}

func countKey(targetType string, targetID uuid.UUID, kind string) string {
	return fmt.Sprintf("counts:%s:%s:%s", targetType, targetID.String(), kind)
}

// Get returns (count, true) on a hit; (0, false) on a miss or any redis error.
func (c *CountCache) Get(ctx context.Context, targetType string, targetID uuid.UUID, kind string) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	data, err := c.client.Get(ctx, countKey(targetType, targetID, kind)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *CountCache) Set(ctx context.Context, targetType string, targetID uuid.UUID, kind string, count int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, countKey(targetType, targetID, kind), count, c.ttl).Err()
}

// Invalidate drops the cached counter after an add or remove.
func (c *CountCache) Invalidate(ctx context.Context, targetType string, targetID uuid.UUID, kind string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, countKey(targetType, targetID, kind)).Err()
}
