package cache

import (
	"context"
	"errors"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "path:"

// RedisPathCache stores encoded paths in redis with a TTL.
type RedisPathCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPathCache(rdb *redis.Client, ttl time.Duration) *RedisPathCache {
	return &RedisPathCache{rdb: rdb, ttl: ttl}
}

// DialRedis parses a redis:// URL or a bare host:port and pings the server.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("dial redis: ping %s: %w", opts.Addr, err)
	}
	return rdb, nil
}

func (c *RedisPathCache) Get(ctx context.Context, key string) (_ domain.Path, _ bool, err error) {
	defer obs.Time(ctx, "path.cache.redis.Get")(&err)

	raw, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Path{}, false, nil
	}
	if err != nil {
		return domain.Path{}, false, fmt.Errorf("get path cache: key=%q: %w", key, err)
	}

	p, err := decodePath(raw)
	if err != nil {
		return domain.Path{}, false, fmt.Errorf("get path cache: key=%q: %w", key, err)
	}
	return p, true, nil
}

func (c *RedisPathCache) Put(ctx context.Context, key string, p domain.Path) error {
	b, err := encodePath(p)
	if err != nil {
		return fmt.Errorf("insert path cache: key=%q: %w", key, err)
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert path cache: key=%q: %w", key, err)
	}
	return nil
}
