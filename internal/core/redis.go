// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/storefront/internal/config"
)

var errRedisOff = errors.New("redis not configured")

// Redis holds the optional client behind the shared rate limit counters.
// Methods are safe on a nil *Redis.
type Redis struct {
	client *redis.Client
}

// NewRedis returns (nil, nil) when cfg.URL is empty.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.ConnMaxIdleTime = 5 * time.Minute

	r := &Redis{client: redis.NewClient(opts)}
	if err := r.Ping(ctx); err != nil {
		_ = r.client.Close() //nolint:errcheck // already failing
		return nil, err
	}
	return r, nil
}

// Client is nil when Redis is off.
func (r *Redis) Client() *redis.Client {
	if r == nil {
		return nil
	}
	return r.client
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil {
		return errRedisOff
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (r *Redis) PoolStats() PoolStats {
	if r == nil {
		return PoolStats{}
	}
	s := r.client.PoolStats()
	return PoolStats{
		Open:     int(s.TotalConns),
		InUse:    max(int(s.TotalConns)-int(s.IdleConns), 0),
		Idle:     int(s.IdleConns),
		Timeouts: s.Timeouts,
	}
}

func (r *Redis) Close() error {
	if r == nil {
		return nil
	}
	return r.client.Close()
}
