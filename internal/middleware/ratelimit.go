// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type KeyFunc func(*http.Request) string

type RateLimitConfig struct {
	// Name separates the counters of independent limiters sharing Redis.
	Name   string
	Limit  redis_rate.Limit
	Key    KeyFunc
	Skip   func(*http.Request) bool
	Logger *zap.Logger
}

// RateLimiter is a GCRA limiter backed by Redis. Without Redis, or while
// Redis errors, each replica enforces the same limit with local token
// buckets.
type RateLimiter struct {
	name   string
	limit  redis_rate.Limit
	key    KeyFunc
	skip   func(*http.Request) bool
	redis  *redis_rate.Limiter
	local  *buckets
	logger *zap.Logger
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		name:   cfg.Name,
		limit:  cfg.Limit,
		key:    cfg.Key,
		skip:   cfg.Skip,
		local:  newBuckets(cfg.Limit),
		logger: cfg.Logger,
	}
	if rl.name == "" {
		rl.name = "global"
	}
	if rl.key == nil {
		rl.key = KeyByIP
	}
	if rl.logger == nil {
		rl.logger = zap.NewNop()
	}
	if rdb != nil {
		rl.redis = redis_rate.NewLimiter(rdb)
	}
	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.skip != nil && rl.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		res := rl.take(r.Context(), "ratelimit:"+rl.name+":"+rl.key(r))

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset",
			strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))

		if res.Allowed > 0 {
			next.ServeHTTP(w, r)
			return
		}

		wait := max(int(res.RetryAfter.Seconds()), 1)
		h.Set("Retry-After", strconv.Itoa(wait))
		core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
			Error: fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", wait),
		})
	})
}

func (rl *RateLimiter) take(ctx context.Context, key string) *redis_rate.Result {
	if rl.redis != nil {
		res, err := rl.redis.Allow(ctx, key, rl.limit)
		if err == nil {
			return res
		}
		rl.logger.Debug("redis rate limit unavailable",
			zap.String("limiter", rl.name),
			zap.Error(err),
		)
	}
	return rl.local.take(key)
}

// KeyByIP keys on the client address. RealIP has already rewritten
// RemoteAddr from the proxy headers.
func KeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// KeyByIPAndEndpoint gives every route shape its own budget per client.
// Numeric path segments collapse to {id}.
func KeyByIPAndEndpoint(r *http.Request) string {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	for i, seg := range segments {
		if _, err := strconv.ParseUint(seg, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return KeyByIP(r) + ":" + r.Method + " /" + strings.Join(segments, "/")
}

// PerWindow allows rate requests per window with the given burst. A zero
// window means a minute.
func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: window}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return PerWindow(rate, burst, time.Minute)
}

const bucketIdle = 10 * time.Minute

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// buckets holds one token bucket per key. Idle buckets are swept on access
// instead of by a background goroutine.
type buckets struct {
	mu        sync.Mutex
	perSecond rate.Limit
	burst     int
	byKey     map[string]*bucket
	swept     time.Time
}

func newBuckets(limit redis_rate.Limit) *buckets {
	perSecond := rate.Limit(0)
	if limit.Period > 0 {
		perSecond = rate.Limit(float64(limit.Rate) / limit.Period.Seconds())
	}
	return &buckets{
		perSecond: perSecond,
		burst:     limit.Burst,
		byKey:     make(map[string]*bucket),
		swept:     time.Now(),
	}
}

func (b *buckets) take(key string) *redis_rate.Result {
	now := time.Now()

	b.mu.Lock()
	if now.Sub(b.swept) > bucketIdle {
		for k, v := range b.byKey {
			if now.Sub(v.seen) > bucketIdle {
				delete(b.byKey, k)
			}
		}
		b.swept = now
	}

	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(b.perSecond, b.burst)}
		b.byKey[key] = bk
	}
	bk.seen = now
	b.mu.Unlock()

	res := &redis_rate.Result{RetryAfter: -1}

	reservation := bk.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); !reservation.OK() || delay > 0 {
		reservation.CancelAt(now)
		res.RetryAfter = max(delay, time.Second)
	} else {
		res.Allowed = 1
	}

	res.Remaining = max(int(bk.limiter.TokensAt(now)), 0)
	if b.perSecond > 0 {
		res.ResetAfter = time.Duration(float64(time.Second) / float64(b.perSecond))
	}

	return res
}
