package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/matterlog/internal/adapter/metrics"
	"github.com/V4T54L/matterlog/internal/domain"
)

const (
	keyPrefix     = "matterlog:ratelimit:"
	defaultWindow = time.Minute
	burstWindow   = time.Second
)

// RedisLimiter implements domain.RateLimiter with fixed-window counters shared
// by every replica. A one-second window caps spikes at about perSecond+burst,
// close to what the in-process token bucket allows, and a one-minute window
// caps the sustained rate. While Redis is unreachable it falls back to an
// in-process limiter.
type RedisLimiter struct {
	client      *redis.Client
	logger      *slog.Logger
	fallback    domain.RateLimiter
	metrics     *metrics.Metrics
	window      time.Duration
	max         int64
	burstMax    int64
	now         func() time.Time
	isAvailable atomic.Bool
}

// NewRedisLimiter allows perSecond*60+burst requests per key and minute, and at
// most ceil(perSecond)+burst of them within any one second.
func NewRedisLimiter(client *redis.Client, perSecond float64, burst int, fallback domain.RateLimiter, logger *slog.Logger, m *metrics.Metrics) *RedisLimiter {
	l := &RedisLimiter{
		client:   client,
		logger:   logger.With("component", "redis_limiter"),
		fallback: fallback,
		metrics:  m,
		window:   defaultWindow,
		max:      int64(math.Ceil(perSecond*defaultWindow.Seconds())) + int64(burst),
		burstMax: int64(math.Ceil(perSecond*burstWindow.Seconds())) + int64(burst),
		now:      time.Now,
	}
	l.setAvailable(true) // Assume available initially
	return l
}

// Allow counts the request in the current window for key.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.isAvailable.Load() {
		return l.fallback.Allow(ctx, key)
	}

	now := l.now()
	redisKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, now.Truncate(l.window).Unix())
	burstKey := fmt.Sprintf("%s%s:s:%d", keyPrefix, key, now.Truncate(burstWindow).Unix())

	var incr, burstIncr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		burstIncr = pipe.Incr(ctx, burstKey)
		pipe.Expire(ctx, burstKey, burstWindow)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			// the caller went away; Redis is not at fault
			return false, ctx.Err()
		}
		if isNetworkError(err) {
			if l.isAvailable.CompareAndSwap(true, false) {
				l.logger.Error("Redis connection lost, using in-process limiter", "error", err)
				l.reportBackend(false)
			}
			return l.fallback.Allow(ctx, key)
		}
		return false, fmt.Errorf("failed to count request in redis: %w", err)
	}

	return incr.Val() <= l.max && burstIncr.Val() <= l.burstMax, nil
}

// StartHealthCheck pings Redis until ctx is done, switching back from the
// fallback once the connection recovers.
func (l *RedisLimiter) StartHealthCheck(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.logger.Info("Starting Redis health check")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Redis health check")
			return
		case <-ticker.C:
			l.checkHealth(ctx)
		}
	}
}

func (l *RedisLimiter) checkHealth(ctx context.Context) {
	if err := l.client.Ping(ctx).Err(); err != nil {
		if l.isAvailable.CompareAndSwap(true, false) {
			l.logger.Error("Redis connection lost", "error", err)
			l.reportBackend(false)
		}
		return
	}
	if l.isAvailable.CompareAndSwap(false, true) {
		l.logger.Info("Redis connection recovered")
		l.reportBackend(true)
	}
}

func (l *RedisLimiter) setAvailable(ok bool) {
	l.isAvailable.Store(ok)
	l.reportBackend(ok)
}

func (l *RedisLimiter) reportBackend(ok bool) {
	if l.metrics == nil {
		return
	}
	if ok {
		l.metrics.LimiterBackend.Set(1)
	} else {
		l.metrics.LimiterBackend.Set(0)
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
