package segment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const cacheKeyPrefix = "cart-offer:segment:"

// RedisOptions holds the connection settings for the segment cache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// ConnectRedis opens a Redis client and verifies it with PING.
func ConnectRedis(ctx context.Context, opts RedisOptions, logger zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	logger.Info().
		Str("addr", opts.Addr).
		Int("db", opts.DB).
		Msg("connected to Redis")

	return client, nil
}

// CachedResolver puts a Redis read-through cache in front of another
// resolver. Concurrent misses for the same user share one upstream call.
// Only successful lookups are cached.
//
// The shared call is detached from the caller that started it and bounded
// by timeout, so one canceled request never fails the others waiting on it.
type CachedResolver struct {
	next    Resolver
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
	group   singleflight.Group
	logger  zerolog.Logger
}

// NewCachedResolver wraps next with a cache entry lifetime of ttl. A shared
// upstream lookup is abandoned after timeout; zero means DefaultTimeout.
func NewCachedResolver(next Resolver, client *redis.Client, ttl, timeout time.Duration, logger zerolog.Logger) *CachedResolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &CachedResolver{
		next:    next,
		client:  client,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger.With().Str("component", "segment-cache").Logger(),
	}
}

// Resolve serves from cache when possible. A failing cache is bypassed.
func (r *CachedResolver) Resolve(ctx context.Context, userID int64) (string, error) {
	key := cacheKey(userID)

	segment, err := r.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		r.logger.Debug().Int64("user_id", userID).Msg("segment cache hit")
		return segment, nil
	case errors.Is(err, redis.Nil):
	default:
		r.logger.Warn().Err(err).Int64("user_id", userID).Msg("segment cache read failed")
	}

	ch := r.group.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		segment, err := r.next.Resolve(lookupCtx, userID)
		if err != nil {
			return "", err
		}

		if err := r.client.Set(lookupCtx, key, segment, r.ttl).Err(); err != nil {
			r.logger.Warn().Err(err).Int64("user_id", userID).Msg("segment cache write failed")
		}
		return segment, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}

		r.logger.Debug().
			Int64("user_id", userID).
			Bool("shared", res.Shared).
			Msg("segment cache miss")

		return res.Val.(string), nil
	}
}

func cacheKey(userID int64) string {
	return cacheKeyPrefix + strconv.FormatInt(userID, 10)
}
