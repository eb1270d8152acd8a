package data

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/logger"
)

// redisCachedProvider is a read-through cache in front of another provider.
// Cache errors are logged and bypassed; they never fail a lookup.
type redisCachedProvider struct {
	client *redis.Client
	next   SpotProvider
	ttl    time.Duration
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// NewRedisCachedProvider caches next's answers for ttl under "spot:<TICKER>".
func NewRedisCachedProvider(client *redis.Client, next SpotProvider, ttl time.Duration) SpotProvider {
	return &redisCachedProvider{client: client, next: next, ttl: ttl}
}

func (c *redisCachedProvider) Name() string { return "redis+" + c.next.Name() }

func (c *redisCachedProvider) Secondary() SpotProvider { return c.next }

func spotKey(ticker string) string { return "spot:" + ticker }

func (c *redisCachedProvider) Spot(ctx context.Context, ticker string) (float64, error) {
	ticker = NormalizeTicker(ticker)
	key := spotKey(ticker)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if spot, perr := strconv.ParseFloat(val, 64); perr == nil && spot > 0 {
			logger.Tracef("spot cache hit %s=%s", ticker, val)
			return spot, nil
		}
		logger.Debugf("discarding bad cached spot %s=%q", ticker, val)
	case errors.Is(err, redis.Nil):
		logger.Tracef("spot cache miss %s", ticker)
	default:
		logger.Errorf("spot cache get %s: %v", ticker, err)
	}

	spot, err := c.next.Spot(ctx, ticker)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, key, strconv.FormatFloat(spot, 'g', -1, 64), c.ttl).Err(); err != nil {
		logger.Errorf("spot cache set %s: %v", ticker, err)
	}
	return spot, nil
}
