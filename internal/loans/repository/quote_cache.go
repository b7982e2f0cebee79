package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"motormarket_backend/internal/loans/calculator"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const keyPrefix = "loans:quote:v1:"

// QuoteCache memoises calculator results. A miss is (Quote{}, false, nil).
type QuoteCache interface {
	Get(ctx context.Context, key string) (calculator.Quote, bool, error)
	Set(ctx context.Context, key string, quote calculator.Quote) error
}

// QuoteKey normalises the inputs so equal loans share a cache entry
// regardless of how the numbers were written (10 vs 10.0).
func QuoteKey(principal, annualRatePercent float64, termMonths int) string {
	return fmt.Sprintf("%s%s:%s:%d",
		keyPrefix,
		decimal.NewFromFloat(principal).String(),
		decimal.NewFromFloat(annualRatePercent).String(),
		termMonths,
	)
}

// RedisQuoteCache stores quotes as JSON with a fixed TTL.
type RedisQuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisQuoteCache(client *redis.Client, ttl time.Duration) *RedisQuoteCache {
	return &RedisQuoteCache{client: client, ttl: ttl}
}

func (c *RedisQuoteCache) Get(ctx context.Context, key string) (calculator.Quote, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return calculator.Quote{}, false, nil
	}
	if err != nil {
		return calculator.Quote{}, false, fmt.Errorf("get cached quote: %w", err)
	}

	var quote calculator.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return calculator.Quote{}, false, fmt.Errorf("decode cached quote: %w", err)
	}
	return quote, true, nil
}

func (c *RedisQuoteCache) Set(ctx context.Context, key string, quote calculator.Quote) error {
	raw, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached quote: %w", err)
	}
	return nil
}

// NoopQuoteCache never stores anything. Used when Redis is not configured.
type NoopQuoteCache struct{}

func (NoopQuoteCache) Get(context.Context, string) (calculator.Quote, bool, error) {
	return calculator.Quote{}, false, nil
}

func (NoopQuoteCache) Set(context.Context, string, calculator.Quote) error { return nil }

var (
	_ QuoteCache = (*RedisQuoteCache)(nil)
	_ QuoteCache = NoopQuoteCache{}
)
