package repository

import (
	"context"
	"testing"
	"time"

	"motormarket_backend/internal/loans/calculator"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisQuoteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisQuoteCache(client, time.Hour), mr
}

func TestRedisQuoteCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	key := QuoteKey(1_000_000, 10, 60)

	if _, ok, err := cache.Get(ctx, key); ok || err != nil {
		t.Fatalf("Get() on empty cache = %v, %v", ok, err)
	}

	want := calculator.Quote{MonthlyPayment: 21247.04, TotalPayment: 1274822.4, TotalInterest: 274822.4}
	if err := cache.Set(ctx, key, want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := cache.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("quote (-want +got):\n%s", diff)
	}

	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}
	mr.FastForward(2 * time.Hour)
	if _, ok, _ := cache.Get(ctx, key); ok {
		t.Error("entry should expire")
	}
}

func TestRedisQuoteCacheCorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t)
	key := QuoteKey(100, 5, 12)
	if err := mr.Set(key, "not json"); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.Get(context.Background(), key); ok || err == nil {
		t.Fatalf("Get() = %v, %v; want decode error", ok, err)
	}
}

func TestQuoteKeyNormalisesNumbers(t *testing.T) {
	if QuoteKey(10000.0, 12, 24) != QuoteKey(10000, 12.0, 24) {
		t.Fatal("equal inputs must share a key")
	}
	if got := QuoteKey(10000.5, 9.9, 60); got != "loans:quote:v1:10000.5:9.9:60" {
		t.Fatalf("key = %q", got)
	}
}
