package service

import (
	"context"
	"math"
	"testing"
	"time"

	"motormarket_backend/internal/loans/calculator"
	"motormarket_backend/internal/loans/repository"
	"motormarket_backend/internal/loans/transport"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type testConfig struct{}

func (testConfig) GetLoanMaxPrincipal() float64        { return 5_000_000 }
func (testConfig) GetLoanDefaultRatePercent() float64  { return 10 }
func (testConfig) GetLoanDefaultTermMonths() int       { return 60 }
func (testConfig) GetLoanQuoteCacheTTL() time.Duration { return time.Hour }

type fakePrices map[uuid.UUID]float64

func (f fakePrices) GetPrice(_ context.Context, id uuid.UUID) (float64, error) {
	p, ok := f[id]
	if !ok {
		return 0, apperr.NotFound("listing not found")
	}
	return p, nil
}

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T, prices fakePrices) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := repository.NewRedisQuoteCache(client, time.Hour)
	return New(testConfig{}, cache, prices, logger.Nop()), mr
}

func TestCalculateDefaults(t *testing.T) {
	svc, _ := newService(t, nil)

	got, err := svc.Calculate(context.Background(), Input{Principal: ptr(1_000_000.0)})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	want := transport.QuoteResponse{
		Principal:         1_000_000,
		AnnualRatePercent: 10,
		TermMonths:        60,
		MonthlyPayment:    21247.04,
		TotalPayment:      1274822.4,
		TotalInterest:     274822.4,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Calculate() mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateZeroRate(t *testing.T) {
	svc, _ := newService(t, nil)

	got, err := svc.Calculate(context.Background(), Input{
		Principal:         ptr(12000.0),
		AnnualRatePercent: ptr(0.0),
		TermMonths:        ptr(12),
		IncludeSchedule:   true,
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got.MonthlyPayment != 1000 || got.TotalInterest != 0 {
		t.Errorf("quote = %+v", got)
	}
	if len(got.Schedule) != 12 {
		t.Fatalf("schedule rows = %d, want 12", len(got.Schedule))
	}
	if last := got.Schedule[11]; last.Balance != 0 {
		t.Errorf("final balance = %v, want 0", last.Balance)
	}
}

func TestCalculateTinyRateIsAccepted(t *testing.T) {
	svc, _ := newService(t, nil)

	for _, rate := range []float64{1e-13, 1e-11} {
		got, err := svc.Calculate(context.Background(), Input{
			Principal:         ptr(1_000_000.0),
			AnnualRatePercent: ptr(rate),
			TermMonths:        ptr(360),
		})
		if err != nil {
			t.Fatalf("Calculate(rate=%v) error = %v", rate, err)
		}
		if got.MonthlyPayment != 2777.78 || got.TotalPayment != 1000000.8 {
			t.Errorf("Calculate(rate=%v) = %+v, want 2777.78 monthly", rate, got)
		}
	}
}

func TestCalculateRoundsDerivedPrincipalToCents(t *testing.T) {
	svc, _ := newService(t, nil)

	got, err := svc.Calculate(context.Background(), Input{
		VehiclePrice:      ptr(25000.10),
		DownPayment:       5000.05,
		AnnualRatePercent: ptr(0.0),
		TermMonths:        ptr(1),
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got.Principal != 20000.05 || got.MonthlyPayment != 20000.05 {
		t.Errorf("Calculate() = %+v, want principal 20000.05", got)
	}
}

func TestCalculateValidation(t *testing.T) {
	svc, _ := newService(t, nil)

	tests := []struct {
		name string
		in   Input
	}{
		{"missing principal", Input{}},
		{"both principal and price", Input{Principal: ptr(100.0), VehiclePrice: ptr(200.0)}},
		{"zero principal", Input{Principal: ptr(0.0)}},
		{"above maximum", Input{Principal: ptr(5_000_001.0)}},
		{"negative rate", Input{Principal: ptr(100.0), AnnualRatePercent: ptr(-1.0)}},
		{"rate above 100", Input{Principal: ptr(100.0), AnnualRatePercent: ptr(100.5)}},
		{"zero term", Input{Principal: ptr(100.0), TermMonths: ptr(0)}},
		{"term too long", Input{Principal: ptr(100.0), TermMonths: ptr(361)}},
		{"down payment covers price", Input{VehiclePrice: ptr(1000.0), DownPayment: 1000}},
		{"negative down payment", Input{VehiclePrice: ptr(1000.0), DownPayment: -5}},
		{"non-finite price", Input{VehiclePrice: ptr(math.Inf(1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Calculate(context.Background(), tt.in)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("Calculate() error = %v, want validation error", err)
			}
		})
	}
}

func TestCalculateUsesCache(t *testing.T) {
	svc, mr := newService(t, nil)
	ctx := context.Background()

	key := repository.QuoteKey(50_000, 10, 60)
	seeded := calculator.Quote{MonthlyPayment: 1, TotalPayment: 60, TotalInterest: -49_940}
	if err := svc.cache.Set(ctx, key, seeded); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	got, err := svc.Calculate(ctx, Input{Principal: ptr(50_000.0)})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got.MonthlyPayment != 1 {
		t.Errorf("MonthlyPayment = %v, want cached value 1", got.MonthlyPayment)
	}

	mr.FlushAll()
	got, err = svc.Calculate(ctx, Input{Principal: ptr(50_000.0)})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got.MonthlyPayment == 1 {
		t.Error("expected freshly computed quote after flush")
	}
	if !mr.Exists(key) {
		t.Error("expected computed quote to be cached")
	}
}

func TestCalculateSurvivesCacheOutage(t *testing.T) {
	svc, mr := newService(t, nil)
	mr.Close()

	got, err := svc.Calculate(context.Background(), Input{
		Principal:         ptr(12000.0),
		AnnualRatePercent: ptr(0.0),
		TermMonths:        ptr(12),
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got.MonthlyPayment != 1000 {
		t.Errorf("MonthlyPayment = %v, want 1000", got.MonthlyPayment)
	}
}

func TestQuoteForListing(t *testing.T) {
	id := uuid.New()
	svc, _ := newService(t, fakePrices{id: 15000})

	got, err := svc.QuoteForListing(context.Background(), id, transport.ListingQuoteQuery{
		DownPayment:       3000,
		AnnualRatePercent: ptr(0.0),
		TermMonths:        ptr(12),
	})
	if err != nil {
		t.Fatalf("QuoteForListing() error = %v", err)
	}
	if got.Principal != 12000 || got.MonthlyPayment != 1000 {
		t.Errorf("quote = %+v", got)
	}

	_, err = svc.QuoteForListing(context.Background(), uuid.New(), transport.ListingQuoteQuery{})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown listing error = %v, want not found", err)
	}
}
