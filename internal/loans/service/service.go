package service

import (
	"context"
	"math"

	"motormarket_backend/internal/loans/calculator"
	"motormarket_backend/internal/loans/repository"
	"motormarket_backend/internal/loans/transport"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/config"
	"motormarket_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	minTermMonths = 1
	maxTermMonths = 360
	maxRate       = 100
)

// ListingPriceReader resolves the asking price of a listing.
type ListingPriceReader interface {
	GetPrice(ctx context.Context, listingID uuid.UUID) (float64, error)
}

// Service validates loan inputs and computes quotes.
type Service struct {
	cfg    config.LoanConfig
	cache  repository.QuoteCache
	prices ListingPriceReader
	log    *logger.Logger
}

func New(cfg config.LoanConfig, cache repository.QuoteCache, prices ListingPriceReader, log *logger.Logger) *Service {
	if cache == nil {
		cache = repository.NoopQuoteCache{}
	}
	return &Service{cfg: cfg, cache: cache, prices: prices, log: log}
}

// Input is a loan request before defaults are applied.
type Input struct {
	Principal         *float64
	VehiclePrice      *float64
	DownPayment       float64
	AnnualRatePercent *float64
	TermMonths        *int
	IncludeSchedule   bool
}

// Calculate validates in and returns the quote.
func (s *Service) Calculate(ctx context.Context, in Input) (transport.QuoteResponse, error) {
	principal, err := s.resolvePrincipal(in)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	rate := s.cfg.GetLoanDefaultRatePercent()
	if in.AnnualRatePercent != nil {
		rate = *in.AnnualRatePercent
	}
	term := s.cfg.GetLoanDefaultTermMonths()
	if in.TermMonths != nil {
		term = *in.TermMonths
	}

	if err := s.validate(principal, rate, term); err != nil {
		return transport.QuoteResponse{}, err
	}

	quote := s.quote(ctx, principal, rate, term)
	resp := transport.QuoteResponse{
		Principal:         principal,
		AnnualRatePercent: rate,
		TermMonths:        term,
		MonthlyPayment:    quote.MonthlyPayment,
		TotalPayment:      quote.TotalPayment,
		TotalInterest:     quote.TotalInterest,
	}
	if in.IncludeSchedule {
		resp.Schedule = toSchedule(calculator.Schedule(principal, rate, term))
	}
	return resp, nil
}

// QuoteForListing finances a listing's asking price minus the down payment.
func (s *Service) QuoteForListing(ctx context.Context, listingID uuid.UUID, q transport.ListingQuoteQuery) (transport.QuoteResponse, error) {
	price, err := s.prices.GetPrice(ctx, listingID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return s.Calculate(ctx, Input{
		VehiclePrice:      &price,
		DownPayment:       q.DownPayment,
		AnnualRatePercent: q.AnnualRatePercent,
		TermMonths:        q.TermMonths,
		IncludeSchedule:   q.IncludeSchedule,
	})
}

func (s *Service) resolvePrincipal(in Input) (float64, error) {
	switch {
	case in.Principal != nil && in.VehiclePrice != nil:
		return 0, apperr.Validation("provide either principal or vehiclePrice, not both")
	case in.Principal != nil:
		return *in.Principal, nil
	case in.VehiclePrice != nil:
		if !isFinite(*in.VehiclePrice) || *in.VehiclePrice <= 0 {
			return 0, invalidField("vehiclePrice", "vehicle price must be greater than zero")
		}
		if in.DownPayment < 0 || !isFinite(in.DownPayment) {
			return 0, invalidField("downPayment", "down payment must be a non-negative number")
		}
		if in.DownPayment >= *in.VehiclePrice {
			return 0, invalidField("downPayment", "down payment must be less than the vehicle price")
		}
		return calculator.Round2(*in.VehiclePrice - in.DownPayment), nil
	default:
		return 0, apperr.Validation("principal or vehiclePrice is required")
	}
}

func (s *Service) validate(principal, rate float64, term int) error {
	if !isFinite(principal) || principal <= 0 {
		return invalidField("principal", "principal must be greater than zero")
	}
	if max := s.cfg.GetLoanMaxPrincipal(); max > 0 && principal > max {
		return apperr.Validationf("principal must not exceed %s", decimal.NewFromFloat(max).StringFixed(2)).
			WithDetails(map[string]string{"field": "principal"})
	}
	if !isFinite(rate) || rate < 0 || rate > maxRate {
		return invalidField("annualRatePercent", "annual rate must be between 0 and 100")
	}
	if term < minTermMonths || term > maxTermMonths {
		return invalidField("termMonths", "term must be between 1 and 360 months")
	}
	return nil
}

// quote consults the cache first. Cache failures are logged and the quote
// is computed directly.
func (s *Service) quote(ctx context.Context, principal, rate float64, term int) calculator.Quote {
	key := repository.QuoteKey(principal, rate, term)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("loan quote cache read failed", "error", err)
	}
	if ok {
		return cached
	}

	quote := calculator.Calculate(principal, rate, term)
	if err := s.cache.Set(ctx, key, quote); err != nil {
		s.log.Warn("loan quote cache write failed", "error", err)
	}
	return quote
}

func invalidField(field, message string) error {
	return apperr.Validation(message).WithDetails(map[string]string{"field": field})
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func toSchedule(rows []calculator.Installment) []transport.InstallmentResponse {
	out := make([]transport.InstallmentResponse, len(rows))
	for i, r := range rows {
		out[i] = transport.InstallmentResponse{
			Period:    r.Period,
			Payment:   r.Payment,
			Principal: r.Principal,
			Interest:  r.Interest,
			Balance:   r.Balance,
		}
	}
	return out
}
