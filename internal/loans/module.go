// Package loans provides the loan calculator module.
package loans

import (
	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/internal/loans/handler"
	"motormarket_backend/internal/loans/repository"
	"motormarket_backend/internal/loans/service"
	"motormarket_backend/platform/config"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module is the loans module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the calculator. A nil redisClient disables quote caching.
func NewModule(cfg config.LoanConfig, redisClient *redis.Client, prices service.ListingPriceReader, val *validator.Validator, log *logger.Logger) *Module {
	var cache repository.QuoteCache = repository.NoopQuoteCache{}
	if redisClient != nil {
		cache = repository.NewRedisQuoteCache(redisClient, cfg.GetLoanQuoteCacheTTL())
	}

	svc := service.New(cfg, cache, prices, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "loans"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/loans/calculate", m.handler.Calculate)
	ctx.V1.GET("/listings/:id/loan-quote", m.handler.ListingQuote)
}

var _ apphttp.Module = (*Module)(nil)
