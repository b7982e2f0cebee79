// Package reviews lets buyers rate listings.
package reviews

import (
	"motormarket_backend/internal/auth/account"
	"motormarket_backend/internal/events"
	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/internal/reviews/handler"
	"motormarket_backend/internal/reviews/repository"
	"motormarket_backend/internal/reviews/service"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, listings service.ListingReader, users account.UserProvider, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), listings, users, eventBus, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "reviews"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/listings/:id/reviews", m.handler.List)
	ctx.Protected.POST("/listings/:id/reviews", m.handler.Create)
	ctx.Protected.DELETE("/reviews/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
