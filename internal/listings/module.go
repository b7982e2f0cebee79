// Package listings provides the vehicle listings bounded context module.
package listings

import (
	"motormarket_backend/internal/events"
	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/internal/listings/handler"
	"motormarket_backend/internal/listings/repository"
	"motormarket_backend/internal/listings/service"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the listings bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), eventBus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "listings"
}

// Service returns the service for adapters in other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/listings", m.handler.List)
	ctx.V1.POST("/listings/search", m.handler.Search)
	ctx.V1.GET("/listings/:id", m.handler.GetByID)

	ctx.Protected.GET("/users/me/listings", m.handler.ListMine)
	ctx.Protected.POST("/listings", m.handler.Create)
	ctx.Protected.PATCH("/listings/:id", m.handler.Update)
	ctx.Protected.PATCH("/listings/:id/status", m.handler.UpdateStatus)
	ctx.Protected.DELETE("/listings/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
