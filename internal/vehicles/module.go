// Package vehicles lets users keep a garage of their own cars for service bookings.
package vehicles

import (
	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/internal/vehicles/handler"
	"motormarket_backend/internal/vehicles/repository"
	"motormarket_backend/internal/vehicles/service"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	if err := service.RegisterValidators(val); err != nil {
		log.Error("register vin validator", "error", err)
	}

	svc := service.New(repository.New(pool), log)
	return &Module{handler: handler.New(svc, val), service: svc}
}

func (m *Module) Name() string {
	return "vehicles"
}

// Service returns the service for adapters in other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/users/me/vehicles"))
}

var _ apphttp.Module = (*Module)(nil)
