// Package appointments provides the appointments domain module.
package appointments

import (
	"motormarket_backend/internal/appointments/handler"
	"motormarket_backend/internal/appointments/repository"
	"motormarket_backend/internal/appointments/service"
	"motormarket_backend/internal/events"
	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the appointments domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new appointments module with all dependencies wired
func NewModule(pool *pgxpool.Pool, listings service.ListingReader, vehicles service.VehicleReader, eventBus events.Bus, reminders service.ReminderScheduler, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), listings, vehicles, eventBus, reminders, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "appointments"
}

// Service returns the service for adapters in other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/appointments"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/appointments"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
