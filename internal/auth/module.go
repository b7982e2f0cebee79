// Package auth provides the authentication bounded context module.
package auth

import (
	"motormarket_backend/internal/auth/handler"
	"motormarket_backend/internal/auth/repository"
	"motormarket_backend/internal/auth/service"
	authvalidator "motormarket_backend/internal/auth/validator"
	"motormarket_backend/internal/events"
	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/platform/config"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleConfig is the configuration the auth module reads.
type ModuleConfig interface {
	config.AuthServiceConfig
	config.CookieConfig
}

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg ModuleConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	_ = authvalidator.Register(val)

	repo := repository.New(pool)
	svc := service.New(repo, cfg, eventBus, log)

	return &Module{
		handler: handler.New(svc, cfg, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Users exposes the read side of the user store for adapters.
func (m *Module) Users() repository.UserReader {
	return m.repo
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Protected.GET("/users/me", m.handler.GetMe)
	ctx.Protected.PATCH("/users/me", m.handler.UpdateMe)
	ctx.Protected.POST("/users/me/password", m.handler.ChangePassword)

	ctx.Admin.GET("/users", m.handler.ListUsers)
	ctx.Admin.PUT("/users/:id/roles", m.handler.SetUserRoles)
}

var _ apphttp.Module = (*Module)(nil)
