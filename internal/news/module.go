// Package news publishes marketplace news articles.
package news

import (
	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/internal/news/handler"
	"motormarket_backend/internal/news/repository"
	"motormarket_backend/internal/news/service"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "news"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/news", m.handler.List)
	ctx.V1.GET("/news/:slug", m.handler.Get)

	ctx.Admin.GET("/news", m.handler.AdminList)
	ctx.Admin.POST("/news", m.handler.Create)
	ctx.Admin.PATCH("/news/:id", m.handler.Update)
	ctx.Admin.PUT("/news/:id/published", m.handler.SetPublished)
	ctx.Admin.DELETE("/news/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
