// Package spareparts provides the spare parts catalog module.
package spareparts

import (
	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/internal/spareparts/handler"
	"motormarket_backend/internal/spareparts/repository"
	"motormarket_backend/internal/spareparts/service"
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
	return "spareparts"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/spare-parts", m.handler.List)
	ctx.V1.POST("/spare-parts/search", m.handler.Search)
	ctx.V1.GET("/spare-parts/:id", m.handler.GetByID)

	ctx.Protected.GET("/users/me/spare-parts", m.handler.ListMine)
	ctx.Protected.POST("/spare-parts", m.handler.Create)
	ctx.Protected.PATCH("/spare-parts/:id", m.handler.Update)
	ctx.Protected.DELETE("/spare-parts/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
