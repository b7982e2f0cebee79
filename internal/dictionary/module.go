package dictionary

import (
	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module serves the dictionaries over HTTP.
type Module struct {
	dict *Dictionaries
}

func NewModule(dict *Dictionaries) *Module {
	return &Module{dict: dict}
}

func (m *Module) Name() string {
	return "dictionary"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/dictionaries", m.list)
}

// GET /api/v1/dictionaries
func (m *Module) list(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	httpkit.OK(c, m.dict)
}

var _ apphttp.Module = (*Module)(nil)
