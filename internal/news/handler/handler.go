package handler

import (
	"net/http"

	"motormarket_backend/internal/news/service"
	"motormarket_backend/internal/news/transport"
	"motormarket_backend/platform/httpkit"
	"motormarket_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid article id"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GET /api/v1/news
func (h *Handler) List(c *gin.Context) {
	q, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.svc.ListPublished(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/news/:slug
func (h *Handler) Get(c *gin.Context) {
	result, err := h.svc.GetPublished(c.Request.Context(), c.Param("slug"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/admin/news
func (h *Handler) AdminList(c *gin.Context) {
	q, ok := h.bindList(c)
	if !ok {
		return
	}
	result, err := h.svc.ListAll(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/admin/news
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateArticleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.Create(c.Request.Context(), httpkit.MustGetIdentity(c).UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// PATCH /api/v1/admin/news/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateArticleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PUT /api/v1/admin/news/:id/published
func (h *Handler) SetPublished(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.PublishRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.SetPublished(c.Request.Context(), id, *req.Published)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DELETE /api/v1/admin/news/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func (h *Handler) bindList(c *gin.Context) (transport.ListQuery, bool) {
	var q transport.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return q, false
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return q, false
	}
	return q, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
