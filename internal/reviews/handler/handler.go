package handler

import (
	"net/http"

	"motormarket_backend/internal/reviews/service"
	"motormarket_backend/internal/reviews/transport"
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
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GET /api/v1/listings/:id/reviews
func (h *Handler) List(c *gin.Context) {
	listingID, ok := parseUUID(c, "id", "invalid listing id")
	if !ok {
		return
	}
	var q transport.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.ListByListing(c.Request.Context(), listingID, q.Page, q.PageSize)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/listings/:id/reviews
func (h *Handler) Create(c *gin.Context) {
	listingID, ok := parseUUID(c, "id", "invalid listing id")
	if !ok {
		return
	}
	var req transport.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Create(c.Request.Context(), listingID, httpkit.MustGetIdentity(c).UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// DELETE /api/v1/reviews/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id", "invalid review id")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id, httpkit.MustGetIdentity(c))) {
		return
	}
	httpkit.NoContent(c)
}

func parseUUID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return uuid.Nil, false
	}
	return id, true
}
