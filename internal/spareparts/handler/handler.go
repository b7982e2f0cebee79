package handler

import (
	"net/http"

	"motormarket_backend/internal/spareparts/service"
	"motormarket_backend/internal/spareparts/transport"
	"motormarket_backend/platform/filter"
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
	msgInvalidID        = "invalid spare part id"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GET /api/v1/spare-parts?category=brakes&price[max]=200&inStock=true
func (h *Handler) List(c *gin.Context) {
	page, criteria, ok := h.bindQuery(c)
	if !ok {
		return
	}

	result, err := h.svc.Search(c.Request.Context(), criteria, page, nil)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/spare-parts/search
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchPartsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	page := service.Page{Page: req.Page, PageSize: req.PageSize, SortBy: req.SortBy, SortOrder: req.SortOrder}
	result, err := h.svc.Search(c.Request.Context(), filter.Criteria(req.Criteria), page, nil)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/users/me/spare-parts
func (h *Handler) ListMine(c *gin.Context) {
	sellerID := httpkit.MustGetIdentity(c).UserID()
	page, criteria, ok := h.bindQuery(c)
	if !ok {
		return
	}

	result, err := h.svc.Search(c.Request.Context(), criteria, page, &sellerID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/spare-parts/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/spare-parts
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Create(c.Request.Context(), httpkit.MustGetIdentity(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// PATCH /api/v1/spare-parts/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, httpkit.MustGetIdentity(c), service.PartPatch{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Brand:          req.Brand,
		PartNumber:     req.PartNumber,
		CompatibleMake: req.CompatibleMake,
		Condition:      req.Condition,
		Price:          req.Price,
		StockQuantity:  req.StockQuantity,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DELETE /api/v1/spare-parts/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id, httpkit.MustGetIdentity(c))) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) bindQuery(c *gin.Context) (service.Page, filter.Criteria, bool) {
	var q transport.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return service.Page{}, nil, false
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return service.Page{}, nil, false
	}
	criteria := filter.CriteriaFromQuery(c.Request.URL.Query(), transport.PageQueryKeys...)
	return service.Page{Page: q.Page, PageSize: q.PageSize, SortBy: q.SortBy, SortOrder: q.SortOrder}, criteria, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
