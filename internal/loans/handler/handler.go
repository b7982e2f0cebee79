package handler

import (
	"net/http"

	"motormarket_backend/internal/loans/service"
	"motormarket_backend/internal/loans/transport"
	"motormarket_backend/platform/httpkit"
	"motormarket_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the loan calculator.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid listing id"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// POST /api/v1/loans/calculate
func (h *Handler) Calculate(c *gin.Context) {
	var req transport.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Calculate(c.Request.Context(), service.Input{
		Principal:         req.Principal,
		VehiclePrice:      req.VehiclePrice,
		DownPayment:       req.DownPayment,
		AnnualRatePercent: req.AnnualRatePercent,
		TermMonths:        req.TermMonths,
		IncludeSchedule:   req.IncludeSchedule,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/listings/:id/loan-quote
func (h *Handler) ListingQuote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var q transport.ListingQuoteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.QuoteForListing(c.Request.Context(), id, q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
