package handler

import (
	"net/http"
	"time"

	"motormarket_backend/internal/auth/account"
	"motormarket_backend/internal/auth/service"
	"motormarket_backend/internal/auth/transport"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/config"
	"motormarket_backend/platform/httpkit"
	"motormarket_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	cfg config.CookieConfig
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, cfg config.CookieConfig, val *validator.Validator) *Handler {
	return &Handler{svc: svc, cfg: cfg, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sign-up", h.SignUp)
	rg.POST("/sign-in", h.SignIn)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/sign-out", h.SignOut)
	rg.POST("/forgot-password", h.ForgotPassword)
	rg.POST("/reset-password", h.ResetPassword)
	rg.POST("/verify-email", h.VerifyEmail)
	rg.POST("/resend-verification", h.ResendVerification)
}

// bind decodes the JSON body into req and validates it, writing the error
// response itself when either step fails.
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
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

// POST /api/v1/auth/sign-up
func (h *Handler) SignUp(c *gin.Context) {
	var req transport.SignUpRequest
	if !h.bind(c, &req) {
		return
	}

	if _, err := h.svc.SignUp(c.Request.Context(), req.Email, req.Password); httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.MessageResponse{Message: "account created"})
}

// POST /api/v1/auth/sign-in
func (h *Handler) SignIn(c *gin.Context) {
	var req transport.SignInRequest
	if !h.bind(c, &req) {
		return
	}

	tokens, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	httpkit.OK(c, transport.AuthResponse{AccessToken: tokens.AccessToken})
}

// POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(h.cfg.GetRefreshCookieName())
	if err != nil || refreshToken == "" {
		httpkit.HandleError(c, apperr.Unauthorized("token invalid"))
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		httpkit.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	httpkit.OK(c, transport.AuthResponse{AccessToken: tokens.AccessToken})
}

// POST /api/v1/auth/sign-out
func (h *Handler) SignOut(c *gin.Context) {
	if refreshToken, err := c.Cookie(h.cfg.GetRefreshCookieName()); err == nil && refreshToken != "" {
		if httpkit.HandleError(c, h.svc.SignOut(c.Request.Context(), refreshToken)) {
			return
		}
	}

	h.clearRefreshCookie(c)
	httpkit.OK(c, transport.MessageResponse{Message: "signed out"})
}

// POST /api/v1/auth/forgot-password
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req transport.ForgotPasswordRequest
	if !h.bind(c, &req) {
		return
	}

	if httpkit.HandleError(c, h.svc.ForgotPassword(c.Request.Context(), req.Email)) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "if the account exists, a reset link will be sent"})
}

// POST /api/v1/auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var req transport.ResetPasswordRequest
	if !h.bind(c, &req) {
		return
	}

	if httpkit.HandleError(c, h.svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "password reset"})
}

// POST /api/v1/auth/verify-email
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req transport.VerifyEmailRequest
	if !h.bind(c, &req) {
		return
	}

	if httpkit.HandleError(c, h.svc.VerifyEmail(c.Request.Context(), req.Token)) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "email verified"})
}

// POST /api/v1/auth/resend-verification
func (h *Handler) ResendVerification(c *gin.Context) {
	var req transport.ResendVerificationRequest
	if !h.bind(c, &req) {
		return
	}

	if httpkit.HandleError(c, h.svc.ResendVerification(c.Request.Context(), req.Email)) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "if the account needs verification, a link will be sent"})
}

// GET /api/v1/users/me
func (h *Handler) GetMe(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)

	profile, err := h.svc.GetMe(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toProfileResponse(profile))
}

// PATCH /api/v1/users/me
func (h *Handler) UpdateMe(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)

	var req transport.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}

	profile, err := h.svc.UpdateMe(c.Request.Context(), id.UserID(), service.ProfilePatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toProfileResponse(profile))
}

// POST /api/v1/users/me/password
func (h *Handler) ChangePassword(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)

	var req transport.ChangePasswordRequest
	if !h.bind(c, &req) {
		return
	}

	if httpkit.HandleError(c, h.svc.ChangePassword(c.Request.Context(), id.UserID(), req.CurrentPassword, req.NewPassword)) {
		return
	}
	h.clearRefreshCookie(c)
	httpkit.OK(c, transport.MessageResponse{Message: "password updated"})
}

// GET /api/v1/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.UserSummaryResponse, 0, len(users))
	for _, u := range users {
		out = append(out, transport.UserSummaryResponse{
			ID:            u.ID.String(),
			Email:         u.Email,
			EmailVerified: u.EmailVerified,
			FirstName:     u.FirstName,
			LastName:      u.LastName,
			Roles:         u.Roles,
		})
	}
	httpkit.OK(c, out)
}

// PUT /api/v1/admin/users/:id/roles
func (h *Handler) SetUserRoles(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.RoleUpdateRequest
	if !h.bind(c, &req) {
		return
	}

	if httpkit.HandleError(c, h.svc.SetUserRoles(c.Request.Context(), userID, req.Roles)) {
		return
	}
	httpkit.OK(c, transport.RoleUpdateResponse{UserID: userID.String(), Roles: req.Roles})
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string) {
	maxAge := int(h.cfg.GetRefreshTokenTTL() / time.Second)
	c.SetSameSite(h.cfg.GetRefreshCookieSameSite())
	c.SetCookie(
		h.cfg.GetRefreshCookieName(),
		value,
		maxAge,
		h.cfg.GetRefreshCookiePath(),
		h.cfg.GetRefreshCookieDomain(),
		h.cfg.GetRefreshCookieSecure(),
		true,
	)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.cfg.GetRefreshCookieSameSite())
	c.SetCookie(
		h.cfg.GetRefreshCookieName(),
		"",
		-1,
		h.cfg.GetRefreshCookiePath(),
		h.cfg.GetRefreshCookieDomain(),
		h.cfg.GetRefreshCookieSecure(),
		true,
	)
}

func toProfileResponse(p account.Profile) transport.ProfileResponse {
	roles := p.Roles
	if roles == nil {
		roles = []string{}
	}
	return transport.ProfileResponse{
		ID:            p.ID.String(),
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		Roles:         roles,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
