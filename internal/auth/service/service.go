package service

import (
	"context"
	"strings"
	"time"

	"motormarket_backend/internal/auth/account"
	"motormarket_backend/internal/auth/password"
	"motormarket_backend/internal/auth/repository"
	"motormarket_backend/internal/auth/token"
	"motormarket_backend/internal/events"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/config"
	"motormarket_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"

	verifyTokenBytes  = 32
	resetTokenBytes   = 32
	refreshTokenBytes = 48
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgEmailNotVerified   = "email not verified"
	msgTokenInvalid       = "token invalid"
	msgTokenExpired       = "token expired"
)

// Tokens is the pair issued on sign-in and refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	repo     repository.AuthRepository
	cfg      config.AuthServiceConfig
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, eventBus: eventBus, log: log, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignUp(ctx context.Context, email, plainPassword string) (uuid.UUID, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return uuid.Nil, err
	}

	user, err := s.repo.CreateUser(ctx, normalizeEmail(email), hash, []string{account.RoleUser})
	if err != nil {
		return uuid.Nil, err
	}

	verifyToken, err := s.issueUserToken(ctx, user.ID, repository.TokenTypeEmailVerify, s.cfg.GetVerifyTokenTTL(), verifyTokenBytes)
	if err != nil {
		return uuid.Nil, err
	}

	s.eventBus.Publish(ctx, events.UserSignedUp{
		BaseEvent:   events.NewBaseEvent(),
		UserID:      user.ID,
		Email:       user.Email,
		VerifyToken: verifyToken,
	})

	s.log.AuthEvent("sign_up", user.Email, true, "")
	return user.ID, nil
}

func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (Tokens, error) {
	email = normalizeEmail(email)
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.AuthEvent("sign_in", email, false, "unknown email")
			return Tokens{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return Tokens{}, err
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", email, false, "bad password")
		return Tokens{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !user.EmailVerified {
		return Tokens{}, apperr.Forbidden(msgEmailNotVerified)
	}

	s.log.AuthEvent("sign_in", email, true, "")
	return s.issueTokens(ctx, user.ID)
}

// Refresh rotates the refresh token: the presented token is consumed and a
// new pair is issued. Concurrent refreshes with the same token yield one pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	userID, expiresAt, err := s.repo.ConsumeRefreshToken(ctx, token.HashSHA256(refreshToken))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Tokens{}, apperr.Unauthorized(msgTokenInvalid)
		}
		return Tokens{}, err
	}

	if s.now().After(expiresAt) {
		return Tokens{}, apperr.Unauthorized(msgTokenExpired)
	}

	return s.issueTokens(ctx, userID)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// ForgotPassword never reveals whether the account exists.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}

	resetToken, err := s.issueUserToken(ctx, user.ID, repository.TokenTypePasswordReset, s.cfg.GetResetTokenTTL(), resetTokenBytes)
	if err != nil {
		return err
	}

	s.eventBus.Publish(ctx, events.PasswordResetRequested{
		BaseEvent:  events.NewBaseEvent(),
		UserID:     user.ID,
		Email:      user.Email,
		ResetToken: resetToken,
	})
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	hash := token.HashSHA256(rawToken)
	userID, err := s.consumeUserToken(ctx, hash, repository.TokenTypePasswordReset)
	if err != nil {
		return err
	}

	passwordHash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return err
	}

	if err := s.repo.UseUserToken(ctx, hash, repository.TokenTypePasswordReset); err != nil {
		return err
	}
	return s.repo.RevokeAllRefreshTokens(ctx, userID)
}

func (s *Service) VerifyEmail(ctx context.Context, rawToken string) error {
	hash := token.HashSHA256(rawToken)
	userID, err := s.consumeUserToken(ctx, hash, repository.TokenTypeEmailVerify)
	if err != nil {
		return err
	}

	if err := s.repo.MarkEmailVerified(ctx, userID); err != nil {
		return err
	}
	return s.repo.UseUserToken(ctx, hash, repository.TokenTypeEmailVerify)
}

// ResendVerification issues a fresh verification token for unverified accounts.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.requestVerification(ctx, user)
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (account.Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return account.Profile{}, err
	}
	roles, err := s.repo.GetUserRoles(ctx, userID)
	if err != nil {
		return account.Profile{}, err
	}
	return toProfile(user, roles), nil
}

// UpdateMe merges patch onto the stored profile. Changing the email resets
// verification and sends a new link.
func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (account.Profile, error) {
	current, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return account.Profile{}, err
	}

	merged, emailChanged, err := MergeProfile(current, patch)
	if err != nil {
		return account.Profile{}, err
	}

	updated, err := s.repo.UpdateProfile(ctx, merged)
	if err != nil {
		return account.Profile{}, err
	}

	if emailChanged {
		if err := s.requestVerification(ctx, updated); err != nil {
			return account.Profile{}, err
		}
	}

	roles, err := s.repo.GetUserRoles(ctx, userID)
	if err != nil {
		return account.Profile{}, err
	}
	s.log.Info("profile updated", "userId", userID, "emailChanged", emailChanged)
	return toProfile(updated, roles), nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := password.Compare(user.PasswordHash, currentPassword); err != nil {
		return apperr.Validation("current password is incorrect")
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	return s.repo.RevokeAllRefreshTokens(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context) ([]repository.UserWithRoles, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	if err := s.repo.SetUserRoles(ctx, userID, roles); err != nil {
		return err
	}
	s.log.Info("user roles updated", "userId", userID, "roles", roles)
	return nil
}

func (s *Service) requestVerification(ctx context.Context, user repository.User) error {
	verifyToken, err := s.issueUserToken(ctx, user.ID, repository.TokenTypeEmailVerify, s.cfg.GetVerifyTokenTTL(), verifyTokenBytes)
	if err != nil {
		return err
	}
	s.eventBus.Publish(ctx, events.EmailVerificationRequested{
		BaseEvent:   events.NewBaseEvent(),
		UserID:      user.ID,
		Email:       user.Email,
		VerifyToken: verifyToken,
	})
	return nil
}

func (s *Service) issueUserToken(ctx context.Context, userID uuid.UUID, tokenType string, ttl time.Duration, size int) (string, error) {
	raw, err := token.GenerateRandomToken(size)
	if err != nil {
		return "", err
	}
	expiresAt := s.now().Add(ttl)
	if err := s.repo.CreateUserToken(ctx, userID, token.HashSHA256(raw), tokenType, expiresAt); err != nil {
		return "", err
	}
	return raw, nil
}

func (s *Service) consumeUserToken(ctx context.Context, hash, tokenType string) (uuid.UUID, error) {
	userID, expiresAt, err := s.repo.GetUserToken(ctx, hash, tokenType)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return uuid.Nil, apperr.BadRequest(msgTokenInvalid)
		}
		return uuid.Nil, err
	}
	if s.now().After(expiresAt) {
		return uuid.Nil, apperr.BadRequest(msgTokenExpired)
	}
	return userID, nil
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID) (Tokens, error) {
	roles, err := s.repo.GetUserRoles(ctx, userID)
	if err != nil {
		return Tokens{}, err
	}

	accessToken, err := s.signJWT(userID, roles, s.cfg.GetAccessTokenTTL(), accessTokenType, s.cfg.GetJWTAccessSecret())
	if err != nil {
		return Tokens{}, err
	}

	refreshToken, err := token.GenerateRandomToken(refreshTokenBytes)
	if err != nil {
		return Tokens{}, err
	}

	expiresAt := s.now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, userID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return Tokens{}, err
	}

	return Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string, ttl time.Duration, tokenType, secret string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  tokenType,
		"roles": roles,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(secret))
}

func toProfile(user repository.User, roles []string) account.Profile {
	return account.Profile{
		ID:            user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Phone:         user.Phone,
		Roles:         roles,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
