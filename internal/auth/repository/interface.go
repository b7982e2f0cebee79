package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserReader is the read side other modules depend on through adapters.
type UserReader interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	GetUsersByIDs(ctx context.Context, userIDs []uuid.UUID) ([]User, error)
}

// AuthRepository defines the data operations of the auth service.
type AuthRepository interface {
	UserReader

	// User operations
	CreateUser(ctx context.Context, email, passwordHash string, roles []string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	MarkEmailVerified(ctx context.Context, userID uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, user User) (User, error)
	ListUsers(ctx context.Context) ([]UserWithRoles, error)

	// Token operations
	CreateUserToken(ctx context.Context, userID uuid.UUID, tokenHash string, tokenType string, expiresAt time.Time) error
	GetUserToken(ctx context.Context, tokenHash string, tokenType string) (uuid.UUID, time.Time, error)
	UseUserToken(ctx context.Context, tokenHash string, tokenType string) error

	// Refresh token operations
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ConsumeRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error

	// Role operations
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error
}

var _ AuthRepository = (*Repository)(nil)
