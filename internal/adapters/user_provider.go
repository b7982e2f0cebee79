// Package adapters connects bounded contexts through the narrow interfaces
// each consumer declares, so modules never import each other's internals.
package adapters

import (
	"context"

	"motormarket_backend/internal/auth/account"
	"motormarket_backend/internal/auth/repository"

	"github.com/google/uuid"
)

// UserProvider implements account.UserProvider over the auth repository.
type UserProvider struct {
	repo repository.UserReader
}

func NewUserProvider(repo repository.UserReader) *UserProvider {
	return &UserProvider{repo: repo}
}

func (a *UserProvider) GetUserByID(ctx context.Context, userID uuid.UUID) (account.Profile, error) {
	user, err := a.repo.GetUserByID(ctx, userID)
	if err != nil {
		return account.Profile{}, err
	}
	return toProfile(user), nil
}

func (a *UserProvider) GetUsersByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]account.Profile, error) {
	users, err := a.repo.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]account.Profile, len(users))
	for _, u := range users {
		out[u.ID] = toProfile(u)
	}
	return out, nil
}

func toProfile(u repository.User) account.Profile {
	return account.Profile{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

var _ account.UserProvider = (*UserProvider)(nil)
