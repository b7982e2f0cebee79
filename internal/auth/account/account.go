// Package account is the public contract of the auth bounded context.
// Other domains import these types instead of auth internals.
package account

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role names stored in the roles table.
const (
	RoleUser   = "user"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Profile represents user information that can be shared with other domains.
type Profile struct {
	ID            uuid.UUID
	Email         string
	EmailVerified bool
	FirstName     *string
	LastName      *string
	Phone         *string
	Roles         []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DisplayName returns "First Last" when known, otherwise the email.
func (p Profile) DisplayName() string {
	name := ""
	if p.FirstName != nil {
		name = *p.FirstName
	}
	if p.LastName != nil && *p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += *p.LastName
	}
	if name == "" {
		return p.Email
	}
	return name
}

// UserProvider is an interface that other domains can use to get user information.
type UserProvider interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (Profile, error)
	GetUsersByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]Profile, error)
}
