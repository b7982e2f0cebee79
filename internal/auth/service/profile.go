package service

import (
	"strings"

	"motormarket_backend/internal/auth/repository"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/phone"
	"motormarket_backend/platform/sanitize"
)

// ProfilePatch is a partial profile update. Nil leaves a field unchanged;
// an empty string clears an optional field. Identity, verification state and
// timestamps are not patchable.
type ProfilePatch struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
}

// MergeProfile applies patch to user and reports whether the email changed.
func MergeProfile(user repository.User, patch ProfilePatch) (repository.User, bool, error) {
	emailChanged := false

	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return user, false, apperr.Validation("email cannot be empty")
		}
		if email != user.Email {
			user.Email = email
			user.EmailVerified = false
			emailChanged = true
		}
	}
	if patch.FirstName != nil {
		user.FirstName = optionalText(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = optionalText(*patch.LastName)
	}
	if patch.Phone != nil {
		raw := strings.TrimSpace(*patch.Phone)
		if raw == "" {
			user.Phone = nil
		} else {
			e164, err := phone.ToE164(raw, phone.DefaultRegion)
			if err != nil {
				return user, false, apperr.Validation("invalid phone number").WithDetails(map[string]string{"field": "phone"})
			}
			user.Phone = &e164
		}
	}

	return user, emailChanged, nil
}

func optionalText(value string) *string {
	cleaned := sanitize.Text(value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
