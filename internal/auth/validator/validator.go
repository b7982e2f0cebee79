// Package validator registers the auth-specific validation rules.
package validator

import (
	"unicode"

	platformvalidator "motormarket_backend/platform/validator"

	"github.com/go-playground/validator/v10"
)

// TagStrongPassword is the struct tag for password complexity.
const TagStrongPassword = "strongpassword"

// PasswordPolicy describes the password requirements for API error messages.
const PasswordPolicy = "Password must be at least 8 characters and include: uppercase letter, lowercase letter, number, and special character"

// Register adds the auth rules to val.
func Register(val *platformvalidator.Validator) error {
	return val.RegisterValidation(TagStrongPassword, validateStrongPassword)
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword requires 8+ characters with upper, lower, digit and symbol.
func IsStrongPassword(password string) bool {
	if len([]rune(password)) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
