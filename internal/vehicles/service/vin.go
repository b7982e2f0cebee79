package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagVIN validates a 17-character vehicle identification number.
const TagVIN = "vin"

// NormalizeVIN uppercases vin and removes spaces and dashes.
func NormalizeVIN(vin string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(vin)))
}

// IsValidVIN accepts 17 alphanumerics excluding I, O and Q.
func IsValidVIN(vin string) bool {
	vin = NormalizeVIN(vin)
	if len(vin) != 17 {
		return false
	}
	for _, r := range vin {
		switch {
		case r == 'I' || r == 'O' || r == 'Q':
			return false
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func validateVIN(fl validator.FieldLevel) bool {
	return IsValidVIN(fl.Field().String())
}
