package validator

import (
	"testing"

	platformvalidator "motormarket_backend/platform/validator"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abcdef1!", true},
		{"abcdef1!", false},
		{"ABCDEF1!", false},
		{"Abcdefg!", false},
		{"Abcdefg1", false},
		{"Ab1!", false},
	}
	for _, tt := range tests {
		if got := IsStrongPassword(tt.password); got != tt.want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

func TestRegisterAddsTag(t *testing.T) {
	val := platformvalidator.New()
	if err := Register(val); err != nil {
		t.Fatal(err)
	}
	type req struct {
		Password string `json:"password" validate:"required,strongpassword"`
	}
	if err := val.Struct(req{Password: "weak"}); err == nil {
		t.Fatal("expected weak password to fail")
	}
	if err := val.Struct(req{Password: "Str0ng#Pass"}); err != nil {
		t.Fatalf("strong password rejected: %v", err)
	}
}
