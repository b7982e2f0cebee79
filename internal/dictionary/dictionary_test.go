package dictionary

import (
	"slices"
	"testing"

	"motormarket_backend/platform/validator"
)

func TestLoadEmbedded(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Contains(d.Makes, "Toyota") {
		t.Error("expected Toyota among makes")
	}
	if !slices.Contains(d.AppointmentKinds, "test_drive") {
		t.Error("expected test_drive among appointment kinds")
	}
}

func TestParseRejectsEmptyDictionary(t *testing.T) {
	if _, err := parse([]byte("makes: [Audi]\n")); err == nil {
		t.Fatal("expected error for missing dictionaries")
	}
	if _, err := parse([]byte("makes: [")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestRegisterValidators(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	val := validator.New()
	if err := d.RegisterValidators(val); err != nil {
		t.Fatalf("RegisterValidators() error = %v", err)
	}

	type listing struct {
		Make string `json:"make" validate:"required,vehiclemake"`
		Fuel string `json:"fuelType" validate:"fueltype"`
	}

	if err := val.Struct(listing{Make: "Toyota", Fuel: "hybrid"}); err != nil {
		t.Fatalf("valid listing rejected: %v", err)
	}
	if err := val.Struct(listing{Make: "Toyota"}); err != nil {
		t.Fatalf("empty optional value rejected: %v", err)
	}
	err = val.Struct(listing{Make: "Trabant"})
	if err == nil {
		t.Fatal("unknown make accepted")
	}
	if got := validator.FieldErrors(err); got["make"] == "" {
		t.Fatalf("field errors = %v, want make", got)
	}
}
