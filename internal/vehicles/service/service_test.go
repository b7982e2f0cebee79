package service

import (
	"context"
	"testing"
	"time"

	"motormarket_backend/internal/vehicles/repository"
	"motormarket_backend/internal/vehicles/transport"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/validator"

	"github.com/google/uuid"
)

func TestIsValidVIN(t *testing.T) {
	tests := []struct {
		vin  string
		want bool
	}{
		{"1HGCM82633A004352", true},
		{"1hgcm82633a004352", true},
		{"1HG-CM826 33A004352", true},
		{"1HGCM82633A00435", false},
		{"1HGCM82633A0043521", false},
		{"1HGCM82633A0O4352", false},
		{"1HGCM82633A00435!", false},
	}
	for _, tt := range tests {
		if got := IsValidVIN(tt.vin); got != tt.want {
			t.Errorf("IsValidVIN(%q) = %v, want %v", tt.vin, got, tt.want)
		}
	}
}

func TestVINTag(t *testing.T) {
	val := validator.New()
	if err := RegisterValidators(val); err != nil {
		t.Fatal(err)
	}
	if err := val.Var("1HGCM82633A004352", TagVIN); err != nil {
		t.Errorf("valid VIN rejected: %v", err)
	}
	if err := val.Var("NOT-A-VIN", TagVIN); err == nil {
		t.Error("invalid VIN accepted")
	}
}

type memRepo struct {
	vehicles map[uuid.UUID]repository.Vehicle
}

func newMemRepo() *memRepo {
	return &memRepo{vehicles: make(map[uuid.UUID]repository.Vehicle)}
}

func (m *memRepo) Create(_ context.Context, v repository.Vehicle) (repository.Vehicle, error) {
	if v.VIN != nil {
		for _, existing := range m.vehicles {
			if existing.VIN != nil && *existing.VIN == *v.VIN {
				return repository.Vehicle{}, apperr.Conflict("a vehicle with this VIN is already registered")
			}
		}
	}
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	m.vehicles[v.ID] = v
	return v, nil
}

func (m *memRepo) Update(_ context.Context, v repository.Vehicle) (repository.Vehicle, error) {
	if _, ok := m.vehicles[v.ID]; !ok {
		return repository.Vehicle{}, apperr.NotFound("vehicle not found")
	}
	m.vehicles[v.ID] = v
	return v, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.vehicles[id]; !ok {
		return apperr.NotFound("vehicle not found")
	}
	delete(m.vehicles, id)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return repository.Vehicle{}, apperr.NotFound("vehicle not found")
	}
	return v, nil
}

func (m *memRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]repository.Vehicle, error) {
	var out []repository.Vehicle
	for _, v := range m.vehicles {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func TestCreateNormalisesIdentifiers(t *testing.T) {
	svc := New(newMemRepo(), logger.Nop())
	owner := uuid.New()

	got, err := svc.Create(context.Background(), owner, transport.CreateVehicleRequest{
		Make:         "Volkswagen",
		Model:        "Golf",
		Year:         2018,
		VIN:          strPtr("wvw-zzz1kz 8w000001"),
		LicensePlate: strPtr(" ab-123-c "),
		Mileage:      84000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.VIN == nil || *got.VIN != "WVWZZZ1KZ8W000001" {
		t.Errorf("VIN = %v", got.VIN)
	}
	if got.LicensePlate == nil || *got.LicensePlate != "AB-123-C" {
		t.Errorf("LicensePlate = %v", got.LicensePlate)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	svc := New(newMemRepo(), logger.Nop())
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, owner, transport.CreateVehicleRequest{Make: "Toyota", Model: "Yaris", Year: 2020})
	if err != nil {
		t.Fatal(err)
	}
	id := uuid.MustParse(created.ID)

	if _, err := svc.Get(ctx, stranger, id); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Get() by stranger error = %v, want not found", err)
	}
	if err := svc.Delete(ctx, stranger, id); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Delete() by stranger error = %v, want not found", err)
	}

	mileage := 12000
	updated, err := svc.Update(ctx, owner, id, transport.UpdateVehicleRequest{Mileage: &mileage, LicensePlate: strPtr("")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Mileage != 12000 || updated.LicensePlate != nil || updated.Model != "Yaris" {
		t.Errorf("Update() = %+v", updated)
	}

	if err := svc.Delete(ctx, owner, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestCreateLimit(t *testing.T) {
	svc := New(newMemRepo(), logger.Nop())
	ctx := context.Background()
	owner := uuid.New()

	for i := 0; i < maxVehiclesPerOwner; i++ {
		if _, err := svc.Create(ctx, owner, transport.CreateVehicleRequest{Make: "Ford", Model: "Fiesta", Year: 2015}); err != nil {
			t.Fatal(err)
		}
	}
	_, err := svc.Create(ctx, owner, transport.CreateVehicleRequest{Make: "Ford", Model: "Focus", Year: 2016})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Create() over limit error = %v, want validation", err)
	}
}
