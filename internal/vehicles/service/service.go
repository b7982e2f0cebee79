package service

import (
	"context"
	"strings"

	"motormarket_backend/internal/vehicles/repository"
	"motormarket_backend/internal/vehicles/transport"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/sanitize"
	"motormarket_backend/platform/validator"

	"github.com/google/uuid"
)

const maxVehiclesPerOwner = 20

type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// RegisterValidators adds the vin tag to val.
func RegisterValidators(val *validator.Validator) error {
	return val.RegisterValidation(TagVIN, validateVIN)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]transport.VehicleResponse, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.VehicleResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toResponse(v))
	}
	return out, nil
}

// Get returns a vehicle of ownerID. Vehicles of other users are reported as missing.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (transport.VehicleResponse, error) {
	v, err := s.loadOwned(ctx, ownerID, id)
	if err != nil {
		return transport.VehicleResponse{}, err
	}
	return toResponse(v), nil
}

// Owned returns the stored vehicle for other modules.
func (s *Service) Owned(ctx context.Context, ownerID, id uuid.UUID) (repository.Vehicle, error) {
	return s.loadOwned(ctx, ownerID, id)
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req transport.CreateVehicleRequest) (transport.VehicleResponse, error) {
	existing, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return transport.VehicleResponse{}, err
	}
	if len(existing) >= maxVehiclesPerOwner {
		return transport.VehicleResponse{}, apperr.Validationf("a user can register at most %d vehicles", maxVehiclesPerOwner)
	}

	v, err := s.repo.Create(ctx, repository.Vehicle{
		OwnerID:      ownerID,
		Make:         req.Make,
		Model:        sanitize.Text(req.Model),
		Year:         req.Year,
		VIN:          vinPtr(req.VIN),
		LicensePlate: platePtr(req.LicensePlate),
		Mileage:      req.Mileage,
	})
	if err != nil {
		return transport.VehicleResponse{}, err
	}
	s.log.Info("vehicle registered", "id", v.ID, "ownerId", ownerID)
	return toResponse(v), nil
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req transport.UpdateVehicleRequest) (transport.VehicleResponse, error) {
	v, err := s.loadOwned(ctx, ownerID, id)
	if err != nil {
		return transport.VehicleResponse{}, err
	}

	if req.Make != nil {
		v.Make = *req.Make
	}
	if req.Model != nil {
		v.Model = sanitize.Text(*req.Model)
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.VIN != nil {
		v.VIN = vinPtr(req.VIN)
	}
	if req.LicensePlate != nil {
		v.LicensePlate = platePtr(req.LicensePlate)
	}
	if req.Mileage != nil {
		v.Mileage = *req.Mileage
	}

	updated, err := s.repo.Update(ctx, v)
	if err != nil {
		return transport.VehicleResponse{}, err
	}
	s.log.Info("vehicle updated", "id", id)
	return toResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("vehicle deleted", "id", id)
	return nil
}

func (s *Service) loadOwned(ctx context.Context, ownerID, id uuid.UUID) (repository.Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Vehicle{}, err
	}
	if v.OwnerID != ownerID {
		return repository.Vehicle{}, apperr.NotFound("vehicle not found")
	}
	return v, nil
}

func vinPtr(vin *string) *string {
	if vin == nil {
		return nil
	}
	normalized := NormalizeVIN(*vin)
	if normalized == "" {
		return nil
	}
	return &normalized
}

func platePtr(plate *string) *string {
	if plate == nil {
		return nil
	}
	cleaned := strings.ToUpper(sanitize.Text(*plate))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func toResponse(v repository.Vehicle) transport.VehicleResponse {
	return transport.VehicleResponse{
		ID:           v.ID.String(),
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		VIN:          v.VIN,
		LicensePlate: v.LicensePlate,
		Mileage:      v.Mileage,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
