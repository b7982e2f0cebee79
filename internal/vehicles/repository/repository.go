package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const vehicleNotFoundMsg = "vehicle not found"

// Vehicle is a car registered by its owner for service bookings.
type Vehicle struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Make         string
	Model        string
	Year         int
	VIN          *string
	LicensePlate *string
	Mileage      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	Create(ctx context.Context, v Vehicle) (Vehicle, error)
	Update(ctx context.Context, v Vehicle) (Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Vehicle, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Vehicle, error)
}

const vehicleColumns = `id, owner_id, make, model, year, vin, license_plate, mileage, created_at, updated_at`

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func scanVehicle(row pgx.Row) (Vehicle, error) {
	var v Vehicle
	err := row.Scan(&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Year, &v.VIN, &v.LicensePlate, &v.Mileage, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *Repo) Create(ctx context.Context, v Vehicle) (Vehicle, error) {
	created, err := scanVehicle(r.pool.QueryRow(ctx, `
		INSERT INTO vehicles (owner_id, make, model, year, vin, license_plate, mileage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+vehicleColumns,
		v.OwnerID, v.Make, v.Model, v.Year, v.VIN, v.LicensePlate, v.Mileage))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Vehicle{}, apperr.Conflict("a vehicle with this VIN is already registered")
		}
		return Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	return created, nil
}

func (r *Repo) Update(ctx context.Context, v Vehicle) (Vehicle, error) {
	updated, err := scanVehicle(r.pool.QueryRow(ctx, `
		UPDATE vehicles
		SET make = $2, model = $3, year = $4, vin = $5, license_plate = $6, mileage = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+vehicleColumns,
		v.ID, v.Make, v.Model, v.Year, v.VIN, v.LicensePlate, v.Mileage))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, apperr.NotFound(vehicleNotFoundMsg)
		}
		if db.IsUniqueViolation(err) {
			return Vehicle{}, apperr.Conflict("a vehicle with this VIN is already registered")
		}
		return Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(vehicleNotFoundMsg)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	v, err := scanVehicle(r.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, apperr.NotFound(vehicleNotFoundMsg)
		}
		return Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Vehicle, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	items := make([]Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", err)
	}
	return items, nil
}
