package transport

import "time"

type CreateVehicleRequest struct {
	Make         string  `json:"make" validate:"required,vehiclemake"`
	Model        string  `json:"model" validate:"required,max=100"`
	Year         int     `json:"year" validate:"required,gte=1900,lte=2100"`
	VIN          *string `json:"vin" validate:"omitempty,vin"`
	LicensePlate *string `json:"licensePlate" validate:"omitempty,max=20"`
	Mileage      int     `json:"mileage" validate:"gte=0"`
}

// UpdateVehicleRequest is a partial update. An empty vin or licensePlate clears it.
type UpdateVehicleRequest struct {
	Make         *string `json:"make" validate:"omitempty,vehiclemake"`
	Model        *string `json:"model" validate:"omitempty,max=100"`
	Year         *int    `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	VIN          *string `json:"vin" validate:"omitempty,vin"`
	LicensePlate *string `json:"licensePlate" validate:"omitempty,max=20"`
	Mileage      *int    `json:"mileage" validate:"omitempty,gte=0"`
}

type VehicleResponse struct {
	ID           string    `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	VIN          *string   `json:"vin,omitempty"`
	LicensePlate *string   `json:"licensePlate,omitempty"`
	Mileage      int       `json:"mileage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
