package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateAppointmentRequest is the request body for booking an appointment
type CreateAppointmentRequest struct {
	Kind            string     `json:"kind" validate:"required,appointmentkind"`
	ListingID       *uuid.UUID `json:"listingId,omitempty"`
	VehicleID       *uuid.UUID `json:"vehicleId,omitempty"`
	ContactName     string     `json:"contactName" validate:"required,min=1,max=200"`
	ContactEmail    string     `json:"contactEmail" validate:"required,email,max=254"`
	ContactPhone    string     `json:"contactPhone" validate:"required,max=32"`
	Location        string     `json:"location,omitempty" validate:"max=500"`
	Notes           string     `json:"notes,omitempty" validate:"max=2000"`
	ScheduledAt     time.Time  `json:"scheduledAt" validate:"required"`
	DurationMinutes int        `json:"durationMinutes,omitempty" validate:"omitempty,min=15,max=480"`
}

// UpdateAppointmentStatusRequest is the request body for updating appointment status
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=booked confirmed cancelled completed"`
}

// ListAppointmentsRequest is the query parameters for listing appointments
type ListAppointmentsRequest struct {
	ListingID *uuid.UUID `form:"listingId"`
	Kind      *string    `form:"kind" validate:"omitempty,appointmentkind"`
	Status    *string    `form:"status" validate:"omitempty,oneof=booked confirmed cancelled completed"`
	From      string     `form:"from"` // RFC 3339 or YYYY-MM-DD
	To        string     `form:"to"`
	SortOrder string     `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int        `form:"page" validate:"omitempty,min=1"`
	PageSize  int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// AppointmentResponse is the response body for an appointment
type AppointmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	ListingID       *uuid.UUID `json:"listingId,omitempty"`
	VehicleID       *uuid.UUID `json:"vehicleId,omitempty"`
	Kind            string     `json:"kind"`
	ContactName     string     `json:"contactName"`
	ContactEmail    string     `json:"contactEmail"`
	ContactPhone    string     `json:"contactPhone"`
	Location        string     `json:"location"`
	Notes           *string    `json:"notes,omitempty"`
	ScheduledAt     time.Time  `json:"scheduledAt"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// AppointmentListResponse is the paginated response for listing appointments
type AppointmentListResponse struct {
	Items      []AppointmentResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}
