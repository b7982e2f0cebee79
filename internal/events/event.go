// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"motormarket_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	VerifyToken string    `json:"verifyToken"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// EmailVerificationRequested is published when a user asks for a new verification link.
type EmailVerificationRequested struct {
	BaseEvent
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	VerifyToken string    `json:"verifyToken"`
}

func (e EmailVerificationRequested) EventName() string { return "auth.email.verification_requested" }

// PasswordResetRequested is published when a user requests a password reset.
type PasswordResetRequested struct {
	BaseEvent
	UserID     uuid.UUID `json:"userId"`
	Email      string    `json:"email"`
	ResetToken string    `json:"resetToken"`
}

func (e PasswordResetRequested) EventName() string { return "auth.password.reset_requested" }

// =============================================================================
// Listings Domain Events
// =============================================================================

// ListingCreated is published when a seller publishes a new listing.
type ListingCreated struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	SellerID  uuid.UUID `json:"sellerId"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
}

func (e ListingCreated) EventName() string { return "listings.listing.created" }

// ListingSold is published when a listing transitions to the sold status.
type ListingSold struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	SellerID  uuid.UUID `json:"sellerId"`
	Title     string    `json:"title"`
}

func (e ListingSold) EventName() string { return "listings.listing.sold" }

// =============================================================================
// Reviews Domain Events
// =============================================================================

// ReviewPosted is published when a user reviews a listing.
type ReviewPosted struct {
	BaseEvent
	ReviewID     uuid.UUID `json:"reviewId"`
	ListingID    uuid.UUID `json:"listingId"`
	ListingTitle string    `json:"listingTitle"`
	SellerID     uuid.UUID `json:"sellerId"`
	AuthorID     uuid.UUID `json:"authorId"`
	Rating       int       `json:"rating"`
}

func (e ReviewPosted) EventName() string { return "reviews.review.posted" }

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentBooked is published when a user books an appointment.
type AppointmentBooked struct {
	BaseEvent
	AppointmentID uuid.UUID  `json:"appointmentId"`
	UserID        uuid.UUID  `json:"userId"`
	ListingID     *uuid.UUID `json:"listingId,omitempty"`
	Kind          string     `json:"kind"`
	ContactName   string     `json:"contactName"`
	ContactEmail  string     `json:"contactEmail"`
	Location      string     `json:"location"`
	ScheduledAt   time.Time  `json:"scheduledAt"`
}

func (e AppointmentBooked) EventName() string { return "appointments.appointment.booked" }

// AppointmentStatusChanged is published when an appointment is confirmed,
// completed or cancelled.
type AppointmentStatusChanged struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	UserID        uuid.UUID `json:"userId"`
	Kind          string    `json:"kind"`
	ContactName   string    `json:"contactName"`
	ContactEmail  string    `json:"contactEmail"`
	Location      string    `json:"location"`
	OldStatus     string    `json:"oldStatus"`
	NewStatus     string    `json:"newStatus"`
	ScheduledAt   time.Time `json:"scheduledAt"`
}

func (e AppointmentStatusChanged) EventName() string { return "appointments.appointment.status_changed" }

// AppointmentReminderDue is published by the scheduler worker when a
// reminder task fires.
type AppointmentReminderDue struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	Kind          string    `json:"kind"`
	ContactName   string    `json:"contactName"`
	ContactEmail  string    `json:"contactEmail"`
	Location      string    `json:"location"`
	ScheduledAt   time.Time `json:"scheduledAt"`
}

func (e AppointmentReminderDue) EventName() string { return "appointments.appointment.reminder_due" }
