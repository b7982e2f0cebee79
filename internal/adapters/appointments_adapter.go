package adapters

import (
	"context"

	appointmentsservice "motormarket_backend/internal/appointments/service"
	listingsservice "motormarket_backend/internal/listings/service"
	"motormarket_backend/internal/scheduler"
	vehiclesservice "motormarket_backend/internal/vehicles/service"

	"github.com/google/uuid"
)

// AppointmentListings gives the appointments module read access to listings.
type AppointmentListings struct {
	listings *listingsservice.Service
}

func NewAppointmentListings(listings *listingsservice.Service) *AppointmentListings {
	return &AppointmentListings{listings: listings}
}

func (a *AppointmentListings) GetListingInfo(ctx context.Context, listingID uuid.UUID) (appointmentsservice.ListingInfo, error) {
	listing, err := a.listings.GetByID(ctx, listingID, nil)
	if err != nil {
		return appointmentsservice.ListingInfo{}, err
	}
	info := appointmentsservice.ListingInfo{Title: listing.Title}
	if listing.City != nil {
		info.City = *listing.City
	}
	return info, nil
}

// AppointmentVehicles checks garage ownership for service bookings.
type AppointmentVehicles struct {
	vehicles *vehiclesservice.Service
}

func NewAppointmentVehicles(vehicles *vehiclesservice.Service) *AppointmentVehicles {
	return &AppointmentVehicles{vehicles: vehicles}
}

func (a *AppointmentVehicles) EnsureOwned(ctx context.Context, ownerID, vehicleID uuid.UUID) error {
	_, err := a.vehicles.Owned(ctx, ownerID, vehicleID)
	return err
}

// ReminderReader feeds appointment details to the reminder worker.
type ReminderReader struct {
	appointments *appointmentsservice.Service
}

func NewReminderReader(appointments *appointmentsservice.Service) *ReminderReader {
	return &ReminderReader{appointments: appointments}
}

func (a *ReminderReader) GetReminderInfo(ctx context.Context, appointmentID uuid.UUID) (scheduler.ReminderInfo, error) {
	appt, err := a.appointments.Lookup(ctx, appointmentID)
	if err != nil {
		return scheduler.ReminderInfo{}, err
	}
	return scheduler.ReminderInfo{
		ID:           appt.ID,
		Status:       appt.Status,
		Kind:         appt.Kind,
		ContactName:  appt.ContactName,
		ContactEmail: appt.ContactEmail,
		Location:     appt.Location,
		ScheduledAt:  appt.ScheduledAt,
	}, nil
}

var (
	_ appointmentsservice.ListingReader     = (*AppointmentListings)(nil)
	_ appointmentsservice.VehicleReader     = (*AppointmentVehicles)(nil)
	_ appointmentsservice.ReminderScheduler = (*scheduler.Client)(nil)
	_ scheduler.AppointmentReader           = (*ReminderReader)(nil)
)
