package service

import (
	"context"
	"fmt"
	"time"

	"motormarket_backend/internal/appointments/repository"
	"motormarket_backend/internal/appointments/transport"
	"motormarket_backend/internal/events"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/httpkit"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/phone"
	"motormarket_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Appointment kinds, matching the appointmentKinds dictionary.
const (
	KindTestDrive  = "test_drive"
	KindService    = "service"
	KindInspection = "inspection"
)

const (
	dateFormat             = "2006-01-02"
	defaultDurationMinutes = 60
	minLeadTime            = time.Hour
	maxBookingHorizon      = 180 * 24 * time.Hour
	defaultPageSize        = 20
	maxPageSize            = 100
	locationToBeConfirmed  = "To be confirmed"
)

// allowedTransitions lists the statuses each status may move to.
var allowedTransitions = map[string][]string{
	repository.StatusBooked:    {repository.StatusConfirmed, repository.StatusCancelled, repository.StatusCompleted},
	repository.StatusConfirmed: {repository.StatusCancelled, repository.StatusCompleted},
}

// Store is the persistence the service needs.
type Store interface {
	Create(ctx context.Context, appt *repository.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from []string, status string) error
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	ListActiveForListing(ctx context.Context, listingID uuid.UUID, start, end time.Time) ([]repository.Appointment, error)
}

// ListingInfo is what a test drive needs to know about the car.
type ListingInfo struct {
	Title string
	City  string
}

// ListingReader resolves active listings.
type ListingReader interface {
	GetListingInfo(ctx context.Context, listingID uuid.UUID) (ListingInfo, error)
}

// VehicleReader checks that a vehicle belongs to the booking user.
type VehicleReader interface {
	EnsureOwned(ctx context.Context, ownerID, vehicleID uuid.UUID) error
}

// ReminderScheduler schedules and withdraws appointment reminders.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(ctx context.Context, appointmentID string, scheduledAt time.Time) error
	CancelAppointmentReminder(ctx context.Context, appointmentID string) error
}

// Service provides business logic for appointments
type Service struct {
	repo              Store
	listings          ListingReader
	vehicles          VehicleReader
	eventBus          events.Bus
	reminderScheduler ReminderScheduler
	log               *logger.Logger
	now               func() time.Time
}

// New creates a new appointments service. reminderScheduler may be nil when
// background processing is disabled.
func New(repo Store, listings ListingReader, vehicles VehicleReader, eventBus events.Bus, reminderScheduler ReminderScheduler, log *logger.Logger) *Service {
	return &Service{
		repo:              repo,
		listings:          listings,
		vehicles:          vehicles,
		eventBus:          eventBus,
		reminderScheduler: reminderScheduler,
		log:               log,
		now:               time.Now,
	}
}

// Create books an appointment for userID.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateAppointmentRequest) (*transport.AppointmentResponse, error) {
	if err := s.validateSchedule(req.ScheduledAt); err != nil {
		return nil, err
	}

	contactPhone, err := phone.ToE164(req.ContactPhone, phone.DefaultRegion)
	if err != nil {
		return nil, apperr.Validation("contact phone is not a valid phone number").
			WithDetails(map[string]string{"field": "contactPhone"})
	}

	location, err := s.resolveSubject(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if loc := sanitize.Text(req.Location); loc != "" {
		location = loc
	}

	appt := s.buildAppointment(userID, req, contactPhone, location)

	if appt.Kind == KindTestDrive {
		if err := s.checkTimeConflict(ctx, *appt.ListingID, appt.ScheduledAt, appt.EndsAt()); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.AppointmentBooked{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		ListingID:     appt.ListingID,
		Kind:          appt.Kind,
		ContactName:   appt.ContactName,
		ContactEmail:  appt.ContactEmail,
		Location:      appt.Location,
		ScheduledAt:   appt.ScheduledAt,
	})
	s.scheduleReminder(ctx, appt)
	s.log.Info("appointment booked", "id", appt.ID, "kind", appt.Kind, "scheduledAt", appt.ScheduledAt)

	resp := toResponse(appt)
	return &resp, nil
}

// GetByID returns an appointment visible to actor.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actor httpkit.Identity) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(appt.UserID) {
		return nil, apperr.NotFound("appointment not found")
	}
	resp := toResponse(appt)
	return &resp, nil
}

// Lookup returns the stored appointment for other modules.
func (s *Service) Lookup(ctx context.Context, id uuid.UUID) (*repository.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListMine lists the caller's own appointments.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, req transport.ListAppointmentsRequest) (*transport.AppointmentListResponse, error) {
	return s.list(ctx, &userID, req)
}

// ListAll lists every appointment. Admin only.
func (s *Service) ListAll(ctx context.Context, req transport.ListAppointmentsRequest) (*transport.AppointmentListResponse, error) {
	return s.list(ctx, nil, req)
}

func (s *Service) list(ctx context.Context, userID *uuid.UUID, req transport.ListAppointmentsRequest) (*transport.AppointmentListResponse, error) {
	from, err := parseDateFilter(req.From, "from", false)
	if err != nil {
		return nil, err
	}
	to, err := parseDateFilter(req.To, "to", true)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperr.BadRequest("to must not be before from")
	}

	result, err := s.repo.List(ctx, repository.ListParams{
		UserID:    userID,
		ListingID: req.ListingID,
		Kind:      req.Kind,
		Status:    req.Status,
		From:      from,
		To:        to,
		SortOrder: req.SortOrder,
		Page:      max(req.Page, 1),
		PageSize:  clampPageSize(req.PageSize),
	})
	if err != nil {
		return nil, err
	}

	items := make([]transport.AppointmentResponse, len(result.Items))
	for i := range result.Items {
		items[i] = toResponse(&result.Items[i])
	}
	return &transport.AppointmentListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Cancel lets the owner or an admin cancel an upcoming appointment.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor httpkit.Identity) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(appt.UserID) {
		return nil, apperr.NotFound("appointment not found")
	}
	return s.transition(ctx, appt, repository.StatusCancelled)
}

// UpdateStatus applies an admin status change.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status == status {
		resp := toResponse(appt)
		return &resp, nil
	}
	return s.transition(ctx, appt, status)
}

func (s *Service) transition(ctx context.Context, appt *repository.Appointment, status string) (*transport.AppointmentResponse, error) {
	if !canTransition(appt.Status, status) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot change appointment from %s to %s", appt.Status, status))
	}

	oldStatus := appt.Status
	if err := s.repo.UpdateStatus(ctx, appt.ID, []string{oldStatus}, status); err != nil {
		return nil, err
	}
	appt.Status = status
	appt.UpdatedAt = s.now()

	if status == repository.StatusCancelled || status == repository.StatusCompleted {
		s.cancelReminder(ctx, appt.ID)
	}

	s.eventBus.Publish(ctx, events.AppointmentStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		Kind:          appt.Kind,
		ContactName:   appt.ContactName,
		ContactEmail:  appt.ContactEmail,
		Location:      appt.Location,
		OldStatus:     oldStatus,
		NewStatus:     status,
		ScheduledAt:   appt.ScheduledAt,
	})
	s.log.Info("appointment status changed", "id", appt.ID, "from", oldStatus, "to", status)

	resp := toResponse(appt)
	return &resp, nil
}

func canTransition(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *Service) validateSchedule(at time.Time) error {
	now := s.now()
	if at.Before(now.Add(minLeadTime)) {
		return apperr.Validation("appointments must be booked at least one hour in advance").
			WithDetails(map[string]string{"field": "scheduledAt"})
	}
	if at.After(now.Add(maxBookingHorizon)) {
		return apperr.Validation("appointments can be booked at most 180 days ahead").
			WithDetails(map[string]string{"field": "scheduledAt"})
	}
	return nil
}

// resolveSubject checks the listing or vehicle the appointment is about and
// returns the default location.
func (s *Service) resolveSubject(ctx context.Context, userID uuid.UUID, req transport.CreateAppointmentRequest) (string, error) {
	switch req.Kind {
	case KindTestDrive:
		if req.ListingID == nil {
			return "", apperr.Validation("listingId is required for a test drive").
				WithDetails(map[string]string{"field": "listingId"})
		}
	case KindService:
		if req.VehicleID == nil {
			return "", apperr.Validation("vehicleId is required for a service appointment").
				WithDetails(map[string]string{"field": "vehicleId"})
		}
	}

	if req.VehicleID != nil {
		if err := s.vehicles.EnsureOwned(ctx, userID, *req.VehicleID); err != nil {
			return "", err
		}
	}

	location := locationToBeConfirmed
	if req.ListingID != nil {
		listing, err := s.listings.GetListingInfo(ctx, *req.ListingID)
		if err != nil {
			return "", err
		}
		if listing.City != "" {
			location = listing.City
		}
	}
	return location, nil
}

// checkTimeConflict rejects a test drive overlapping another active booking of the same listing.
func (s *Service) checkTimeConflict(ctx context.Context, listingID uuid.UUID, start, end time.Time) error {
	existing, err := s.repo.ListActiveForListing(ctx, listingID, start, end)
	if err != nil {
		return err
	}
	for _, appt := range existing {
		if start.Before(appt.EndsAt()) && end.After(appt.ScheduledAt) {
			return apperr.Conflict("timeslot already booked")
		}
	}
	return nil
}

// buildAppointment creates a new Appointment from the request.
func (s *Service) buildAppointment(userID uuid.UUID, req transport.CreateAppointmentRequest, contactPhone, location string) *repository.Appointment {
	now := s.now()
	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMinutes
	}
	return &repository.Appointment{
		ID:              uuid.New(),
		UserID:          userID,
		ListingID:       req.ListingID,
		VehicleID:       req.VehicleID,
		Kind:            req.Kind,
		ContactName:     sanitize.Text(req.ContactName),
		ContactEmail:    req.ContactEmail,
		ContactPhone:    contactPhone,
		Location:        location,
		Notes:           optional(req.Notes),
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Status:          repository.StatusBooked,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// scheduleReminder enqueues the reminder. The booking stands even when
// the queue is unavailable.
func (s *Service) scheduleReminder(ctx context.Context, appt *repository.Appointment) {
	if s.reminderScheduler == nil {
		return
	}
	if err := s.reminderScheduler.ScheduleAppointmentReminder(ctx, appt.ID.String(), appt.ScheduledAt); err != nil {
		s.log.Error("failed to schedule appointment reminder", "appointmentId", appt.ID, "error", err)
	}
}

func (s *Service) cancelReminder(ctx context.Context, id uuid.UUID) {
	if s.reminderScheduler == nil {
		return
	}
	if err := s.reminderScheduler.CancelAppointmentReminder(ctx, id.String()); err != nil {
		s.log.Error("failed to cancel appointment reminder", "appointmentId", id, "error", err)
	}
}

func clampPageSize(size int) int {
	if size < 1 {
		return defaultPageSize
	}
	return min(size, maxPageSize)
}

// parseDateFilter accepts RFC 3339 timestamps or plain dates. A plain date
// used as an upper bound covers the whole day.
func parseDateFilter(s string, fieldName string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("invalid %s date format: %s", fieldName, s))
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func optional(value string) *string {
	cleaned := sanitize.Text(value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func toResponse(appt *repository.Appointment) transport.AppointmentResponse {
	return transport.AppointmentResponse{
		ID:              appt.ID,
		UserID:          appt.UserID,
		ListingID:       appt.ListingID,
		VehicleID:       appt.VehicleID,
		Kind:            appt.Kind,
		ContactName:     appt.ContactName,
		ContactEmail:    appt.ContactEmail,
		ContactPhone:    appt.ContactPhone,
		Location:        appt.Location,
		Notes:           appt.Notes,
		ScheduledAt:     appt.ScheduledAt,
		DurationMinutes: appt.DurationMinutes,
		Status:          appt.Status,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}
