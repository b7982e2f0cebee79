package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"motormarket_backend/internal/appointments/repository"
	"motormarket_backend/internal/appointments/transport"
	"motormarket_backend/internal/auth/account"
	"motormarket_backend/internal/events"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/httpkit"
	"motormarket_backend/platform/logger"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type memStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]repository.Appointment
}

func newMemStore() *memStore {
	return &memStore{items: make(map[uuid.UUID]repository.Appointment)}
}

func (m *memStore) Create(_ context.Context, appt *repository.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[appt.ID] = *appt
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("appointment not found")
	}
	return &appt, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id uuid.UUID, from []string, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.items[id]
	if !ok {
		return apperr.NotFound("appointment not found")
	}
	for _, f := range from {
		if appt.Status == f {
			appt.Status = status
			m.items[id] = appt
			return nil
		}
	}
	return apperr.Conflict("appointment status changed concurrently")
}

func (m *memStore) List(_ context.Context, params repository.ListParams) (*repository.ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []repository.Appointment
	for _, appt := range m.items {
		if params.UserID != nil && appt.UserID != *params.UserID {
			continue
		}
		if params.Status != nil && appt.Status != *params.Status {
			continue
		}
		items = append(items, appt)
	}
	return &repository.ListResult{Items: items, Total: len(items), Page: params.Page, PageSize: params.PageSize, TotalPages: 1}, nil
}

func (m *memStore) ListActiveForListing(_ context.Context, listingID uuid.UUID, start, end time.Time) ([]repository.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.Appointment
	for _, appt := range m.items {
		active := appt.Status == repository.StatusBooked || appt.Status == repository.StatusConfirmed
		if active && appt.ListingID != nil && *appt.ListingID == listingID &&
			appt.ScheduledAt.Before(end) && appt.EndsAt().After(start) {
			out = append(out, appt)
		}
	}
	return out, nil
}

type fakeListings map[uuid.UUID]ListingInfo

func (f fakeListings) GetListingInfo(_ context.Context, id uuid.UUID) (ListingInfo, error) {
	info, ok := f[id]
	if !ok {
		return ListingInfo{}, apperr.NotFound("listing not found")
	}
	return info, nil
}

type fakeVehicles map[uuid.UUID]uuid.UUID // vehicle -> owner

func (f fakeVehicles) EnsureOwned(_ context.Context, ownerID, vehicleID uuid.UUID) error {
	if f[vehicleID] != ownerID {
		return apperr.NotFound("vehicle not found")
	}
	return nil
}

type fakeScheduler struct {
	scheduled map[string]time.Time
	cancelled []string
}

func (f *fakeScheduler) ScheduleAppointmentReminder(_ context.Context, id string, at time.Time) error {
	f.scheduled[id] = at
	return nil
}

func (f *fakeScheduler) CancelAppointmentReminder(_ context.Context, id string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) PublishSync(ctx context.Context, e events.Event) error {
	r.Publish(ctx, e)
	return nil
}

func (r *recorder) Subscribe(string, events.Handler) {}

type fixture struct {
	svc       *Service
	store     *memStore
	scheduler *fakeScheduler
	bus       *recorder
	listingID uuid.UUID
	vehicleID uuid.UUID
	userID    uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		store:     newMemStore(),
		scheduler: &fakeScheduler{scheduled: make(map[string]time.Time)},
		bus:       &recorder{},
		listingID: uuid.New(),
		vehicleID: uuid.New(),
		userID:    uuid.New(),
	}
	listings := fakeListings{f.listingID: {Title: "2021 Kia Ceed", City: "Springfield"}}
	vehicles := fakeVehicles{f.vehicleID: f.userID}
	f.svc = New(f.store, listings, vehicles, f.bus, f.scheduler, logger.Nop())
	f.svc.now = func() time.Time { return testNow }
	return f
}

func (f *fixture) testDrive(at time.Time) transport.CreateAppointmentRequest {
	return transport.CreateAppointmentRequest{
		Kind:         KindTestDrive,
		ListingID:    &f.listingID,
		ContactName:  "Ada Lovelace",
		ContactEmail: "ada@example.com",
		ContactPhone: "(650) 253-0000",
		ScheduledAt:  at,
	}
}

func TestCreateTestDrive(t *testing.T) {
	f := newFixture()
	at := testNow.Add(48 * time.Hour)

	got, err := f.svc.Create(context.Background(), f.userID, f.testDrive(at))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.ContactPhone != "+16502530000" {
		t.Errorf("ContactPhone = %q, want E.164", got.ContactPhone)
	}
	if got.Location != "Springfield" || got.DurationMinutes != defaultDurationMinutes || got.Status != repository.StatusBooked {
		t.Errorf("appointment = %+v", got)
	}
	if when, ok := f.scheduler.scheduled[got.ID.String()]; !ok || !when.Equal(at) {
		t.Errorf("reminder scheduled = %v, %v", when, ok)
	}
	if len(f.bus.events) != 1 {
		t.Fatalf("published %d events, want 1", len(f.bus.events))
	}
	if booked, ok := f.bus.events[0].(events.AppointmentBooked); !ok || booked.AppointmentID != got.ID {
		t.Errorf("event = %#v", f.bus.events[0])
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	base := f.testDrive(testNow.Add(24 * time.Hour))
	otherVehicle := uuid.New()
	unknownListing := uuid.New()

	tests := []struct {
		name   string
		mutate func(*transport.CreateAppointmentRequest)
		kind   apperr.Kind
	}{
		{"too soon", func(r *transport.CreateAppointmentRequest) { r.ScheduledAt = testNow.Add(30 * time.Minute) }, apperr.KindValidation},
		{"too far ahead", func(r *transport.CreateAppointmentRequest) { r.ScheduledAt = testNow.AddDate(1, 0, 0) }, apperr.KindValidation},
		{"bad phone", func(r *transport.CreateAppointmentRequest) { r.ContactPhone = "12" }, apperr.KindValidation},
		{"test drive without listing", func(r *transport.CreateAppointmentRequest) { r.ListingID = nil }, apperr.KindValidation},
		{"unknown listing", func(r *transport.CreateAppointmentRequest) { r.ListingID = &unknownListing }, apperr.KindNotFound},
		{"service without vehicle", func(r *transport.CreateAppointmentRequest) { r.Kind = KindService; r.ListingID = nil }, apperr.KindValidation},
		{"someone else's vehicle", func(r *transport.CreateAppointmentRequest) {
			r.Kind = KindService
			r.ListingID = nil
			r.VehicleID = &otherVehicle
		}, apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := f.svc.Create(context.Background(), f.userID, req)
			if !apperr.Is(err, tt.kind) {
				t.Fatalf("Create() error = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestCreateServiceAppointment(t *testing.T) {
	f := newFixture()
	req := transport.CreateAppointmentRequest{
		Kind:         KindService,
		VehicleID:    &f.vehicleID,
		ContactName:  "Ada",
		ContactEmail: "ada@example.com",
		ContactPhone: "+31 6 12345678",
		Location:     "Northside workshop",
		ScheduledAt:  testNow.Add(72 * time.Hour),
	}

	got, err := f.svc.Create(context.Background(), f.userID, req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.Location != "Northside workshop" || got.ContactPhone != "+31612345678" {
		t.Errorf("appointment = %+v", got)
	}
}

func TestTestDriveSlotConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	at := testNow.Add(24 * time.Hour)

	first, err := f.svc.Create(ctx, f.userID, f.testDrive(at))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Create(ctx, uuid.New(), f.testDrive(at.Add(30*time.Minute))); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("overlapping Create() error = %v, want conflict", err)
	}
	if _, err := f.svc.Create(ctx, uuid.New(), f.testDrive(at.Add(time.Hour))); err != nil {
		t.Fatalf("adjacent Create() error = %v", err)
	}

	if _, err := f.svc.Cancel(ctx, first.ID, httpkit.NewIdentity(f.userID)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Create(ctx, uuid.New(), f.testDrive(at)); err != nil {
		t.Fatalf("Create() after cancellation error = %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, err := f.svc.Create(ctx, f.userID, f.testDrive(testNow.Add(24*time.Hour)))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Cancel(ctx, appt.ID, httpkit.NewIdentity(uuid.New())); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("Cancel() by stranger error = %v, want not found", err)
	}

	confirmed, err := f.svc.UpdateStatus(ctx, appt.ID, repository.StatusConfirmed)
	if err != nil || confirmed.Status != repository.StatusConfirmed {
		t.Fatalf("UpdateStatus(confirmed) = %+v, %v", confirmed, err)
	}
	if len(f.scheduler.cancelled) != 0 {
		t.Errorf("reminder cancelled on confirmation")
	}

	if _, err := f.svc.UpdateStatus(ctx, appt.ID, repository.StatusBooked); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("confirmed -> booked error = %v, want conflict", err)
	}

	admin := httpkit.NewIdentity(uuid.New(), account.RoleAdmin)
	cancelled, err := f.svc.Cancel(ctx, appt.ID, admin)
	if err != nil || cancelled.Status != repository.StatusCancelled {
		t.Fatalf("Cancel() by admin = %+v, %v", cancelled, err)
	}
	if len(f.scheduler.cancelled) != 1 || f.scheduler.cancelled[0] != appt.ID.String() {
		t.Errorf("cancelled reminders = %v", f.scheduler.cancelled)
	}

	if _, err := f.svc.UpdateStatus(ctx, appt.ID, repository.StatusCompleted); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("cancelled -> completed error = %v, want conflict", err)
	}

	var changes []events.AppointmentStatusChanged
	for _, e := range f.bus.events {
		if c, ok := e.(events.AppointmentStatusChanged); ok {
			changes = append(changes, c)
		}
	}
	if len(changes) != 2 || changes[1].OldStatus != repository.StatusConfirmed || changes[1].NewStatus != repository.StatusCancelled {
		t.Errorf("status events = %+v", changes)
	}
}

func TestParseDateFilter(t *testing.T) {
	got, err := parseDateFilter("2026-05-04", "to", true)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2026, 5, 4, 23, 59, 59, 999999999, time.UTC); !got.Equal(want) {
		t.Errorf("end of day = %v, want %v", got, want)
	}
	if _, err := parseDateFilter("04/05/2026", "from", false); !apperr.Is(err, apperr.KindBadRequest) {
		t.Errorf("bad date error = %v, want bad request", err)
	}
	if got, _ := parseDateFilter("", "from", false); got != nil {
		t.Errorf("empty filter = %v, want nil", got)
	}
}
