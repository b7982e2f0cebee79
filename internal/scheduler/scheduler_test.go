package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"motormarket_backend/internal/events"
	"motormarket_backend/platform/logger"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type fakeReader struct {
	info ReminderInfo
	err  error
}

func (f fakeReader) GetReminderInfo(_ context.Context, id uuid.UUID) (ReminderInfo, error) {
	if f.err != nil {
		return ReminderInfo{}, f.err
	}
	info := f.info
	info.ID = id
	return info, nil
}

func TestReminderRunAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		scheduledAt time.Time
		lead        time.Duration
		want        time.Time
		wantOK      bool
	}{
		{"two days out", now.Add(48 * time.Hour), 24 * time.Hour, now.Add(24 * time.Hour), true},
		{"inside lead window", now.Add(2 * time.Hour), 24 * time.Hour, time.Time{}, false},
		{"exactly at lead", now.Add(24 * time.Hour), 24 * time.Hour, time.Time{}, false},
		{"zero lead defaults to a day", now.Add(72 * time.Hour), 0, now.Add(48 * time.Hour), true},
		{"in the past", now.Add(-time.Hour), time.Hour, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReminderRunAt(tt.scheduledAt, tt.lead, now)
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Fatalf("ReminderRunAt() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAppointmentReminderTask(t *testing.T) {
	id := uuid.NewString()
	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{AppointmentID: id})
	if err != nil {
		t.Fatalf("NewAppointmentReminderTask() error = %v", err)
	}
	if task.Type() != TaskAppointmentReminder {
		t.Fatalf("task type = %q", task.Type())
	}
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		t.Fatalf("ParseAppointmentReminderPayload() error = %v", err)
	}
	if payload.AppointmentID != id {
		t.Fatalf("appointment id = %q, want %q", payload.AppointmentID, id)
	}
	if reminderTaskID(id) != "appointment-reminder:"+id {
		t.Fatalf("unexpected task id %q", reminderTaskID(id))
	}
}

func newHandler(reader AppointmentReader) (*reminderHandler, *[]events.AppointmentReminderDue) {
	log := logger.Nop()
	bus := events.NewInMemoryBus(log)
	var got []events.AppointmentReminderDue
	bus.Subscribe(events.AppointmentReminderDue{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		got = append(got, e.(events.AppointmentReminderDue))
		return nil
	}))
	return &reminderHandler{reader: reader, bus: bus, log: log}, &got
}

func reminderTask(t *testing.T, id string) *asynq.Task {
	t.Helper()
	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{AppointmentID: id})
	if err != nil {
		t.Fatal(err)
	}
	return task
}

func TestHandleAppointmentReminderPublishes(t *testing.T) {
	at := time.Date(2026, 6, 2, 9, 30, 0, 0, time.UTC)
	h, got := newHandler(fakeReader{info: ReminderInfo{
		Status:       "confirmed",
		Kind:         "test_drive",
		ContactName:  "Ada",
		ContactEmail: "ada@example.com",
		Location:     "Main showroom",
		ScheduledAt:  at,
	}})

	id := uuid.New()
	if err := h.handleAppointmentReminder(context.Background(), reminderTask(t, id.String())); err != nil {
		t.Fatalf("handle error = %v", err)
	}
	if len(*got) != 1 {
		t.Fatalf("published %d events, want 1", len(*got))
	}

	ev := (*got)[0]
	ev.BaseEvent = events.BaseEvent{}
	want := events.AppointmentReminderDue{
		AppointmentID: id,
		Kind:          "test_drive",
		ContactName:   "Ada",
		ContactEmail:  "ada@example.com",
		Location:      "Main showroom",
		ScheduledAt:   at,
	}
	if diff := cmp.Diff(want, ev); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleAppointmentReminderSkipsClosedAppointments(t *testing.T) {
	for _, status := range []string{"cancelled", "completed"} {
		h, got := newHandler(fakeReader{info: ReminderInfo{Status: status, ContactEmail: "a@b.c"}})
		if err := h.handleAppointmentReminder(context.Background(), reminderTask(t, uuid.NewString())); err != nil {
			t.Fatalf("%s: handle error = %v", status, err)
		}
		if len(*got) != 0 {
			t.Fatalf("%s: expected no reminder", status)
		}
	}
}

func TestHandleAppointmentReminderErrors(t *testing.T) {
	h, _ := newHandler(fakeReader{})
	err := h.handleAppointmentReminder(context.Background(), reminderTask(t, "not-a-uuid"))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("bad id: err = %v, want SkipRetry", err)
	}

	lookupErr := errors.New("db down")
	h, _ = newHandler(fakeReader{err: lookupErr})
	err = h.handleAppointmentReminder(context.Background(), reminderTask(t, uuid.NewString()))
	if !errors.Is(err, lookupErr) {
		t.Fatalf("lookup failure: err = %v", err)
	}
}
