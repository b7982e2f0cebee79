package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"motormarket_backend/internal/auth/account"
	"motormarket_backend/internal/email"
	"motormarket_backend/internal/events"
	"motormarket_backend/internal/notification/inapp"
	"motormarket_backend/platform/logger"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

type testNotificationConfig struct{}

func (testNotificationConfig) GetAppBaseURL() string { return "https://app.example.com/" }

type sentMail struct {
	kind    string
	to      string
	url     string
	details email.AppointmentDetails
	status  string
}

type testSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *testSender) record(m sentMail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

func (s *testSender) SendVerificationEmail(_ context.Context, to, verifyURL string) error {
	return s.record(sentMail{kind: "verify", to: to, url: verifyURL})
}
func (s *testSender) SendPasswordResetEmail(_ context.Context, to, resetURL string) error {
	return s.record(sentMail{kind: "reset", to: to, url: resetURL})
}
func (s *testSender) SendAppointmentConfirmationEmail(_ context.Context, to string, appt email.AppointmentDetails) error {
	return s.record(sentMail{kind: "confirmation", to: to, details: appt})
}
func (s *testSender) SendAppointmentReminderEmail(_ context.Context, to string, appt email.AppointmentDetails) error {
	return s.record(sentMail{kind: "reminder", to: to, details: appt})
}
func (s *testSender) SendAppointmentStatusEmail(_ context.Context, to string, appt email.AppointmentDetails, status string) error {
	return s.record(sentMail{kind: "status", to: to, details: appt, status: status})
}
func (s *testSender) SendListingSoldEmail(_ context.Context, to, _ string, listingURL string) error {
	return s.record(sentMail{kind: "sold", to: to, url: listingURL})
}

type testUsers map[uuid.UUID]account.Profile

func (u testUsers) GetUserByID(_ context.Context, id uuid.UUID) (account.Profile, error) {
	p, ok := u[id]
	if !ok {
		return account.Profile{}, errors.New("user not found")
	}
	return p, nil
}

func (u testUsers) GetUsersByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]account.Profile, error) {
	out := make(map[uuid.UUID]account.Profile, len(ids))
	for _, id := range ids {
		if p, ok := u[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type memInbox struct {
	mu    sync.Mutex
	items []inapp.Notification
}

func (m *memInbox) Create(_ context.Context, p inapp.CreateParams) (inapp.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := inapp.Notification{
		ID:           uuid.New(),
		UserID:       p.UserID,
		Title:        p.Title,
		Content:      p.Content,
		ResourceID:   p.ResourceID,
		ResourceType: p.ResourceType,
		Category:     p.Category,
	}
	m.items = append(m.items, n)
	return n, nil
}

func (m *memInbox) List(context.Context, uuid.UUID, int, int) ([]inapp.Notification, int, error) {
	return nil, 0, nil
}
func (m *memInbox) CountUnread(context.Context, uuid.UUID) (int, error)  { return 0, nil }
func (m *memInbox) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (m *memInbox) MarkAllRead(context.Context, uuid.UUID) error         { return nil }
func (m *memInbox) Delete(context.Context, uuid.UUID, uuid.UUID) error   { return nil }

func newTestModule(users testUsers) (*Module, *testSender, *memInbox) {
	sender := &testSender{}
	inbox := &memInbox{}
	log := logger.Nop()
	m := newModule(sender, users, inapp.NewService(inbox, log), testNotificationConfig{}, log)
	return m, sender, inbox
}

var allowMailFields = cmp.AllowUnexported(sentMail{})

func TestAuthEventsSendTokenLinks(t *testing.T) {
	m, sender, _ := newTestModule(nil)
	ctx := context.Background()

	if err := m.Handle(ctx, events.UserSignedUp{UserID: uuid.New(), Email: "new@example.com", VerifyToken: "tok1"}); err != nil {
		t.Fatalf("UserSignedUp: %v", err)
	}
	if err := m.Handle(ctx, events.EmailVerificationRequested{UserID: uuid.New(), Email: "again@example.com", VerifyToken: "tok2"}); err != nil {
		t.Fatalf("EmailVerificationRequested: %v", err)
	}
	if err := m.Handle(ctx, events.PasswordResetRequested{UserID: uuid.New(), Email: "lost@example.com", ResetToken: "tok3"}); err != nil {
		t.Fatalf("PasswordResetRequested: %v", err)
	}

	want := []sentMail{
		{kind: "verify", to: "new@example.com", url: "https://app.example.com/verify-email?token=tok1"},
		{kind: "verify", to: "again@example.com", url: "https://app.example.com/verify-email?token=tok2"},
		{kind: "reset", to: "lost@example.com", url: "https://app.example.com/reset-password?token=tok3"},
	}
	if diff := cmp.Diff(want, sender.sent, allowMailFields); diff != "" {
		t.Errorf("sent mail mismatch (-want +got):\n%s", diff)
	}
}

func TestListingSoldEmailsSellerAndFillsInbox(t *testing.T) {
	sellerID := uuid.New()
	listingID := uuid.New()
	m, sender, inbox := newTestModule(testUsers{sellerID: {ID: sellerID, Email: "seller@example.com"}})

	err := m.Handle(context.Background(), events.ListingSold{ListingID: listingID, SellerID: sellerID, Title: "2019 Golf"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	want := []sentMail{{kind: "sold", to: "seller@example.com", url: "https://app.example.com/listings/" + listingID.String()}}
	if diff := cmp.Diff(want, sender.sent, allowMailFields); diff != "" {
		t.Errorf("sent mail mismatch (-want +got):\n%s", diff)
	}
	if len(inbox.items) != 1 || inbox.items[0].UserID != sellerID || inbox.items[0].Category != inapp.CategorySuccess {
		t.Errorf("inbox = %+v, want one success entry for the seller", inbox.items)
	}
}

func TestListingSoldUnknownSellerFails(t *testing.T) {
	m, sender, _ := newTestModule(testUsers{})
	err := m.Handle(context.Background(), events.ListingSold{ListingID: uuid.New(), SellerID: uuid.New(), Title: "x"})
	if err == nil {
		t.Fatal("expected error for unknown seller")
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d mails, want 0", len(sender.sent))
	}
}

func TestReviewPostedNotifiesSellerInbox(t *testing.T) {
	sellerID := uuid.New()
	listingID := uuid.New()
	m, sender, inbox := newTestModule(nil)

	err := m.Handle(context.Background(), events.ReviewPosted{
		ReviewID:     uuid.New(),
		ListingID:    listingID,
		ListingTitle: "Audi A4",
		SellerID:     sellerID,
		AuthorID:     uuid.New(),
		Rating:       2,
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	want := []inapp.Notification{{
		UserID:       sellerID,
		Title:        "New review",
		Content:      "Audi A4 received a 2-star review.",
		ResourceID:   &listingID,
		ResourceType: strPtr(resourceListing),
		Category:     inapp.CategoryWarning,
	}}
	if diff := cmp.Diff(want, inbox.items, cmpopts.IgnoreFields(inapp.Notification{}, "ID")); diff != "" {
		t.Errorf("inbox mismatch (-want +got):\n%s", diff)
	}
	if len(sender.sent) != 0 {
		t.Errorf("reviews should not send email, got %d", len(sender.sent))
	}
}

func TestAppointmentEventsSendEmails(t *testing.T) {
	m, sender, inbox := newTestModule(nil)
	ctx := context.Background()
	apptID := uuid.New()
	userID := uuid.New()
	at := time.Date(2026, 11, 3, 14, 30, 0, 0, time.UTC)

	evts := []events.Event{
		events.AppointmentBooked{
			AppointmentID: apptID, UserID: userID, Kind: "test_drive",
			ContactName: "Sam", ContactEmail: "sam@example.com", Location: "Utrecht", ScheduledAt: at,
		},
		events.AppointmentStatusChanged{
			AppointmentID: apptID, UserID: userID, Kind: "test_drive",
			ContactName: "Sam", ContactEmail: "sam@example.com", Location: "Utrecht",
			OldStatus: "booked", NewStatus: "confirmed", ScheduledAt: at,
		},
		events.AppointmentReminderDue{
			AppointmentID: apptID, Kind: "test_drive",
			ContactEmail: "sam@example.com", Location: "Utrecht", ScheduledAt: at,
		},
	}
	for _, e := range evts {
		if err := m.Handle(ctx, e); err != nil {
			t.Fatalf("Handle(%s) error = %v", e.EventName(), err)
		}
	}

	details := email.AppointmentDetails{
		ContactName: "Sam",
		Kind:        "test drive",
		ScheduledAt: "Tue 3 Nov 2026, 14:30 UTC",
		Location:    "Utrecht",
		ManageURL:   "https://app.example.com/appointments/" + apptID.String(),
	}
	reminder := details
	reminder.ContactName = "there"

	want := []sentMail{
		{kind: "confirmation", to: "sam@example.com", details: details},
		{kind: "status", to: "sam@example.com", details: details, status: "confirmed"},
		{kind: "reminder", to: "sam@example.com", details: reminder},
	}
	if diff := cmp.Diff(want, sender.sent, allowMailFields); diff != "" {
		t.Errorf("sent mail mismatch (-want +got):\n%s", diff)
	}
	if len(inbox.items) != 2 {
		t.Fatalf("inbox has %d entries, want 2", len(inbox.items))
	}
	if !strings.Contains(inbox.items[1].Content, "confirmed") {
		t.Errorf("status entry content = %q", inbox.items[1].Content)
	}
}

func TestSenderFailureIsReturned(t *testing.T) {
	m, sender, _ := newTestModule(nil)
	sender.err = errors.New("smtp down")

	err := m.Handle(context.Background(), events.PasswordResetRequested{Email: "a@example.com", ResetToken: "t"})
	if !errors.Is(err, sender.err) {
		t.Fatalf("Handle() error = %v, want %v", err, sender.err)
	}
}

func TestRegisterHandlersDeliversThroughBus(t *testing.T) {
	m, sender, _ := newTestModule(nil)
	bus := events.NewInMemoryBus(logger.Nop())
	m.RegisterHandlers(bus)

	bus.Publish(context.Background(), events.UserSignedUp{
		BaseEvent:   events.NewBaseEvent(),
		UserID:      uuid.New(),
		Email:       "bus@example.com",
		VerifyToken: "abc",
	})
	bus.Wait()

	if len(sender.sent) != 1 || sender.sent[0].to != "bus@example.com" {
		t.Fatalf("sent = %+v, want one verification mail", sender.sent)
	}
}

func strPtr(s string) *string { return &s }
