// Package notification provides event handlers for sending notifications
// (transactional email and the in-app inbox) in response to domain events.
// This module subscribes to events and inverts the dependency: domain modules
// no longer need to know about email providers or templates.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"motormarket_backend/internal/auth/account"
	"motormarket_backend/internal/email"
	"motormarket_backend/internal/events"
	apphttp "motormarket_backend/internal/http"
	notifhandler "motormarket_backend/internal/notification/handler"
	"motormarket_backend/internal/notification/inapp"
	"motormarket_backend/platform/config"
	"motormarket_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	scheduledAtLayout = "Mon 2 Jan 2006, 15:04 MST"

	resourceListing     = "listing"
	resourceAppointment = "appointment"
)

// Module handles notification-related events.
type Module struct {
	sender       email.Sender
	users        account.UserProvider
	cfg          config.NotificationConfig
	log          *logger.Logger
	inAppService *inapp.Service
	inAppHandler *notifhandler.HTTPHandler
}

// New creates the notification module. A nil pool disables the in-app inbox.
func New(pool *pgxpool.Pool, sender email.Sender, users account.UserProvider, cfg config.NotificationConfig, log *logger.Logger) *Module {
	var inAppSvc *inapp.Service
	if pool != nil {
		inAppSvc = inapp.NewService(inapp.NewRepository(pool), log)
	}
	return newModule(sender, users, inAppSvc, cfg, log)
}

func newModule(sender email.Sender, users account.UserProvider, inAppSvc *inapp.Service, cfg config.NotificationConfig, log *logger.Logger) *Module {
	m := &Module{
		sender:       sender,
		users:        users,
		cfg:          cfg,
		log:          log,
		inAppService: inAppSvc,
	}
	if inAppSvc != nil {
		m.inAppHandler = notifhandler.NewHTTPHandler(inAppSvc)
	}
	return m
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers notification API routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if m.inAppHandler == nil {
		return
	}

	notifications := ctx.Protected.Group("/notifications")
	m.inAppHandler.RegisterRoutes(notifications)
}

// RegisterHandlers subscribes to all relevant domain events on the bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	// Auth domain events
	bus.Subscribe(events.UserSignedUp{}.EventName(), m)
	bus.Subscribe(events.EmailVerificationRequested{}.EventName(), m)
	bus.Subscribe(events.PasswordResetRequested{}.EventName(), m)

	// Marketplace events
	bus.Subscribe(events.ListingSold{}.EventName(), m)
	bus.Subscribe(events.ReviewPosted{}.EventName(), m)

	// Appointment domain events
	bus.Subscribe(events.AppointmentBooked{}.EventName(), m)
	bus.Subscribe(events.AppointmentStatusChanged{}.EventName(), m)
	bus.Subscribe(events.AppointmentReminderDue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.UserSignedUp:
		return m.handleUserSignedUp(ctx, e)
	case events.EmailVerificationRequested:
		return m.handleEmailVerificationRequested(ctx, e)
	case events.PasswordResetRequested:
		return m.handlePasswordResetRequested(ctx, e)
	case events.ListingSold:
		return m.handleListingSold(ctx, e)
	case events.ReviewPosted:
		return m.handleReviewPosted(ctx, e)
	case events.AppointmentBooked:
		return m.handleAppointmentBooked(ctx, e)
	case events.AppointmentStatusChanged:
		return m.handleAppointmentStatusChanged(ctx, e)
	case events.AppointmentReminderDue:
		return m.handleAppointmentReminderDue(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

// ── Auth ────────────────────────────────────────────────────────────────

func (m *Module) handleUserSignedUp(ctx context.Context, e events.UserSignedUp) error {
	return m.sendVerification(ctx, e.UserID, e.Email, e.VerifyToken)
}

func (m *Module) handleEmailVerificationRequested(ctx context.Context, e events.EmailVerificationRequested) error {
	return m.sendVerification(ctx, e.UserID, e.Email, e.VerifyToken)
}

func (m *Module) sendVerification(ctx context.Context, userID uuid.UUID, to, token string) error {
	verifyURL := m.buildURL("/verify-email", token)
	if err := m.sender.SendVerificationEmail(ctx, to, verifyURL); err != nil {
		m.log.Error("failed to send verification email",
			"userId", userID,
			"email", to,
			"error", err,
		)
		return err
	}
	m.log.Info("verification email sent", "userId", userID, "email", to)
	return nil
}

func (m *Module) handlePasswordResetRequested(ctx context.Context, e events.PasswordResetRequested) error {
	resetURL := m.buildURL("/reset-password", e.ResetToken)
	if err := m.sender.SendPasswordResetEmail(ctx, e.Email, resetURL); err != nil {
		m.log.Error("failed to send password reset email",
			"userId", e.UserID,
			"email", e.Email,
			"error", err,
		)
		return err
	}
	m.log.Info("password reset email sent", "userId", e.UserID, "email", e.Email)
	return nil
}

// ── Listings and reviews ────────────────────────────────────────────────

func (m *Module) handleListingSold(ctx context.Context, e events.ListingSold) error {
	listingURL := m.buildPath("/listings", e.ListingID.String())
	m.pushInApp(ctx, inapp.SendParams{
		UserID:       e.SellerID,
		Title:        "Listing sold",
		Content:      fmt.Sprintf("%q has been marked as sold.", e.Title),
		ResourceID:   &e.ListingID,
		ResourceType: resourceListing,
		Category:     inapp.CategorySuccess,
	})

	if m.users == nil {
		return nil
	}
	seller, err := m.users.GetUserByID(ctx, e.SellerID)
	if err != nil {
		m.log.Error("failed to load seller for sold listing", "listingId", e.ListingID, "sellerId", e.SellerID, "error", err)
		return err
	}
	if err := m.sender.SendListingSoldEmail(ctx, seller.Email, e.Title, listingURL); err != nil {
		m.log.Error("failed to send listing sold email", "listingId", e.ListingID, "error", err)
		return err
	}
	m.log.Info("listing sold email sent", "listingId", e.ListingID, "sellerId", e.SellerID)
	return nil
}

func (m *Module) handleReviewPosted(ctx context.Context, e events.ReviewPosted) error {
	if e.SellerID == uuid.Nil {
		return nil
	}
	title := strings.TrimSpace(e.ListingTitle)
	if title == "" {
		title = "your listing"
	}
	m.pushInApp(ctx, inapp.SendParams{
		UserID:       e.SellerID,
		Title:        "New review",
		Content:      fmt.Sprintf("%s received a %d-star review.", title, e.Rating),
		ResourceID:   &e.ListingID,
		ResourceType: resourceListing,
		Category:     reviewCategory(e.Rating),
	})
	return nil
}

func reviewCategory(rating int) string {
	if rating <= 2 {
		return inapp.CategoryWarning
	}
	return inapp.CategoryInfo
}

// ── Appointments ────────────────────────────────────────────────────────

func (m *Module) handleAppointmentBooked(ctx context.Context, e events.AppointmentBooked) error {
	details := m.appointmentDetails(e.AppointmentID, e.Kind, e.ContactName, e.Location, e.ScheduledAt)
	m.pushInApp(ctx, inapp.SendParams{
		UserID:       e.UserID,
		Title:        "Appointment booked",
		Content:      fmt.Sprintf("Your %s is booked for %s.", details.Kind, details.ScheduledAt),
		ResourceID:   &e.AppointmentID,
		ResourceType: resourceAppointment,
	})

	if strings.TrimSpace(e.ContactEmail) == "" {
		return nil
	}
	if err := m.sender.SendAppointmentConfirmationEmail(ctx, e.ContactEmail, details); err != nil {
		m.log.Error("failed to send appointment confirmation", "appointmentId", e.AppointmentID, "error", err)
		return err
	}
	m.log.Info("appointment confirmation sent", "appointmentId", e.AppointmentID)
	return nil
}

func (m *Module) handleAppointmentStatusChanged(ctx context.Context, e events.AppointmentStatusChanged) error {
	details := m.appointmentDetails(e.AppointmentID, e.Kind, e.ContactName, e.Location, e.ScheduledAt)
	category := inapp.CategoryInfo
	if e.NewStatus == "cancelled" {
		category = inapp.CategoryWarning
	}
	m.pushInApp(ctx, inapp.SendParams{
		UserID:       e.UserID,
		Title:        "Appointment " + e.NewStatus,
		Content:      fmt.Sprintf("Your %s on %s is now %s.", details.Kind, details.ScheduledAt, e.NewStatus),
		ResourceID:   &e.AppointmentID,
		ResourceType: resourceAppointment,
		Category:     category,
	})

	if strings.TrimSpace(e.ContactEmail) == "" {
		return nil
	}
	if err := m.sender.SendAppointmentStatusEmail(ctx, e.ContactEmail, details, e.NewStatus); err != nil {
		m.log.Error("failed to send appointment status email",
			"appointmentId", e.AppointmentID,
			"status", e.NewStatus,
			"error", err,
		)
		return err
	}
	m.log.Info("appointment status email sent", "appointmentId", e.AppointmentID, "status", e.NewStatus)
	return nil
}

func (m *Module) handleAppointmentReminderDue(ctx context.Context, e events.AppointmentReminderDue) error {
	details := m.appointmentDetails(e.AppointmentID, e.Kind, e.ContactName, e.Location, e.ScheduledAt)
	if err := m.sender.SendAppointmentReminderEmail(ctx, e.ContactEmail, details); err != nil {
		m.log.Error("failed to send appointment reminder", "appointmentId", e.AppointmentID, "error", err)
		return err
	}
	m.log.Info("appointment reminder sent", "appointmentId", e.AppointmentID)
	return nil
}

func (m *Module) appointmentDetails(id uuid.UUID, kind, contactName, location string, scheduledAt time.Time) email.AppointmentDetails {
	return email.AppointmentDetails{
		ContactName: defaultName(contactName, "there"),
		Kind:        kindLabel(kind),
		ScheduledAt: scheduledAt.UTC().Format(scheduledAtLayout),
		Location:    location,
		ManageURL:   m.buildPath("/appointments", id.String()),
	}
}

func kindLabel(kind string) string {
	if kind == "" {
		return "appointment"
	}
	return strings.ReplaceAll(kind, "_", " ")
}

func defaultName(name, fallback string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return fallback
}

// ── Helpers ─────────────────────────────────────────────────────────────

// pushInApp stores an inbox entry. Failures are logged so email delivery
// still proceeds.
func (m *Module) pushInApp(ctx context.Context, p inapp.SendParams) {
	if m.inAppService == nil || p.UserID == uuid.Nil {
		return
	}
	if err := m.inAppService.Send(ctx, p); err != nil {
		m.log.Warn("in-app notification not stored", "userId", p.UserID, "title", p.Title, "error", err)
	}
}

func (m *Module) buildURL(path string, tokenValue string) string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	return base + path + "?token=" + tokenValue
}

func (m *Module) buildPath(path string, id string) string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	return base + path + "/" + id
}

var _ apphttp.Module = (*Module)(nil)
