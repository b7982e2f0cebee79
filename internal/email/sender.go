// Package email renders transactional emails and delivers them over SMTP.
package email

import (
	"context"

	"motormarket_backend/platform/config"
	"motormarket_backend/platform/logger"
)

// Sender delivers the transactional emails the marketplace sends.
type Sender interface {
	SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error
	SendAppointmentConfirmationEmail(ctx context.Context, toEmail string, appt AppointmentDetails) error
	SendAppointmentReminderEmail(ctx context.Context, toEmail string, appt AppointmentDetails) error
	SendAppointmentStatusEmail(ctx context.Context, toEmail string, appt AppointmentDetails, status string) error
	SendListingSoldEmail(ctx context.Context, toEmail, listingTitle, listingURL string) error
}

// AppointmentDetails is the appointment data shown in appointment emails.
type AppointmentDetails struct {
	ContactName string
	Kind        string
	ScheduledAt string
	Location    string
	ManageURL   string
}

// NewSender returns an SMTP sender, or a logging no-op sender when email is disabled.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("email disabled; outgoing mail will only be logged")
		return NoopSender{log: log}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NoopSender logs instead of sending.
type NoopSender struct {
	log *logger.Logger
}

func (n NoopSender) logSkip(kind, toEmail string) error {
	if n.log != nil {
		n.log.Info("email skipped", "kind", kind, "to", toEmail)
	}
	return nil
}

func (n NoopSender) SendVerificationEmail(_ context.Context, toEmail, _ string) error {
	return n.logSkip("verification", toEmail)
}

func (n NoopSender) SendPasswordResetEmail(_ context.Context, toEmail, _ string) error {
	return n.logSkip("password_reset", toEmail)
}

func (n NoopSender) SendAppointmentConfirmationEmail(_ context.Context, toEmail string, _ AppointmentDetails) error {
	return n.logSkip("appointment_confirmation", toEmail)
}

func (n NoopSender) SendAppointmentReminderEmail(_ context.Context, toEmail string, _ AppointmentDetails) error {
	return n.logSkip("appointment_reminder", toEmail)
}

func (n NoopSender) SendAppointmentStatusEmail(_ context.Context, toEmail string, _ AppointmentDetails, _ string) error {
	return n.logSkip("appointment_status", toEmail)
}

func (n NoopSender) SendListingSoldEmail(_ context.Context, toEmail, _, _ string) error {
	return n.logSkip("listing_sold", toEmail)
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
