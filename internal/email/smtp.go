package email

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) buildMessage(toEmail, subject, htmlContent string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)
	return msg, nil
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg, err := s.buildMessage(toEmail, subject, htmlContent)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error {
	content, err := renderEmailTemplate("verification.html", linkEmailData{
		baseEmailData: baseEmailData{
			Title:    subjectVerification,
			Heading:  "Confirm your email address",
			CTALabel: "Verify email",
			CTAURL:   verifyURL,
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectVerification, content)
}

func (s *SMTPSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error {
	content, err := renderEmailTemplate("password_reset.html", linkEmailData{
		baseEmailData: baseEmailData{
			Title:    subjectPasswordReset,
			Heading:  "Reset your password",
			CTALabel: "Choose a new password",
			CTAURL:   resetURL,
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectPasswordReset, content)
}

func (s *SMTPSender) SendAppointmentConfirmationEmail(ctx context.Context, toEmail string, appt AppointmentDetails) error {
	label := kindLabel(appt.Kind)
	subject := fmt.Sprintf(subjectAppointmentConfirmFmt, label)
	content, err := renderEmailTemplate("appointment_confirmation.html", appointmentEmailData{
		baseEmailData: baseEmailData{
			Title:    subject,
			Heading:  "Appointment booked",
			CTALabel: "Manage appointment",
			CTAURL:   appt.ManageURL,
		},
		AppointmentDetails: appt,
		KindLabel:          label,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendAppointmentReminderEmail(ctx context.Context, toEmail string, appt AppointmentDetails) error {
	content, err := renderEmailTemplate("appointment_reminder.html", appointmentEmailData{
		baseEmailData: baseEmailData{
			Title:    subjectAppointmentReminder,
			Heading:  "See you tomorrow",
			CTALabel: "Manage appointment",
			CTAURL:   appt.ManageURL,
		},
		AppointmentDetails: appt,
		KindLabel:          kindLabel(appt.Kind),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectAppointmentReminder, content)
}

func (s *SMTPSender) SendAppointmentStatusEmail(ctx context.Context, toEmail string, appt AppointmentDetails, status string) error {
	subject := fmt.Sprintf(subjectAppointmentStatusFmt, status)
	content, err := renderEmailTemplate("appointment_status.html", appointmentEmailData{
		baseEmailData: baseEmailData{
			Title:   subject,
			Heading: "Appointment update",
		},
		AppointmentDetails: appt,
		KindLabel:          kindLabel(appt.Kind),
		Status:             status,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendListingSoldEmail(ctx context.Context, toEmail, listingTitle, listingURL string) error {
	subject := fmt.Sprintf(subjectListingSoldFmt, listingTitle)
	content, err := renderEmailTemplate("listing_sold.html", listingSoldEmailData{
		baseEmailData: baseEmailData{
			Title:    subject,
			Heading:  "Your vehicle is sold",
			CTALabel: "View listing",
			CTAURL:   listingURL,
		},
		ListingTitle: listingTitle,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
