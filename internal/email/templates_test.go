package email

import (
	"strings"
	"testing"
)

func TestRenderAppointmentConfirmation(t *testing.T) {
	out, err := renderEmailTemplate("appointment_confirmation.html", appointmentEmailData{
		baseEmailData: baseEmailData{
			Title:    "Booked",
			Heading:  "Appointment booked",
			CTALabel: "Manage appointment",
			CTAURL:   "https://example.test/appointments/1",
		},
		AppointmentDetails: AppointmentDetails{
			ContactName: "Ada <script>",
			Kind:        "test_drive",
			ScheduledAt: "Mon, 02 Mar 2026 10:00 UTC",
			Location:    "Main showroom",
		},
		KindLabel: kindLabel("test_drive"),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"test drive", "Main showroom", "Mon, 02 Mar 2026 10:00 UTC", "https://example.test/appointments/1", "Ada &lt;script&gt;"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}

func TestEveryTemplateRenders(t *testing.T) {
	cases := map[string]any{
		"verification.html":             linkEmailData{baseEmailData: baseEmailData{Title: "t", Heading: "h", CTALabel: "go", CTAURL: "https://x.test"}},
		"password_reset.html":           linkEmailData{baseEmailData: baseEmailData{Title: "t", Heading: "h"}},
		"appointment_reminder.html":     appointmentEmailData{KindLabel: "service"},
		"appointment_status.html":       appointmentEmailData{KindLabel: "inspection", Status: "cancelled"},
		"listing_sold.html":             listingSoldEmailData{ListingTitle: "2019 Mazda 3"},
		"appointment_confirmation.html": appointmentEmailData{KindLabel: "service"},
	}
	for name, data := range cases {
		if _, err := renderEmailTemplate(name, data); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestSMTPSenderBuildMessage(t *testing.T) {
	s := NewSMTPSender("smtp.example.test", 587, "", "", "noreply@example.test", "MotorMarket")
	msg, err := s.buildMessage("buyer@example.test", "Hello", "<p>hi</p>")
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	if got := msg.GetToString(); len(got) != 1 || !strings.Contains(got[0], "buyer@example.test") {
		t.Fatalf("unexpected recipients %v", got)
	}

	if _, err := s.buildMessage("not-an-address", "Hello", "x"); err == nil {
		t.Fatal("expected invalid recipient to fail")
	}
}
