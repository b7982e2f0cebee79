package email

const (
	subjectVerification          = "Confirm your email address"
	subjectPasswordReset         = "Reset your password"
	subjectAppointmentConfirmFmt = "Your %s appointment is booked"
	subjectAppointmentReminder   = "Reminder: your appointment is tomorrow"
	subjectAppointmentStatusFmt  = "Your appointment was %s"
	subjectListingSoldFmt        = "Sold: %s"
)
