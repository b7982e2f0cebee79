package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskAppointmentReminder = "appointments.reminder"

// AppointmentReminderPayload identifies the appointment a reminder is for.
type AppointmentReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
}

func NewAppointmentReminderTask(payload AppointmentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentReminder, data, asynq.MaxRetry(5)), nil
}

func ParseAppointmentReminderPayload(task *asynq.Task) (AppointmentReminderPayload, error) {
	var payload AppointmentReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AppointmentReminderPayload{}, fmt.Errorf("decode reminder payload: %w", err)
	}
	return payload, nil
}

// reminderTaskID makes reminder enqueues idempotent per appointment so a
// reschedule replaces the earlier task instead of sending twice.
func reminderTaskID(appointmentID string) string {
	return "appointment-reminder:" + appointmentID
}
