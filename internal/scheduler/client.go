// Package scheduler enqueues and processes delayed background tasks with asynq.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motormarket_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const defaultQueue = "default"

// ReminderScheduler schedules and withdraws appointment reminders.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(ctx context.Context, appointmentID string, scheduledAt time.Time) error
	CancelAppointmentReminder(ctx context.Context, appointmentID string) error
}

// Client enqueues tasks for the worker process.
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
	lead      time.Duration
	now       func() time.Time
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		queue:     defaultQueue,
		lead:      cfg.GetAppointmentReminderLead(),
		now:       time.Now,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return errors.Join(c.client.Close(), c.inspector.Close())
}

// ScheduleAppointmentReminder enqueues a reminder lead time before the
// appointment. Appointments closer than the lead time get no reminder.
func (c *Client) ScheduleAppointmentReminder(ctx context.Context, appointmentID string, scheduledAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	runAt, ok := ReminderRunAt(scheduledAt, c.lead, c.now())
	if !ok {
		return nil
	}

	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{AppointmentID: appointmentID})
	if err != nil {
		return err
	}

	// Replace any earlier reminder for this appointment.
	_ = c.CancelAppointmentReminder(ctx, appointmentID)

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(runAt),
		asynq.Queue(c.queue),
		asynq.TaskID(reminderTaskID(appointmentID)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// CancelAppointmentReminder removes a pending reminder. A missing task is not an error.
func (c *Client) CancelAppointmentReminder(_ context.Context, appointmentID string) error {
	if c == nil || c.inspector == nil {
		return nil
	}
	err := c.inspector.DeleteTask(c.queue, reminderTaskID(appointmentID))
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return err
}

// ReminderRunAt returns when a reminder should fire, or false when the
// appointment is too close (or already past) for a reminder to make sense.
func ReminderRunAt(scheduledAt time.Time, lead time.Duration, now time.Time) (time.Time, bool) {
	if lead <= 0 {
		lead = 24 * time.Hour
	}
	runAt := scheduledAt.Add(-lead)
	if !runAt.After(now) {
		return time.Time{}, false
	}
	return runAt, true
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

var _ ReminderScheduler = (*Client)(nil)
