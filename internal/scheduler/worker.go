package scheduler

import (
	"context"
	"fmt"
	"time"

	"motormarket_backend/internal/events"
	"motormarket_backend/platform/config"
	"motormarket_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ReminderInfo is the appointment data a reminder needs.
type ReminderInfo struct {
	ID           uuid.UUID
	Status       string
	Kind         string
	ContactName  string
	ContactEmail string
	Location     string
	ScheduledAt  time.Time
}

// AppointmentReader loads appointments for reminder processing.
type AppointmentReader interface {
	GetReminderInfo(ctx context.Context, appointmentID uuid.UUID) (ReminderInfo, error)
}

// remindableStatuses are the appointment states that still warrant a reminder.
var remindableStatuses = map[string]bool{
	"booked":    true,
	"confirmed": true,
}

// Worker processes scheduled tasks.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	handlers *reminderHandler
	log      *logger.Logger
}

type reminderHandler struct {
	reader AppointmentReader
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reader AppointmentReader, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetSchedulerConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{defaultQueue: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("scheduled task failed", "task", task.Type(), "error", err)
		}),
	})

	h := &reminderHandler{reader: reader, bus: bus, log: log}
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskAppointmentReminder, h.handleAppointmentReminder)

	return &Worker{server: server, mux: mux, handlers: h, log: log}, nil
}

// Run blocks until ctx is cancelled or the server fails.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("scheduler worker: %w", err)
	}
	return nil
}

func (h *reminderHandler) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return fmt.Errorf("invalid appointment id %q: %w", payload.AppointmentID, asynq.SkipRetry)
	}

	info, err := h.reader.GetReminderInfo(ctx, apptID)
	if err != nil {
		return err
	}

	if !remindableStatuses[info.Status] {
		h.log.Info("reminder skipped", "appointmentId", apptID, "status", info.Status)
		return nil
	}
	if info.ContactEmail == "" {
		return nil
	}

	return h.bus.PublishSync(ctx, events.AppointmentReminderDue{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: info.ID,
		Kind:          info.Kind,
		ContactName:   info.ContactName,
		ContactEmail:  info.ContactEmail,
		Location:      info.Location,
		ScheduledAt:   info.ScheduledAt,
	})
}
