package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motormarket_backend/internal/adapters"
	appointmentsrepo "motormarket_backend/internal/appointments/repository"
	appointmentsservice "motormarket_backend/internal/appointments/service"
	authrepo "motormarket_backend/internal/auth/repository"
	"motormarket_backend/internal/email"
	"motormarket_backend/internal/events"
	"motormarket_backend/internal/notification"
	"motormarket_backend/internal/scheduler"
	"motormarket_backend/platform/config"
	"motormarket_backend/platform/db"
	"motormarket_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	sender := email.NewSender(cfg, log)

	userProvider := adapters.NewUserProvider(authrepo.New(pool))
	notificationModule := notification.New(pool, sender, userProvider, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// Worker-side appointment lookups only; no HTTP handlers or reminders needed.
	appointmentsSvc := appointmentsservice.New(appointmentsrepo.New(pool), nil, nil, eventBus, nil, log)

	worker, err := scheduler.NewWorker(cfg, adapters.NewReminderReader(appointmentsSvc), eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	if err := worker.Run(ctx); err != nil {
		log.Error("scheduler stopped with error", "error", err)
	}
	eventBus.Wait()
	log.Info("scheduler stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
