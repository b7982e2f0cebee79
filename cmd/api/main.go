package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motormarket_backend/internal/adapters"
	"motormarket_backend/internal/appointments"
	appointmentsservice "motormarket_backend/internal/appointments/service"
	"motormarket_backend/internal/auth"
	"motormarket_backend/internal/dictionary"
	"motormarket_backend/internal/email"
	"motormarket_backend/internal/events"
	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/internal/http/router"
	"motormarket_backend/internal/listings"
	"motormarket_backend/internal/loans"
	"motormarket_backend/internal/news"
	"motormarket_backend/internal/notification"
	"motormarket_backend/internal/reviews"
	"motormarket_backend/internal/scheduler"
	"motormarket_backend/internal/spareparts"
	"motormarket_backend/internal/vehicles"
	"motormarket_backend/migrations"
	"motormarket_backend/platform/cache"
	"motormarket_backend/platform/config"
	"motormarket_backend/platform/db"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

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
	log.Info("database connection established")

	if cfg.GetMigrateOnStart() {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return runMigrations(ctx, pool, log)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		// The quote cache is optional; loans fall back to computing every request.
		log.Warn("redis unavailable; loan quote cache disabled", "error", err)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := email.NewSender(cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	dict, err := dictionary.Load()
	if err != nil {
		panic("failed to load dictionaries: " + err.Error())
	}
	if err := dict.RegisterValidators(val); err != nil {
		panic("failed to register dictionary validators: " + err.Error())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, eventBus, val, log)
	userProvider := adapters.NewUserProvider(authModule.Users())

	// Notification module subscribes to domain events and serves the inbox
	notificationModule := notification.New(pool, sender, userProvider, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	listingsModule := listings.NewModule(pool, eventBus, val, log)
	listingsSvc := listingsModule.Service()

	vehiclesModule := vehicles.NewModule(pool, val, log)

	loansModule := loans.NewModule(cfg, redisClient, adapters.NewListingPriceReader(listingsSvc), val, log)
	reviewsModule := reviews.NewModule(pool, adapters.NewListingReader(listingsSvc), userProvider, eventBus, val, log)
	appointmentsModule := appointments.NewModule(
		pool,
		adapters.NewAppointmentListings(listingsSvc),
		adapters.NewAppointmentVehicles(vehiclesModule.Service()),
		eventBus,
		reminderScheduler,
		val,
		log,
	)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			dictionary.NewModule(dict),
			listingsModule,
			loansModule,
			spareparts.NewModule(pool, val, log),
			reviewsModule,
			news.NewModule(pool, val, log),
			vehiclesModule,
			appointmentsModule,
			notificationModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}
	eventBus.Wait()
	log.Info("server stopped")
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	migrator, err := db.NewMigrator(pool, migrations.FS)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	applied, err := migrator.Up(ctx)
	if err != nil {
		return err
	}
	log.Info("database migrations complete", "applied", applied)
	return nil
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (appointmentsservice.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; appointment reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
