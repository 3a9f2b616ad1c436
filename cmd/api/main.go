package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staffing-board/internal/api/http"
	"github.com/spec-kit/staffing-board/internal/api/http/handlers"
	"github.com/spec-kit/staffing-board/internal/auth"
	"github.com/spec-kit/staffing-board/internal/config"
	"github.com/spec-kit/staffing-board/internal/events"
	"github.com/spec-kit/staffing-board/internal/notify"
	"github.com/spec-kit/staffing-board/internal/observability"
	"github.com/spec-kit/staffing-board/internal/persistence"
	"github.com/spec-kit/staffing-board/internal/repository"
	"github.com/spec-kit/staffing-board/internal/repository/memory"
	"github.com/spec-kit/staffing-board/internal/service"
	"github.com/spec-kit/staffing-board/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users        repository.UserRepository
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
	history      repository.StatusHistoryRepository
	invitations  repository.InvitationRepository
	resets       repository.PasswordResetRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg)
	metrics := observability.NewMetrics()
	dispatcher := events.NewAsyncDispatcher(logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	access := auth.NewAccessResolver(repos.jobs, repos.applications)

	invitationService := service.NewInvitationService(service.InvitationDependencies{
		InvitationRepo: repos.invitations,
		UserRepo:       repos.users,
		Dispatcher:     dispatcher,
		Logger:         logger,
		TTL:            cfg.Invite.TTL,
		ClientURL:      cfg.App.ClientURL,
	})
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:          repos.users,
		PasswordResetRepo: repos.resets,
		Invitations:       invitationService,
		Tokens:            tokens,
		PasswordPolicy:    auth.PasswordPolicy{MinLength: cfg.Auth.PasswordMinLength},
		BcryptCost:        cfg.Auth.BcryptCost,
		ResetTTL:          cfg.Auth.PasswordResetTTL(),
		ClientURL:         cfg.App.ClientURL,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	pipelineService := service.NewPipelineService(service.PipelineDependencies{
		ApplicationRepo: repos.applications,
		JobRepo:         repos.jobs,
		HistoryRepo:     repos.history,
		Access:          access,
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
	})
	jobService := service.NewJobService(repos.jobs, access, logger)
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		ApplicationRepo: repos.applications,
		JobRepo:         repos.jobs,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})

	outbox := buildOutbox(cfg.Notification, redis)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		JobRepo:    repos.jobs,
		Outbox:     outbox,
		Metrics:    metrics,
		Logger:     logger,
		Config:     cfg.Notification,
	})
	notificationWorker := worker.NewNotificationWorker(outbox, buildSender(cfg.Notification, logger), metrics, logger)
	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := worker.StartNotificationWorker(workerCtx, notificationService, notificationWorker)

	authMiddleware := auth.NewAuthMiddleware(tokens, repos.users)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, !cfg.IsProduction()),
		Invites:        handlers.NewInvitesHandler(invitationService),
		Recruiter:      handlers.NewRecruiterHandler(pipelineService),
		Jobs:           handlers.NewJobsHandler(jobService, applicationService),
		Applications:   handlers.NewApplicationsHandler(applicationService, pipelineService),
		AuthMiddleware: authMiddleware,
		PublicLimiter:  httptransport.NewRateLimiter(cfg.RateLimit.PublicPerMinute, cfg.RateLimit.PublicBurst),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	// let queued events reach the outbox before the worker stops
	dispatcher.Wait()
	if mem, ok := outbox.(*notify.MemoryOutbox); ok {
		mem.Close()
	} else {
		stopWorker()
	}
	select {
	case <-workerDone:
	case <-time.After(shutdownTimeout):
		logger.Warn("notification worker did not drain in time")
	}
	stopWorker()
}

func buildRepositories(pg *persistence.Postgres) repositories {
	if !pg.Enabled() {
		store := memory.NewStore()
		return repositories{
			users:        store.Users(),
			jobs:         store.Jobs(),
			applications: store.Applications(),
			history:      store.StatusHistory(),
			invitations:  store.Invitations(),
			resets:       store.PasswordResets(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		users:        repository.NewUserRepository(pool),
		jobs:         repository.NewJobRepository(pool),
		applications: repository.NewApplicationRepository(pool),
		history:      repository.NewStatusHistoryRepository(pool),
		invitations:  repository.NewInvitationRepository(pool),
		resets:       repository.NewPasswordResetRepository(pool),
	}
}

func buildOutbox(cfg config.NotificationConfig, redis *persistence.Redis) notify.Outbox {
	if redis.Enabled() {
		return notify.NewRedisOutbox(redis.Client, cfg.OutboxKey, cfg.PollTimeout)
	}
	return notify.NewMemoryOutbox(cfg.OutboxBuffer)
}

func buildSender(cfg config.NotificationConfig, logger *zap.Logger) notify.Sender {
	if cfg.WebhookURL != "" {
		return notify.NewWebhookSender(cfg.WebhookURL, cfg.WebhookTimeout)
	}
	return notify.NewLogSender(logger)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
