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

	httptransport "github.com/spec-kit/decor-manager/internal/api/http"
	"github.com/spec-kit/decor-manager/internal/api/http/handlers"
	"github.com/spec-kit/decor-manager/internal/auth"
	"github.com/spec-kit/decor-manager/internal/config"
	"github.com/spec-kit/decor-manager/internal/events"
	"github.com/spec-kit/decor-manager/internal/notify"
	"github.com/spec-kit/decor-manager/internal/observability"
	"github.com/spec-kit/decor-manager/internal/persistence"
	"github.com/spec-kit/decor-manager/internal/provider"
	"github.com/spec-kit/decor-manager/internal/repository"
	"github.com/spec-kit/decor-manager/internal/service"
	"github.com/spec-kit/decor-manager/internal/worker"
)

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

	metrics := observability.NewMetrics()
	pingers := map[string]handlers.Pinger{}

	var durable, session persistence.Store
	switch cfg.Storage.Backend {
	case "redis":
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		pingers["redis"] = redis
		durable = persistence.NewRedisStore(redis, cfg.App.Name+":", 0)
		session = persistence.NewRedisStore(redis, cfg.App.Name+":session:", cfg.Storage.SessionTTL())
	default:
		durable = persistence.NewMemoryStore(0)
		session = persistence.NewMemoryStore(cfg.Storage.SessionTTL())
	}

	sessionDeps := service.SessionDependencies{Logger: logger, Metrics: metrics}
	var directory repository.Directory
	switch cfg.Auth.Mode {
	case config.AuthModeProvider:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		pingers["postgres"] = pg

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		pool := pg.PoolHandle()
		profiles := repository.NewProfileRepository(pool)
		directory = profiles
		if cfg.Auth.DemoPassword != "" {
			demo := repository.NewMemoryDirectory(repository.DemoIdentities())
			directory = repository.NewChainDirectory(profiles, demo)
			sessionDeps.DemoDirectory = demo
		}
		sessionDeps.Provider = provider.NewCredentialProvider(repository.NewCredentialRepository(pool), profiles, cfg.Auth.BcryptCost, logger)
	default:
		directory = repository.NewMemoryDirectory(repository.DemoIdentities())
	}
	sessionDeps.Directory = directory

	sessions := service.NewSessionService(cfg.Auth, sessionDeps)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens, directory)

	dispatcher := events.NewInMemoryDispatcher()
	notificationDeps := service.NotificationDependencies{
		Store:      persistence.Scoped(durable, "service:"),
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	}
	if pusher := notify.NewWebhookPusher(cfg.Notification.WebhookURL, logger); pusher != nil {
		notificationDeps.Pusher = pusher
	}
	notifications := service.NewNotificationService(ctx, cfg.Notification, notificationDeps)
	notifications.RegisterHandlers()
	notifications.Init(nil)

	scanner := worker.NewNotificationWorker(notifications, cfg.Notification.InitialDelay(), cfg.Notification.Interval(), logger)
	scannerDone := scanner.Start(ctx)

	stores := func(clientID string) service.SessionStores {
		scope := "client:" + clientID + ":"
		return service.SessionStores{
			Client:  clientID,
			Durable: persistence.Scoped(durable, scope),
			Session: persistence.Scoped(session, scope),
		}
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pingers),
		Auth:           handlers.NewAuthHandler(sessions, stores, tokens),
		Notifications:  handlers.NewNotificationsHandler(notifications),
		Enquiries:      handlers.NewEnquiriesHandler(dispatcher),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	<-scannerDone
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
