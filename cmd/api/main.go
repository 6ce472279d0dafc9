package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/zeus-agencias/kontrol-tiquetes/internal/api/http"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/api/http/handlers"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/auth"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/config"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/events"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/ledger"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/lifecycle"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/observability"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/persistence"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/repository"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/service"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/worker"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/workspace"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisStore := persistence.NewRedis(cfg.Redis, logger)
	defer redisStore.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	ws := workspace.New()
	engine := lifecycle.NewEngine(cfg.Auth.ElevatedRole)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	ticketService := service.NewTicketService(cfg.Tickets, service.TicketDependencies{
		TicketRepo: ticketRepo,
		Workspace:  ws,
		Engine:     engine,
		Dispatcher: dispatcher,
		Cache:      redisStore,
		Logger:     logger,
	})
	notificationService := service.NewNotificationService(
		ledger.New(cfg.Notification.MaxEntries), logger, cfg.Notification)
	authService := service.NewAuthService(*cfg, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	worker.StartNotificationWorker(notificationService, dispatcher)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisStore),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, metrics),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
		ElevatedRole:   cfg.Auth.ElevatedRole,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
