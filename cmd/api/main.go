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

	httptransport "github.com/spec-kit/it-repair-service/internal/api/http"
	"github.com/spec-kit/it-repair-service/internal/api/http/handlers"
	"github.com/spec-kit/it-repair-service/internal/auth"
	"github.com/spec-kit/it-repair-service/internal/config"
	"github.com/spec-kit/it-repair-service/internal/line"
	"github.com/spec-kit/it-repair-service/internal/observability"
	"github.com/spec-kit/it-repair-service/internal/persistence"
	"github.com/spec-kit/it-repair-service/internal/repository"
	"github.com/spec-kit/it-repair-service/internal/sequence"
	"github.com/spec-kit/it-repair-service/internal/service"
	"github.com/spec-kit/it-repair-service/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	uow := repository.NewUnitOfWork(pool)

	lineClient := line.NewClient(cfg.Line, logger)

	notificationWorker := worker.NewNotificationWorker(lineClient, cfg.Notify.QueueSize, cfg.Line.PushTimeout(), logger)
	notificationWorker.Start(ctx)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.AccessTokenTTLMinutes)*time.Minute)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	identityService := service.NewIdentityService(userRepo, lineClient, logger)
	notifyService := service.NewNotifyService(notificationWorker, logger)
	numberAllocator := sequence.NewGenerator(redis.Client, ticketRepo, logger)
	ticketService := service.NewTicketService(
		uow, ticketRepo, userRepo, departmentRepo, adminRepo, historyRepo,
		identityService, numberAllocator, notifyService, logger)
	webhookService := service.NewWebhookService(identityService, lineClient, cfg.Line.LiffID, logger)
	departmentService := service.NewDepartmentService(departmentRepo)
	authService := service.NewAuthService(adminRepo, tokens, hasher)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Line:        handlers.NewLineHandler(cfg.Line.ChannelSecret, webhookService, logger),
		Tickets:     handlers.NewTicketsHandler(ticketService),
		Departments: handlers.NewDepartmentsHandler(departmentService),
		Auth:        handlers.NewAuthHandler(authService),
		Tokens:      tokens,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	notificationWorker.Stop()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
