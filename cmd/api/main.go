package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/identity-service/internal/api/http"
	"github.com/spec-kit/identity-service/internal/api/http/handlers"
	"github.com/spec-kit/identity-service/internal/audit"
	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/messaging"
	"github.com/spec-kit/identity-service/internal/observability"
	"github.com/spec-kit/identity-service/internal/persistence"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/internal/service"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	staffRepo := repository.NewCachedStaffRepository(
		repository.NewStaffRepository(pool), redis.Client, cfg.Redis.CacheTTL(), logger)
	youthRepo := repository.NewCachedYouthRepository(
		repository.NewYouthRepository(pool), redis.Client, cfg.Redis.CacheTTL(), logger)
	attemptRepo := repository.NewAttemptRepository(pool)

	sinks := []audit.Sink{audit.NewRepositorySink(attemptRepo, logger)}
	var publisher *messaging.AMQPPublisher
	if cfg.AMQP.URL != "" {
		publisher, err = messaging.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger)
		if err != nil {
			logger.Fatal("failed to connect amqp", zap.Error(err))
		}
		defer publisher.Close()
		sinks = append(sinks, audit.NewPublisherSink(publisher))
	}
	recorder := audit.NewAsyncRecorder(cfg.Audit, sinks, logger, metrics)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		StaffRepo: staffRepo,
		YouthRepo: youthRepo,
		Recorder:  recorder,
		Metrics:   metrics,
		Logger:    logger,
	})
	provisionService := service.NewProvisionService(staffRepo, youthRepo, attemptRepo, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo, youthRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(provisionService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	metricsServer := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler()}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	_ = metricsServer.Close()
	recorder.Close()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
