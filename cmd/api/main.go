package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/service-center/internal/api/http"
	"github.com/spec-kit/service-center/internal/api/http/handlers"
	"github.com/spec-kit/service-center/internal/auth"
	"github.com/spec-kit/service-center/internal/clock"
	"github.com/spec-kit/service-center/internal/config"
	"github.com/spec-kit/service-center/internal/events"
	"github.com/spec-kit/service-center/internal/observability"
	"github.com/spec-kit/service-center/internal/persistence"
	"github.com/spec-kit/service-center/internal/repository"
	"github.com/spec-kit/service-center/internal/seed"
	"github.com/spec-kit/service-center/internal/service"
	"github.com/spec-kit/service-center/internal/worker"
)

type flags struct {
	envFile string
	seed    string
	noSeed  bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	flagSet := pflag.NewFlagSet("service-center", pflag.ContinueOnError)
	flagSet.StringVar(&f.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flagSet.StringVar(&f.seed, "seed", "", "YAML seed applied when the store is empty (default: built-in sample data)")
	flagSet.BoolVar(&f.noSeed, "no-seed", false, "start with an empty service center")
	if err := flagSet.Parse(args); err != nil {
		return f, err
	}
	return f, nil
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("invalid flags: %v", err)
	}

	cfg, err := config.Load(f.envFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if f.seed != "" {
		cfg.Seed.Path = f.seed
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.NewDocumentStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open document store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer store.Close()

	registry, err := repository.NewLoader(store, logger).Load(ctx)
	if err != nil {
		logger.Fatal("failed to load state", zap.Error(err))
	}
	flusher := repository.NewFlusher(store, logger)

	if registry.Empty() && !f.noSeed {
		if err := applySeed(ctx, cfg, registry, flusher); err != nil {
			logger.Fatal("failed to seed", zap.Error(err))
		}
		logger.Info("seeded empty store", zap.String("path", cfg.Seed.Path))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	deps := service.Dependencies{
		Registry:   registry,
		Flusher:    flusher,
		Dispatcher: dispatcher,
		Clock:      clock.Real(),
		Logger:     logger,
		Metrics:    metrics,
	}

	stats := service.NewStatisticsService(deps)
	dispatch := service.NewDispatchService(deps, stats, cfg.Dispatch)
	categories := service.NewCategoryService(deps)
	stations := service.NewStationService(deps)
	employees := service.NewEmployeeService(cfg.Auth, deps)
	clients := service.NewClientService(deps)
	authService := service.NewAuthService(cfg.Auth, deps)
	history := service.NewHistoryService(deps, repository.NewTicketHistoryRepository())

	notifyDeps := service.NotificationDependencies{
		Dispatcher: dispatcher,
		Channel:    cfg.Redis.DisplayChannel,
		Logger:     logger,
	}
	if rdb, ok := store.(*persistence.Redis); ok {
		notifyDeps.Publisher = rdb
	}
	notifications := service.NewNotificationService(notifyDeps, cfg.Notification)
	worker.StartNotificationWorker(notifications, logger)
	worker.StartHistoryWorker(history, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Store.Backend, store),
		Users:          handlers.NewUsersHandler(authService),
		Clients:        handlers.NewClientsHandler(clients, dispatch),
		Tickets:        handlers.NewTicketsHandler(dispatch, categories, history),
		Employee:       handlers.NewEmployeeHandler(dispatch, employees, stations, notifications),
		Admin:          handlers.NewAdminHandler(categories, stations, employees),
		Statistics:     handlers.NewStatisticsHandler(stats),
		Display:        handlers.NewDisplayHandler(notifications, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), registry.Users),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func applySeed(ctx context.Context, cfg *config.Config, registry *repository.Registry, flusher repository.Flusher) error {
	data, err := seed.Load(cfg.Seed.Path)
	if err != nil {
		return err
	}
	if err := seed.Apply(registry, data, cfg.Auth.BcryptCost); err != nil {
		return err
	}
	if err := repository.SaveAll(ctx, flusher, registry); err != nil {
		return fmt.Errorf("persist seed: %w", err)
	}
	return nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
