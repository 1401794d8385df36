package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/it-inventory/internal/api/http"
	"github.com/spec-kit/it-inventory/internal/api/http/handlers"
	"github.com/spec-kit/it-inventory/internal/auth"
	"github.com/spec-kit/it-inventory/internal/config"
	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/events"
	"github.com/spec-kit/it-inventory/internal/observability"
	"github.com/spec-kit/it-inventory/internal/persistence"
	"github.com/spec-kit/it-inventory/internal/repository"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
	"github.com/spec-kit/it-inventory/internal/worker"
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

	pool := pg.PoolHandle()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	readiness := map[string]handlers.Pinger{"postgres": pg}

	var sessionStore session.Store
	if cfg.Auth.SessionStore == "redis" {
		redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()
		sessionStore = session.NewRedisStore(redis.Client)
		readiness["redis"] = redis
	} else {
		logger.Warn("using in-memory session store; sessions are lost on restart")
		sessionStore = session.NewMemoryStore()
	}
	sessions := session.NewManager(sessionStore, session.NewTokenCodec(cfg.Auth.SessionSecret), cfg.Auth.SessionStoreTTL(), logger)

	userRepo := repository.NewUserRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)
	equipmentRepo := repository.NewEquipmentRepository(pool)
	hardwareRepo := repository.NewHardwareRepository(pool)
	softwareRepo := repository.NewSoftwareRepository(pool)
	incidentRepo := repository.NewIncidentRepository(pool)
	maintenanceRepo := repository.NewMaintenanceRepository(pool)

	eventWorker := worker.NewEventWorker(events.NewInMemoryDispatcher(), 256, logger)
	eventWorker.Start(service.NewNotificationService(eventWorker, logger, cfg.Notification))
	defer eventWorker.Stop()

	authService := service.NewAuthService(cfg.Auth, userRepo, logger)
	if err := authService.EnsureAdmin(ctx); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	locationService := service.NewLocationService(service.LocationDependencies{
		LocationRepo:    locationRepo,
		EquipmentRepo:   equipmentRepo,
		HardwareRepo:    hardwareRepo,
		IncidentRepo:    incidentRepo,
		MaintenanceRepo: maintenanceRepo,
		Dispatcher:      eventWorker,
		Logger:          logger,
	})
	assetDeps := service.AssetDependencies{
		EquipmentRepo:   equipmentRepo,
		HardwareRepo:    hardwareRepo,
		IncidentRepo:    incidentRepo,
		MaintenanceRepo: maintenanceRepo,
		Dispatcher:      eventWorker,
		Logger:          logger,
	}
	equipmentService := service.NewEquipmentService(assetDeps)
	hardwareService := service.NewHardwareService(assetDeps)
	softwareService := service.NewSoftwareService(softwareRepo)
	recordDeps := service.RecordDependencies{
		IncidentRepo:    incidentRepo,
		MaintenanceRepo: maintenanceRepo,
		Dispatcher:      eventWorker,
		Logger:          logger,
	}
	incidentService := service.NewIncidentService(recordDeps)
	maintenanceService := service.NewMaintenanceService(recordDeps)

	lookups := handlers.RecordLookups{
		Equipment: equipmentService,
		Hardware:  hardwareService,
		Users:     userService,
		Locations: locationService,
	}
	gate := auth.NewGate(userRepo, auth.SessionPolicy{MaxAge: cfg.Auth.SessionTTL()}, logger, metrics)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Upload.MaxBytes + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, sessions, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:               handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, readiness),
		Auth:                 handlers.NewAuthHandler(authService),
		Equipment:            handlers.NewEquipmentHandler(equipmentService, locationService, int64(cfg.Upload.MaxBytes), logger),
		Hardware:             handlers.NewHardwareHandler(hardwareService, locationService),
		Software:             handlers.NewSoftwareHandler(softwareService),
		Locations:            handlers.NewLocationHandler(locationService),
		Users:                handlers.NewUsersHandler(userService),
		EquipmentIncidents:   handlers.NewIncidentHandler(domain.AssetEquipment, incidentService, lookups),
		HardwareIncidents:    handlers.NewIncidentHandler(domain.AssetHardware, incidentService, lookups),
		EquipmentMaintenance: handlers.NewMaintenanceHandler(domain.AssetEquipment, maintenanceService, lookups),
		HardwareMaintenance:  handlers.NewMaintenanceHandler(domain.AssetHardware, maintenanceService, lookups),
		Gate:                 gate,
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
