package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contractor-booking/config"
	deliveryHttp "contractor-booking/internal/delivery/http"
	"contractor-booking/internal/delivery/http/handler"
	"contractor-booking/internal/delivery/http/middleware"
	domainRepo "contractor-booking/internal/domain/repository"
	"contractor-booking/internal/infrastructure/cache"
	"contractor-booking/internal/infrastructure/database"
	"contractor-booking/internal/infrastructure/storage"
	"contractor-booking/internal/repository"
	"contractor-booking/internal/repository/memory"
	"contractor-booking/internal/service"
	"contractor-booking/internal/usecase"
	"contractor-booking/pkg/jwt"
	"contractor-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// stores groups the repositories of the selected store driver
type stores struct {
	appointments domainRepo.AppointmentRepository
	slots        domainRepo.SlotRepository
	contractors  domainRepo.ContractorRepository
	ratings      domainRepo.RatingRepository
	auditLogs    domainRepo.AuditLogRepository
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.App.LogLevel)
	app.Log.Info("Configuration loaded successfully")

	repos, err := app.initStores(cfg)
	if err != nil {
		return nil, err
	}

	var slotGate service.SlotGate
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		app.Log.Info("Redis connected successfully")

		gate := service.NewRedisSlotGate(redisClient, repos.slots, app.Log, cfg.Scheduling.Location)
		syncCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := gate.SyncOnStartup(syncCtx); err != nil {
			// The database stays authoritative; a cold gate only lets more requests through to it
			app.Log.Warnf("Slot gate re-sync failed: %+v", err)
		}
		cancel()
		slotGate = gate
	} else {
		app.Log.Info("Redis disabled, slot bookings are decided by the store alone")
	}

	var proofStorage service.ProofStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ProofStorage(cfg.Storage, app.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to init proof storage: %w", err)
		}
		proofStorage = s3Storage
		app.Log.Infof("Proof uploads stored in bucket %s", cfg.Storage.Bucket)
	} else {
		app.Log.Info("S3_BUCKET not set, proof uploads accept image references only")
	}

	if cfg.App.Env == "development" {
		logDemoTokens(cfg, app.Log)
	}

	// Initialize all layers
	app.Server = initializeServer(cfg, app.Log, repos, slotGate, proofStorage)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

func (app *App) initStores(cfg *config.Config) (*stores, error) {
	switch cfg.App.StoreDriver {
	case StoreDriverMemory:
		store := memory.NewStore()
		if cfg.App.Env == "development" {
			seedDevelopmentData(store, app.Log)
		}
		app.Log.Warn("Using in-memory store, data is lost on restart")
		return &stores{
			appointments: store.Appointments(),
			slots:        store.Slots(),
			contractors:  store.Contractors(),
			ratings:      store.Ratings(),
			auditLogs:    store.AuditLogs(),
		}, nil

	case StoreDriverPostgres, "":
		if cfg.DB.RunMigrations {
			if err := database.RunMigrations(cfg.DB, app.Log); err != nil {
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		gormLevel := gormLogger.Warn
		if app.Log.IsLevelEnabled(logrus.DebugLevel) {
			gormLevel = gormLogger.Info
		}
		db, err := database.NewPostgresConnection(cfg.DB, gormLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		app.Log.Info("Database connected successfully")

		return &stores{
			appointments: repository.NewAppointmentRepository(db),
			slots:        repository.NewSlotRepository(db),
			contractors:  repository.NewContractorRepository(db),
			ratings:      repository.NewRatingRepository(db),
			auditLogs:    repository.NewAuditLogRepository(db),
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.App.StoreDriver)
	}
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, repos *stores, slotGate service.SlotGate, proofStorage service.ProofStorage) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize domain services
	calculator := service.NewSlotCalculator(service.SlotCalculatorOptions{
		WindowDays:   cfg.Scheduling.WindowDays,
		DayStart:     cfg.Scheduling.DayStart,
		DayEnd:       cfg.Scheduling.DayEnd,
		SlotInterval: cfg.Scheduling.SlotInterval,
		Location:     cfg.Scheduling.Location,
	})

	// Initialize usecases
	appointmentUsecase := usecase.NewAppointmentUsecase(log, repos.appointments, repos.slots, repos.contractors, repos.ratings, calculator, slotGate)
	approvalUsecase := usecase.NewApprovalUsecase(log, repos.appointments, proofStorage)
	ratingUsecase := usecase.NewRatingUsecase(log, repos.appointments, repos.contractors, repos.ratings)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, repos.auditLogs)
	contractorUsecase := usecase.NewContractorUsecase(log, repos.contractors)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	approvalHandler := handler.NewApprovalHandler(approvalUsecase, customValidator)
	ratingHandler := handler.NewRatingHandler(ratingUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	contractorHandler := handler.NewContractorHandler(contractorUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.HTTP.AllowedOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)

	// Initialize router
	router := deliveryHttp.NewRouter(appointmentHandler, approvalHandler, ratingHandler, auditLogHandler, contractorHandler, authMiddleware, corsMiddleware, loggingMiddleware, rateLimiter)

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
