package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/notify"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore

	// Service interfaces
	jwtService  auth.JWTService
	hasher      *auth.BcryptHasher
	taskService service.TaskService

	// Notification delivery
	hub            *notify.Hub
	redisClient    *redis.Client
	redisBridge    *notify.RedisBridge
	kafkaPublisher *notify.KafkaAuditPublisher

	// Cancels background goroutines like the Redis bridge loop.
	stopBackground context.CancelFunc
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger,
// and database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password hashing
	app.hasher = auth.NewBcryptHasher()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// Build the notification pipeline: the in-process hub delivers to
	// connected SSE sessions, Redis (when configured) carries events to
	// the hubs of other instances, and Kafka (when configured) mirrors
	// every dispatched event to an audit topic.
	app.hub = notify.NewHub(logger)

	backgroundCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	app.stopBackground = cancel

	var publisher notify.Publisher = app.hub
	if cfg.Redis.Enabled() {
		app.redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := app.redisClient.Ping(ctx).Err(); err != nil {
			cancel()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		publisher = notify.NewRedisPublisher(app.redisClient, logger)
		app.redisBridge = notify.NewRedisBridge(app.redisClient, app.hub, logger)
		go app.redisBridge.Run(backgroundCtx)

		logger.Info("Redis notification bridge started", "addr", cfg.Redis.Addr)
	}
	if cfg.Kafka.Enabled() {
		app.kafkaPublisher = notify.NewKafkaAuditPublisher(
			publisher,
			cfg.Kafka.Broker,
			cfg.Kafka.Topic,
			logger,
		)
		publisher = app.kafkaPublisher

		logger.Info("Kafka audit stream enabled",
			"broker", cfg.Kafka.Broker,
			"topic", cfg.Kafka.Topic)
	}

	// Initialize task service
	app.taskService, err = service.NewTaskService(app.taskStore, publisher, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.stopBackground != nil {
		app.stopBackground()
	}

	if app.kafkaPublisher != nil {
		if err := app.kafkaPublisher.Close(); err != nil {
			app.logger.Error("Error closing Kafka producer", "error", err)
		}
	}

	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("Error closing Redis client", "error", err)
		}
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
