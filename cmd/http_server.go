package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/auth"
	authPostgres "github.com/frahmantamala/workorder-management/internal/auth/postgres"
	"github.com/frahmantamala/workorder-management/internal/core/events"
	"github.com/frahmantamala/workorder-management/internal/permission"
	"github.com/frahmantamala/workorder-management/internal/transport/rest"
	"github.com/frahmantamala/workorder-management/internal/user"
	userPostgres "github.com/frahmantamala/workorder-management/internal/user/postgres"
	"github.com/frahmantamala/workorder-management/internal/workorder"
	workorderPostgres "github.com/frahmantamala/workorder-management/internal/workorder/postgres"
	"github.com/frahmantamala/workorder-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	// Permission engine: static catalog, built-in departments, resolver.
	registry := permission.NewRegistry()
	resolver := permission.NewResolver(registry)
	permissionService := permission.NewService(registry, lg)
	permissionHandler := permission.NewHandler(permissionService)

	// Auth
	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authRepo := authPostgres.NewAuthRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGenerator, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	// Users
	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, resolver)

	// Event bus with an audit-trail subscriber.
	eventBus := events.NewEventBus(lg)
	registerEventLogging(eventBus, lg)

	// Work orders
	workOrderRepo := workorderPostgres.NewWorkOrderRepository(gormDB)
	workOrderService := workorder.NewService(workOrderRepo, resolver, userService, eventBus, lg)
	workOrderHandler := workorder.NewHandler(workOrderService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:       authHandler,
		User:       userHandler,
		WorkOrder:  workOrderHandler,
		Permission: permissionHandler,
	}, resolver, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

func registerEventLogging(bus *events.EventBus, lg *slog.Logger) {
	logEvent := func(ctx context.Context, event events.Event) error {
		lg.Info("work order event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	}

	bus.Subscribe(events.EventTypeWorkOrderCreated, logEvent)
	bus.Subscribe(events.EventTypeWorkOrderTransitioned, logEvent)
	bus.Subscribe(events.EventTypeWorkOrderDeleted, logEvent)
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
