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

	"github.com/frahmantamala/user-backoffice/internal"
	"github.com/frahmantamala/user-backoffice/internal/audit"
	auditPostgres "github.com/frahmantamala/user-backoffice/internal/audit/postgres"
	"github.com/frahmantamala/user-backoffice/internal/auth"
	authPostgres "github.com/frahmantamala/user-backoffice/internal/auth/postgres"
	"github.com/frahmantamala/user-backoffice/internal/core/events"
	"github.com/frahmantamala/user-backoffice/internal/mailer"
	"github.com/frahmantamala/user-backoffice/internal/passwords"
	"github.com/frahmantamala/user-backoffice/internal/resetweb"
	"github.com/frahmantamala/user-backoffice/internal/tokens"
	"github.com/frahmantamala/user-backoffice/internal/transport/rest"
	"github.com/frahmantamala/user-backoffice/internal/users"
	usersPostgres "github.com/frahmantamala/user-backoffice/internal/users/postgres"
	"github.com/frahmantamala/user-backoffice/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
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
	Config       *internal.Config
	DB           *sqlx.DB
	GormDB       *gorm.DB
	Router       *chi.Mux
	UserHandler  *users.Handler
	ResetHandler *resetweb.Handler
	ActorMW      *auth.Middleware
	Logger       *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

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
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.UserHandler, deps.ResetHandler, deps.ActorMW, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm rides on the pooled pgx connection sqlx already opened
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	auditRecorder := audit.NewRecorder(auditPostgres.NewAuditRepository(gormDB), appLogger)
	auditRecorder.RegisterSubscribers(eventBus)

	smtpMailer, err := mailer.NewSMTPMailer(config.Mail, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	hasher := passwords.NewHasher(config.Security.BCryptCost)
	resetTokens := tokens.NewResetTokenManager(config.Security.ResetTokenSecret, config.Security.ResetTokenDuration)

	userRepo := usersPostgres.NewUserRepository(gormDB)
	userService := users.NewService(userRepo, hasher, resetTokens, smtpMailer, eventBus, config.Server.BaseURL, appLogger)
	userHandler := users.NewHandler(userService)

	resetHandler, err := resetweb.NewHandler(userService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize reset form handler: %w", err)
	}

	actorMW := auth.NewMiddleware(
		auth.NewJWTTokenValidator(config.Security.AccessTokenSecret),
		authPostgres.NewRepository(gormDB),
	)

	return &Dependencies{
		Config:       config,
		Logger:       appLogger,
		DB:           db,
		GormDB:       gormDB,
		Router:       chi.NewRouter(),
		UserHandler:  userHandler,
		ResetHandler: resetHandler,
		ActorMW:      actorMW,
	}, nil
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

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
