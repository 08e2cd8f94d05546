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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/attendance"
	attendancePostgres "github.com/zonoapp/workforce/internal/attendance/postgres"
	"github.com/zonoapp/workforce/internal/auth"
	authPostgres "github.com/zonoapp/workforce/internal/auth/postgres"
	"github.com/zonoapp/workforce/internal/availability"
	availabilityPostgres "github.com/zonoapp/workforce/internal/availability/postgres"
	"github.com/zonoapp/workforce/internal/core/events"
	"github.com/zonoapp/workforce/internal/employee"
	employeePostgres "github.com/zonoapp/workforce/internal/employee/postgres"
	"github.com/zonoapp/workforce/internal/inventory"
	inventoryPostgres "github.com/zonoapp/workforce/internal/inventory/postgres"
	"github.com/zonoapp/workforce/internal/notification"
	notificationPostgres "github.com/zonoapp/workforce/internal/notification/postgres"
	"github.com/zonoapp/workforce/internal/shift"
	shiftPostgres "github.com/zonoapp/workforce/internal/shift/postgres"
	"github.com/zonoapp/workforce/internal/swap"
	swapPostgres "github.com/zonoapp/workforce/internal/swap/postgres"
	"github.com/zonoapp/workforce/internal/tenant"
	tenantPostgres "github.com/zonoapp/workforce/internal/tenant/postgres"
	"github.com/zonoapp/workforce/internal/transport/middleware"
	"github.com/zonoapp/workforce/internal/transport/rest"
	"github.com/zonoapp/workforce/pkg/logger"
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
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	AuthMW   func(http.Handler) http.Handler
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Config, deps.Handlers, deps.AuthMW, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

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
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm rides on the same pgx connection pool the health check pings.
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	loc, err := config.Workforce.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load workforce timezone: %w", err)
	}

	bus := events.NewEventBus(lg)

	// The employee repository doubles as the directory the other
	// services use to resolve employees.
	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	shiftRepo := shiftPostgres.NewShiftRepository(gormDB)
	swapRepo := swapPostgres.NewSwapRepository(gormDB)
	attendanceRepo := attendancePostgres.NewAttendanceRepository(gormDB)
	availabilityRepo := availabilityPostgres.NewAvailabilityRepository(gormDB)
	tenantRepo := tenantPostgres.NewTenantRepository(gormDB)
	inventoryRepo := inventoryPostgres.NewInventoryRepository(gormDB)
	userRepo := authPostgres.NewUserRepository(gormDB)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	auditRepo := notificationPostgres.NewAuditRepository(gormDB)
	recipientRepo := notificationPostgres.NewRecipientRepository(gormDB)

	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration)
	authService := auth.NewService(userRepo, tokenGen, config.Security.BCryptCost, lg)

	shiftService := shift.NewService(shiftRepo, employeeRepo, bus, config.Workforce.DefaultShiftRole, lg)
	swapService := swap.NewService(swapRepo, employeeRepo, bus, lg)
	attendanceService := attendance.NewService(attendanceRepo, employeeRepo, shiftRepo, bus,
		loc, config.Workforce.ClockInGrace(), config.Workforce.ClockOutGrace(), lg)
	availabilityService := availability.NewService(availabilityRepo, employeeRepo, lg)
	employeeService := employee.NewService(employeeRepo, bus, lg)
	tenantService := tenant.NewService(tenantRepo, bus, lg)
	inventoryService := inventory.NewService(inventoryRepo, bus, lg)

	hub := notification.NewHub(lg)
	mailer := notification.NewMailer(config.Mail, lg)
	notificationService := notification.NewService(notificationRepo, hub, lg)

	eventHandler := notification.NewEventHandler(notificationService, recipientRepo, mailer, auditRepo, lg)
	eventHandler.RegisterEventHandlers(bus)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		Shift:        shift.NewHandler(shiftService),
		Swap:         swap.NewHandler(swapService),
		Attendance:   attendance.NewHandler(attendanceService),
		Availability: availability.NewHandler(availabilityService),
		Employee:     employee.NewHandler(employeeService),
		Tenant:       tenant.NewHandler(tenantService),
		Inventory:    inventory.NewHandler(inventoryService),
		Notification: notification.NewHandler(notificationService, hub, config.Server.AllowedOrigins),
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		AuthMW:   middleware.Authentication(authService, employeeRepo, lg),
		Logger:   lg,
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
