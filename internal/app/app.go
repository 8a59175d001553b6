// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bissquit/receipt-notifier/internal/config"
	"github.com/bissquit/receipt-notifier/internal/notifications"
	"github.com/bissquit/receipt-notifier/internal/notifications/email"
	notificationspostgres "github.com/bissquit/receipt-notifier/internal/notifications/postgres"
	"github.com/bissquit/receipt-notifier/internal/pkg/httputil"
	"github.com/bissquit/receipt-notifier/internal/pkg/metrics"
	"github.com/bissquit/receipt-notifier/internal/pkg/postgres"
	"github.com/bissquit/receipt-notifier/internal/upstream"
	"github.com/bissquit/receipt-notifier/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "notification-service"

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	db            *pgxpool.Pool
	server        *http.Server
	metricsServer *http.Server
	metricsCancel context.CancelFunc
}

// New creates a new application instance: it connects the database pool,
// applies schema migrations and wires every component explicitly.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg)
	slog.SetDefault(logger)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	db, err := postgres.Connect(connectCtx, postgres.Config{
		URL:             cfg.Database.URL(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := postgres.Migrate(cfg.Database.URL()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	metricsCtx, metricsCancel := context.WithCancel(context.Background())

	app := &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		metricsCancel: metricsCancel,
	}

	go app.collectDBMetrics(metricsCtx)

	router, err := app.setupRouter()
	if err != nil {
		db.Close()
		metricsCancel()
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	// Start metrics server in background
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
		"order_service_url", a.config.Upstream.OrderServiceURL,
		"payment_service_url", a.config.Upstream.PaymentServiceURL,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	a.metricsCancel()

	// Shutdown both servers in parallel
	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	a.db.Close()

	return errors.Join(errs...)
}

func (a *App) collectDBMetrics(ctx context.Context) {
	// Collect immediately on start
	metrics.RecordDBPoolMetrics(a.db)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics.RecordDBPoolMetrics(a.db)
		case <-ctx.Done():
			return
		}
	}
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) setupRouter() (*chi.Mux, error) {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", a.healthHandler)
	r.Get("/version", a.versionHandler)

	repo := notificationspostgres.NewRepository(a.db)

	ordersClient := upstream.NewOrdersClient(a.config.Upstream.OrderServiceURL)
	paymentsClient := upstream.NewPaymentsClient(a.config.Upstream.PaymentServiceURL)

	sender, err := email.NewSender(email.Config{
		Enabled:      a.config.SMTP.Enabled,
		SMTPHost:     a.config.SMTP.Host,
		SMTPPort:     a.config.SMTP.Port,
		SMTPUser:     a.config.SMTP.User,
		SMTPPassword: a.config.SMTP.Password,
		FromAddress:  a.config.SMTP.FromAddress,
		FromName:     a.config.SMTP.FromName,
	})
	if err != nil {
		return nil, fmt.Errorf("create email sender: %w", err)
	}

	if !a.config.SMTP.Enabled {
		slog.Warn("email sender is disabled: receipts will be recorded but not delivered")
	}

	renderer, err := notifications.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("create receipt renderer: %w", err)
	}

	mailer := notifications.NewMailer(renderer, sender)
	service := notifications.NewService(repo, ordersClient, paymentsClient, mailer)
	handler := notifications.NewHandler(service)

	handler.RegisterRoutes(r)

	return r, nil
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	database := "connected"
	if err := a.db.Ping(ctx); err != nil {
		a.logger.Warn("health check database ping failed", "error", err)
		database = "unreachable"
	}

	// The process being alive is the health contract; database state is
	// reported but never fails the check.
	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"service":  serviceName,
		"database": database,
	})
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	hostname, _ := os.Hostname()

	return slog.New(handler).With(
		"service", serviceName,
		"environment", cfg.Environment,
		"host", hostname,
		"pid", os.Getpid(),
	)
}
