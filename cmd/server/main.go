package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/auth"
	"github.com/iliyamo/repair-shop/internal/config"
	"github.com/iliyamo/repair-shop/internal/database"
	"github.com/iliyamo/repair-shop/internal/handler"
	"github.com/iliyamo/repair-shop/internal/middleware"
	"github.com/iliyamo/repair-shop/internal/queue"
	"github.com/iliyamo/repair-shop/internal/repository"
	"github.com/iliyamo/repair-shop/internal/router"
	"github.com/iliyamo/repair-shop/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// the logger is configured from cfg, so fall back to a default one
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		zap.NewExample().Fatal("build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// run wires the stores, services and HTTP stack, then serves until ctx is
// cancelled by a signal or the listener fails.
func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database first; everything below needs it.
	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		rep, err := database.Apply(ctx, db, cfg.MigrationsDir, log)
		if err != nil {
			return err
		}
		log.Info("migrations done", zap.Int("applied", len(rep.Applied)), zap.Int("skipped", len(rep.Skipped)))
	}

	// Redis only backs the rate limiter, so it is optional.
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting disabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		defer rdb.Close()
	}

	// Events go to RabbitMQ when enabled; otherwise they are dropped.
	var events service.Publisher = queue.Nop{}
	if cfg.EventsEnabled {
		pub := queue.NewPublisher(cfg.RabbitURL, log)
		defer pub.Close()
		events = pub
		if cfg.EventLogPath != "" {
			consumer := queue.NewConsumer(cfg.RabbitURL, cfg.EventLogPath, log)
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("event consumer stopped", zap.Error(err))
				}
			}()
		}
	}

	// Stores, then services behind their handlers.
	users := repository.NewUserRepo(db)
	customers := repository.NewCustomerRepo(db)
	locations := repository.NewLocationRepo(db)
	tickets := repository.NewTicketRepo(db)
	items := repository.NewInventoryRepo(db)
	transfers := repository.NewTransferRepo(db)
	invoices := repository.NewInvoiceRepo(db)
	reports := repository.NewReportingRepo(db)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, users, log)

	h := router.Handlers{
		Health:    handler.NewHealth(db),
		Auth:      handler.NewAuth(service.NewAuthService(users, tokens, cfg.BcryptCost, log)),
		Ticket:    handler.NewTicket(service.NewTicketService(tickets, customers, users, locations, events, log)),
		Customer:  handler.NewCustomer(service.NewCustomerService(customers, log)),
		User:      handler.NewUser(service.NewUserService(users, cfg.BcryptCost, log)),
		Location:  handler.NewLocation(service.NewLocationService(locations, log)),
		Inventory: handler.NewInventory(service.NewInventoryService(items, locations, log)),
		Transfer:  handler.NewTransfer(service.NewTransferService(transfers, items, locations, events, log)),
		Invoice:   handler.NewInvoice(service.NewInvoiceService(invoices, customers, tickets, locations, log)),
		Reporting: handler.NewReporting(service.NewReportingService(reports, log)),
	}

	metrics := middleware.NewMetrics()

	// Global middleware: recovery, request id, headers, logging, metrics.
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.SecureHeaders(cfg.IsProduction()))
	e.Use(middleware.RequestLogger(log))
	e.Use(metrics.Middleware())

	// The API limiter keys on the configured strategy once the caller is
	// known; the open auth routes only have the client address to go on.
	authLimit := cfg.RateLimit
	authLimit.KeyStrategy = "ip"
	authLimit.Prefix = cfg.RateLimit.Prefix + ":auth"

	router.Register(e, h, router.Gates{
		Tokens:        tokens,
		Locations:     locations,
		RateLimit:     middleware.RateLimit(cfg.RateLimit, rdb, log),
		AuthRateLimit: middleware.RateLimit(authLimit, rdb, log),
	}, metrics.Handler())

	// Serve in the background and wait for a signal or a listener error.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Drain in-flight requests before returning.
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
