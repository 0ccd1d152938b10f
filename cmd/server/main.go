package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cloudstorage "cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TechLionDev/InviStar/internal/auth"
	"github.com/TechLionDev/InviStar/internal/config"
	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/filestore"
	"github.com/TechLionDev/InviStar/internal/invoice"
	"github.com/TechLionDev/InviStar/internal/logging"
	"github.com/TechLionDev/InviStar/internal/reconcile"
	"github.com/TechLionDev/InviStar/internal/router"
	"github.com/TechLionDev/InviStar/internal/service"
	"github.com/TechLionDev/InviStar/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	zap.ReplaceGlobals(baseLogger)
	logger := baseLogger.Named("invistar")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialise database pool", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to reach database", zap.Error(err))
	}
	queries := database.New(pool)

	taxRate, err := decimal.NewFromString(cfg.DefaultTaxRate)
	if err != nil {
		logger.Fatal("invalid default tax rate", zap.String("value", cfg.DefaultTaxRate), zap.Error(err))
	}

	hub := ws.NewHub(logger.Named("ws"))
	go hub.Run(ctx)

	sessions := auth.NewSessionNotifier()
	sessions.Subscribe(hub.OnSessionChange)

	files, closeFiles, err := newFileStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialise file store", zap.String("kind", cfg.FileStore), zap.Error(err))
	}
	defer func() {
		if err := closeFiles(); err != nil {
			logger.Warn("file store close error", zap.Error(err))
		}
	}()

	generator := invoice.NewGenerator(cfg.InvoiceEndpoint, queries, files,
		invoice.WithHTTPClient(&http.Client{Timeout: cfg.InvoiceTimeout}),
		invoice.WithLogger(logger.Named("invoice")),
		invoice.WithEvents(hub),
	)
	if cfg.InvoiceEndpoint == "" {
		logger.Warn("INVOICE_ENDPOINT not set; invoice generation disabled")
	}

	orders := service.NewOrderService(pool,
		func(db database.DBTX) service.OrderStore { return database.New(db) },
		service.WithEvents(hub),
		service.WithRemovedPolicy(reconcile.ParsePolicy(cfg.RemovedItems)),
		service.WithDefaultTaxRate(taxRate),
	)

	handler := router.New(router.Deps{
		Config:   cfg,
		Queries:  queries,
		Orders:   orders,
		Invoices: generator,
		Files:    files,
		Hub:      hub,
		Sessions: sessions,
		Logger:   logger.Named("http"),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("invistar api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newFileStore returns the configured store and a func releasing its client.
func newFileStore(ctx context.Context, cfg *config.Config) (filestore.Store, func() error, error) {
	if cfg.FileStore != "gcs" {
		local, err := filestore.NewLocal(cfg.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return local, func() error { return nil }, nil
	}

	client, err := cloudstorage.NewClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("storage client: %w", err)
	}
	gcs, err := filestore.NewGCS(client, cfg.GCSBucket, "")
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return gcs, client.Close, nil
}
