package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/cache"
	"github.com/uvdesk/uvledger/internal/charge"
	chargeStore "github.com/uvdesk/uvledger/internal/charge/store"
	"github.com/uvdesk/uvledger/internal/config"
	"github.com/uvdesk/uvledger/internal/database"
	"github.com/uvdesk/uvledger/internal/finance"
	financeStore "github.com/uvdesk/uvledger/internal/finance/store"
	ledgerHttp "github.com/uvdesk/uvledger/internal/http"
	chargeHandler "github.com/uvdesk/uvledger/internal/http/charge"
	financeHandler "github.com/uvdesk/uvledger/internal/http/finance"
	invoiceHandler "github.com/uvdesk/uvledger/internal/http/invoice"
	salesMetricsHandler "github.com/uvdesk/uvledger/internal/http/salesmetrics"
	statementHandler "github.com/uvdesk/uvledger/internal/http/statement"
	txHandler "github.com/uvdesk/uvledger/internal/http/transaction"
	"github.com/uvdesk/uvledger/internal/invoice"
	invoiceStore "github.com/uvdesk/uvledger/internal/invoice/store"
	"github.com/uvdesk/uvledger/internal/metrics"
	"github.com/uvdesk/uvledger/internal/salesmetrics"
	salesMetricsStore "github.com/uvdesk/uvledger/internal/salesmetrics/store"
	"github.com/uvdesk/uvledger/internal/statement"
	"github.com/uvdesk/uvledger/internal/storage"
	"github.com/uvdesk/uvledger/internal/transaction"
	txStore "github.com/uvdesk/uvledger/internal/transaction/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(cfg.ConnectionString()); err != nil {
			return err
		}

		slog.Info("database migrations applied")
	}

	db, err := database.New(ctx, cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	idempotency, closeCache, err := newIdempotencyCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	archive, err := newArchive(cfg)
	if err != nil {
		return err
	}

	var (
		chargeService       = charge.NewService(chargeStore.New(db))
		financeService      = finance.NewService(financeStore.New(db))
		transactionService  = transaction.NewService(txStore.New(db))
		invoiceService      = invoice.NewService(invoiceStore.New(db), idempotency)
		statementService    = statement.NewService(chargeService, transactionService, invoiceService, archive, cfg.S3.URLExpiry)
		salesMetricsService = salesmetrics.NewService(salesMetricsStore.New(db))
	)

	opts := ledgerHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		opts.Metrics = metrics.New(reg)
		opts.Gatherer = reg
	}

	router := ledgerHttp.New(
		opts,
		chargeHandler.NewHandler(chargeService),
		financeHandler.NewHandler(financeService),
		invoiceHandler.NewHandler(invoiceService, opts.Metrics),
		txHandler.NewHandler(transactionService),
		statementHandler.NewHandler(statementService),
		salesMetricsHandler.NewHandler(salesMetricsService),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr)

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

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newIdempotencyCache connects to Redis when REDIS_ADDR is set. Without it
// invoice generation runs uncached.
func newIdempotencyCache(ctx context.Context, cfg *config.Config) (invoice.IdempotencyCache, func(), error) {
	if cfg.Redis.Addr == "" {
		slog.Info("redis not configured, idempotency keys disabled")
		return nil, func() {}, nil
	}

	client, err := cache.New(ctx, cache.Config{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
		Timeout:     cfg.Redis.Timeout,
		Prefix:      cfg.Redis.Prefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("failed to close redis", "error", err)
		}
	}

	return cache.NewIdempotency(client, cfg.Redis.IdempotencyTTL), closeFn, nil
}

// newArchive returns nil when no S3 endpoint is configured.
func newArchive(cfg *config.Config) (statement.Archiver, error) {
	if cfg.S3.Endpoint == "" {
		slog.Info("object storage not configured, statement archive disabled")
		return nil, nil
	}

	s3, err := storage.NewS3(storage.Config{
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		UseSSL:          cfg.S3.UseSSL,
		Prefix:          cfg.S3.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	return s3, nil
}
