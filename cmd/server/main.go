package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ridwanfathin/invoice-composer-service/internal/auth"
	"github.com/ridwanfathin/invoice-composer-service/internal/cache"
	"github.com/ridwanfathin/invoice-composer-service/internal/config"
	"github.com/ridwanfathin/invoice-composer-service/internal/database"
	"github.com/ridwanfathin/invoice-composer-service/internal/handler"
	"github.com/ridwanfathin/invoice-composer-service/internal/logging"
	"github.com/ridwanfathin/invoice-composer-service/internal/metrics"
	"github.com/ridwanfathin/invoice-composer-service/internal/middleware"
	"github.com/ridwanfathin/invoice-composer-service/internal/pdf"
	"github.com/ridwanfathin/invoice-composer-service/internal/repository"
	"github.com/ridwanfathin/invoice-composer-service/internal/server"
	"github.com/ridwanfathin/invoice-composer-service/internal/service"
	"github.com/ridwanfathin/invoice-composer-service/internal/storage"

	_ "github.com/ridwanfathin/invoice-composer-service/docs"
)

// @title Invoice Composer API
// @version 1.0
// @description Renders freelancer invoices as PDF documents and reports earnings.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogFormat, cfg.LogLevel)
	logger := slog.Default()

	ctx := context.Background()
	checks := map[string]handler.Pinger{}
	var cleanup []func()

	// Repository: PostgreSQL when configured, in-memory otherwise
	var repo repository.InvoiceRepository
	if cfg.PostgresURL != "" {
		db, err := database.NewPostgresDB(ctx, cfg.PostgresURL, int32(cfg.MaxWorkers*2))
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		cleanup = append(cleanup, db.Close)
		checks["postgres"] = db
		repo = repository.NewPostgresInvoiceRepository(db.GetPool())
	} else {
		logger.Warn("POSTGRES_DB_URL not set, using in-memory invoice repository")
		repo = repository.NewMemoryRepository()
	}

	// Rendered document cache
	var documentCache cache.DocumentCache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, renders will bypass the cache until it recovers", "addr", cfg.RedisAddr, "error", err)
		}
		cleanup = append(cleanup, func() { _ = redisCache.Close() })
		checks["redis"] = redisCache
		documentCache = redisCache
	}

	// Optional archive of rendered documents
	var archive service.Archiver
	if cfg.ArchiveEnabled() {
		s3Archive, err := storage.NewS3Archive(&storage.Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3AccessKeySecret,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
		})
		if err != nil {
			logger.Error("failed to create document archive", "error", err)
			os.Exit(1)
		}
		archive = s3Archive
	}

	opts := pdf.DefaultOptions()
	opts.PageSize = cfg.PageSize
	opts.Theme = cfg.Theme
	opts.CurrencySymbol = cfg.CurrencySymbol
	if cfg.Terms != "" {
		opts.DefaultTerms = cfg.Terms
	}
	if cfg.ThankYou != "" {
		opts.ThankYou = cfg.ThankYou
	}
	composer, err := pdf.NewComposer(opts)
	if err != nil {
		logger.Error("invalid document options", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	documentService := service.NewDocumentService(repo, composer, service.DocumentServiceConfig{
		Cache:      documentCache,
		CacheTTL:   cfg.CacheTTL,
		Archive:    archive,
		Metrics:    m,
		Logger:     logger,
		MaxWorkers: cfg.MaxWorkers,
	})
	earningsService := service.NewEarningsService(repo, time.Now)

	tokens := auth.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
	appServer := server.NewServer(cfg, logger, m, middleware.AuthMiddleware(tokens), server.Handlers{
		Health:    handler.NewHealthHandler(checks, time.Now),
		Documents: handler.NewDocumentHandler(documentService),
		Earnings:  handler.NewEarningsHandler(earningsService),
	})
	for _, fn := range cleanup {
		appServer.OnShutdown(fn)
	}

	logger.Info("starting server",
		"port", cfg.Port,
		"theme", composer.Theme().Name,
		"page_size", composer.Options().PageSize,
		"archive", archive != nil,
	)
	if err := appServer.Start(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
