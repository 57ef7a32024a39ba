package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"variant-catalog/config"
	"variant-catalog/internal/delivery/http/middleware"
	v1 "variant-catalog/internal/delivery/http/v1"
	"variant-catalog/internal/domain"
	"variant-catalog/internal/infrastructure/events"
	pgrepo "variant-catalog/internal/repository/postgres"
	"variant-catalog/internal/usecase"
	"variant-catalog/pkg/logger"
	"variant-catalog/pkg/storage"
	"variant-catalog/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

const (
	serviceName    = "variant-catalog"
	serviceVersion = "1.0.0"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)

	// Initialize Database
	pgxPool, err := pgrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	logger.Info().Msg("Successfully connected to PostgreSQL via pgx")

	if cfg.DBAutoMigrate {
		if err := pgrepo.Migrate(context.Background(), pgxPool); err != nil {
			logger.Fatal().Err(err).Msg("Failed to apply schema")
		}
		logger.Info().Msg("Schema applied")
	}

	// Initialize Repositories
	productRepo := pgrepo.NewProductRepository(pgxPool)
	imageRepo := pgrepo.NewImageRepository(pgxPool)
	taxonomyRepo := pgrepo.NewTaxonomyRepository(pgxPool)
	optionCatalog := pgrepo.NewOptionCatalog(pgxPool)
	variantStore := pgrepo.NewVariantStore(pgxPool)
	txManager := pgrepo.NewTransactionManager(pgxPool)

	// --- Storage Module (R2) ---
	// Left as a nil interface when unconfigured so use cases can detect it.
	var objectStorage domain.ObjectStorage
	if cfg.StorageEnabled() {
		r2Storage, err := storage.NewR2Storage(
			context.Background(),
			cfg.R2AccountID,
			cfg.R2AccessKeyID,
			cfg.R2AccessKeySecret,
			cfg.R2BucketName,
			cfg.R2PublicURL,
			cfg.R2UploadTimeout,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		objectStorage = r2Storage
	} else {
		logger.Warn().Msg("R2 storage not configured, image uploads are disabled")
	}

	// --- Events Module (NATS) ---
	var publisher domain.EventPublisher = events.NoopPublisher{}
	var natsPublisher *events.NATSPublisher
	if cfg.NATSUrl != "" {
		natsPublisher, err = events.NewNATSPublisher(cfg.NATSUrl, cfg.NATSSubjectPrefix)
		if err != nil {
			logger.Fatal().Err(err).Str("url", cfg.NATSUrl).Msg("Failed to connect to NATS")
		}
		publisher = natsPublisher
		logger.Info().Str("prefix", cfg.NATSSubjectPrefix).Msg("Publishing product events to NATS")
	}

	// --- Modules Initialization ---

	// Catalog Module
	attacher := usecase.NewVariantAttacher(optionCatalog, variantStore)
	catalogUC := usecase.NewCatalogUsecase(productRepo, imageRepo, attacher, txManager, objectStorage, publisher)
	catalogHandler := v1.NewCatalogHandler(catalogUC)
	adminCatalogHandler := v1.NewAdminCatalogHandler(catalogUC)

	// Taxonomy Module
	taxonomyUC := usecase.NewTaxonomyUsecase(taxonomyRepo)
	taxonomyHandler := v1.NewTaxonomyHandler(taxonomyUC)

	// Image Module
	imageUC := usecase.NewImageUsecase(imageRepo, objectStorage)
	imageHandler := v1.NewImageHandler(imageUC, cfg.MaxUploadSizeMB)

	healthHandler := v1.NewHealthHandler(pgxPool)

	// Set up Router
	mux := http.NewServeMux()

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct)
	mux.HandleFunc("GET /api/v1/units", taxonomyHandler.ListUnits)
	mux.HandleFunc("GET /api/v1/categories", taxonomyHandler.ListCategories)

	// Admin (Protected)
	adminMiddleware := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}

	// Admin Product Management
	mux.Handle("POST /api/v1/admin/products", adminMiddleware(adminCatalogHandler.CreateProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}", adminMiddleware(adminCatalogHandler.UpdateProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", adminMiddleware(adminCatalogHandler.DeleteProduct))

	// Admin Taxonomy
	mux.Handle("POST /api/v1/admin/units", adminMiddleware(taxonomyHandler.CreateUnit))
	mux.Handle("DELETE /api/v1/admin/units/{id}", adminMiddleware(taxonomyHandler.DeleteUnit))
	mux.Handle("POST /api/v1/admin/categories", adminMiddleware(taxonomyHandler.CreateCategory))
	mux.Handle("DELETE /api/v1/admin/categories/{id}", adminMiddleware(taxonomyHandler.DeleteCategory))

	// Admin Images
	mux.Handle("GET /api/v1/admin/images", adminMiddleware(imageHandler.ListImages))
	mux.Handle("POST /api/v1/admin/images", adminMiddleware(imageHandler.UploadImage))
	mux.Handle("DELETE /api/v1/admin/images/{id}", adminMiddleware(imageHandler.DeleteImage))

	// Health Check
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("GET /health", healthHandler.Health) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		cfg.RateLimitRPS,
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS, Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, serviceVersion, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	if natsPublisher != nil {
		if err := natsPublisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to drain NATS connection")
		}
	}

	logger.ServiceStop(serviceName)
}
