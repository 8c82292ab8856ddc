package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/partsbridge/backend-go/internal/api"
	"github.com/partsbridge/backend-go/internal/cache"
	"github.com/partsbridge/backend-go/internal/config"
	"github.com/partsbridge/backend-go/internal/importer"
	"github.com/partsbridge/backend-go/internal/repository/postgres"
	"github.com/partsbridge/backend-go/internal/service"
	"github.com/partsbridge/backend-go/internal/storage"
	"github.com/partsbridge/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	categoryRepo := postgres.NewCategoryRepository(db)
	productRepo := postgres.NewProductRepository(db)

	// Initialize catalog cache
	catalogCache, err := cache.NewCatalogCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Catalog cache unavailable, continuing without it")
		catalogCache = cache.NewNoopCatalogCache()
	}

	// Initialize import archive
	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		archive, err = storage.NewMinioClient(cfg.Archive)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Import archive unavailable, continuing without it")
			archive = nil
		}
	}

	// Initialize services
	imp := importer.New(categoryRepo, productRepo, importer.Config{
		CategoryBatchSize:  cfg.Import.CategoryBatchSize,
		FetchPageSize:      cfg.Import.FetchPageSize,
		WriteBatchSize:     cfg.Import.WriteBatchSize,
		ShardCount:         cfg.Import.ShardCount,
		MaxInFlightBatches: cfg.Import.MaxInFlightBatches,
	})
	importService := service.NewImportService(imp, catalogCache, archive)
	productService := service.NewProductService(productRepo, categoryRepo, catalogCache)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		ProductService: productService,
		ImportService:  importService,
	}, cfg.Server.AllowedOrigins, cfg.App.UploadDir)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Ops endpoints run on their own listener
	opsSrv := &http.Server{
		Addr:    ":" + cfg.Server.OpsPort,
		Handler: api.NewOpsRouter(db),
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.OpsPort).Msg("Starting ops server")
		if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error().Err(err).Msg("Ops server stopped")
		}
	}()

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	if err := opsSrv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Ops server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
