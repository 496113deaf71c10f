package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/brandshot/internal/api"
	"github.com/timmy/brandshot/internal/api/handler"
	"github.com/timmy/brandshot/internal/api/middleware"
	"github.com/timmy/brandshot/internal/auth"
	"github.com/timmy/brandshot/internal/config"
	"github.com/timmy/brandshot/internal/logger"
	"github.com/timmy/brandshot/internal/provider"
	"github.com/timmy/brandshot/internal/repository"
	"github.com/timmy/brandshot/internal/service"
	"github.com/timmy/brandshot/internal/storage"
	"github.com/timmy/brandshot/internal/store"
	"github.com/timmy/brandshot/internal/vision"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewFromEnv(logger.LoadFromEnv())
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	screenshotRepo := repository.NewScreenshotRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	// File-backed store for the unauthenticated capture workflow
	fileStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open record store")
	}

	// Optional capture archive on object storage
	var archive *storage.CaptureArchive
	if cfg.Storage.Enabled {
		objectStorage, err := storage.NewStorage(&storage.S3Config{
			Type:      storage.StorageType(cfg.Storage.Type),
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize storage")
		}
		if err := objectStorage.EnsureBucket(context.Background()); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
		archive = storage.NewCaptureArchive(objectStorage)
	}

	// Provider client and vision analyzer
	providerClient := provider.New(&provider.Config{
		BaseURL:   cfg.Provider.BaseURL,
		AccessKey: cfg.Provider.AccessKey,
	})
	analyzer := vision.NewAnalyzer(&vision.Config{
		OpenAI: vision.BackendConfig{
			APIKey:  cfg.Vision.OpenAI.APIKey,
			Model:   cfg.Vision.OpenAI.Model,
			BaseURL: cfg.Vision.OpenAI.BaseURL,
		},
		Anthropic: vision.BackendConfig{
			APIKey:  cfg.Vision.Anthropic.APIKey,
			Model:   cfg.Vision.Anthropic.Model,
			BaseURL: cfg.Vision.Anthropic.BaseURL,
		},
	})
	appLogger.WithField(logger.FieldProvider, analyzer.Name()).Info("Vision backend selected")

	captureService := service.NewCaptureService(providerClient, analyzer, archive, appLogger, service.CaptureDefaults{
		Format:   cfg.Provider.Format,
		Quality:  cfg.Provider.Quality,
		FullPage: cfg.Provider.FullPage,
	})
	catalogService := service.NewCatalogService(catalogRepo, appLogger)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Expiration)

	// Background status poller over both record stores
	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	if cfg.Poller.Enabled {
		poller := service.NewStatusPoller(captureService, cfg.Poller.Interval, appLogger, screenshotRepo, fileStore)
		go poller.Run(pollerCtx)
	}

	router := api.SetupRouter(api.RouterDeps{
		Screenshot: handler.NewScreenshotHandler(captureService, fileStore),
		Catalog:    handler.NewCatalogHandler(catalogService),
		Admin:      handler.NewAdminHandler(captureService, catalogService, screenshotRepo, appLogger),
		JWTManager: jwtManager,
		AdminRole:  cfg.Auth.AdminRole,
		Logger:     appLogger,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
	}, cfg.Server.Mode)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
