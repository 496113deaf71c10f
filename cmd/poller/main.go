package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/timmy/brandshot/internal/config"
	"github.com/timmy/brandshot/internal/logger"
	"github.com/timmy/brandshot/internal/provider"
	"github.com/timmy/brandshot/internal/repository"
	"github.com/timmy/brandshot/internal/service"
	"github.com/timmy/brandshot/internal/storage"
	"github.com/timmy/brandshot/internal/store"
	"github.com/timmy/brandshot/internal/vision"
)

// Standalone status poller. Runs the same fixed-interval resolution loop
// the API server embeds, for deployments that scale polling separately.
func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "brandshot-poller",
	})
	logger.SetDefaultLogger(appLogger)

	configPath := flag.String("config", "", "Path to config file")
	interval := flag.Duration("interval", 0, "Poll interval override (0 uses config)")
	once := flag.Bool("once", false, "Resolve current pending records and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	screenshotRepo := repository.NewScreenshotRepository(db)

	fileStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open record store")
	}

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
		archive = storage.NewCaptureArchive(objectStorage)
	}

	providerClient := provider.New(&provider.Config{
		BaseURL:   cfg.Provider.BaseURL,
		AccessKey: cfg.Provider.AccessKey,
	})
	captureService := service.NewCaptureService(providerClient, vision.NewAnalyzer(nil), archive, appLogger, service.CaptureDefaults{
		Format:   cfg.Provider.Format,
		Quality:  cfg.Provider.Quality,
		FullPage: cfg.Provider.FullPage,
	})

	pollInterval := cfg.Poller.Interval
	if *interval > 0 {
		pollInterval = *interval
	}
	poller := service.NewStatusPoller(captureService, pollInterval, appLogger, screenshotRepo, fileStore)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	if *once {
		poller.PollOnce(ctx)
		return
	}

	poller.Run(ctx)
}
