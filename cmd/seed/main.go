package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/timmy/brandshot/internal/config"
	"github.com/timmy/brandshot/internal/logger"
	"github.com/timmy/brandshot/internal/repository"
	"github.com/timmy/brandshot/internal/seed"
)

// Loads a brand catalog manifest into the database. Re-running the same
// manifest is safe: categories and brands match by slug, pages by URL.
func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "brandshot-seed",
	})
	logger.SetDefaultLogger(appLogger)

	manifestPath := flag.String("manifest", "./configs/catalog.json", "Path to catalog manifest")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	manifest, err := seed.LoadManifest(*manifestPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load manifest")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	seeder := seed.NewSeeder(repository.NewCatalogRepository(db), appLogger)
	stats, err := seeder.Run(ctx, manifest)
	if err != nil {
		appLogger.WithError(err).Fatal("Seeding failed")
	}

	appLogger.WithFields(logger.Fields{
		"categories": stats.Categories,
		"brands":     stats.Brands,
		"pages":      stats.Pages,
	}).Info("Done")
}
