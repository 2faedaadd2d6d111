package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"kletos/internal/cache"
	"kletos/internal/config"
	"kletos/internal/service"
	"kletos/internal/store"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("Starting seed script...")

	// Load configuration
	cfg := config.Load()
	if cfg.StoreDriver == config.StoreMemory {
		logrus.Fatal("seeding the in-memory store has no effect; use POST /api/seed/products on a running server")
	}

	// Connect and migrate
	stores, err := store.Open(cfg)
	if err != nil {
		logrus.Fatalf("Failed to open store: %v", err)
	}
	defer stores.Close()
	logrus.Info("Connected to database, migrations completed")

	// Cached listings must not outlive the seed.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	catalog := service.DefaultCatalog()
	logrus.Infof("Seeding %d products...", len(catalog))

	created, updated, err := service.NewCatalogService(stores.Products, cacheClient).SeedProducts(context.Background(), catalog)
	if err != nil {
		logrus.Fatalf("Failed to seed products: %v", err)
	}

	logrus.Info("Seed completed successfully!")
	logrus.Infof("  - New products created: %d", created)
	logrus.Infof("  - Existing products updated: %d", updated)
	logrus.Infof("  - Total products processed: %d", created+updated)
}
