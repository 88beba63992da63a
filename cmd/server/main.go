package main

import (
	"fmt"

	"github.com/shopkart/storefront/config"
	httpDelivery "github.com/shopkart/storefront/internal/delivery/http"
	"github.com/shopkart/storefront/internal/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.Environment == "development" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	logrus.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"session_ttl": cfg.Server.SessionTTL,
	}).Info("starting storefront reference backend")

	// Initialize storage
	store := storage.NewMemStore(cfg.Server.SessionTTL, cfg.Server.StartBalance)
	store.SeedProducts(storage.DefaultProducts())
	logrus.WithField("products", len(store.Products())).Info("catalog seeded")

	// Create HTTP handler and router
	handler := httpDelivery.NewHandler(store)
	router := httpDelivery.SetupRouter(cfg, handler, store)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logrus.WithField("addr", addr).Info("server listening")

	if err := router.Run(addr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
