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

	"github.com/labstack/echo/v4"

	"upscout/internal/api/routes"
	"upscout/internal/config"
	"upscout/internal/logging"
	"upscout/internal/proposal"
	"upscout/internal/scraper"
	"upscout/internal/scraper/session"
	"upscout/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Upscout Job Scraper", map[string]interface{}{
		"headless": cfg.Scraper.HeadlessMode,
	})

	// Initialize the document store
	redisStore := store.NewRedisStore(cfg)
	defer redisStore.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisStore.Ping(pingCtx); err != nil {
		logger.Warn("Redis not reachable at startup, readiness will report it", map[string]interface{}{
			"error": err.Error(),
		})
	}
	cancel()

	// Wire the scrape pipeline
	sessions := session.NewManager(cfg)
	pacer := scraper.NewPacer(cfg.Scraper.SettleDelay, cfg.Scraper.PageDelay)
	runner := scraper.NewRunner(cfg, pacer)
	persister := store.NewPersister(redisStore)

	// Wire proposal generation
	generator := proposal.NewProcessRunner(cfg)
	proposals := proposal.NewService(redisStore, generator)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	routes.SetupRoutes(e, cfg, sessions, runner, redisStore, persister, proposals)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...", map[string]interface{}{})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		if err := redisStore.Close(); err != nil {
			logger.Error("Error closing store", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete", map[string]interface{}{})
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{
		"address": address,
	})

	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
