package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"upscout/internal/api/handlers"
	"upscout/internal/api/middleware"
	"upscout/internal/config"
	"upscout/internal/proposal"
	"upscout/internal/scraper"
	"upscout/internal/scraper/session"
	"upscout/internal/store"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, sessions *session.Manager, runner *scraper.Runner, st store.Store, persister *store.Persister, proposals *proposal.Service) {
	startTime := time.Now()

	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(rate.Limit(20))))
	// A scrape run legitimately outlives the default timeout: browser
	// settle and pacing delays add up across keywords and pages.
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, 10*time.Minute))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(st))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(startTime))

	// API v1 routes, bearer-token authenticated
	verifier := middleware.NewStaticTokenVerifier(cfg.Auth.Tokens)
	v1 := e.Group("/api/v1", middleware.BearerAuth(verifier))
	{
		jobs := v1.Group("/jobs")
		{
			jobs.GET("", handlers.ListJobsHandler(st))
			jobs.GET("/extract", handlers.ExtractJobsHandler(cfg, sessions, runner, persister))
			jobs.GET("/export", handlers.ExportJobsHandler(st))
		}

		v1.POST("/proposal", handlers.ProposalHandler(proposals))
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Upscout Job Scraper",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
