package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"upscout/internal/store"
	"upscout/pkg/models"
)

const version = "1.0.0"

// HealthHandler reports basic service health
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
	})
}

// LivenessHandler reports process liveness
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   version,
	})
}

// ReadinessHandler reports readiness, including store connectivity.
func ReadinessHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"store": "ok"}
		status := http.StatusOK
		overall := "ready"

		if err := st.Ping(ctx); err != nil {
			checks["store"] = err.Error()
			status = http.StatusServiceUnavailable
			overall = "not_ready"
		}

		return c.JSON(status, models.HealthResponse{
			Status:    overall,
			Timestamp: time.Now(),
			Version:   version,
			Checks:    checks,
		})
	}
}

// StatusHandler reports service identity and uptime
func StatusHandler(startTime time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"service": "upscout",
			"version": version,
			"status":  "running",
			"uptime":  time.Since(startTime).String(),
		})
	}
}
