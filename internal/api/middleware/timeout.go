package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Paths that legitimately run long: a scrape run holds a browser
// through settle and pacing delays, and proposal generation waits on
// an external process.
var longRunningPrefixes = []string{
	"/api/v1/jobs/extract",
	"/api/v1/proposal",
}

// SelectiveTimeoutConfig applies the short timeout to most endpoints
// and the long timeout to scrape and generation endpoints.
func SelectiveTimeoutConfig(short, long time.Duration) echo.MiddlewareFunc {
	shortTimeout := middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: short})
	longTimeout := middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: long})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, prefix := range longRunningPrefixes {
				if strings.HasPrefix(c.Path(), prefix) {
					return longTimeout(next)(c)
				}
			}
			return shortTimeout(next)(c)
		}
	}
}
