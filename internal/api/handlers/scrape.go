package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"upscout/internal/api/middleware"
	"upscout/internal/config"
	"upscout/internal/export"
	"upscout/internal/logging"
	"upscout/internal/scraper"
	"upscout/internal/scraper/session"
	"upscout/internal/store"
	"upscout/pkg/models"
	"upscout/pkg/utils"
)

// ExtractJobsHandler runs a full scrape: acquire an authenticated
// session, walk every keyword and page, persist the batch and report
// the counts. The run is synchronous; the session is torn down before
// the response is written.
func ExtractJobsHandler(cfg *config.Config, sessions *session.Manager, runner *scraper.Runner, persister *store.Persister) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		req := models.ScrapeRequest{
			Keywords: splitKeywords(c.QueryParam("keywords")),
			Pages:    cfg.Scraper.DefaultPages,
		}
		if raw := c.QueryParam("pages"); raw != "" {
			pages, err := strconv.Atoi(raw)
			if err != nil {
				return validationJSON(c, requestID, utils.NewValidationError("pages must be an integer"))
			}
			req.Pages = pages
		}

		if err := validate.Struct(&req); err != nil {
			logger.Warn("Scrape request validation failed", map[string]interface{}{
				"error": err.Error(),
			})
			return validationJSON(c, requestID, err)
		}

		logger.Info("Scrape run requested", map[string]interface{}{
			"keywords": req.Keywords,
			"pages":    req.Pages,
		})

		ctx := c.Request().Context()

		sess, err := sessions.Acquire(ctx, session.Credentials{
			Email:    cfg.Marketplace.Email,
			Password: cfg.Marketplace.Password,
		})
		if err != nil {
			logger.Error("Failed to acquire authenticated session", map[string]interface{}{
				"error": err.Error(),
			})
			return errorJSON(c, requestID, err)
		}
		defer sess.Close()

		listings := runner.Run(ctx, req, sess)
		inserted, duplicates := persister.PersistBatch(ctx, middleware.UserID(c), listings)

		// The CSV file is a secondary surface; only newly stored records
		// are appended, and a write failure never fails the run.
		if len(inserted) > 0 && cfg.Export.FilePath != "" {
			if err := export.AppendFile(cfg.Export.FilePath, inserted); err != nil {
				logger.Warn("Failed to append run to export file", map[string]interface{}{
					"path":  cfg.Export.FilePath,
					"error": err.Error(),
				})
			}
		}

		logger.Info("Scrape run completed", map[string]interface{}{
			"scraped":         len(listings),
			"inserted":        len(inserted),
			"duplicates":      duplicates,
			"processing_time": time.Since(startTime).String(),
		})

		return c.JSON(http.StatusOK, models.ScrapeRunResponse{
			Success:        true,
			Scraped:        len(listings),
			Inserted:       len(inserted),
			Duplicates:     duplicates,
			ProcessingTime: time.Since(startTime).String(),
			RequestID:      requestID,
		})
	}
}

// splitKeywords parses the comma-separated keywords parameter, dropping
// empty entries.
func splitKeywords(raw string) []string {
	var keywords []string
	for _, part := range strings.Split(raw, ",") {
		if keyword := strings.TrimSpace(part); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}
