package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"upscout/internal/api/middleware"
	"upscout/internal/export"
	"upscout/internal/logging"
	"upscout/internal/store"
	"upscout/pkg/models"
	"upscout/pkg/utils"
)

// ListJobsHandler returns the caller's stored listings, newest capture
// date first.
func ListJobsHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()

		limit := 0
		if raw := c.QueryParam("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				return validationJSON(c, requestID, utils.NewValidationError("limit must be a non-negative integer"))
			}
			limit = parsed
		}

		listings, err := st.Query(c.Request().Context(), middleware.UserID(c), limit)
		if err != nil {
			return errorJSON(c, requestID, utils.NewPersistenceError(err.Error()))
		}

		return c.JSON(http.StatusOK, models.JobListResponse{
			Jobs:      listings,
			Count:     len(listings),
			RequestID: requestID,
		})
	}
}

// ExportJobsHandler streams the caller's stored listings as a CSV
// download with the fixed export column order.
func ExportJobsHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		listings, err := st.Query(c.Request().Context(), middleware.UserID(c), 0)
		if err != nil {
			return errorJSON(c, requestID, utils.NewPersistenceError(err.Error()))
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, listings, true); err != nil {
			return errorJSON(c, requestID, utils.NewPersistenceError(err.Error()))
		}

		logger.Info("Exported listings as CSV", map[string]interface{}{
			"count": len(listings),
		})

		filename := fmt.Sprintf("jobs_%s.csv", time.Now().Format("2006-01-02"))
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename=%q`, filename))

		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}
