package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"upscout/internal/api/middleware"
	"upscout/internal/logging"
	"upscout/internal/proposal"
	"upscout/pkg/models"
	"upscout/pkg/utils"
)

// ProposalHandler returns the proposal for a stored listing, from
// cache when one exists and via the external generator otherwise.
func ProposalHandler(svc *proposal.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		var req models.ProposalRequest
		if err := c.Bind(&req); err != nil {
			return validationJSON(c, requestID, utils.NewValidationError("invalid request format"))
		}

		if err := validate.Struct(&req); err != nil {
			return validationJSON(c, requestID, err)
		}

		text, cached, err := svc.GetOrGenerate(c.Request().Context(), middleware.UserID(c), req.Listing())
		if err != nil {
			logger.Warn("Proposal resolution failed", map[string]interface{}{
				"title": req.Title,
				"error": err.Error(),
			})
			return errorJSON(c, requestID, err)
		}

		logger.Info("Proposal resolved", map[string]interface{}{
			"title":  req.Title,
			"cached": cached,
		})

		return c.JSON(http.StatusOK, models.ProposalResponse{
			Proposal:  text,
			Cached:    cached,
			RequestID: requestID,
		})
	}
}
