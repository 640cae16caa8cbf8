package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"upscout/pkg/models"
	"upscout/pkg/utils"
)

var validate = validator.New()

// errorJSON maps an error to its HTTP status and response body. Custom
// errors carry their own status; everything else is a 500.
func errorJSON(c echo.Context, requestID string, err error) error {
	if ce, ok := utils.AsCustomError(err); ok {
		return c.JSON(ce.Code, models.ErrorResponse{
			Error:     ce.Kind,
			Message:   ce.Error(),
			RequestID: requestID,
			Timestamp: time.Now(),
		})
	}

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     "internal_error",
		Message:   err.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// validationJSON returns a 400 for a failed request validation.
func validationJSON(c echo.Context, requestID string, err error) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:     "validation_failed",
		Message:   err.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
