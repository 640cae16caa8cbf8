package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"upscout/pkg/models"
)

// userIDKey is the echo context key the authenticated caller ID is
// stored under.
const userIDKey = "user_id"

// TokenVerifier resolves a bearer token to a caller ID.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// StaticTokenVerifier verifies tokens against a fixed token-to-caller
// map from configuration.
type StaticTokenVerifier struct {
	tokens map[string]string
}

// NewStaticTokenVerifier creates a verifier over the configured token map
func NewStaticTokenVerifier(tokens map[string]string) *StaticTokenVerifier {
	return &StaticTokenVerifier{tokens: tokens}
}

// Verify returns the caller ID bound to the token
func (v *StaticTokenVerifier) Verify(_ context.Context, token string) (string, error) {
	if userID, ok := v.tokens[token]; ok && userID != "" {
		return userID, nil
	}
	return "", errors.New("unknown token")
}

// BearerAuth authenticates requests with a bearer token and stores the
// resolved caller ID on the request context.
func BearerAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:     "unauthorized",
					Message:   "Missing bearer token",
					Timestamp: time.Now(),
				})
			}

			userID, err := verifier.Verify(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:     "unauthorized",
					Message:   "Invalid bearer token",
					Timestamp: time.Now(),
				})
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated caller ID, or "" outside an
// authenticated route.
func UserID(c echo.Context) string {
	if userID, ok := c.Get(userIDKey).(string); ok {
		return userID
	}
	return ""
}
