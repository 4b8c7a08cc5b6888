package helpers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
)

// GetUserIDFromContext returns the authenticated user's ID set by the JWT middleware
func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid user context")
	}
	return id, nil
}

// GetUserEmailFromContext returns the authenticated user's email
func GetUserEmailFromContext(c echo.Context) (string, error) {
	s, ok := c.Get(ContextKeyUserEmail).(string)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid user email context")
	}
	return s, nil
}

// GetJWTTokenFromContext extracts the bearer token from the Authorization header
func GetJWTTokenFromContext(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}
	return token, nil
}
