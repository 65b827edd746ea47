package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/newsfeed/newsfeed-api/internal/api/middleware"
	"github.com/newsfeed/newsfeed-api/internal/core/domain"
)

// currentUserID returns the identity bound by the Auth middleware. An empty
// value means the route was mounted without the gate.
func currentUserID(c echo.Context) (string, error) {
	id := middleware.UserIDFromContext(c.Request().Context())
	if id == "" {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}
