package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

// Context keys populated by the Auth middleware.
const (
	ContextRegistration = "registration"
	ContextUsername     = "username"
)

// actorFromContext returns the registration injected by the Auth middleware.
// A missing or non-positive value means the middleware did not run.
func actorFromContext(c echo.Context) (int64, error) {
	reg, _ := c.Get(ContextRegistration).(int64)
	if reg <= 0 {
		return 0, domain.ErrMissingIdentity
	}
	return reg, nil
}

// idempotencyKey returns the trimmed Idempotency-Key header.
func idempotencyKey(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get("Idempotency-Key"))
}
