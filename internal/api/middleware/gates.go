package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/api/handler"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

// gate rejects the request with 403 unless allow returns true for the caller.
// Registry failures surface as errors for the central error handler.
func gate(log zerolog.Logger, name string, allow func(c echo.Context, registration int64) (bool, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reg, _ := c.Get(handler.ContextRegistration).(int64)
			if reg <= 0 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing actor identity"})
			}

			ok, err := allow(c, reg)
			if err != nil {
				return err
			}
			if !ok {
				log.Debug().
					Str("gate", name).
					Int64("actor", reg).
					Str("path", c.Path()).
					Msg("request denied")
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequirePermission allows the request when the permission table grants action.
func RequirePermission(checker ports.PermissionChecker, action string, log zerolog.Logger) echo.MiddlewareFunc {
	return gate(log, action, func(c echo.Context, reg int64) (bool, error) {
		return checker.Check(c.Request().Context(), reg, action, "")
	})
}

// RequireApproverManager allows callers whose team role may manage approvers.
func RequireApproverManager(policy ports.ApproverPolicy, log zerolog.Logger) echo.MiddlewareFunc {
	return gate(log, "approver_manager", func(c echo.Context, reg int64) (bool, error) {
		return policy.CanManageApprovers(c.Request().Context(), reg)
	})
}

// RequireTeamAdmin allows callers that may administer the execution team.
func RequireTeamAdmin(policy ports.TeamAdminPolicy, log zerolog.Logger) echo.MiddlewareFunc {
	return gate(log, "team_admin", func(c echo.Context, reg int64) (bool, error) {
		return policy.CanAdministerTeam(c.Request().Context(), reg)
	})
}
