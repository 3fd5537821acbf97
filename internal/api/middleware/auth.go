package middleware

import (
	"math"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/automation-hub/project-requests/internal/api/handler"
	"github.com/automation-hub/project-requests/internal/core/domain"
)

// Auth validates the HS256 bearer token issued by the identity service and injects
// the actor registration and username into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			reg, ok := registrationClaim(claims["registration"])
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}
			username, _ := claims["username"].(string)

			c.Set(handler.ContextRegistration, reg)
			c.Set(handler.ContextUsername, username)

			return next(c)
		}
	}
}

// registrationClaim accepts the registration as a decimal string or a JSON number.
// Anything else, including fractional numbers, is rejected rather than coerced.
func registrationClaim(v any) (int64, bool) {
	switch r := v.(type) {
	case string:
		n, err := domain.ParseRegistration(r)
		return n, err == nil
	case float64:
		if r <= 0 || r > domain.MaxSafeInteger || r != math.Trunc(r) {
			return 0, false
		}
		return int64(r), true
	default:
		return 0, false
	}
}
