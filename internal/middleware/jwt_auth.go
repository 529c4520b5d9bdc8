package middleware

import (
	"net/http"
	"strings"

	"github.com/AbhinavKRN/microsocial-native-assignment/internal/token"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the context key the authenticated user id is stored under
const UserIDKey = "userID"

// JWTAuth checks for a valid bearer token and stores the user id in the
// request context. On failure the handler chain is never reached.
func JWTAuth(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			userID, err := issuer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(UserIDKey, userID)

			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated user id set by JWTAuth
func UserIDFromContext(c echo.Context) uint {
	if id, ok := c.Get(UserIDKey).(uint); ok {
		return id
	}
	return 0
}
