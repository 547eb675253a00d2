package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Guard returns the middleware chain protecting a mutating route whose acting
// user is named by the given path parameter
type Guard func(param string) []echo.MiddlewareFunc

// NoGuard leaves routes open
func NoGuard(string) []echo.MiddlewareFunc { return nil }

// NewGuard authenticates with auth and then requires the authenticated user to
// be the acting user of the route
func NewGuard(auth echo.MiddlewareFunc) Guard {
	if auth == nil {
		return NoGuard
	}
	return func(param string) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{auth, RequireSelf(param)}
	}
}

// RequireSelf rejects requests where the path parameter differs from the authenticated user
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(UserIDKey).(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if !strings.EqualFold(userID, c.Param(param)) {
				return echo.NewHTTPError(http.StatusForbidden, "Cannot act on behalf of another user")
			}
			return next(c)
		}
	}
}
