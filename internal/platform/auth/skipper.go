package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that bypass authentication: the
// infrastructure endpoints, the sign-up/sign-in endpoints themselves, and
// the task board, whose client predates accounts and sends no token.
var publicPaths = map[string]bool{
	"/health":              true,
	"/health/db":           true,
	"/api/v1/auth/sign-up": true,
	"/api/v1/auth/sign-in": true,
	"/api/tasks":           true,
}

// Skipper returns true for requests whose path should skip authentication.
// Customer photos are served publicly so the front end can embed them in
// <img> tags without a token.
func Skipper(c echo.Context) bool {
	path := c.Request().URL.Path
	if strings.HasPrefix(path, "/photos/") {
		return true
	}
	return publicPaths[path]
}

// IsPublicPath reports whether the given path bypasses authentication.
func IsPublicPath(path string) bool {
	return publicPaths[path] || strings.HasPrefix(path, "/photos/")
}
