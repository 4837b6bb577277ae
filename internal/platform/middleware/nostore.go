package middleware

import (
	"github.com/labstack/echo/v4"
)

// NoStore marks responses as uncacheable. Applied to every mutating and
// statistics route so intermediaries never serve stale tenant data.
func NoStore() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", "no-store")
			return next(c)
		}
	}
}
