package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CORS enables cross-origin requests for the configured origins. An empty
// list, or a list containing "*", allows any origin; credentials are never
// combined with the wildcard.
func CORS(origins []string) echo.MiddlewareFunc {
	allowAll := len(origins) == 0
	allowed := map[string]struct{}{}
	for _, o := range origins {
		if o == "*" {
			allowAll = true
			continue
		}
		allowed[o] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get("Origin")
			h := c.Response().Header()
			h.Set("Vary", "Origin")
			switch {
			case allowAll:
				h.Set("Access-Control-Allow-Origin", "*")
			default:
				if _, ok := allowed[origin]; ok {
					h.Set("Access-Control-Allow-Origin", origin)
				}
			}
			h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With, X-Request-Id")
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
