package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/session"
)

// Middleware enforces the API table against the current session.
func Middleware(t *Table, current func() session.Snapshot) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := t.Evaluate(c.Request().URL.Path, current())
			if res.Decision == Allow {
				return next(c)
			}

			l := logging.FromContext(c.Request().Context())
			l.Info("route_denied", "decision", res.Decision, "require", res.Require)

			switch res.Decision {
			case Pending:
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session is still loading")
			case RedirectLogin:
				return echo.NewHTTPError(http.StatusUnauthorized, "please log in to continue")
			default:
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights to see this page")
			}
		}
	}
}
