package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/session"
)

// RoutesHandler lets the render layer ask whether a page may be shown.
type RoutesHandler struct {
	Pages   *guard.Table
	Session *session.Manager
}

func (h *RoutesHandler) Check(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return fail(c, "routes.check", apperr.Validation("path", "path is required"))
	}
	return c.JSON(http.StatusOK, h.Pages.Evaluate(path, h.Session.Snapshot()))
}

type NoticesHandler struct {
	Queue *notify.Queue
}

func (h *NoticesHandler) Drain(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Queue.Drain())
}
