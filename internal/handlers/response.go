package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/logging"
)

func statusFor(err error, e *apperr.Error) int {
	if errors.Is(err, apperr.ErrInFlight) {
		return http.StatusConflict
	}
	switch e.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindInvalidCredentials:
		if e.Status == http.StatusForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// fail converts any error into an HTTP error whose body is the normalized error.
func fail(c echo.Context, handler string, err error) error {
	e := apperr.Normalize(err)
	status := statusFor(err, e)
	l := logging.FromContext(c.Request().Context()).With("handler", handler)
	if status >= 500 {
		l.Error(handler+"_failed", "status", status, "kind", e.Kind, "error", err)
	} else {
		l.Warn(handler+"_failed", "status", status, "kind", e.Kind, "field", e.Field, "reason", e.Message)
	}
	return echo.NewHTTPError(status, e)
}

func bind(c echo.Context, handler string, v any) error {
	if err := c.Bind(v); err != nil {
		return fail(c, handler, apperr.Validation("", "invalid request body"))
	}
	return nil
}

func paramID(c echo.Context, handler, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fail(c, handler, apperr.Validation(name, name+" is not a valid id"))
	}
	return id, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
