package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/image-ehr/clinic-console/internal/api/middleware"
	"github.com/image-ehr/clinic-console/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the domain error taxonomy to HTTP status codes and, for session
//     loss, to the login redirect.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// Session loss is normal flow, not an error page: drop the cookie
		// and land back on the login screen.
		if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrSessionNotFound) {
			c.SetCookie(middleware.ClearSessionCookie())
			if middleware.WantsHTML(c) {
				_ = c.Redirect(http.StatusSeeOther, middleware.LoginRoute)
				return
			}
			_ = c.JSON(http.StatusUnauthorized, errorResponse{Error: "session expired"})
			return
		}

		// An authenticated but unauthorized user goes to the landing route.
		if errors.Is(err, domain.ErrModuleForbidden) {
			if middleware.WantsHTML(c) {
				_ = c.Redirect(http.StatusSeeOther, middleware.HomeRoute)
				return
			}
			_ = c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden"})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Resource-level backend failures are relayed unchanged.
	var re *domain.RemoteError
	if errors.As(err, &re) {
		return re.Status(), re.Error()
	}

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		// err.Error() carries the backend's message, shown inline by the form.
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrLoginInFlight):
		return http.StatusTooManyRequests, "a login for this user is already in progress"
	case errors.Is(err, domain.ErrUnknownClinic):
		return http.StatusUnprocessableEntity, "unknown clinic"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusBadGateway, "clinic backend unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
