package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/image-ehr/clinic-console/internal/api/metrics"
	"github.com/image-ehr/clinic-console/internal/api/middleware"
	"github.com/image-ehr/clinic-console/internal/core/domain"
	"github.com/image-ehr/clinic-console/internal/core/ports"
)

// relayer is the shared plumbing for view-layer handlers: it resolves the
// session, scopes the query by the selected clinic, forwards the call to the
// clinic backend, and relays the JSON body unchanged. A 401 from the backend
// mid-session destroys the local session so the browser self-heals to the
// login screen, without the individual handler taking any position on it.
type relayer struct {
	gateway  ports.BackendGateway
	sessions ports.SessionService
}

// relayGet forwards a GET to the backend resource path.
func (r *relayer) relayGet(c echo.Context, resource, path string) error {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		return domain.ErrSessionNotFound
	}

	start := time.Now()
	body, err := r.gateway.Fetch(c.Request().Context(), sess.Token, path, r.scopedQuery(c, sess))
	r.observe(resource, start, err)
	if err != nil {
		return r.relayError(c, sess, err)
	}

	return c.JSONBlob(http.StatusOK, body)
}

// relaySubmit forwards a mutating request, passing the browser's JSON body
// through verbatim.
func (r *relayer) relaySubmit(c echo.Context, resource, method, path string) error {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		return domain.ErrSessionNotFound
	}

	var payload json.RawMessage
	if c.Request().Body != nil {
		raw, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
		}
		if len(raw) > 0 {
			if !json.Valid(raw) {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid json body")
			}
			payload = raw
		}
	}

	start := time.Now()
	var body json.RawMessage
	var err error
	if payload != nil {
		body, err = r.gateway.Submit(c.Request().Context(), sess.Token, method, path, payload)
	} else {
		body, err = r.gateway.Submit(c.Request().Context(), sess.Token, method, path, nil)
	}
	r.observe(resource, start, err)
	if err != nil {
		return r.relayError(c, sess, err)
	}

	if len(body) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSONBlob(http.StatusOK, body)
}

// scopedQuery copies the browser's query parameters and pins clinic_id to
// the session's selected clinic unless the caller already pinned one.
// Sessions without a clinic scope (system-wide admins) relay unscoped.
func (r *relayer) scopedQuery(c echo.Context, sess *domain.Session) url.Values {
	query := url.Values{}
	for k, vs := range c.QueryParams() {
		query[k] = vs
	}
	if sess.SelectedClinic != nil && query.Get("clinic_id") == "" {
		query.Set("clinic_id", strconv.Itoa(sess.SelectedClinic.ID))
	}
	return query
}

// relayError destroys the session when the backend stopped accepting its
// token; everything else propagates to the central error handler untouched.
func (r *relayer) relayError(c echo.Context, sess *domain.Session, err error) error {
	if errors.Is(err, domain.ErrSessionExpired) {
		metrics.SessionExpiriesTotal.Inc()
		_ = r.sessions.Logout(c.Request().Context(), sess.ID)
	}
	return err
}

func (r *relayer) observe(resource string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.BackendRequestDuration.WithLabelValues(resource, outcome).Observe(time.Since(start).Seconds())
}
