package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/image-ehr/clinic-console/internal/api/metrics"
	"github.com/image-ehr/clinic-console/internal/core/domain"
	"github.com/image-ehr/clinic-console/internal/core/ports"
)

const (
	// SessionCookie is the browser cookie carrying the signed session ID.
	SessionCookie = "console_session"

	// LoginRoute is where unauthenticated navigation lands.
	LoginRoute = "/login"
	// HomeRoute is the default authenticated landing route, used when an
	// authenticated user is denied a module rather than the whole console.
	HomeRoute = "/dashboard"

	sessionContextKey = "session"
)

// NewSessionCookie signs the session ID into a cookie the browser sends on
// every request.
func NewSessionCookie(sessionID, secret string, ttl time.Duration) (*http.Cookie, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearSessionCookie returns a cookie that deletes the session cookie.
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionIDFromCookie verifies the signed cookie and extracts the session ID.
func SessionIDFromCookie(c echo.Context, secret string) (string, error) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", domain.ErrSessionNotFound
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrSessionNotFound
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ErrSessionNotFound
	}
	return sid, nil
}

// Session guards protected routes: it resolves the cookie to a live session
// (revalidating a stale token against the backend) and injects the session
// into the request context. No handler behind this middleware ever runs with
// an unresolved session.
func Session(svc ports.SessionService, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, err := SessionIDFromCookie(c, secret)
			if err != nil {
				return unauthenticated(c)
			}

			sess, err := svc.Current(c.Request().Context(), sid)
			if err != nil {
				if errors.Is(err, domain.ErrSessionExpired) {
					metrics.SessionExpiriesTotal.Inc()
				}
				if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrSessionNotFound) {
					return unauthenticated(c)
				}
				return err
			}

			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// ModuleAccess guards a route group behind the per-role module allow-list.
// The caller is authenticated but unauthorized, so denial redirects to the
// default landing route rather than to login.
func ModuleAccess(module domain.Module) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := SessionFromContext(c)
			if !ok {
				return unauthenticated(c)
			}
			if !sess.CanAccess(module) {
				metrics.ModuleDenialsTotal.WithLabelValues(string(module)).Inc()
				if WantsHTML(c) {
					return c.Redirect(http.StatusSeeOther, HomeRoute)
				}
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// SessionFromContext extracts the session injected by the Session middleware.
func SessionFromContext(c echo.Context) (*domain.Session, bool) {
	sess, ok := c.Get(sessionContextKey).(*domain.Session)
	return sess, ok
}

// WantsHTML reports whether the request is browser navigation rather than an
// API call, deciding between redirects and JSON errors.
func WantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), "text/html")
}

// unauthenticated drops the (now useless) cookie and sends the caller back
// to the login screen, or answers 401 for API calls.
func unauthenticated(c echo.Context) error {
	c.SetCookie(ClearSessionCookie())
	if WantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, LoginRoute)
	}
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
}
