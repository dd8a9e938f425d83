package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/image-ehr/clinic-console/internal/api/metrics"
	"github.com/image-ehr/clinic-console/internal/api/middleware"
	"github.com/image-ehr/clinic-console/internal/core/domain"
	"github.com/image-ehr/clinic-console/internal/core/ports"
)

// AuthHandler owns the session lifecycle endpoints: login, logout, the
// current-session view, and clinic switching.
type AuthHandler struct {
	sessions     ports.SessionService
	cookieSecret string
	cookieTTL    time.Duration
}

func NewAuthHandler(sessions ports.SessionService, cookieSecret string, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		cookieSecret: cookieSecret,
		cookieTTL:    cookieTTL,
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type switchClinicRequest struct {
	ClinicID int `json:"clinic_id" form:"clinic_id" validate:"required"`
}

// sessionResponse is the console's view of the current session: who is
// logged in, which clinic scope applies, and which modules to render.
type sessionResponse struct {
	IsAuthenticated bool            `json:"is_authenticated"`
	User            *domain.User    `json:"user,omitempty"`
	SelectedClinic  *domain.Clinic  `json:"selected_clinic,omitempty"`
	Modules         []domain.Module `json:"modules,omitempty"`
}

func newSessionResponse(sess *domain.Session) sessionResponse {
	resp := sessionResponse{IsAuthenticated: sess.IsAuthenticated()}
	if !resp.IsAuthenticated {
		return resp
	}
	resp.User = sess.User
	resp.SelectedClinic = sess.SelectedClinic
	resp.Modules = domain.ModulesFor(sess.User.Role)
	return resp
}

// Login authenticates against the clinic backend and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.sessions.Login(c.Request().Context(), ports.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	cookie, err := middleware.NewSessionCookie(sess.ID, h.cookieSecret, h.cookieTTL)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, newSessionResponse(sess))
}

// Logout destroys the session and drops the cookie. Always succeeds from the
// browser's perspective, even when there is no session left to destroy.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sid, err := middleware.SessionIDFromCookie(c, h.cookieSecret); err == nil {
		if err := h.sessions.Logout(c.Request().Context(), sid); err != nil {
			return err
		}
	}
	c.SetCookie(middleware.ClearSessionCookie())
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Session returns the current session view for the navigation shell.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return c.JSON(http.StatusOK, newSessionResponse(sess))
}

// SwitchClinic changes the clinic scope the user is operating under.
//
// @Summary      Switch clinic scope
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      422  {object}  map[string]string
// @Router       /api/session/clinic [post]
func (h *AuthHandler) SwitchClinic(c echo.Context) error {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		return domain.ErrSessionNotFound
	}

	var req switchClinicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.sessions.SwitchClinic(c.Request().Context(), sess.ID, req.ClinicID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionResponse(updated))
}

// Clinics lists the clinic registry for the scope picker.
//
// @Summary      List clinics
// @Tags         auth
// @Produce      json
// @Success      200  {array}  domain.Clinic
// @Router       /api/clinics [get]
func (h *AuthHandler) Clinics(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Clinics())
}
