package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/image-ehr/clinic-console/internal/api/middleware"
	"github.com/image-ehr/clinic-console/internal/core/domain"
	"github.com/image-ehr/clinic-console/internal/core/ports"
)

const testSecret = "test-secret"

type stubSessions struct {
	loginFn     func(ports.LoginInput) (*domain.Session, error)
	currentFn   func(string) (*domain.Session, error)
	switchFn    func(string, int) (*domain.Session, error)
	logoutCalls []string
	logoutErr   error
}

func (s *stubSessions) Login(_ context.Context, in ports.LoginInput) (*domain.Session, error) {
	return s.loginFn(in)
}

func (s *stubSessions) Current(_ context.Context, id string) (*domain.Session, error) {
	if s.currentFn == nil {
		return nil, domain.ErrSessionNotFound
	}
	return s.currentFn(id)
}

func (s *stubSessions) Logout(_ context.Context, id string) error {
	s.logoutCalls = append(s.logoutCalls, id)
	return s.logoutErr
}

func (s *stubSessions) SwitchClinic(_ context.Context, id string, clinicID int) (*domain.Session, error) {
	return s.switchFn(id, clinicID)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func postForm(e *echo.Echo, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func staffSession() *domain.Session {
	clinic, _ := domain.ClinicByID(4)
	return &domain.Session{
		ID:    "s1",
		Token: "tok",
		User: &domain.User{
			ID: 7, Username: "nadia", Role: domain.RoleOutdoorStaff, ClinicID: 4, IsActive: true,
		},
		SelectedClinic: &clinic,
		CreatedAt:      time.Now().UTC(),
		RefreshedAt:    time.Now().UTC(),
	}
}

func TestLogin_SetsCookieAndReturnsSessionView(t *testing.T) {
	svc := &stubSessions{
		loginFn: func(in ports.LoginInput) (*domain.Session, error) {
			if in.Username != "nadia" || in.Password != "pw" {
				t.Fatalf("credentials not forwarded: %+v", in)
			}
			return staffSession(), nil
		},
	}
	h := NewAuthHandler(svc, testSecret, time.Hour)

	form := url.Values{}
	form.Set("username", "nadia")
	form.Set("password", "pw")
	c, rec := postForm(newEcho(), "/api/auth/login", form)

	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			cookie = ck
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("session cookie not set")
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}

	var resp struct {
		IsAuthenticated bool            `json:"is_authenticated"`
		User            *domain.User    `json:"user"`
		SelectedClinic  *domain.Clinic  `json:"selected_clinic"`
		Modules         []domain.Module `json:"modules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsAuthenticated || resp.User == nil || resp.User.Username != "nadia" {
		t.Fatalf("unexpected session view: %+v", resp)
	}
	if resp.SelectedClinic == nil || resp.SelectedClinic.ID != 4 {
		t.Fatalf("selected clinic missing: %+v", resp.SelectedClinic)
	}
	wantModules := map[domain.Module]bool{
		domain.ModuleOutdoor: true, domain.ModulePatients: true,
		domain.ModuleVisits: true, domain.ModuleBilling: true,
	}
	if len(resp.Modules) != len(wantModules) {
		t.Fatalf("unexpected module list: %v", resp.Modules)
	}
	for _, m := range resp.Modules {
		if !wantModules[m] {
			t.Fatalf("module %s not granted to outdoor staff", m)
		}
	}
}

func TestLogin_RejectionPropagatesError(t *testing.T) {
	svc := &stubSessions{
		loginFn: func(ports.LoginInput) (*domain.Session, error) {
			return nil, &domain.AuthError{Detail: "Incorrect username or password"}
		},
	}
	h := NewAuthHandler(svc, testSecret, time.Hour)

	form := url.Values{}
	form.Set("username", "nadia")
	form.Set("password", "wrong")
	c, rec := postForm(newEcho(), "/api/auth/login", form)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("rejected login must not set a cookie")
	}
}

func TestLogin_MissingFieldsRejectedBeforeBackend(t *testing.T) {
	svc := &stubSessions{
		loginFn: func(ports.LoginInput) (*domain.Session, error) {
			t.Fatalf("backend must not be called for an incomplete form")
			return nil, nil
		},
	}
	h := NewAuthHandler(svc, testSecret, time.Hour)

	form := url.Values{}
	form.Set("username", "nadia")
	c, _ := postForm(newEcho(), "/api/auth/login", form)

	err := h.Login(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestLogout_DestroysSessionAndClearsCookie(t *testing.T) {
	svc := &stubSessions{loginFn: func(ports.LoginInput) (*domain.Session, error) { return nil, nil }}
	h := NewAuthHandler(svc, testSecret, time.Hour)

	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	cookie, err := middleware.NewSessionCookie("s1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign cookie: %v", err)
	}
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if len(svc.logoutCalls) != 1 || svc.logoutCalls[0] != "s1" {
		t.Fatalf("session not destroyed: %v", svc.logoutCalls)
	}

	cleared := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("cookie not cleared")
	}
}

func TestLogout_WithoutCookieStillSucceeds(t *testing.T) {
	svc := &stubSessions{}
	h := NewAuthHandler(svc, testSecret, time.Hour)

	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("logout must be idempotent: %v", err)
	}
	if len(svc.logoutCalls) != 0 {
		t.Fatalf("no session to destroy, got calls %v", svc.logoutCalls)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestSwitchClinic_UpdatesSessionView(t *testing.T) {
	svc := &stubSessions{
		switchFn: func(id string, clinicID int) (*domain.Session, error) {
			if id != "s1" || clinicID != 2 {
				t.Fatalf("unexpected switch: %s %d", id, clinicID)
			}
			sess := staffSession()
			clinic, _ := domain.ClinicByID(2)
			sess.SelectedClinic = &clinic
			return sess, nil
		},
	}
	h := NewAuthHandler(svc, testSecret, time.Hour)

	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/session/clinic", strings.NewReader(`{"clinic_id":2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", staffSession())

	if err := h.SwitchClinic(c); err != nil {
		t.Fatalf("switch failed: %v", err)
	}

	var resp struct {
		SelectedClinic *domain.Clinic `json:"selected_clinic"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SelectedClinic == nil || resp.SelectedClinic.ID != 2 {
		t.Fatalf("clinic not switched in view: %+v", resp.SelectedClinic)
	}
}

func TestSessionEndpoint_ReturnsInjectedSession(t *testing.T) {
	h := NewAuthHandler(&stubSessions{}, testSecret, time.Hour)

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", staffSession())

	if err := h.Session(c); err != nil {
		t.Fatalf("session endpoint failed: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"is_authenticated":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestClinics_ListsRegistry(t *testing.T) {
	h := NewAuthHandler(&stubSessions{}, testSecret, time.Hour)

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/clinics", nil)
	rec := httptest.NewRecorder()

	if err := h.Clinics(e.NewContext(req, rec)); err != nil {
		t.Fatalf("clinics failed: %v", err)
	}

	var clinics []domain.Clinic
	if err := json.Unmarshal(rec.Body.Bytes(), &clinics); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(clinics) != len(domain.Clinics()) {
		t.Fatalf("registry not listed: %d clinics", len(clinics))
	}
}
