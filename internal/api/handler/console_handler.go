package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/image-ehr/clinic-console/internal/core/ports"
)

// ConsoleHandler relays the authenticated view-layer resources (dashboard,
// patients, visits, billing, reports, settings) to the clinic backend. The
// backend owns the payload shapes; the console only scopes and forwards.
type ConsoleHandler struct {
	relayer
}

func NewConsoleHandler(gateway ports.BackendGateway, sessions ports.SessionService) *ConsoleHandler {
	return &ConsoleHandler{relayer{gateway: gateway, sessions: sessions}}
}

// DashboardStats relays GET /api/dashboard/stats.
func (h *ConsoleHandler) DashboardStats(c echo.Context) error {
	return h.relayGet(c, "dashboard", "/api/dashboard/stats")
}

// DashboardRecentVisits relays GET /api/dashboard/recent-visits.
func (h *ConsoleHandler) DashboardRecentVisits(c echo.Context) error {
	return h.relayGet(c, "dashboard", "/api/dashboard/recent-visits")
}

// ListPatients relays GET /patients.
func (h *ConsoleHandler) ListPatients(c echo.Context) error {
	return h.relayGet(c, "patients", "/patients")
}

// GetPatient relays GET /patients/:id.
func (h *ConsoleHandler) GetPatient(c echo.Context) error {
	return h.relayGet(c, "patients", "/patients/"+c.Param("id"))
}

// CreatePatient relays POST /patients.
func (h *ConsoleHandler) CreatePatient(c echo.Context) error {
	return h.relaySubmit(c, "patients", http.MethodPost, "/patients")
}

// ListVisits relays GET /api/visits.
func (h *ConsoleHandler) ListVisits(c echo.Context) error {
	return h.relayGet(c, "visits", "/api/visits")
}

// CreateVisit relays POST /api/visits.
func (h *ConsoleHandler) CreateVisit(c echo.Context) error {
	return h.relaySubmit(c, "visits", http.MethodPost, "/api/visits")
}

// ListBills relays GET /api/billing.
func (h *ConsoleHandler) ListBills(c echo.Context) error {
	return h.relayGet(c, "billing", "/api/billing")
}

// Reports relays GET /api/reports/<rest>.
func (h *ConsoleHandler) Reports(c echo.Context) error {
	return h.relayGet(c, "reports", "/api/reports/"+c.Param("*"))
}

// GetSettings relays GET /api/settings.
func (h *ConsoleHandler) GetSettings(c echo.Context) error {
	return h.relayGet(c, "settings", "/api/settings")
}

// UpdateSettings relays PUT /api/settings.
func (h *ConsoleHandler) UpdateSettings(c echo.Context) error {
	return h.relaySubmit(c, "settings", http.MethodPut, "/api/settings")
}

// ListUsers relays GET /api/users for the admin user directory.
func (h *ConsoleHandler) ListUsers(c echo.Context) error {
	return h.relayGet(c, "users", "/api/users")
}
