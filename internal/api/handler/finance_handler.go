package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/image-ehr/clinic-console/internal/core/ports"
)

// FinanceHandler relays the finance sub-module. Every route behind it sits
// behind the finance module guard, so only admin-equivalent roles reach it.
type FinanceHandler struct {
	relayer
}

func NewFinanceHandler(gateway ports.BackendGateway, sessions ports.SessionService) *FinanceHandler {
	return &FinanceHandler{relayer{gateway: gateway, sessions: sessions}}
}

// Stats relays GET /api/finance/dashboard/stats.
func (h *FinanceHandler) Stats(c echo.Context) error {
	return h.relayGet(c, "finance", "/api/finance/dashboard/stats")
}

// RecentTransactions relays GET /api/finance/dashboard/recent-transactions.
func (h *FinanceHandler) RecentTransactions(c echo.Context) error {
	return h.relayGet(c, "finance", "/api/finance/dashboard/recent-transactions")
}

// MonthlyTrends relays GET /api/finance/dashboard/trends.
func (h *FinanceHandler) MonthlyTrends(c echo.Context) error {
	return h.relayGet(c, "finance", "/api/finance/dashboard/trends")
}

// Get relays any other finance GET (revenue, expenses, bank accounts,
// petty cash, budgets, reports).
func (h *FinanceHandler) Get(c echo.Context) error {
	return h.relayGet(c, "finance", "/api/finance/"+c.Param("*"))
}

// Create relays finance POSTs.
func (h *FinanceHandler) Create(c echo.Context) error {
	return h.relaySubmit(c, "finance", http.MethodPost, "/api/finance/"+c.Param("*"))
}

// Update relays finance PUTs.
func (h *FinanceHandler) Update(c echo.Context) error {
	return h.relaySubmit(c, "finance", http.MethodPut, "/api/finance/"+c.Param("*"))
}

// Delete relays finance DELETEs.
func (h *FinanceHandler) Delete(c echo.Context) error {
	return h.relaySubmit(c, "finance", http.MethodDelete, "/api/finance/"+c.Param("*"))
}
