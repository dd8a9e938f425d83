package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/image-ehr/clinic-console/internal/core/domain"
	"github.com/image-ehr/clinic-console/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AdminHandler serves console-local administrative data: the login audit
// trail. Routes behind it are gated to admin-equivalent roles.
type AdminHandler struct {
	audit ports.LoginAuditRepository
}

func NewAdminHandler(audit ports.LoginAuditRepository) *AdminHandler {
	return &AdminHandler{audit: audit}
}

type loginLogsResponse struct {
	Logs  []domain.LoginAttempt `json:"logs"`
	Total int64                 `json:"total"`
}

// LoginLogs lists login attempts, newest first.
//
// @Summary      List login attempts
// @Tags         admin
// @Produce      json
// @Param        username  query  string  false  "filter by username"
// @Param        limit     query  int     false  "page size"
// @Param        offset    query  int     false  "page offset"
// @Success      200  {object}  loginLogsResponse
// @Router       /api/admin/login-logs [get]
func (h *AdminHandler) LoginLogs(c echo.Context) error {
	limit := queryInt(c, "limit", defaultAuditLimit)
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	logs, total, err := h.audit.List(c.Request().Context(), c.QueryParam("username"), int64(limit), int64(offset))
	if err != nil {
		return err
	}
	if logs == nil {
		logs = []domain.LoginAttempt{}
	}

	return c.JSON(http.StatusOK, loginLogsResponse{Logs: logs, Total: total})
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
