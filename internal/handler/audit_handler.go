package handler

import (
	"net/http"

	"labflow/internal/middleware"
	"labflow/internal/model"
	"labflow/internal/service"
	"labflow/pkg/pagination"
	"labflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/audit-logs", middleware.RequireRole(model.RoleAdmin), h.ListAuditLogs)
}

// ListAuditLogs handles GET /api/audit-logs
// @Summary      List audit logs
// @Description  Retrieves a paginated audit trail, optionally filtered by entity (order ID or record UUID)
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        entity_id  query     string  false  "Filter by entity ID (e.g. ORD-0042)"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Success      200        {object}  response.Response{data=object}
// @Failure      500        {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)
	entityID := c.Query("entity_id")

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), entityID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch audit logs"))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, total, params.Page, params.Limit))
}
