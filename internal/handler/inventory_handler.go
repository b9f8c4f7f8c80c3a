package handler

import (
	"net/http"

	"labflow/internal/middleware"
	"labflow/internal/model"
	"labflow/internal/service"
	"labflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	discos := router.Group("/api/discos")
	discos.Use(middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion, model.RoleLaboratorio))
	{
		discos.GET("", h.GetDiscs)
		discos.POST("/refresh", h.RefreshDiscs)
	}
}

// GetDiscs returns the milling-disc stock with low-stock flags
// @Summary      List milling discs
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.InventoryResponse}
// @Failure      502  {object}  response.Response
// @Router       /api/discos [get]
func (h *InventoryHandler) GetDiscs(c *gin.Context) {
	discs, err := h.inventoryService.GetDiscs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, discs))
}

// RefreshDiscs forces an immediate re-fetch outside the auto-refresh interval
// @Summary      Refresh milling discs
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/discos/refresh [post]
func (h *InventoryHandler) RefreshDiscs(c *gin.Context) {
	if err := h.inventoryService.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"refreshed": true}))
}
