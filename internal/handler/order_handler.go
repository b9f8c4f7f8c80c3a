package handler

import (
	"errors"
	"net/http"
	"time"

	"labflow/internal/middleware"
	"labflow/internal/mirror"
	"labflow/internal/model"
	"labflow/internal/service"
	"labflow/internal/sheet"
	"labflow/pkg/pagination"
	"labflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService    service.OrderService
	receiptEndpoint sheet.Endpoint
}

func NewOrderHandler(orderService service.OrderService, receiptEndpoint sheet.Endpoint) *OrderHandler {
	return &OrderHandler{orderService: orderService, receiptEndpoint: receiptEndpoint}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion, model.RoleLaboratorio, model.RoleReparto)

	orders := router.Group("/api/orders")
	{
		orders.GET("", anyRole, h.ListOrders)
		orders.POST("/refresh", anyRole, h.RefreshOrders)
		orders.GET("/by-date", anyRole, h.ListByDate)
		orders.GET("/stats", anyRole, h.GetStats)
		orders.GET("/statuses", anyRole, h.GetStatuses)
		orders.GET("/:id", anyRole, h.GetOrder)
		orders.GET("/:id/receipt", middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion), h.GetReceiptURL)

		orders.PATCH("/:id/status", middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion, model.RoleLaboratorio), h.UpdateStatus)
		orders.PATCH("/by-date/:id/status", middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion, model.RoleLaboratorio), h.UpdateStatusFromDay)
		orders.PATCH("/:id/designer", middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion, model.RoleLaboratorio), h.UpdateDesigner)
		orders.PATCH("/:id/courier", middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion, model.RoleReparto), h.UpdateCourier)
		orders.PATCH("/:id/acuenta", middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion), h.UpdateACuenta)
	}
}

// ListOrders returns the mirrored order collection with derived filtering
// @Summary      List orders
// @Description  Returns the locally mirrored order collection, filtered, sorted and paginated
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        search    query  string  false  "Substring match against ID Orden; bare numbers auto-format to ORD-####"
// @Param        status    query  string  false  "Filter by Estado"
// @Param        designer  query  string  false  "Filter by Diseñadores"
// @Param        sort      query  string  false  "Canonical field to sort by"
// @Param        dir       query  string  false  "asc or desc (default asc)"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        limit     query  int     false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=service.OrderListResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)
	q := service.ListOrdersQuery{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		Designer:  c.Query("designer"),
		SortField: c.Query("sort"),
		Ascending: c.DefaultQuery("dir", "asc") != "desc",
		Page:      params.Page,
		Limit:     params.Limit,
	}

	res, err := h.orderService.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list orders: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// RefreshOrders re-fetches the remote collection into the mirror
// @Summary      Refresh orders
// @Description  Reloads the order collection from the sheet endpoint; on failure the previous collection is retained
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/orders/refresh [post]
func (h *OrderHandler) RefreshOrders(c *gin.Context) {
	if err := h.orderService.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"refreshed": true}))
}

// ListByDate loads the per-day record view
// @Summary      List records for a day
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        date  query  string  true  "ISO date (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/orders/by-date [get]
func (h *OrderHandler) ListByDate(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid or missing date, expected YYYY-MM-DD"))
		return
	}

	views, err := h.orderService.RefreshDay(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"records": views, "date": date.Format("2006-01-02")}))
}

// GetStats returns the KPI aggregates for the dashboard header
// @Summary      Order KPIs
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.OrderStats}
// @Router       /api/orders/stats [get]
func (h *OrderHandler) GetStats(c *gin.Context) {
	stats, err := h.orderService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetStatuses lists the valid order states for the status selector
// @Summary      Order statuses
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/orders/statuses [get]
func (h *OrderHandler) GetStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"statuses": sheet.OrderStatuses}))
}

// GetOrder returns one mirrored record in its raw sheet shape
// @Summary      Get order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Order key (ORD-#### or bare number)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	record, err := h.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// GetReceiptURL builds the receipt link the SPA opens in a new tab
// @Summary      Receipt URL
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id      path   string  true   "Order key"
// @Param        format  query  string  true   "a4, pos58, pos58_dentomex or simple"
// @Param        brand   query  string  false  "Receipt brand header"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) GetReceiptURL(c *gin.Context) {
	url, err := sheet.ReceiptURL(h.receiptEndpoint, sheet.NormalizeOrderID(c.Param("id")), c.Query("format"), c.Query("brand"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"url": url}))
}

type updateStatusRequest struct {
	Estado string `json:"estado" binding:"required"`
}

// UpdateStatus optimistically patches the Estado field
// @Summary      Update order status
// @Description  Applies the new status to the local mirrors, pushes it to the sheet, and rolls back on failure
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "Order key"
// @Param        payload  body  updateStatusRequest  true  "New status"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	h.respondUpdate(c, h.orderService.UpdateStatus(c.Request.Context(), c.GetString("userID"), sheet.NormalizeOrderID(c.Param("id")), req.Estado))
}

// UpdateStatusFromDay patches Estado for a row loaded through the day view
// @Summary      Update order status (day view)
// @Description  Day-view rows come from the original deployment, which takes a different status body; the edit lands in both mirrors
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "Order key"
// @Param        payload  body  updateStatusRequest  true  "New status"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/orders/by-date/{id}/status [patch]
func (h *OrderHandler) UpdateStatusFromDay(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	h.respondUpdate(c, h.orderService.UpdateStatusFromDay(c.Request.Context(), c.GetString("userID"), sheet.NormalizeOrderID(c.Param("id")), req.Estado))
}

type updateDesignerRequest struct {
	Disenador string `json:"disenador" binding:"required"`
}

// UpdateDesigner optimistically patches the designer field
// @Summary      Update order designer
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                 true  "Order key"
// @Param        payload  body  updateDesignerRequest  true  "New designer"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/orders/{id}/designer [patch]
func (h *OrderHandler) UpdateDesigner(c *gin.Context) {
	var req updateDesignerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	h.respondUpdate(c, h.orderService.UpdateDesigner(c.Request.Context(), c.GetString("userID"), sheet.NormalizeOrderID(c.Param("id")), req.Disenador))
}

type updateCourierRequest struct {
	Repartidor string `json:"repartidor" binding:"required"`
}

// UpdateCourier optimistically patches the courier field
// @Summary      Update order courier
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                true  "Order key"
// @Param        payload  body  updateCourierRequest  true  "New courier"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/orders/{id}/courier [patch]
func (h *OrderHandler) UpdateCourier(c *gin.Context) {
	var req updateCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	h.respondUpdate(c, h.orderService.UpdateCourier(c.Request.Context(), c.GetString("userID"), sheet.NormalizeOrderID(c.Param("id")), req.Repartidor))
}

type updateACuentaRequest struct {
	Monto string `json:"monto" binding:"required"`
}

// UpdateACuenta optimistically patches the amount-paid-to-date field
// @Summary      Update order A-cuenta
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                true  "Order key"
// @Param        payload  body  updateACuentaRequest  true  "New amount"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/orders/{id}/acuenta [patch]
func (h *OrderHandler) UpdateACuenta(c *gin.Context) {
	var req updateACuentaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	h.respondUpdate(c, h.orderService.UpdateACuenta(c.Request.Context(), c.GetString("userID"), sheet.NormalizeOrderID(c.Param("id")), req.Monto))
}

// respondUpdate maps the coordinator's error taxonomy onto HTTP statuses.
func (h *OrderHandler) respondUpdate(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"updated": true}))
	case errors.Is(err, mirror.ErrValidation):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.Is(err, mirror.ErrUpdateInFlight):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		// Transport failure, remote rejection or malformed body: the
		// mirrors are already rolled back.
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
	}
}
