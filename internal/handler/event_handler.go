package handler

import (
	"net/http"
	"time"

	"labflow/internal/middleware"
	"labflow/internal/model"
	"labflow/internal/service"
	"labflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService     service.EventService
	pendienteService service.PendienteService
}

func NewEventHandler(eventService service.EventService, pendienteService service.PendienteService) *EventHandler {
	return &EventHandler{eventService: eventService, pendienteService: pendienteService}
}

func (h *EventHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion, model.RoleLaboratorio, model.RoleReparto)

	events := router.Group("/api/events")
	events.Use(anyRole)
	{
		events.GET("", h.ListEvents)
		events.POST("", h.CreateEvent)
		events.PUT("/:id", h.UpdateEvent)
		events.DELETE("/:id", h.DeleteEvent)
	}

	pendientes := router.Group("/api/pendientes")
	pendientes.Use(anyRole)
	{
		pendientes.GET("", h.ListPendientes)
		pendientes.POST("", h.CreatePendiente)
		pendientes.PUT("/:id", h.UpdatePendiente)
		pendientes.DELETE("/:id", h.DeletePendiente)
	}
}

// ListEvents returns calendar events in a date range
// @Summary      List events
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        from  query  string  true  "Range start (YYYY-MM-DD)"
// @Param        to    query  string  true  "Range end (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD"))
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD"))
		return
	}

	events, err := h.eventService.ListEvents(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list events: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"events": events}))
}

// CreateEvent creates one event, or a materialized series when recurring
// @Summary      Create event
// @Description  A recurring event inserts one row per month of the year on recurring_day, skipping months without that day
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateEventRequest  true  "Event"
// @Success      201  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	events, err := h.eventService.CreateEvent(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"events": events, "created": len(events)}))
}

// UpdateEvent updates a single event row
// @Summary      Update event
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Event ID"
// @Param        payload  body  service.UpdateEventRequest  true  "Changes"
// @Success      200  {object}  response.Response{data=model.Event}
// @Failure      400  {object}  response.Response
// @Router       /api/events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, event))
}

// DeleteEvent removes one event or its whole series
// @Summary      Delete event
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        id      path   string  true   "Event ID"
// @Param        series  query  bool    false  "Delete the whole recurring series"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	wholeSeries := c.Query("series") == "true"
	if err := h.eventService.DeleteEvent(c.Request.Context(), c.Param("id"), wholeSeries); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// ListPendientes lists open to-dos
// @Summary      List pendientes
// @Tags         pendientes
// @Security     BearerAuth
// @Produce      json
// @Param        include_done  query  bool  false  "Include completed items"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/pendientes [get]
func (h *EventHandler) ListPendientes(c *gin.Context) {
	includeDone := c.Query("include_done") == "true"
	pendientes, err := h.pendienteService.List(c.Request.Context(), includeDone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list pendientes: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"pendientes": pendientes}))
}

// CreatePendiente creates a to-do item
// @Summary      Create pendiente
// @Tags         pendientes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePendienteRequest  true  "Pendiente"
// @Success      201  {object}  response.Response{data=model.Pendiente}
// @Failure      400  {object}  response.Response
// @Router       /api/pendientes [post]
func (h *EventHandler) CreatePendiente(c *gin.Context) {
	var req service.CreatePendienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	pendiente, err := h.pendienteService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pendiente))
}

// UpdatePendiente updates a to-do item (including marking it done)
// @Summary      Update pendiente
// @Tags         pendientes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                          true  "Pendiente ID"
// @Param        payload  body  service.UpdatePendienteRequest  true  "Changes"
// @Success      200  {object}  response.Response{data=model.Pendiente}
// @Failure      400  {object}  response.Response
// @Router       /api/pendientes/{id} [put]
func (h *EventHandler) UpdatePendiente(c *gin.Context) {
	var req service.UpdatePendienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	pendiente, err := h.pendienteService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pendiente))
}

// DeletePendiente removes a to-do item
// @Summary      Delete pendiente
// @Tags         pendientes
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Pendiente ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/pendientes/{id} [delete]
func (h *EventHandler) DeletePendiente(c *gin.Context) {
	if err := h.pendienteService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
