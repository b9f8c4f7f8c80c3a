package handler

import (
	"net/http"

	"labflow/internal/middleware"
	"labflow/internal/model"
	"labflow/internal/service"
	"labflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct {
	financeService service.FinanceService
}

func NewFinanceHandler(financeService service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

func (h *FinanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	finance := router.Group("/api")
	finance.Use(middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion))
	{
		finance.GET("/ingresos", h.GetIncome)
		finance.POST("/ingresos", h.CreateIncome)
		finance.GET("/gastos", h.GetExpenses)
		finance.POST("/gastos", h.CreateExpense)
	}
}

// GetIncome returns the income ledger with per-method totals
// @Summary      Income ledger
// @Tags         finance
// @Security     BearerAuth
// @Produce      json
// @Param        month  query  string  false  "Filter to one month (YYYY-MM)"
// @Success      200  {object}  response.Response{data=service.LedgerSummary}
// @Failure      502  {object}  response.Response
// @Router       /api/ingresos [get]
func (h *FinanceHandler) GetIncome(c *gin.Context) {
	summary, err := h.financeService.GetIncome(c.Request.Context(), c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// CreateIncome appends an income entry to the sheet
// @Summary      Create income entry
// @Tags         finance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateLedgerEntryRequest  true  "Entry"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/ingresos [post]
func (h *FinanceHandler) CreateIncome(c *gin.Context) {
	var req service.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.financeService.CreateIncome(c.Request.Context(), c.GetString("userID"), req); err != nil {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"created": true}))
}

// GetExpenses returns the expense ledger with per-category totals
// @Summary      Expense ledger
// @Tags         finance
// @Security     BearerAuth
// @Produce      json
// @Param        month  query  string  false  "Filter to one month (YYYY-MM)"
// @Success      200  {object}  response.Response{data=service.LedgerSummary}
// @Failure      502  {object}  response.Response
// @Router       /api/gastos [get]
func (h *FinanceHandler) GetExpenses(c *gin.Context) {
	summary, err := h.financeService.GetExpenses(c.Request.Context(), c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// CreateExpense appends an expense entry to the sheet
// @Summary      Create expense entry
// @Tags         finance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateLedgerEntryRequest  true  "Entry"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/gastos [post]
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req service.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.financeService.CreateExpense(c.Request.Context(), c.GetString("userID"), req); err != nil {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"created": true}))
}
