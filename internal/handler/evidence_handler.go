package handler

import (
	"errors"
	"net/http"

	"labflow/internal/middleware"
	"labflow/internal/model"
	"labflow/internal/service"
	"labflow/internal/sheet"
	"labflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type EvidenceHandler struct {
	evidenceService service.EvidenceService
}

func NewEvidenceHandler(evidenceService service.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{evidenceService: evidenceService}
}

func (h *EvidenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	evidencias := router.Group("/api/evidencias")
	evidencias.Use(middleware.RequireRole(model.RoleAdmin, model.RoleRecepcion, model.RoleReparto))
	{
		evidencias.POST("", h.CreateEvidence)
	}
}

// CreateEvidence forwards a multipart evidence entry to the sheet endpoint
// @Summary      Create evidence entry
// @Description  Accepts multipart form data (titulo, tipo, fecha, nota, file1..fileN) and forwards it to the evidence endpoint
// @Tags         evidence
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        titulo  formData  string  true   "Title"
// @Param        tipo    formData  string  true   "entrega, recibo, trabajo or reclamo"
// @Param        fecha   formData  string  false  "Date (YYYY-MM-DD, defaults to today)"
// @Param        nota    formData  string  false  "Notes"
// @Success      201  {object}  response.Response{data=sheet.EvidenceResult}
// @Failure      400  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/evidencias [post]
func (h *EvidenceHandler) CreateEvidence(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid multipart payload: "+err.Error()))
		return
	}

	req := service.CreateEvidenceRequest{
		Titulo: c.PostForm("titulo"),
		Tipo:   c.PostForm("tipo"),
		Fecha:  c.PostForm("fecha"),
		Nota:   c.PostForm("nota"),
	}

	// Collect file1..fileN parts in whatever order they arrived.
	for _, headers := range form.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read file part: "+err.Error()))
				return
			}
			defer file.Close()
			req.Files = append(req.Files, sheet.EvidenceFile{Name: header.Filename, Reader: file})
		}
	}

	result, err := h.evidenceService.Create(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, service.ErrInvalidEvidence) {
			status = http.StatusBadRequest
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}
