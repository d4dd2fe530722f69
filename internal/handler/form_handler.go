package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formtrack/formtrack-api/internal/service"
	"github.com/formtrack/formtrack-api/pkg/response"
)

// FormHandler exposes read-only form endpoints.
type FormHandler struct {
	forms *service.FormService
}

// NewFormHandler constructs FormHandler.
func NewFormHandler(forms *service.FormService) *FormHandler {
	return &FormHandler{forms: forms}
}

// List godoc
// @Summary List owned forms
// @Tags Forms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /forms [get]
func (h *FormHandler) List(c *gin.Context) {
	forms, err := h.forms.List(c.Request.Context(), accountIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, forms)
}

// Get godoc
// @Summary Get an owned form
// @Tags Forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.Envelope
// @Router /forms/{id} [get]
func (h *FormHandler) Get(c *gin.Context) {
	form, err := h.forms.Get(c.Request.Context(), accountIDFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form)
}
