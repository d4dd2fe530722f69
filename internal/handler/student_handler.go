package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formtrack/formtrack-api/internal/service"
	appErrors "github.com/formtrack/formtrack-api/pkg/errors"
	"github.com/formtrack/formtrack-api/pkg/response"
)

// StudentHandler exposes student record endpoints under a form.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// Import godoc
// @Summary Import student registrations under a form
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Param payload body service.ImportStudentsRequest true "Registrations"
// @Success 201 {object} response.Envelope
// @Router /forms/{id}/students/import [post]
func (h *StudentHandler) Import(c *gin.Context) {
	var req service.ImportStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	records, err := h.students.Import(c.Request.Context(), accountIDFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, records)
}

// List godoc
// @Summary List student registrations under a form
// @Tags Students
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.Envelope
// @Router /forms/{id}/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	records, err := h.students.List(c.Request.Context(), accountIDFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Get godoc
// @Summary Get one student registration
// @Tags Students
// @Produce json
// @Param id path string true "Form ID"
// @Param studentId path string true "Student record ID"
// @Success 200 {object} response.Envelope
// @Router /forms/{id}/students/{studentId} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	record, err := h.students.Get(c.Request.Context(), accountIDFromContext(c), c.Param("id"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}
