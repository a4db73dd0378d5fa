package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/response"
	"github.com/ironcrest/proctor-backend/internal/service"
	"github.com/ironcrest/proctor-backend/internal/validator"
)

// AdminAssessmentHandler handles question paper authoring. Admin responses
// include the answer key.
type AdminAssessmentHandler struct {
	assessmentService *service.AssessmentService
}

// NewAdminAssessmentHandler creates a new AdminAssessmentHandler.
func NewAdminAssessmentHandler(assessmentService *service.AssessmentService) *AdminAssessmentHandler {
	return &AdminAssessmentHandler{assessmentService: assessmentService}
}

// ListAssessments godoc
// GET /api/v1/admin/assessments
func (h *AdminAssessmentHandler) ListAssessments(c *gin.Context) {
	assessments, err := h.assessmentService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if assessments == nil {
		assessments = []model.Assessment{}
	}

	response.Success(c, http.StatusOK, gin.H{"assessments": assessments})
}

// GetAssessment godoc
// GET /api/v1/admin/assessments/:id
func (h *AdminAssessmentHandler) GetAssessment(c *gin.Context) {
	a, err := h.assessmentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment": a})
}

// CreateAssessment godoc
// POST /api/v1/admin/assessments
// Stores a new paper. Papers are immutable once created.
func (h *AdminAssessmentHandler) CreateAssessment(c *gin.Context) {
	var req model.CreateAssessmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	a, err := h.assessmentService.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assessment": a})
}
