package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ironcrest/proctor-backend/internal/middleware"
	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/response"
	"github.com/ironcrest/proctor-backend/internal/service"
	"github.com/ironcrest/proctor-backend/internal/validator"
)

// CandidatePortalHandler serves the candidate-facing endpoints: profile and
// the assessment attempt itself.
type CandidatePortalHandler struct {
	sessionService   *service.SessionService
	candidateService *service.CandidateService
}

// NewCandidatePortalHandler creates a new CandidatePortalHandler.
func NewCandidatePortalHandler(
	sessionService *service.SessionService,
	candidateService *service.CandidateService,
) *CandidatePortalHandler {
	return &CandidatePortalHandler{
		sessionService:   sessionService,
		candidateService: candidateService,
	}
}

// GetProfile godoc
// GET /api/v1/candidates/:id
// Returns the caller's own record, including status and score.
func (h *CandidatePortalHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	candidate, err := h.candidateService.GetProfile(c.Request.Context(), claims.Identity(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidate": candidate})
}

// UpdateProfile godoc
// PUT /api/v1/candidates/:id/profile
// Saves the profile form and marks the profile as completed.
func (h *CandidatePortalHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate, err := h.candidateService.UpdateProfile(c.Request.Context(), claims.Identity(), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidate": candidate})
}

// GetAssessment godoc
// GET /api/v1/candidates/:id/assessment
// Returns the assigned paper without its answer key and starts the attempt
// on first access.
func (h *CandidatePortalHandler) GetAssessment(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	paper, err := h.sessionService.RequestAssessment(c.Request.Context(), claims.Identity(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment": paper})
}

// Submit godoc
// POST /api/v1/candidates/:id/submit
// Scores the submitted answers and completes the attempt.
func (h *CandidatePortalHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.sessionService.Submit(c.Request.Context(), claims.Identity(), c.Param("id"), req.Answers)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status": model.StatusCompleted,
		"result": result,
	})
}

// Terminate godoc
// POST /api/v1/candidates/:id/terminate
// Ends the attempt after a client-detected violation. An empty body is allowed.
func (h *CandidatePortalHandler) Terminate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.TerminateRequest
	if c.Request.ContentLength != 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	if err := h.sessionService.Terminate(c.Request.Context(), claims.Identity(), c.Param("id"), req.Reason); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.StatusTerminated})
}
