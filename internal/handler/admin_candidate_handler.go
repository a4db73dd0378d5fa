package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/response"
	"github.com/ironcrest/proctor-backend/internal/service"
	"github.com/ironcrest/proctor-backend/internal/validator"
	"github.com/rs/zerolog"
)

// AdminCandidateHandler handles candidate administration.
type AdminCandidateHandler struct {
	candidateService *service.CandidateService
	authService      *service.AuthService
	monitorService   *service.MonitorService
	log              zerolog.Logger
}

// NewAdminCandidateHandler creates a new AdminCandidateHandler.
func NewAdminCandidateHandler(
	candidateService *service.CandidateService,
	authService *service.AuthService,
	monitorService *service.MonitorService,
	log zerolog.Logger,
) *AdminCandidateHandler {
	return &AdminCandidateHandler{
		candidateService: candidateService,
		authService:      authService,
		monitorService:   monitorService,
		log:              log.With().Str("component", "admin_candidate_handler").Logger(),
	}
}

// ListCandidates godoc
// GET /api/v1/admin/candidates?status=&page=&per_page=
// Lists candidates with status and score, newest first.
func (h *AdminCandidateHandler) ListCandidates(c *gin.Context) {
	var q model.ListCandidatesQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var status *model.AssessmentStatus
	if q.Status != "" {
		s := model.AssessmentStatus(q.Status)
		status = &s
	}

	candidates, pagination, err := h.candidateService.ListCandidates(c.Request.Context(), status, q.Page, q.PerPage)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"candidates": candidates}, pagination)
}

// CreateCandidate godoc
// POST /api/v1/admin/candidates
// Issues credentials for a new candidate. The password is returned once.
func (h *AdminCandidateHandler) CreateCandidate(c *gin.Context) {
	var req model.CreateCandidateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.candidateService.CreateCandidate(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, out)
}

// ResetSession godoc
// POST /api/v1/admin/candidates/:id/reset-session
// Clears the candidate's login session so they can sign in again.
func (h *AdminCandidateHandler) ResetSession(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.candidateService.GetByID(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	if err := h.authService.ResetCandidateSession(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	h.log.Info().Str("candidate_id", id).Msg("Candidate session reset")
	response.Success(c, http.StatusOK, gin.H{})
}

// ListViolations godoc
// GET /api/v1/admin/candidates/:id/violations
// Returns the recorded proctoring violations for one candidate.
func (h *AdminCandidateHandler) ListViolations(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.candidateService.GetByID(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	violations, err := h.monitorService.ListViolations(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if violations == nil {
		violations = []model.Violation{}
	}

	response.Success(c, http.StatusOK, gin.H{"violations": violations})
}
