package model

import "time"

// AssessmentStatus enumerates the states of a candidate's single attempt.
type AssessmentStatus string

const (
	StatusPending    AssessmentStatus = "PENDING"
	StatusInProgress AssessmentStatus = "IN_PROGRESS"
	StatusCompleted  AssessmentStatus = "COMPLETED"
	StatusTerminated AssessmentStatus = "TERMINATED"
)

// IsTerminal reports whether no further transition may leave s.
func (s AssessmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusTerminated
}

// Profile holds the self-reported candidate details.
type Profile struct {
	Name          string `json:"name"`
	Designation   string `json:"designation"`
	Email         string `json:"email"`
	Experience    string `json:"experience"`
	Phone         string `json:"phone"`
	Location      string `json:"location"`
	Qualification string `json:"qualification"`
	PortfolioURL  string `json:"portfolio_url"`
	IDProofURL    string `json:"id_proof_url"`
}

// Candidate is the per-candidate record. The session engine owns the rules
// for AssessmentStatus; the record only stores it.
type Candidate struct {
	ID string `json:"id"`
	Profile
	PasswordHash         string           `json:"-"`
	ProfileCompleted     bool             `json:"profile_completed"`
	AssignedAssessmentID *string          `json:"assigned_assessment_id"`
	AssessmentStatus     AssessmentStatus `json:"assessment_status"`
	ScorePercentage      *float64         `json:"score_percentage,omitempty"`
	StartedAt            *time.Time       `json:"started_at,omitempty"`
	FinishedAt           *time.Time       `json:"finished_at,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// StatusTransition describes the write half of a conditional status update.
// Nil fields leave the stored value untouched.
type StatusTransition struct {
	To              AssessmentStatus
	ScorePercentage *float64
	StartedAt       *time.Time
	FinishedAt      *time.Time
}

// CandidateLoginRequest is the payload for candidate authentication.
type CandidateLoginRequest struct {
	ID       string `json:"id" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// CreateCandidateRequest is the payload for issuing new candidate credentials.
type CreateCandidateRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	Designation  string `json:"designation" binding:"required,min=2,max=100"`
	AssessmentID string `json:"assessment_id" binding:"required,max=64"`
}

// CreateCandidateResponse carries the one-time password; it is never shown again.
type CreateCandidateResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the payload a candidate submits before entering the exam.
type UpdateProfileRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=100"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Experience    string `json:"experience" binding:"omitempty,max=100"`
	Phone         string `json:"phone" binding:"required,min=6,max=32"`
	Location      string `json:"location" binding:"omitempty,max=255"`
	Qualification string `json:"qualification" binding:"omitempty,max=255"`
	PortfolioURL  string `json:"portfolio_url" binding:"omitempty,url,max=512"`
	IDProofURL    string `json:"id_proof_url" binding:"omitempty,max=512"`
}

// ListCandidatesQuery filters and pages the admin candidate list.
type ListCandidatesQuery struct {
	Status  string `form:"status" json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED TERMINATED"`
	Page    int    `form:"page" json:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" json:"per_page" binding:"omitempty,min=1,max=100"`
}
