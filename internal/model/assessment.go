package model

import (
	"time"
)

// QuestionType distinguishes objective (auto-scored) items from free-text ones.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MCQ"
	QuestionTypeWritten        QuestionType = "WRITTEN"
)

// Common section tags. Sections are display/grouping metadata only.
const (
	SectionReasoning    = "Reasoning"
	SectionAptitude     = "Aptitude"
	SectionTechnical    = "Technical"
	SectionGrammar      = "Grammar"
	SectionWrittenIntro = "About Yourself"
	SectionWrittenExp   = "Written Experience"
)

// Question is a single item of a paper, including its answer key.
type Question struct {
	ID                 string       `json:"id"`
	Text               string       `json:"text"`
	Type               QuestionType `json:"type"`
	Section            string       `json:"section"`
	Options            []string     `json:"options,omitempty"`
	CorrectOptionIndex *int         `json:"correct_option_index,omitempty"`
}

// Assessment is a question paper. It is never modified once stored.
type Assessment struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	DurationMinutes int        `json:"duration_minutes"`
	Questions       []Question `json:"questions"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CandidateQuestion is a question as shown to a candidate: no answer key.
type CandidateQuestion struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Section string       `json:"section"`
	Options []string     `json:"options,omitempty"`
}

// CandidatePaper is the candidate-facing projection of an Assessment.
type CandidatePaper struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	DurationMinutes int                 `json:"duration_minutes"`
	StartedAt       *time.Time          `json:"started_at,omitempty"`
	Deadline        *time.Time          `json:"deadline,omitempty"`
	Questions       []CandidateQuestion `json:"questions"`
}

// NewCandidatePaper strips the answer key from every question of a.
func NewCandidatePaper(a *Assessment) *CandidatePaper {
	questions := make([]CandidateQuestion, len(a.Questions))
	for i, q := range a.Questions {
		questions[i] = CandidateQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type,
			Section: q.Section,
		}
		if q.Type == QuestionTypeMultipleChoice {
			questions[i].Options = append([]string(nil), q.Options...)
		}
	}
	return &CandidatePaper{
		ID:              a.ID,
		Name:            a.Name,
		DurationMinutes: a.DurationMinutes,
		Questions:       questions,
	}
}

// Duration returns the advisory time allowance of the paper.
func (a *Assessment) Duration() time.Duration {
	return time.Duration(a.DurationMinutes) * time.Minute
}

// QuestionInput is one question of a CreateAssessmentRequest.
type QuestionInput struct {
	ID                 string   `json:"id" binding:"omitempty,max=64"`
	Text               string   `json:"text" binding:"required,min=1,max=4000"`
	Type               string   `json:"type" binding:"required,oneof=MCQ WRITTEN"`
	Section            string   `json:"section" binding:"omitempty,max=64"`
	Options            []string `json:"options" binding:"omitempty,dive,required,max=1000"`
	CorrectOptionIndex *int     `json:"correct_option_index" binding:"omitempty,min=0"`
}

// CreateAssessmentRequest is the payload for creating a new question paper.
type CreateAssessmentRequest struct {
	ID              string          `json:"id" binding:"omitempty,max=64"`
	Name            string          `json:"name" binding:"required,min=3,max=255"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=1,max=600"`
	Questions       []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}
