package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/repository"
	"github.com/ironcrest/proctor-backend/internal/scoring"
	"github.com/rs/zerolog"
)

// CandidateStore is the persistence the session engine needs. TransitionStatus
// must apply the status guard and the write atomically.
type CandidateStore interface {
	GetByID(ctx context.Context, id string) (*model.Candidate, error)
	TransitionStatus(ctx context.Context, id string, from []model.AssessmentStatus, t model.StatusTransition) (*model.Candidate, error)
}

// AssessmentCatalog resolves a paper including its answer key.
type AssessmentCatalog interface {
	GetByID(ctx context.Context, id string) (*model.Assessment, error)
}

// SessionEventSink receives lifecycle events after a successful transition.
// Failures are logged and never undo the transition.
type SessionEventSink interface {
	PublishSessionEvent(ctx context.Context, ev model.SessionEvent) error
	QueueViolation(ctx context.Context, v model.Violation) error
}

var openStatuses = []model.AssessmentStatus{model.StatusPending, model.StatusInProgress}

// SessionService is the state machine for a candidate's single attempt:
// PENDING -> IN_PROGRESS -> COMPLETED | TERMINATED.
type SessionService struct {
	candidates CandidateStore
	catalog    AssessmentCatalog
	events     SessionEventSink
	log        zerolog.Logger
	now        func() time.Time
}

// NewSessionService creates a new SessionService. events may be nil.
func NewSessionService(candidates CandidateStore, catalog AssessmentCatalog, events SessionEventSink, log zerolog.Logger) *SessionService {
	return &SessionService{
		candidates: candidates,
		catalog:    catalog,
		events:     events,
		log:        log.With().Str("component", "session_service").Logger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RequestAssessment returns the candidate's paper without the answer key and
// starts the attempt on first access.
func (s *SessionService) RequestAssessment(ctx context.Context, id model.Identity, candidateID string) (*model.CandidatePaper, error) {
	if !id.Owns(candidateID) {
		return nil, ErrIdentityMismatch
	}

	c, err := s.getCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if err := closedError(c.AssessmentStatus); err != nil {
		return nil, err
	}
	if !c.ProfileCompleted {
		return nil, ErrProfileIncomplete
	}

	a, err := s.assignedAssessment(ctx, c)
	if err != nil {
		return nil, err
	}

	if c.AssessmentStatus == model.StatusPending {
		c, err = s.start(ctx, c)
		if err != nil {
			return nil, err
		}
	}

	paper := model.NewCandidatePaper(a)
	if c.StartedAt != nil {
		started := *c.StartedAt
		deadline := started.Add(a.Duration())
		paper.StartedAt = &started
		paper.Deadline = &deadline
	}
	return paper, nil
}

// start moves a PENDING candidate to IN_PROGRESS. Losing the race to another
// start is fine; losing it to a terminal transition is not.
func (s *SessionService) start(ctx context.Context, c *model.Candidate) (*model.Candidate, error) {
	now := s.now()
	updated, err := s.candidates.TransitionStatus(ctx, c.ID,
		[]model.AssessmentStatus{model.StatusPending},
		model.StatusTransition{To: model.StatusInProgress, StartedAt: &now},
	)
	switch {
	case err == nil:
		s.log.Info().Str("candidate_id", c.ID).Msg("Assessment started")
		s.publish(ctx, model.SessionEvent{
			Type:         model.EventAssessmentStarted,
			CandidateID:  c.ID,
			AssessmentID: deref(c.AssignedAssessmentID),
			Status:       model.StatusInProgress,
			OccurredAt:   now,
		})
		return updated, nil
	case errors.Is(err, repository.ErrStatusConflict):
		current, err := s.getCandidate(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if err := closedError(current.AssessmentStatus); err != nil {
			return nil, err
		}
		return current, nil
	case isNoRows(err):
		return nil, ErrCandidateNotFound
	default:
		return nil, fmt.Errorf("start assessment: %w", err)
	}
}

// Submit scores the answers and completes the attempt. The answers are only
// held for the duration of the call.
func (s *SessionService) Submit(ctx context.Context, id model.Identity, candidateID string, answers map[string]model.Answer) (*model.SubmitResult, error) {
	if !id.Owns(candidateID) {
		return nil, ErrIdentityMismatch
	}

	c, err := s.getCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if err := closedError(c.AssessmentStatus); err != nil {
		return nil, err
	}

	a, err := s.assignedAssessment(ctx, c)
	if err != nil {
		return nil, err
	}

	res := scoring.Score(a.Questions, answers)
	now := s.now()
	late := c.StartedAt != nil && now.After(c.StartedAt.Add(a.Duration()))

	score := res.Percentage
	_, err = s.candidates.TransitionStatus(ctx, candidateID, openStatuses, model.StatusTransition{
		To:              model.StatusCompleted,
		ScorePercentage: &score,
		FinishedAt:      &now,
	})
	if err != nil {
		return nil, s.transitionError(ctx, candidateID, "submit assessment", err)
	}

	s.log.Info().
		Str("candidate_id", candidateID).
		Str("assessment_id", a.ID).
		Float64("score", score).
		Int("correct", res.Correct).
		Int("total", res.Total).
		Bool("late", late).
		Msg("Assessment submitted and scored")

	s.publish(ctx, model.SessionEvent{
		Type:            model.EventAssessmentSubmitted,
		CandidateID:     candidateID,
		AssessmentID:    a.ID,
		Status:          model.StatusCompleted,
		ScorePercentage: &score,
		Late:            late,
		OccurredAt:      now,
	})

	return &model.SubmitResult{
		ScorePercentage: score,
		Correct:         res.Correct,
		TotalObjective:  res.Total,
		Late:            late,
	}, nil
}

// Terminate ends the attempt after an integrity violation. A COMPLETED
// attempt is never overwritten; terminating twice is acknowledged.
func (s *SessionService) Terminate(ctx context.Context, id model.Identity, candidateID, reason string) error {
	if !id.Owns(candidateID) {
		return ErrIdentityMismatch
	}
	reason = model.NormalizeViolationKind(reason)

	now := s.now()
	c, err := s.candidates.TransitionStatus(ctx, candidateID, openStatuses, model.StatusTransition{
		To:         model.StatusTerminated,
		FinishedAt: &now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			current, getErr := s.getCandidate(ctx, candidateID)
			if getErr != nil {
				return getErr
			}
			if current.AssessmentStatus == model.StatusTerminated {
				return nil
			}
		}
		return s.transitionError(ctx, candidateID, "terminate assessment", err)
	}

	s.log.Warn().
		Str("candidate_id", candidateID).
		Str("reason", reason).
		Msg("Assessment terminated")

	assessmentID := deref(c.AssignedAssessmentID)
	s.publish(ctx, model.SessionEvent{
		Type:         model.EventAssessmentTerminated,
		CandidateID:  candidateID,
		AssessmentID: assessmentID,
		Status:       model.StatusTerminated,
		Reason:       reason,
		OccurredAt:   now,
	})
	if s.events != nil {
		v := model.Violation{
			CandidateID:  candidateID,
			AssessmentID: assessmentID,
			Kind:         reason,
			RecordedAt:   now,
		}
		if err := s.events.QueueViolation(ctx, v); err != nil {
			s.log.Error().Err(err).Str("candidate_id", candidateID).Msg("Failed to queue violation")
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────

func (s *SessionService) getCandidate(ctx context.Context, id string) (*model.Candidate, error) {
	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

func (s *SessionService) assignedAssessment(ctx context.Context, c *model.Candidate) (*model.Assessment, error) {
	if c.AssignedAssessmentID == nil || *c.AssignedAssessmentID == "" {
		return nil, ErrNoAssessmentAssigned
	}
	a, err := s.catalog.GetByID(ctx, *c.AssignedAssessmentID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return a, nil
}

// transitionError turns a failed conditional update into the error the
// caller should see, re-reading the record to explain a guard mismatch.
func (s *SessionService) transitionError(ctx context.Context, candidateID, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrStatusConflict):
		current, getErr := s.getCandidate(ctx, candidateID)
		if getErr != nil {
			return getErr
		}
		if closed := closedError(current.AssessmentStatus); closed != nil {
			return closed
		}
		return ErrForbidden
	case isNoRows(err):
		return ErrCandidateNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *SessionService) publish(ctx context.Context, ev model.SessionEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishSessionEvent(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("candidate_id", ev.CandidateID).Msg("Failed to publish session event")
	}
}

func closedError(status model.AssessmentStatus) error {
	switch status {
	case model.StatusCompleted:
		return ErrAlreadyCompleted
	case model.StatusTerminated:
		return ErrAssessmentClosed
	default:
		return nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
