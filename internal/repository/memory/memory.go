// Package memory is an in-process store with the same semantics as the
// PostgreSQL repositories. It backs unit tests and local tooling.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

type (
	DB struct {
		candidate  *candidateTable
		assessment *assessmentTable
	}

	candidateTable struct {
		sync.RWMutex
		table map[string]*model.Candidate
	}

	assessmentTable struct {
		sync.RWMutex
		table map[string]*model.Assessment
	}
)

// Open returns an empty store.
func Open() *DB {
	return &DB{
		candidate:  &candidateTable{table: make(map[string]*model.Candidate)},
		assessment: &assessmentTable{table: make(map[string]*model.Assessment)},
	}
}

// Candidates returns the candidate store view of db.
func (db *DB) Candidates() *CandidateStore { return &CandidateStore{db: db.candidate} }

// Assessments returns the assessment store view of db.
func (db *DB) Assessments() *AssessmentStore { return &AssessmentStore{db: db.assessment} }

// ─── Candidates ─────────────────────────────────────────────────────

type CandidateStore struct {
	db *candidateTable
}

func cloneCandidate(c *model.Candidate) *model.Candidate {
	out := *c
	if c.AssignedAssessmentID != nil {
		id := *c.AssignedAssessmentID
		out.AssignedAssessmentID = &id
	}
	if c.ScorePercentage != nil {
		s := *c.ScorePercentage
		out.ScorePercentage = &s
	}
	if c.StartedAt != nil {
		t := *c.StartedAt
		out.StartedAt = &t
	}
	if c.FinishedAt != nil {
		t := *c.FinishedAt
		out.FinishedAt = &t
	}
	return &out
}

func (s *CandidateStore) GetByID(_ context.Context, id string) (*model.Candidate, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	c, ok := s.db.table[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneCandidate(c), nil
}

func (s *CandidateStore) ListPaginated(_ context.Context, status *model.AssessmentStatus, limit, offset int) ([]model.Candidate, int, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	all := make([]model.Candidate, 0, len(s.db.table))
	for _, c := range s.db.table {
		if status != nil && c.AssessmentStatus != *status {
			continue
		}
		all = append(all, *cloneCandidate(c))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := len(all)
	if offset >= total {
		return []model.Candidate{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *CandidateStore) Create(_ context.Context, c *model.Candidate) error {
	s.db.Lock()
	defer s.db.Unlock()

	if _, exists := s.db.table[c.ID]; exists {
		return repository.ErrDuplicateCandidateID
	}
	now := time.Now().UTC()
	c.AssessmentStatus = model.StatusPending
	c.ProfileCompleted = false
	c.CreatedAt = now
	c.UpdatedAt = now
	s.db.table[c.ID] = cloneCandidate(c)
	return nil
}

// Put stores c as-is, replacing any existing record. Test setup only.
func (s *CandidateStore) Put(c *model.Candidate) {
	s.db.Lock()
	defer s.db.Unlock()
	s.db.table[c.ID] = cloneCandidate(c)
}

func (s *CandidateStore) UpdateProfile(_ context.Context, id string, p model.Profile) (*model.Candidate, error) {
	s.db.Lock()
	defer s.db.Unlock()

	c, ok := s.db.table[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	designation := c.Designation
	c.Profile = p
	c.Designation = designation
	c.ProfileCompleted = true
	c.UpdatedAt = time.Now().UTC()
	return cloneCandidate(c), nil
}

func (s *CandidateStore) TransitionStatus(_ context.Context, id string, from []model.AssessmentStatus, t model.StatusTransition) (*model.Candidate, error) {
	s.db.Lock()
	defer s.db.Unlock()

	c, ok := s.db.table[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	allowed := false
	for _, st := range from {
		if c.AssessmentStatus == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, repository.ErrStatusConflict
	}

	c.AssessmentStatus = t.To
	if t.ScorePercentage != nil {
		v := *t.ScorePercentage
		c.ScorePercentage = &v
	}
	if t.StartedAt != nil {
		v := *t.StartedAt
		c.StartedAt = &v
	}
	if t.FinishedAt != nil {
		v := *t.FinishedAt
		c.FinishedAt = &v
	}
	c.UpdatedAt = time.Now().UTC()
	return cloneCandidate(c), nil
}

// ─── Assessments ────────────────────────────────────────────────────

type AssessmentStore struct {
	db *assessmentTable
}

func cloneAssessment(a *model.Assessment) *model.Assessment {
	out := *a
	out.Questions = make([]model.Question, len(a.Questions))
	for i, q := range a.Questions {
		q.Options = append([]string(nil), q.Options...)
		if q.CorrectOptionIndex != nil {
			idx := *q.CorrectOptionIndex
			q.CorrectOptionIndex = &idx
		}
		out.Questions[i] = q
	}
	return &out
}

func (s *AssessmentStore) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	a, ok := s.db.table[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneAssessment(a), nil
}

func (s *AssessmentStore) List(_ context.Context) ([]model.Assessment, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	out := make([]model.Assessment, 0, len(s.db.table))
	for _, a := range s.db.table {
		out = append(out, *cloneAssessment(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *AssessmentStore) Create(_ context.Context, a *model.Assessment) error {
	s.db.Lock()
	defer s.db.Unlock()

	if _, exists := s.db.table[a.ID]; exists {
		return repository.ErrDuplicateAssessmentID
	}
	a.CreatedAt = time.Now().UTC()
	s.db.table[a.ID] = cloneAssessment(a)
	return nil
}
