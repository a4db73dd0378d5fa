package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ironcrest/proctor-backend/internal/config"
	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AssessmentStore is the question paper persistence.
type AssessmentStore interface {
	GetByID(ctx context.Context, id string) (*model.Assessment, error)
	List(ctx context.Context) ([]model.Assessment, error)
	Create(ctx context.Context, a *model.Assessment) error
}

// AssessmentService manages question papers and keeps a Redis copy of each
// paper (answer key included) for the session engine. Papers never change
// after creation, so cached entries are never invalidated, only expired.
type AssessmentService struct {
	repo AssessmentStore
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewAssessmentService creates a new AssessmentService. rdb may be nil, in
// which case every read goes to the store.
func NewAssessmentService(repo AssessmentStore, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *AssessmentService {
	return &AssessmentService{
		repo: repo,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "assessment_service").Logger(),
	}
}

// GetByID returns a paper with its answer key, from cache when possible.
func (s *AssessmentService) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	if a, ok := s.fromCache(ctx, id); ok {
		return a, nil
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}

	if err := s.warm(ctx, a); err != nil {
		s.log.Warn().Err(err).Str("assessment_id", id).Msg("Failed to cache assessment")
	}
	return a, nil
}

// List returns every paper, answer keys included. Admin use only.
func (s *AssessmentService) List(ctx context.Context) ([]model.Assessment, error) {
	return s.repo.List(ctx)
}

// Create validates and stores a new paper. Question ids are generated where
// missing; the paper id is generated when not provided.
func (s *AssessmentService) Create(ctx context.Context, req *model.CreateAssessmentRequest) (*model.Assessment, error) {
	a, err := buildAssessment(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicateAssessmentID) {
			return nil, &ValidationError{Fields: map[string]string{"id": "An assessment with this id already exists."}}
		}
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	if err := s.warm(ctx, a); err != nil {
		s.log.Warn().Err(err).Str("assessment_id", a.ID).Msg("Failed to cache assessment")
	}

	s.log.Info().
		Str("assessment_id", a.ID).
		Int("questions", len(a.Questions)).
		Msg("Assessment created")
	return a, nil
}

// PrewarmAllCaches loads every paper into Redis on startup.
func (s *AssessmentService) PrewarmAllCaches(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}

	assessments, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list assessments: %w", err)
	}
	if len(assessments) == 0 {
		s.log.Info().Msg("No assessments to prewarm")
		return nil
	}

	warmed := 0
	for i := range assessments {
		if err := s.warm(ctx, &assessments[i]); err != nil {
			s.log.Warn().Err(err).Str("assessment_id", assessments[i].ID).Msg("Failed to warm assessment, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(assessments)).
		Msg("Prewarming complete")
	return nil
}

func (s *AssessmentService) fromCache(ctx context.Context, id string) (*model.Assessment, bool) {
	if s.rdb == nil {
		return nil, false
	}
	data, err := s.rdb.Get(ctx, config.CacheKey.AssessmentKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("assessment_id", id).Msg("Assessment cache read failed")
		}
		return nil, false
	}

	var a model.Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		s.log.Warn().Err(err).Str("assessment_id", id).Msg("Discarding corrupt cached assessment")
		return nil, false
	}
	return &a, true
}

func (s *AssessmentService) warm(ctx context.Context, a *model.Assessment) error {
	if s.rdb == nil {
		return nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal assessment: %w", err)
	}
	return s.rdb.Set(ctx, config.CacheKey.AssessmentKey(a.ID), data, s.ttl).Err()
}

// buildAssessment checks the rules struct tags cannot express: MCQ questions
// need options and an in-range key, WRITTEN questions carry neither, and
// question ids are unique within the paper.
func buildAssessment(req *model.CreateAssessmentRequest) (*model.Assessment, error) {
	fields := make(map[string]string)
	a := &model.Assessment{
		ID:              strings.TrimSpace(req.ID),
		Name:            strings.TrimSpace(req.Name),
		DurationMinutes: req.DurationMinutes,
		Questions:       make([]model.Question, 0, len(req.Questions)),
	}
	if a.ID == "" {
		a.ID = "assess_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	}
	if a.DurationMinutes <= 0 {
		fields["duration_minutes"] = "Duration must be greater than zero."
	}
	if len(req.Questions) == 0 {
		fields["questions"] = "At least one question is required."
	}

	seen := make(map[string]bool, len(req.Questions))
	for i, in := range req.Questions {
		prefix := "questions[" + strconv.Itoa(i) + "]"
		q := model.Question{
			ID:      strings.TrimSpace(in.ID),
			Text:    strings.TrimSpace(in.Text),
			Type:    model.QuestionType(in.Type),
			Section: strings.TrimSpace(in.Section),
		}
		if q.ID == "" {
			q.ID = "q" + strconv.Itoa(i+1)
		}
		if seen[q.ID] {
			fields[prefix+".id"] = "Question ids must be unique within an assessment."
		}
		seen[q.ID] = true
		if q.Text == "" {
			fields[prefix+".text"] = "Question text is required."
		}

		switch q.Type {
		case model.QuestionTypeMultipleChoice:
			if len(in.Options) == 0 {
				fields[prefix+".options"] = "Multiple choice questions need at least one option."
			}
			if in.CorrectOptionIndex == nil {
				fields[prefix+".correct_option_index"] = "Multiple choice questions need a correct option."
			} else if *in.CorrectOptionIndex < 0 || *in.CorrectOptionIndex >= len(in.Options) {
				fields[prefix+".correct_option_index"] = "Correct option is out of range."
			}
			q.Options = append([]string(nil), in.Options...)
			if in.CorrectOptionIndex != nil {
				idx := *in.CorrectOptionIndex
				q.CorrectOptionIndex = &idx
			}
		case model.QuestionTypeWritten:
			if len(in.Options) > 0 {
				fields[prefix+".options"] = "Written questions cannot have options."
			}
			if in.CorrectOptionIndex != nil {
				fields[prefix+".correct_option_index"] = "Written questions cannot have a correct option."
			}
		default:
			fields[prefix+".type"] = "Type must be MCQ or WRITTEN."
		}
		a.Questions = append(a.Questions, q)
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return a, nil
}
