package service

import (
	"context"
	"testing"
	"time"

	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssessmentService() *AssessmentService {
	return NewAssessmentService(memory.Open().Assessments(), nil, time.Hour, zerolog.Nop())
}

func validRequest() *model.CreateAssessmentRequest {
	return &model.CreateAssessmentRequest{
		ID:              "assess_civil_001",
		Name:            "Recruitment Assessment Round",
		DurationMinutes: 90,
		Questions: []model.QuestionInput{
			{ID: "r1", Text: "Pick one", Type: "MCQ", Section: model.SectionReasoning, Options: []string{"a", "b", "c"}, CorrectOptionIndex: intPtr(2)},
			{Text: "Tell us about yourself", Type: "WRITTEN", Section: model.SectionWrittenIntro},
		},
	}
}

func TestCreateAssessment(t *testing.T) {
	svc := newAssessmentService()
	ctx := context.Background()

	a, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	assert.Equal(t, "assess_civil_001", a.ID)
	require.Len(t, a.Questions, 2)
	assert.Equal(t, "r1", a.Questions[0].ID)
	assert.Equal(t, "q2", a.Questions[1].ID, "missing ids are generated from position")
	assert.Nil(t, a.Questions[1].Options)
	assert.Nil(t, a.Questions[1].CorrectOptionIndex)

	stored, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Questions, stored.Questions)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateAssessmentGeneratesID(t *testing.T) {
	svc := newAssessmentService()
	req := validRequest()
	req.ID = ""

	a, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Regexp(t, `^assess_[0-9a-f]{12}$`, a.ID)
}

func TestCreateAssessmentRejectsDuplicateID(t *testing.T) {
	svc := newAssessmentService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validRequest())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "id")
}

func TestCreateAssessmentValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.CreateAssessmentRequest)
		field  string
	}{
		{
			name:   "mcq without options",
			mutate: func(r *model.CreateAssessmentRequest) { r.Questions[0].Options = nil },
			field:  "questions[0].options",
		},
		{
			name:   "mcq without key",
			mutate: func(r *model.CreateAssessmentRequest) { r.Questions[0].CorrectOptionIndex = nil },
			field:  "questions[0].correct_option_index",
		},
		{
			name:   "mcq key out of range",
			mutate: func(r *model.CreateAssessmentRequest) { r.Questions[0].CorrectOptionIndex = intPtr(3) },
			field:  "questions[0].correct_option_index",
		},
		{
			name:   "written with options",
			mutate: func(r *model.CreateAssessmentRequest) { r.Questions[1].Options = []string{"x"} },
			field:  "questions[1].options",
		},
		{
			name:   "written with key",
			mutate: func(r *model.CreateAssessmentRequest) { r.Questions[1].CorrectOptionIndex = intPtr(0) },
			field:  "questions[1].correct_option_index",
		},
		{
			name:   "duplicate question id",
			mutate: func(r *model.CreateAssessmentRequest) { r.Questions[1].ID = "r1" },
			field:  "questions[1].id",
		},
		{
			name:   "unknown type",
			mutate: func(r *model.CreateAssessmentRequest) { r.Questions[1].Type = "ESSAY" },
			field:  "questions[1].type",
		},
		{
			name:   "zero duration",
			mutate: func(r *model.CreateAssessmentRequest) { r.DurationMinutes = 0 },
			field:  "duration_minutes",
		},
		{
			name:   "no questions",
			mutate: func(r *model.CreateAssessmentRequest) { r.Questions = nil },
			field:  "questions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAssessmentService()
			req := validRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)

			list, err := svc.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestGetAssessmentNotFound(t *testing.T) {
	svc := newAssessmentService()
	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrewarmWithoutCacheIsNoop(t *testing.T) {
	assert.NoError(t, newAssessmentService().PrewarmAllCaches(context.Background()))
}
