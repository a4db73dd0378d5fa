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
	"golang.org/x/crypto/bcrypt"
)

func newCandidateService(t *testing.T) (*CandidateService, *memory.DB) {
	t.Helper()
	db := memory.Open()
	catalog := NewAssessmentService(db.Assessments(), nil, time.Hour, zerolog.Nop())
	_, err := catalog.Create(context.Background(), validRequest())
	require.NoError(t, err)
	return NewCandidateService(db.Candidates(), catalog, "ironcrestdevelopers.com", bcrypt.MinCost, zerolog.Nop()), db
}

func TestCreateCandidate(t *testing.T) {
	svc, db := newCandidateService(t)
	ctx := context.Background()

	out, err := svc.CreateCandidate(ctx, &model.CreateCandidateRequest{
		Name:         "Jane Q Doe",
		Designation:  "Site Engineer",
		AssessmentID: "assess_civil_001",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^IC-[1-9][0-9]{3}$`, out.ID)
	assert.Regexp(t, `^[0-9a-z]{8}$`, out.Password)
	assert.Equal(t, "janeqdoe@ironcrestdevelopers.com", out.Email)

	c, err := db.Candidates().GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, c.AssessmentStatus)
	assert.False(t, c.ProfileCompleted)
	assert.Nil(t, c.ScorePercentage)
	require.NotNil(t, c.AssignedAssessmentID)
	assert.Equal(t, "assess_civil_001", *c.AssignedAssessmentID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(out.Password)))
	assert.NotEqual(t, out.Password, c.PasswordHash)
}

func TestCreateCandidateUnknownAssessment(t *testing.T) {
	svc, _ := newCandidateService(t)

	_, err := svc.CreateCandidate(context.Background(), &model.CreateCandidateRequest{
		Name:         "Jane",
		Designation:  "Engineer",
		AssessmentID: "nope",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "assessment_id")
}

func TestCreateCandidateIDsAreUnique(t *testing.T) {
	svc, _ := newCandidateService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		out, err := svc.CreateCandidate(ctx, &model.CreateCandidateRequest{
			Name: "Candidate", Designation: "Engineer", AssessmentID: "assess_civil_001",
		})
		require.NoError(t, err)
		assert.False(t, seen[out.ID], "duplicate id %s", out.ID)
		seen[out.ID] = true
	}
}

func TestCandidateEmail(t *testing.T) {
	assert.Equal(t, "johnsmith@corp.test", CandidateEmail("John  Smith", "corp.test"))
	assert.Equal(t, "ana@corp.test", CandidateEmail("\tAna\n", "corp.test"))
}

func TestUpdateProfileCompletesProfile(t *testing.T) {
	svc, _ := newCandidateService(t)
	ctx := context.Background()

	out, err := svc.CreateCandidate(ctx, &model.CreateCandidateRequest{
		Name: "Jane", Designation: "Engineer", AssessmentID: "assess_civil_001",
	})
	require.NoError(t, err)

	c, err := svc.UpdateProfile(ctx, candidate(out.ID), out.ID, &model.UpdateProfileRequest{
		Name:  " Jane Doe ",
		Email: "jane@example.com",
		Phone: "+15550100",
	})
	require.NoError(t, err)

	assert.True(t, c.ProfileCompleted)
	assert.Equal(t, "Jane Doe", c.Name)
	assert.Equal(t, "Engineer", c.Designation)
	assert.Equal(t, model.StatusPending, c.AssessmentStatus)

	got, err := svc.GetProfile(ctx, candidate(out.ID), out.ID)
	require.NoError(t, err)
	assert.True(t, got.ProfileCompleted)
}

func TestProfileAccessIsOwnerOnly(t *testing.T) {
	svc, _ := newCandidateService(t)
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, candidate("IC-1111"), "IC-2222")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateProfile(ctx, candidate("IC-1111"), "IC-2222", &model.UpdateProfileRequest{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetProfile(ctx, candidate("IC-1111"), "IC-1111")
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestListCandidatesPagination(t *testing.T) {
	svc, _ := newCandidateService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateCandidate(ctx, &model.CreateCandidateRequest{
			Name: "Candidate", Designation: "Engineer", AssessmentID: "assess_civil_001",
		})
		require.NoError(t, err)
	}

	list, page, err := svc.ListCandidates(ctx, nil, 2, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 5, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)

	completed := model.StatusCompleted
	list, page, err = svc.ListCandidates(ctx, &completed, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PerPage)
}
