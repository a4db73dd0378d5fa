package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"strings"
	"unicode"

	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/repository"
	"github.com/ironcrest/proctor-backend/internal/response"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	candidateIDPrefix = "IC-"
	passwordLength    = 8
	passwordAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	maxIDAttempts     = 10
)

var ErrCandidateIDExhausted = errors.New("could not allocate a unique candidate id")

// CandidateDirectory is the candidate persistence used outside the session engine.
type CandidateDirectory interface {
	GetByID(ctx context.Context, id string) (*model.Candidate, error)
	ListPaginated(ctx context.Context, status *model.AssessmentStatus, limit, offset int) ([]model.Candidate, int, error)
	Create(ctx context.Context, c *model.Candidate) error
	UpdateProfile(ctx context.Context, id string, p model.Profile) (*model.Candidate, error)
}

// CandidateService issues candidate credentials and manages profiles.
type CandidateService struct {
	repo        CandidateDirectory
	catalog     AssessmentCatalog
	emailDomain string
	bcryptCost  int
	log         zerolog.Logger
}

// NewCandidateService creates a new CandidateService.
func NewCandidateService(repo CandidateDirectory, catalog AssessmentCatalog, emailDomain string, bcryptCost int, log zerolog.Logger) *CandidateService {
	return &CandidateService{
		repo:        repo,
		catalog:     catalog,
		emailDomain: emailDomain,
		bcryptCost:  bcryptCost,
		log:         log.With().Str("component", "candidate_service").Logger(),
	}
}

// GetByID retrieves a candidate by id.
func (s *CandidateService) GetByID(ctx context.Context, id string) (*model.Candidate, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

// GetProfile returns the caller's own record.
func (s *CandidateService) GetProfile(ctx context.Context, id model.Identity, candidateID string) (*model.Candidate, error) {
	if !id.Owns(candidateID) {
		return nil, ErrIdentityMismatch
	}
	return s.GetByID(ctx, candidateID)
}

// UpdateProfile stores the caller's profile and marks it completed.
func (s *CandidateService) UpdateProfile(ctx context.Context, id model.Identity, candidateID string, req *model.UpdateProfileRequest) (*model.Candidate, error) {
	if !id.Owns(candidateID) {
		return nil, ErrIdentityMismatch
	}

	p := model.Profile{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		Experience:    strings.TrimSpace(req.Experience),
		Phone:         strings.TrimSpace(req.Phone),
		Location:      strings.TrimSpace(req.Location),
		Qualification: strings.TrimSpace(req.Qualification),
		PortfolioURL:  strings.TrimSpace(req.PortfolioURL),
		IDProofURL:    strings.TrimSpace(req.IDProofURL),
	}
	c, err := s.repo.UpdateProfile(ctx, candidateID, p)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return c, nil
}

// ListCandidates retrieves candidates with pagination and an optional status filter.
func (s *CandidateService) ListCandidates(ctx context.Context, status *model.AssessmentStatus, page, perPage int) ([]model.Candidate, *response.Pagination, error) {
	page, perPage, offset := response.PageWindow(page, perPage)

	candidates, total, err := s.repo.ListPaginated(ctx, status, perPage, offset)
	if err != nil {
		return nil, nil, err
	}
	if candidates == nil {
		candidates = []model.Candidate{}
	}

	return candidates, response.NewPagination(page, perPage, total), nil
}

// CreateCandidate issues credentials for a new candidate assigned to an
// existing paper. The plaintext password is only ever returned here.
func (s *CandidateService) CreateCandidate(ctx context.Context, req *model.CreateCandidateRequest) (*model.CreateCandidateResponse, error) {
	assessmentID := strings.TrimSpace(req.AssessmentID)
	if _, err := s.catalog.GetByID(ctx, assessmentID); err != nil {
		if isNoRows(err) {
			return nil, &ValidationError{Fields: map[string]string{"assessment_id": "Assessment does not exist."}}
		}
		return nil, fmt.Errorf("check assessment: %w", err)
	}

	password, err := generatePassword()
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	c := &model.Candidate{
		Profile: model.Profile{
			Name:        name,
			Designation: strings.TrimSpace(req.Designation),
			Email:       CandidateEmail(name, s.emailDomain),
		},
		PasswordHash:         string(hash),
		AssignedAssessmentID: &assessmentID,
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		c.ID = generateCandidateID()
		err = s.repo.Create(ctx, c)
		if err == nil {
			s.log.Info().
				Str("candidate_id", c.ID).
				Str("assessment_id", assessmentID).
				Msg("Candidate credentials issued")
			return &model.CreateCandidateResponse{ID: c.ID, Email: c.Email, Password: password}, nil
		}
		if !errors.Is(err, repository.ErrDuplicateCandidateID) {
			return nil, fmt.Errorf("create candidate: %w", err)
		}
	}
	return nil, ErrCandidateIDExhausted
}

// CandidateEmail derives the default address: the lowercased name with all
// whitespace removed, at domain.
func CandidateEmail(name, domain string) string {
	local := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
	return local + "@" + domain
}

func generateCandidateID() string {
	return fmt.Sprintf("%s%d", candidateIDPrefix, 1000+mrand.IntN(9000))
}

func generatePassword() (string, error) {
	var b strings.Builder
	limit := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < passwordLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordAlphabet[n.Int64()])
	}
	return b.String(), nil
}
