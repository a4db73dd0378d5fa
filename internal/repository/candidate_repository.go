package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDuplicateCandidateID = errors.New("candidate with this id already exists")
	// ErrStatusConflict is returned by TransitionStatus when the candidate
	// exists but its current status is not one of the allowed source states.
	ErrStatusConflict = errors.New("candidate status does not allow this transition")
)

const candidateColumns = `id, name, designation, email, experience, phone, location, qualification,
	portfolio_url, id_proof_url, password_hash, profile_completed, assigned_assessment_id,
	assessment_status, score_percentage, started_at, finished_at, created_at, updated_at`

// CandidateRepository handles candidate data access.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

func scanCandidate(row pgx.Row) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Designation, &c.Email, &c.Experience, &c.Phone, &c.Location, &c.Qualification,
		&c.PortfolioURL, &c.IDProofURL, &c.PasswordHash, &c.ProfileCompleted, &c.AssignedAssessmentID,
		&c.AssessmentStatus, &c.ScorePercentage, &c.StartedAt, &c.FinishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a candidate by its login identifier.
func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*model.Candidate, error) {
	return scanCandidate(r.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
}

// ListPaginated retrieves candidates ordered by creation time, newest first.
func (r *CandidateRepository) ListPaginated(ctx context.Context, status *model.AssessmentStatus, limit, offset int) ([]model.Candidate, int, error) {
	where := ""
	var args []interface{}
	if status != nil {
		where = ` WHERE assessment_status = $1`
		args = append(args, *status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM candidates%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		candidateColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	candidates := make([]model.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		candidates = append(candidates, *c)
	}
	return candidates, total, rows.Err()
}

// Create inserts a new candidate in the PENDING state.
func (r *CandidateRepository) Create(ctx context.Context, c *model.Candidate) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO candidates (id, name, designation, email, password_hash, assigned_assessment_id, assessment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING profile_completed, assessment_status, created_at, updated_at`,
		c.ID, c.Name, c.Designation, c.Email, c.PasswordHash, c.AssignedAssessmentID, model.StatusPending,
	).Scan(&c.ProfileCompleted, &c.AssessmentStatus, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCandidateID
		}
		return err
	}
	return nil
}

// UpdateProfile stores the candidate's self-reported details and marks the
// profile as completed.
func (r *CandidateRepository) UpdateProfile(ctx context.Context, id string, p model.Profile) (*model.Candidate, error) {
	return scanCandidate(r.pool.QueryRow(ctx,
		`UPDATE candidates
		 SET name = $2, email = $3, experience = $4, phone = $5, location = $6, qualification = $7,
		     portfolio_url = $8, id_proof_url = $9, profile_completed = TRUE, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING `+candidateColumns,
		id, p.Name, p.Email, p.Experience, p.Phone, p.Location, p.Qualification, p.PortfolioURL, p.IDProofURL,
	))
}

// TransitionStatus moves the candidate to t.To only if its current status is
// one of from. The guard and the write happen in a single statement, so two
// concurrent transitions on the same candidate can never both succeed.
//
// Returns pgx.ErrNoRows if the candidate does not exist and ErrStatusConflict
// if the guard did not match.
func (r *CandidateRepository) TransitionStatus(ctx context.Context, id string, from []model.AssessmentStatus, t model.StatusTransition) (*model.Candidate, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	c, err := scanCandidate(r.pool.QueryRow(ctx,
		`UPDATE candidates
		 SET assessment_status = $3,
		     score_percentage = COALESCE($4, score_percentage),
		     started_at = COALESCE($5, started_at),
		     finished_at = COALESCE($6, finished_at),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND assessment_status = ANY($2)
		 RETURNING `+candidateColumns,
		id, allowed, t.To, t.ScorePercentage, t.StartedAt, t.FinishedAt,
	))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM candidates WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, pgx.ErrNoRows
	}
	return nil, ErrStatusConflict
}
