package repository

import (
	"context"
	"errors"

	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateAssessmentID = errors.New("assessment with this id already exists")

// AssessmentRepository handles question paper data access.
// Papers are insert-only: there is no update or delete path.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// GetByID retrieves a paper with all of its questions, in paper order.
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	a := &model.Assessment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, duration_minutes, created_at FROM assessments WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.DurationMinutes, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	questions, err := r.listQuestions(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	a.Questions = questions[id]
	if a.Questions == nil {
		a.Questions = []model.Question{}
	}
	return a, nil
}

// List retrieves every paper with its questions, newest first.
func (r *AssessmentRepository) List(ctx context.Context) ([]model.Assessment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, duration_minutes, created_at FROM assessments ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := make([]model.Assessment, 0)
	var ids []string
	for rows.Next() {
		var a model.Assessment
		if err := rows.Scan(&a.ID, &a.Name, &a.DurationMinutes, &a.CreatedAt); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return assessments, nil
	}

	questions, err := r.listQuestions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range assessments {
		assessments[i].Questions = questions[assessments[i].ID]
		if assessments[i].Questions == nil {
			assessments[i].Questions = []model.Question{}
		}
	}
	return assessments, nil
}

func (r *AssessmentRepository) listQuestions(ctx context.Context, assessmentIDs []string) (map[string][]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT assessment_id, id, text, type, section, options, correct_option_index
		 FROM questions WHERE assessment_id = ANY($1)
		 ORDER BY assessment_id, position`, assessmentIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.Question, len(assessmentIDs))
	for rows.Next() {
		var (
			assessmentID string
			q            model.Question
		)
		if err := rows.Scan(&assessmentID, &q.ID, &q.Text, &q.Type, &q.Section, &q.Options, &q.CorrectOptionIndex); err != nil {
			return nil, err
		}
		out[assessmentID] = append(out[assessmentID], q)
	}
	return out, rows.Err()
}

// Create inserts a paper and its questions atomically.
func (r *AssessmentRepository) Create(ctx context.Context, a *model.Assessment) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO assessments (id, name, duration_minutes)
			 VALUES ($1, $2, $3)
			 RETURNING created_at`,
			a.ID, a.Name, a.DurationMinutes,
		).Scan(&a.CreatedAt); err != nil {
			return err
		}

		_, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"questions"},
			[]string{"assessment_id", "id", "position", "text", "type", "section", "options", "correct_option_index"},
			pgx.CopyFromSlice(len(a.Questions), func(i int) ([]interface{}, error) {
				q := a.Questions[i]
				var options interface{}
				if q.Type == model.QuestionTypeMultipleChoice {
					options = q.Options
				}
				return []interface{}{a.ID, q.ID, i, q.Text, string(q.Type), q.Section, options, q.CorrectOptionIndex}, nil
			}),
		)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAssessmentID
		}
		return err
	}
	return nil
}
