package repository

import (
	"context"

	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MonitorRepository provides read access for the live monitor and the
// violation audit trail.
type MonitorRepository struct {
	pool *pgxpool.Pool
}

// NewMonitorRepository creates a new MonitorRepository.
func NewMonitorRepository(pool *pgxpool.Pool) *MonitorRepository {
	return &MonitorRepository{pool: pool}
}

// GetStatusCounts returns how many candidates are in each assessment status.
func (r *MonitorRepository) GetStatusCounts(ctx context.Context) (map[model.AssessmentStatus]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT assessment_status, COUNT(*) FROM candidates GROUP BY assessment_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.AssessmentStatus]int64)
	for rows.Next() {
		var status model.AssessmentStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// GetViolationCounts returns the number of recorded violations per candidate.
func (r *MonitorRepository) GetViolationCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT candidate_id, COUNT(*)
		 FROM assessment_violations
		 GROUP BY candidate_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var id string
		var count int64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

// ListViolations returns every violation recorded for a candidate, oldest first.
func (r *MonitorRepository) ListViolations(ctx context.Context, candidateID string) ([]model.Violation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, candidate_id, assessment_id, kind, detail, recorded_at
		 FROM assessment_violations
		 WHERE candidate_id = $1
		 ORDER BY recorded_at, id`, candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	violations := make([]model.Violation, 0)
	for rows.Next() {
		var v model.Violation
		if err := rows.Scan(&v.ID, &v.CandidateID, &v.AssessmentID, &v.Kind, &v.Detail, &v.RecordedAt); err != nil {
			return nil, err
		}
		violations = append(violations, v)
	}
	return violations, rows.Err()
}
