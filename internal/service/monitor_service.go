package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ironcrest/proctor-backend/internal/config"
	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

// MonitorService fans session events out to live admin monitors and feeds
// the violation persistence queue.
type MonitorService struct {
	monitorRepo *repository.MonitorRepository
	rdb         *redis.Client
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(monitorRepo *repository.MonitorRepository, rdb *redis.Client) *MonitorService {
	return &MonitorService{monitorRepo: monitorRepo, rdb: rdb}
}

// PublishSessionEvent broadcasts ev on the monitor channel.
func (s *MonitorService) PublishSessionEvent(ctx context.Context, ev model.SessionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.rdb.Publish(ctx, config.CacheKey.MonitorChannel(), payload).Err()
}

// QueueViolation pushes v onto the persistence queue drained by the violation worker.
func (s *MonitorService) QueueViolation(ctx context.Context, v model.Violation) error {
	payload, err := json.Marshal(model.ViolationQueueItem{
		CandidateID:  v.CandidateID,
		AssessmentID: v.AssessmentID,
		Kind:         v.Kind,
		Detail:       v.Detail,
		Timestamp:    v.RecordedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal violation: %w", err)
	}
	return s.rdb.RPush(ctx, config.WorkerKey.PersistViolationsQueue, payload).Err()
}

// ListViolations returns the audit trail of a candidate.
func (s *MonitorService) ListViolations(ctx context.Context, candidateID string) ([]model.Violation, error) {
	return s.monitorRepo.ListViolations(ctx, candidateID)
}

// MonitorSnapshot is the aggregate state sent when an admin attaches.
type MonitorSnapshot struct {
	StatusCounts    map[model.AssessmentStatus]int64 `json:"status_counts"`
	ViolationCounts map[string]int64                 `json:"violation_counts"`
	TotalViolations int64                            `json:"total_violations"`
}

// GetSnapshot fetches status and violation counts concurrently.
func (s *MonitorService) GetSnapshot(ctx context.Context) (*MonitorSnapshot, error) {
	snapshot := &MonitorSnapshot{
		StatusCounts:    make(map[model.AssessmentStatus]int64),
		ViolationCounts: make(map[string]int64),
	}

	var (
		statusCounts    map[model.AssessmentStatus]int64
		violationCounts map[string]int64
		statusErr       error
		violationErr    error
		wg              sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		statusCounts, statusErr = s.monitorRepo.GetStatusCounts(ctx)
	}()
	go func() {
		defer wg.Done()
		violationCounts, violationErr = s.monitorRepo.GetViolationCounts(ctx)
	}()
	wg.Wait()

	// Status counts are required; violation counts are best-effort.
	if statusErr != nil {
		return nil, statusErr
	}
	for st, n := range statusCounts {
		snapshot.StatusCounts[st] = n
	}
	if violationErr == nil {
		for id, n := range violationCounts {
			snapshot.ViolationCounts[id] = n
			snapshot.TotalViolations += n
		}
	}
	return snapshot, nil
}
