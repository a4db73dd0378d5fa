package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ironcrest/proctor-backend/internal/config"
	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

var violationColumns = []string{"candidate_id", "assessment_id", "kind", "detail", "recorded_at"}

// ViolationWorker drains the violation queue into assessment_violations in batches.
type ViolationWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewViolationWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ViolationWorker {
	return &ViolationWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "violation_worker").Logger(),
	}
}

// Start blocks until ctx is cancelled, flushing whenever the buffer is full
// or BatchTimeout has passed since the last flush.
func (w *ViolationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ViolationWorker started")

	buffer := make([]*model.ViolationQueueItem, 0, BatchSize)
	lastFlushTime := time.Now()

	for {
		if len(buffer) > 0 && (len(buffer) >= BatchSize || time.Since(lastFlushTime) >= BatchTimeout) {
			w.flushSafe(ctx, buffer)
			buffer = buffer[:0]
			lastFlushTime = time.Now()
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.PersistViolationsQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				w.shutdown(buffer)
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		item, err := decodeViolation(result[1])
		if err != nil {
			// Malformed input can never succeed, so it is dropped rather than requeued.
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed violation")
			continue
		}
		buffer = append(buffer, item)
	}
}

func decodeViolation(raw string) (*model.ViolationQueueItem, error) {
	var item model.ViolationQueueItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, err
	}
	if item.CandidateID == "" || item.Kind == "" {
		return nil, errors.New("candidate_id and kind are required")
	}
	return &item, nil
}

func violationRow(item *model.ViolationQueueItem) []interface{} {
	recordedAt := time.Unix(item.Timestamp, 0).UTC()
	if item.Timestamp <= 0 {
		recordedAt = time.Now().UTC()
	}
	return []interface{}{item.CandidateID, item.AssessmentID, item.Kind, item.Detail, recordedAt}
}

// flushSafe attempts a bulk COPY, then row-by-row inserts, then requeue.
func (w *ViolationWorker) flushSafe(ctx context.Context, batch []*model.ViolationQueueItem) {
	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")
		w.fallbackInsert(ctx, batch)
	}
}

func (w *ViolationWorker) bulkInsert(ctx context.Context, batch []*model.ViolationQueueItem) error {
	_, err := w.pool.CopyFrom(
		ctx,
		pgx.Identifier{"assessment_violations"},
		violationColumns,
		pgx.CopyFromSlice(len(batch), func(i int) ([]interface{}, error) {
			return violationRow(batch[i]), nil
		}),
	)
	return err
}

func (w *ViolationWorker) fallbackInsert(ctx context.Context, batch []*model.ViolationQueueItem) {
	requeueList := make([]*model.ViolationQueueItem, 0)

	for _, item := range batch {
		_, err := w.pool.Exec(ctx,
			`INSERT INTO assessment_violations (candidate_id, assessment_id, kind, detail, recorded_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			violationRow(item)...,
		)
		if err == nil {
			continue
		}

		// A server-side rejection (constraint, bad data) will fail again; only
		// transport failures are worth another attempt.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			w.log.Error().Err(err).Str("candidate_id", item.CandidateID).Str("code", pgErr.Code).Msg("Dropping rejected violation")
			continue
		}
		w.log.Error().Err(err).Str("candidate_id", item.CandidateID).Msg("Insert failed, requeueing")
		requeueList = append(requeueList, item)
	}

	if len(requeueList) > 0 {
		w.requeue(ctx, requeueList)
	}
}

func (w *ViolationWorker) requeue(ctx context.Context, items []*model.ViolationQueueItem) {
	pipe := w.rdb.Pipeline()
	for _, item := range items {
		data, _ := json.Marshal(item)
		pipe.RPush(ctx, config.WorkerKey.PersistViolationsQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("count", len(items)).Msg("CRITICAL: Failed to requeue violations to Redis. Data loss occurred.")
		return
	}
	w.log.Info().Int("count", len(items)).Msg("Requeued failed violations back to Redis")
	// Back off so a database outage does not turn into a hot loop.
	time.Sleep(2 * time.Second)
}

func (w *ViolationWorker) shutdown(buffer []*model.ViolationQueueItem) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(buffer) > 0 {
		w.flushSafe(shutdownCtx, buffer)
	}
}
