package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrRunNotFound indicates the run doesn't exist or has expired
	ErrRunNotFound = errors.New("run not found")

	// ErrScoreNotFound indicates no run has scored the compound
	ErrScoreNotFound = errors.New("score not found")

	// ErrInvalidRecord indicates a stored record is corrupted
	ErrInvalidRecord = errors.New("invalid store record")
)

// DefaultRetention is how long runs are kept when no retention is given.
const DefaultRetention = 7 * 24 * time.Hour

// Store records runs in Redis.
type Store struct {
	redis     *redis.Client
	retention time.Duration
}

// New creates a store with the given retention. A non-positive retention
// selects DefaultRetention.
func New(redisClient *redis.Client, retention time.Duration) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store{
		redis:     redisClient,
		retention: retention,
	}
}

// Retention returns how long runs are kept.
func (s *Store) Retention() time.Duration {
	return s.retention
}

// SaveRun writes run and updates the latest-score index for every scored
// compound. StoredAt and Expires are set from the store's retention.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}
	if run.ID == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	if len(run.Scores) > 0 && len(run.Scores) != len(run.SMILES) {
		return fmt.Errorf("run %s: %d scores for %d compounds", run.ID, len(run.Scores), len(run.SMILES))
	}

	run.StoredAt = time.Now().UTC()
	run.Expires = run.StoredAt.Add(s.retention)

	data, err := json.Marshal(run)
	if err != nil {
		StoreErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("marshal run: %w", err)
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, RunKey(run.ID).String(), data, s.retention)

	for i, score := range run.Scores {
		record, err := json.Marshal(ScoreRecord{
			SMILES:    run.SMILES[i],
			Algorithm: run.Algorithm,
			Score:     score,
			RunID:     run.ID,
			StoredAt:  run.StoredAt,
		})
		if err != nil {
			StoreErrors.WithLabelValues("save").Inc()
			return fmt.Errorf("marshal score record: %w", err)
		}
		pipe.Set(ctx, ScoreKey(run.Algorithm, run.SMILES[i]).String(), record, s.retention)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		StoreErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("redis save run: %w", err)
	}

	StoreWrites.Inc()
	return nil
}

// Run retrieves a run by ID.
// Returns ErrRunNotFound if the run doesn't exist or is expired.
func (s *Store) Run(ctx context.Context, id string) (*Run, error) {
	var run Run
	if err := s.get(ctx, RunKey(id), &run); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	if run.IsExpired() {
		_ = s.DeleteRun(ctx, id)
		StoreReads.WithLabelValues("miss").Inc()
		return nil, ErrRunNotFound
	}

	StoreReads.WithLabelValues("hit").Inc()
	return &run, nil
}

// LatestScore returns the most recently stored score of smiles under
// algorithm.
func (s *Store) LatestScore(ctx context.Context, algorithm, smiles string) (*ScoreRecord, error) {
	var record ScoreRecord
	if err := s.get(ctx, ScoreKey(algorithm, smiles), &record); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrScoreNotFound
		}
		return nil, err
	}

	StoreReads.WithLabelValues("hit").Inc()
	return &record, nil
}

// DeleteRun removes a run. Score index entries pointing at it expire on
// their own.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, RunKey(id).String()).Err(); err != nil {
		StoreErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// get reads and unmarshals key into v. A missing key returns redis.Nil.
func (s *Store) get(ctx context.Context, key Key, v any) error {
	data, err := s.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			StoreReads.WithLabelValues("miss").Inc()
			return redis.Nil
		}
		StoreErrors.WithLabelValues("get").Inc()
		return fmt.Errorf("redis get: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		StoreErrors.WithLabelValues("get").Inc()
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
