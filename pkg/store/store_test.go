package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis connects to a local Redis and skips the test when none
// is running. tests/integration covers the store against a container.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNew(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	s := New(client, 0)
	if s.redis != client {
		t.Error("Store redis client not set correctly")
	}
	if s.Retention() != DefaultRetention {
		t.Errorf("Retention() = %v, want %v", s.Retention(), DefaultRetention)
	}

	if got := New(client, time.Hour).Retention(); got != time.Hour {
		t.Errorf("Retention() = %v, want 1h", got)
	}
}

func TestNew_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("New should panic with nil redis client")
		}
	}()
	New(nil, time.Hour)
}

func TestSaveRun_Validation(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	s := New(client, time.Hour)
	ctx := context.Background()

	if err := s.SaveRun(ctx, nil); err == nil {
		t.Error("SaveRun(nil) should fail")
	}
	if err := s.SaveRun(ctx, &Run{}); err == nil {
		t.Error("SaveRun without ID should fail")
	}

	run := NewRun(OperationScoreBatch, "fast", []string{"CCO", "CCN"})
	run.Scores = []float64{0.5}
	if err := s.SaveRun(ctx, run); err == nil {
		t.Error("SaveRun with misaligned scores should fail")
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	s := New(client, time.Hour)
	ctx := context.Background()

	run := NewRun(OperationScoreBatch, "fast", []string{"CCO", "c1ccccc1"})
	run.Scores = []float64{0.25, 1.0}
	run.Result = json.RawMessage(`{"scores":[0.25,1]}`)

	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := s.Run(ctx, run.ID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got.ID != run.ID || got.Operation != OperationScoreBatch {
		t.Errorf("Run() = %+v, want id %s", got, run.ID)
	}
	if len(got.Scores) != 2 || got.Scores[0] != 0.25 {
		t.Errorf("Scores = %v, want [0.25 1]", got.Scores)
	}

	ttl, err := client.TTL(ctx, RunKey(run.ID).String()).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("TTL = %v, want within (0, 1h]", ttl)
	}
}

func TestStore_LatestScore(t *testing.T) {
	client := setupTestRedis(t)
	s := New(client, time.Hour)
	ctx := context.Background()

	first := NewRun(OperationScoreBatch, "fast", []string{"CCO"})
	first.Scores = []float64{0.4}
	second := NewRun(OperationScore, "fast", []string{"CCO"})
	second.Scores = []float64{0.6}

	for _, run := range []*Run{first, second} {
		if err := s.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	record, err := s.LatestScore(ctx, "fast", "CCO")
	if err != nil {
		t.Fatalf("LatestScore failed: %v", err)
	}
	if record.Score != 0.6 || record.RunID != second.ID {
		t.Errorf("LatestScore() = %+v, want score 0.6 from run %s", record, second.ID)
	}

	if _, err := s.LatestScore(ctx, "retrosynthesis", "CCO"); !errors.Is(err, ErrScoreNotFound) {
		t.Errorf("LatestScore() error = %v, want ErrScoreNotFound", err)
	}
}

func TestStore_RunNotFound(t *testing.T) {
	client := setupTestRedis(t)
	s := New(client, time.Hour)

	if _, err := s.Run(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Run() error = %v, want ErrRunNotFound", err)
	}
}

func TestStore_InvalidRecord(t *testing.T) {
	client := setupTestRedis(t)
	s := New(client, time.Hour)
	ctx := context.Background()

	client.Set(ctx, RunKey("broken").String(), "not json", time.Minute)

	if _, err := s.Run(ctx, "broken"); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Run() error = %v, want ErrInvalidRecord", err)
	}
}

func TestStore_DeleteRun(t *testing.T) {
	client := setupTestRedis(t)
	s := New(client, time.Hour)
	ctx := context.Background()

	run := NewRun(OperationExact, "", []string{"CCO"})
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := s.DeleteRun(ctx, run.ID); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := s.Run(ctx, run.ID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Run() after delete error = %v, want ErrRunNotFound", err)
	}
}
