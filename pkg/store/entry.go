package store

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Operations recorded by a Run.
const (
	OperationExact      = "exact"
	OperationExactBatch = "exact_batch"
	OperationScore      = "score"
	OperationScoreBatch = "score_batch"
)

// Run is one recorded lookup against the Manifold API.
type Run struct {
	// ID is a random UUID assigned by NewRun
	ID string `json:"id"`

	// Operation is one of the Operation constants
	Operation string `json:"operation"`

	// Algorithm is the scoring model (score operations only)
	Algorithm string `json:"algorithm,omitempty"`

	// SMILES are the queried compounds in request order
	SMILES []string `json:"smiles"`

	// Scores are aligned with SMILES (score operations only)
	Scores []float64 `json:"scores,omitempty"`

	// Result is the JSON result as returned to the caller
	Result json.RawMessage `json:"result,omitempty"`

	// StoredAt is when the run was written
	StoredAt time.Time `json:"stored_at"`

	// Expires is when the run is dropped from the store
	Expires time.Time `json:"expires"`
}

// NewRun creates a run with a fresh ID.
func NewRun(operation, algorithm string, smiles []string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Operation: operation,
		Algorithm: algorithm,
		SMILES:    slices.Clone(smiles),
	}
}

// IsExpired returns true if the run has passed its retention.
func (r *Run) IsExpired() bool {
	return time.Now().After(r.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (r *Run) TTL() time.Duration {
	ttl := time.Until(r.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// ScoreRecord is the latest known score of one compound under one model.
type ScoreRecord struct {
	SMILES    string    `json:"smiles"`
	Algorithm string    `json:"algorithm"`
	Score     float64   `json:"score"`
	RunID     string    `json:"run_id"`
	StoredAt  time.Time `json:"stored_at"`
}
