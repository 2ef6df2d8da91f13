// Package service runs Manifold lookups for the CLI and the gateway and
// records each completed lookup in the run store.
package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Sternrassler/manifold-client/pkg/client"
	"github.com/Sternrassler/manifold-client/pkg/logging"
	"github.com/Sternrassler/manifold-client/pkg/manifold"
	"github.com/Sternrassler/manifold-client/pkg/store"
	"github.com/rs/zerolog"
)

// ErrStoreDisabled is returned by run lookups when no store is configured.
var ErrStoreDisabled = errors.New("run store is not configured")

// RunStore persists runs. *store.Store implements it.
type RunStore interface {
	SaveRun(ctx context.Context, run *store.Run) error
	Run(ctx context.Context, id string) (*store.Run, error)
	Ping(ctx context.Context) error
}

// ExactOutput is the result of one exact search.
type ExactOutput struct {
	RunID   string                  `json:"run_id,omitempty"`
	SMILES  string                  `json:"smiles"`
	Entries []manifold.CatalogEntry `json:"entries"`
}

// ExactBatchOutput is the result of a batched exact search.
type ExactBatchOutput struct {
	RunID   string        `json:"run_id,omitempty"`
	Results []ExactOutput `json:"results"`
}

// ScoreOutput is the synthetic accessibility of one compound. Result is
// omitted when the service returned nothing usable; Score then carries
// manifold.DefaultScore.
type ScoreOutput struct {
	RunID     string                           `json:"run_id,omitempty"`
	Algorithm client.Algorithm                 `json:"algorithm,omitempty"`
	SMILES    string                           `json:"smiles"`
	Score     float64                          `json:"score"`
	Result    *manifold.SyntheticAccessibility `json:"result,omitempty"`
}

// ScoreBatchOutput is the synthetic accessibility of many compounds.
type ScoreBatchOutput struct {
	RunID     string           `json:"run_id,omitempty"`
	Algorithm client.Algorithm `json:"algorithm"`
	Results   []ScoreOutput    `json:"results"`
}

// Scores returns the plain scores in input order.
func (o *ScoreBatchOutput) Scores() []float64 {
	scores := make([]float64, len(o.Results))
	for i, r := range o.Results {
		scores[i] = r.Score
	}
	return scores
}

// Service wraps a Manifold client and an optional run store.
type Service struct {
	client *client.Client
	store  RunStore
	logger zerolog.Logger
}

// New creates a service. runs may be nil to disable recording.
func New(c *client.Client, runs RunStore) *Service {
	if c == nil {
		panic("manifold client cannot be nil")
	}
	return &Service{
		client: c,
		store:  runs,
		logger: logging.NewLogger("manifold-service"),
	}
}

// StoreEnabled reports whether runs are recorded.
func (s *Service) StoreEnabled() bool {
	return s.store != nil
}

// ExactSearch searches catalogs for one compound. With exactOnly, only
// entries whose InChIKey matched exactly are kept.
func (s *Service) ExactSearch(ctx context.Context, smiles string, exactOnly bool) (*ExactOutput, error) {
	result, err := s.client.ExactSearch(ctx, smiles)
	if err != nil {
		return nil, err
	}

	out := &ExactOutput{SMILES: smiles, Entries: result.Entries()}
	if exactOnly {
		out.Entries = result.ExactMatches()
	}

	out.RunID = s.record(ctx, store.NewRun(store.OperationExact, "", []string{smiles}), out)
	return out, nil
}

// ExactSearchBatch searches catalogs for many compounds.
func (s *Service) ExactSearchBatch(ctx context.Context, smiles []string) (*ExactBatchOutput, error) {
	result, err := s.client.ExactSearchBatch(ctx, smiles)
	if err != nil {
		return nil, err
	}

	entries := result.Entries()
	out := &ExactBatchOutput{Results: make([]ExactOutput, len(entries))}
	for i, list := range entries {
		out.Results[i] = ExactOutput{SMILES: smiles[i], Entries: list}
	}

	out.RunID = s.record(ctx, store.NewRun(store.OperationExactBatch, "", smiles), out)
	return out, nil
}

// Score scores one compound with algorithm.
func (s *Service) Score(ctx context.Context, algorithm client.Algorithm, smiles string, alerts bool) (*ScoreOutput, error) {
	result, err := s.client.SyntheticAccessibility(ctx, client.AccessibilityRequest{
		Algorithm: algorithm,
		SMILES:    smiles,
		Alerts:    alerts,
	})
	if err != nil {
		return nil, err
	}

	out := &ScoreOutput{
		Algorithm: algorithm,
		SMILES:    smiles,
		Score:     result.Score(),
		Result:    result.Result(),
	}

	run := store.NewRun(store.OperationScore, string(algorithm), []string{smiles})
	run.Scores = []float64{out.Score}
	out.RunID = s.record(ctx, run, out)
	return out, nil
}

// ScoreBatch scores many compounds with algorithm.
func (s *Service) ScoreBatch(ctx context.Context, algorithm client.Algorithm, smiles []string, alerts bool) (*ScoreBatchOutput, error) {
	result, err := s.client.SyntheticAccessibilityBatch(ctx, client.AccessibilityBatchRequest{
		Algorithm: algorithm,
		SMILES:    smiles,
		Alerts:    alerts,
	})
	if err != nil {
		return nil, err
	}

	records := result.Results()
	out := &ScoreBatchOutput{Algorithm: algorithm, Results: make([]ScoreOutput, len(records))}
	for i, sa := range records {
		out.Results[i] = ScoreOutput{
			SMILES: smiles[i],
			Score:  manifold.ScoreOf(sa),
			Result: sa,
		}
	}

	run := store.NewRun(store.OperationScoreBatch, string(algorithm), smiles)
	run.Scores = out.Scores()
	out.RunID = s.record(ctx, run, out)
	return out, nil
}

// Run returns a recorded run.
func (s *Service) Run(ctx context.Context, id string) (*store.Run, error) {
	if s.store == nil {
		return nil, ErrStoreDisabled
	}
	return s.store.Run(ctx, id)
}

// Ready checks the run store, when one is configured.
func (s *Service) Ready(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Ping(ctx)
}

// record writes run with result as its payload and returns the run ID. A
// failed write is logged and yields an empty ID; the lookup itself has
// already succeeded.
func (s *Service) record(ctx context.Context, run *store.Run, result any) string {
	if s.store == nil {
		return ""
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Error().Err(err).Str("run_id", run.ID).Msg("Failed to encode run result")
		return ""
	}
	run.Result = data

	if err := s.store.SaveRun(ctx, run); err != nil {
		s.logger.Warn().
			Err(err).
			Str("run_id", run.ID).
			Str("operation", run.Operation).
			Msg("Failed to record run")
		return ""
	}

	s.logger.Debug().
		Str("run_id", run.ID).
		Str("operation", run.Operation).
		Int("queries", len(run.SMILES)).
		Msg("Run recorded")
	return run.ID
}
