package client

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/manifold-client/pkg/manifold"
)

// Algorithm selects a synthetic-accessibility model.
type Algorithm string

const (
	// AlgorithmFast is the fast-score model.
	AlgorithmFast Algorithm = "fast"

	// AlgorithmRetrosynthesis is the retrosynthesis model.
	AlgorithmRetrosynthesis Algorithm = "retrosynthesis"
)

// Algorithms lists the supported models.
var Algorithms = []Algorithm{AlgorithmFast, AlgorithmRetrosynthesis}

// ParseAlgorithm accepts an algorithm name as used on the command line.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fast", "fast-score", "fastscore":
		return AlgorithmFast, nil
	case "retrosynthesis", "retro":
		return AlgorithmRetrosynthesis, nil
	default:
		return "", fmt.Errorf("%w: unknown algorithm %q", manifold.ErrInvalidArgument, name)
	}
}

// Batch size ceilings accepted by the batch endpoints.
const (
	MaxExactSearchBatchSize    = 1000
	MaxFastScoreBatchSize      = 100
	MaxRetrosynthesisBatchSize = 10
)

// Request body fields.
const (
	bodySMILES          = "smiles"
	bodySMILESList      = "smilesList"
	bodyQueryThirdParty = "queryThirdPartyServices"
	bodyAlertSVG        = "getAlertSvg"
)

// endpoint describes one API operation declaratively.
type endpoint struct {
	name string
	path string

	// batchSize is the list ceiling of a batch endpoint; zero for
	// single-query endpoints.
	batchSize int

	// thirdParty adds queryThirdPartyServices=false to the body.
	thirdParty bool

	// alerts adds getAlertSvg to the body.
	alerts bool
}

// body builds the JSON request body for smiles.
func (e endpoint) body(smiles []string, alerts bool) map[string]any {
	body := make(map[string]any, 3)
	if e.batchSize > 0 {
		body[bodySMILESList] = smiles
	} else if len(smiles) > 0 {
		body[bodySMILES] = smiles[0]
	}
	if e.thirdParty {
		body[bodyQueryThirdParty] = false
	}
	if e.alerts {
		body[bodyAlertSVG] = alerts
	}
	return body
}

var (
	exactSearchEndpoint = endpoint{
		name:       "exact",
		path:       "exact/",
		thirdParty: true,
	}

	exactSearchBatchEndpoint = endpoint{
		name:      "exact_batch",
		path:      "exact/batch/",
		batchSize: MaxExactSearchBatchSize,
	}
)

// accessibilityEndpoints pairs the single and batch endpoint of a model.
type accessibilityEndpoints struct {
	single endpoint
	batch  endpoint
}

var accessibilityTable = map[Algorithm]accessibilityEndpoints{
	AlgorithmFast: {
		single: endpoint{
			name:   "fast_score",
			path:   "synthetic-accessibility/fast-score/",
			alerts: true,
		},
		batch: endpoint{
			name:      "fast_score_batch",
			path:      "synthetic-accessibility/fast-score/batch/",
			batchSize: MaxFastScoreBatchSize,
			alerts:    true,
		},
	},
	AlgorithmRetrosynthesis: {
		single: endpoint{
			name: "retrosynthesis",
			path: "synthetic-accessibility/retrosynthesis/",
		},
		batch: endpoint{
			name:      "retrosynthesis_batch",
			path:      "synthetic-accessibility/retrosynthesis/batch/",
			batchSize: MaxRetrosynthesisBatchSize,
		},
	},
}

func lookupAccessibility(alg Algorithm) (accessibilityEndpoints, error) {
	eps, ok := accessibilityTable[alg]
	if !ok {
		return accessibilityEndpoints{}, fmt.Errorf("%w: unknown algorithm %q", manifold.ErrInvalidArgument, alg)
	}
	return eps, nil
}
