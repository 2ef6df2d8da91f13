package client

import (
	"context"
	"slices"

	"github.com/Sternrassler/manifold-client/pkg/manifold"
)

// AccessibilityRequest asks for the synthetic accessibility of one compound.
type AccessibilityRequest struct {
	Algorithm Algorithm
	SMILES    string

	// Alerts requests the alert SVG (fast model only)
	Alerts bool
}

// AccessibilityResult is the score of one compound. Result is nil when
// the service returned nothing usable.
type AccessibilityResult struct {
	algorithm Algorithm
	smiles    string
	result    *manifold.SyntheticAccessibility
}

// Algorithm returns the model that produced the result.
func (r *AccessibilityResult) Algorithm() Algorithm {
	return r.algorithm
}

// SMILES returns the queried compound.
func (r *AccessibilityResult) SMILES() string {
	return r.smiles
}

// Result returns the parsed record, or nil when absent.
func (r *AccessibilityResult) Result() *manifold.SyntheticAccessibility {
	if r.result == nil {
		return nil
	}
	sa := *r.result
	return &sa
}

// Score returns the score, or manifold.DefaultScore when absent.
func (r *AccessibilityResult) Score() float64 {
	return manifold.ScoreOf(r.result)
}

// SyntheticAccessibility scores one compound with the requested model.
func (c *Client) SyntheticAccessibility(ctx context.Context, req AccessibilityRequest) (*AccessibilityResult, error) {
	eps, err := lookupAccessibility(req.Algorithm)
	if err != nil {
		return nil, err
	}
	ep := eps.single

	resp, err := c.send(ctx, c.buildRequest(ep, []string{req.SMILES}, req.Alerts))
	if err != nil {
		return nil, err
	}

	result := &AccessibilityResult{algorithm: req.Algorithm, smiles: req.SMILES}

	outcome, body, err := c.classify(ep, resp)
	if err != nil {
		return nil, err
	}
	if outcome == manifold.OutcomeEmpty {
		return result, nil
	}

	if result.result, err = manifold.ParseSyntheticAccessibility(body); err != nil {
		c.recordError(ep, resp.StatusCode, err)
		return nil, err
	}
	return result, nil
}

// AccessibilityBatchRequest asks for the synthetic accessibility of many
// compounds.
type AccessibilityBatchRequest struct {
	Algorithm Algorithm
	SMILES    []string

	// Alerts requests alert SVGs (fast model only)
	Alerts bool
}

// AccessibilityBatchResult holds one optional score per queried compound.
type AccessibilityBatchResult struct {
	algorithm Algorithm
	smiles    []string
	results   []*manifold.SyntheticAccessibility
}

// Algorithm returns the model that produced the results.
func (r *AccessibilityBatchResult) Algorithm() Algorithm {
	return r.algorithm
}

// SMILES returns the queried compounds in order.
func (r *AccessibilityBatchResult) SMILES() []string {
	return slices.Clone(r.smiles)
}

// Results returns one record per compound; absent results are nil.
func (r *AccessibilityBatchResult) Results() []*manifold.SyntheticAccessibility {
	out := make([]*manifold.SyntheticAccessibility, len(r.results))
	for i, sa := range r.results {
		if sa != nil {
			cp := *sa
			out[i] = &cp
		}
	}
	return out
}

// Scores projects the results to plain scores, using
// manifold.DefaultScore for absent results.
func (r *AccessibilityBatchResult) Scores() []float64 {
	scores := make([]float64, len(r.results))
	for i, sa := range r.results {
		scores[i] = manifold.ScoreOf(sa)
	}
	return scores
}

// Len returns the number of queried compounds.
func (r *AccessibilityBatchResult) Len() int {
	return len(r.results)
}

// SyntheticAccessibilityBatch scores many compounds, in batches sized for
// the requested model.
func (c *Client) SyntheticAccessibilityBatch(ctx context.Context, req AccessibilityBatchRequest) (*AccessibilityBatchResult, error) {
	eps, err := lookupAccessibility(req.Algorithm)
	if err != nil {
		return nil, err
	}

	result := &AccessibilityBatchResult{
		algorithm: req.Algorithm,
		smiles:    slices.Clone(req.SMILES),
		results:   make([]*manifold.SyntheticAccessibility, 0, len(req.SMILES)),
	}

	err = c.dispatchBatches(ctx, eps.batch, req.SMILES, req.Alerts,
		func(batch []string, outcome manifold.Outcome, body map[string]any) error {
			if outcome == manifold.OutcomeEmpty {
				for range batch {
					result.results = append(result.results, nil)
				}
				return nil
			}

			items, err := manifold.Results(body, true)
			if err != nil {
				return err
			}
			if err := checkAligned(batch, items); err != nil {
				return err
			}
			parsed, err := manifold.ParseSyntheticAccessibilities(items)
			if err != nil {
				return err
			}
			result.results = append(result.results, parsed...)
			return nil
		})
	if err != nil {
		return nil, err
	}

	return result, nil
}
