package client

import (
	"context"
	"slices"

	"github.com/Sternrassler/manifold-client/pkg/manifold"
)

// ExactSearchResult holds the catalog entries found for one compound.
type ExactSearchResult struct {
	smiles  string
	entries []manifold.CatalogEntry
}

// SMILES returns the queried compound.
func (r *ExactSearchResult) SMILES() string {
	return r.smiles
}

// Entries returns all catalog entries in response order.
func (r *ExactSearchResult) Entries() []manifold.CatalogEntry {
	return slices.Clone(r.entries)
}

// ExactMatches returns the entries whose InChIKey matched exactly.
func (r *ExactSearchResult) ExactMatches() []manifold.CatalogEntry {
	matches := make([]manifold.CatalogEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.IsExactMatch() {
			matches = append(matches, entry)
		}
	}
	return matches
}

// ExactSearch searches supplier catalogs for smiles. A 500 or an
// undecodable body yields an empty result rather than an error.
func (c *Client) ExactSearch(ctx context.Context, smiles string) (*ExactSearchResult, error) {
	ep := exactSearchEndpoint

	resp, err := c.send(ctx, c.buildRequest(ep, []string{smiles}, false))
	if err != nil {
		return nil, err
	}

	result := &ExactSearchResult{smiles: smiles, entries: []manifold.CatalogEntry{}}

	outcome, body, err := c.classify(ep, resp)
	if err != nil {
		return nil, err
	}
	if outcome == manifold.OutcomeEmpty {
		return result, nil
	}

	items, err := manifold.Results(body, false)
	if err == nil {
		result.entries, err = manifold.ParseCatalogEntries(items)
	}
	if err != nil {
		c.recordError(ep, resp.StatusCode, err)
		return nil, err
	}

	return result, nil
}

// ExactSearchBatchResult holds per-compound catalog entries, aligned
// with the queried compounds.
type ExactSearchBatchResult struct {
	smiles  []string
	entries [][]manifold.CatalogEntry
}

// SMILES returns the queried compounds in order.
func (r *ExactSearchBatchResult) SMILES() []string {
	return slices.Clone(r.smiles)
}

// Entries returns one entry list per queried compound.
func (r *ExactSearchBatchResult) Entries() [][]manifold.CatalogEntry {
	out := make([][]manifold.CatalogEntry, len(r.entries))
	for i, list := range r.entries {
		out[i] = slices.Clone(list)
	}
	return out
}

// Len returns the number of queried compounds.
func (r *ExactSearchBatchResult) Len() int {
	return len(r.entries)
}

// ExactSearchBatch searches supplier catalogs for many compounds, in
// batches of MaxExactSearchBatchSize.
func (c *Client) ExactSearchBatch(ctx context.Context, smiles []string) (*ExactSearchBatchResult, error) {
	result := &ExactSearchBatchResult{
		smiles:  slices.Clone(smiles),
		entries: make([][]manifold.CatalogEntry, 0, len(smiles)),
	}

	err := c.dispatchBatches(ctx, exactSearchBatchEndpoint, smiles, false,
		func(batch []string, outcome manifold.Outcome, body map[string]any) error {
			if outcome == manifold.OutcomeEmpty {
				for range batch {
					result.entries = append(result.entries, []manifold.CatalogEntry{})
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
			parsed, err := manifold.ParseCatalogBatch(items)
			if err != nil {
				return err
			}
			result.entries = append(result.entries, parsed...)
			return nil
		})
	if err != nil {
		return nil, err
	}

	return result, nil
}
