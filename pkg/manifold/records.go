// Package manifold holds the Manifold record types together with the
// batching, response parsing and status classification rules shared by
// every endpoint wrapper.
package manifold

// InchiMatch describes how closely a catalog result matches the query structure.
type InchiMatch struct {
	Exact        bool `json:"exact"`
	Parent       bool `json:"parent"`
	Connectivity bool `json:"connectivity"`
}

// PurchaseInfo is the supplier purchase information for a catalog entry.
type PurchaseInfo struct {
	LeadTimeWeeks   float64 `json:"lead_time_weeks"`
	PriceRange      string  `json:"price_range"`
	IsBuildingBlock bool    `json:"is_building_block"`
	IsScreening     bool    `json:"is_screening"`
}

// CatalogEntry is one supplier listing returned by an exact search.
type CatalogEntry struct {
	Supplier     string        `json:"supplier"`
	ID           string        `json:"id"`
	SMILES       string        `json:"smiles"`
	Link         string        `json:"link"`
	PurchaseInfo *PurchaseInfo `json:"purchase_info,omitempty"`
	Match        *InchiMatch   `json:"match,omitempty"`
}

// IsExactMatch reports whether the entry's InChIKey matched the query exactly.
func (e CatalogEntry) IsExactMatch() bool {
	return e.Match != nil && e.Match.Exact
}

// SyntheticAccessibility is a score from either the fast or the
// retrosynthesis model.
type SyntheticAccessibility struct {
	Score    float64 `json:"score"`
	NumSteps *int    `json:"num_steps,omitempty"`
	Warning  *string `json:"warning,omitempty"`
	URL      *string `json:"url,omitempty"`
}

// DefaultScore is reported for a query without a synthetic-accessibility
// result. 1.0 reads as fully inaccessible.
const DefaultScore = 1.0

// ScoreOf returns sa.Score, or DefaultScore when sa is nil.
func ScoreOf(sa *SyntheticAccessibility) float64 {
	if sa == nil {
		return DefaultScore
	}
	return sa.Score
}
