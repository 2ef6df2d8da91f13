package manifold

import (
	"encoding/json"
	"math"
	"strconv"
)

// Default values for absent catalog fields.
const (
	DefaultCatalogField = "N/A"
	DefaultSMILES       = ""
)

// Source field names used by the Manifold API.
const (
	fieldCatalogName     = "catalogName"
	fieldCatalogID       = "catalogId"
	fieldLink            = "link"
	fieldSMILES          = "smiles"
	fieldInchikeyMatches = "inchikeyMatches"
	fieldPurchaseInfo    = "purchaseInfo"

	fieldExact        = "exact"
	fieldParent       = "parent"
	fieldConnectivity = "connectivity"

	fieldLeadTimeWeeks   = "scrLeadTimeWeeks"
	fieldPriceRange      = "scrPriceRange"
	fieldIsBuildingBlock = "isBuildingBlock"
	fieldIsScreening     = "isScreening"

	fieldMinNumSteps   = "minNumSteps"
	fieldAlertLevel    = "SAAlertLevel"
	fieldFastSAScore   = "fastSAScore"
	fieldAlertImageURL = "SAAlertImgURL"
	fieldScore         = "score"
	fieldManifoldLink  = "manifoldLink"
	fieldSAData        = "SAData"

	fieldCatalogEntries = "catalogEntries"
)

// ParseCatalogEntries converts raw search result items into catalog entries.
func ParseCatalogEntries(items []any) ([]CatalogEntry, error) {
	entries := make([]CatalogEntry, 0, len(items))
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, malformed("catalog entry %d: expected object, got %T", i, raw)
		}
		entry, err := ParseCatalogEntry(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseCatalogEntry converts a single raw search result item.
func ParseCatalogEntry(item map[string]any) (CatalogEntry, error) {
	var (
		entry CatalogEntry
		err   error
	)

	if entry.Supplier, err = stringField(item, fieldCatalogName, DefaultCatalogField); err != nil {
		return CatalogEntry{}, err
	}
	if entry.ID, err = stringField(item, fieldCatalogID, DefaultCatalogField); err != nil {
		return CatalogEntry{}, err
	}
	if entry.Link, err = stringField(item, fieldLink, DefaultCatalogField); err != nil {
		return CatalogEntry{}, err
	}
	if entry.SMILES, err = stringField(item, fieldSMILES, DefaultSMILES); err != nil {
		return CatalogEntry{}, err
	}

	if raw := item[fieldInchikeyMatches]; raw != nil {
		obj, ok := raw.(map[string]any)
		if !ok {
			return CatalogEntry{}, malformed("%s: expected object, got %T", fieldInchikeyMatches, raw)
		}
		match, err := ParseInchiMatch(obj)
		if err != nil {
			return CatalogEntry{}, err
		}
		entry.Match = &match
	}

	if raw := item[fieldPurchaseInfo]; raw != nil {
		obj, ok := raw.(map[string]any)
		if !ok {
			return CatalogEntry{}, malformed("%s: expected object, got %T", fieldPurchaseInfo, raw)
		}
		if entry.PurchaseInfo, err = ParsePurchaseInfo(obj); err != nil {
			return CatalogEntry{}, err
		}
	}

	return entry, nil
}

// ParseCatalogBatch converts exact-search batch items, one per query, into
// per-query entry lists. An item carrying an "error" key yields an empty
// list at its position.
func ParseCatalogBatch(items []any) ([][]CatalogEntry, error) {
	results := make([][]CatalogEntry, 0, len(items))
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, malformed("batch item %d: expected object, got %T", i, raw)
		}
		if ErrorItem(item) {
			results = append(results, []CatalogEntry{})
			continue
		}

		rawEntries, ok := item[fieldCatalogEntries]
		if !ok {
			return nil, &MissingFieldError{Record: "batch item", Field: fieldCatalogEntries}
		}
		var list []any
		if rawEntries != nil {
			if list, ok = rawEntries.([]any); !ok {
				return nil, malformed("%s %d: expected list, got %T", fieldCatalogEntries, i, rawEntries)
			}
		}
		entries, err := ParseCatalogEntries(list)
		if err != nil {
			return nil, err
		}
		results = append(results, entries)
	}
	return results, nil
}

// ParseInchiMatch reads the three required match flags. A missing flag
// is an error; it is never defaulted.
func ParseInchiMatch(obj map[string]any) (InchiMatch, error) {
	var flags [3]bool
	for i, field := range []string{fieldExact, fieldParent, fieldConnectivity} {
		raw, ok := obj[field]
		if !ok {
			return InchiMatch{}, &MissingFieldError{Record: fieldInchikeyMatches, Field: field}
		}
		v, err := toBool(field, raw)
		if err != nil {
			return InchiMatch{}, err
		}
		flags[i] = v
	}
	return InchiMatch{Exact: flags[0], Parent: flags[1], Connectivity: flags[2]}, nil
}

// ParsePurchaseInfo reads supplier purchase information. It returns nil
// without error when any of the four required fields is missing.
func ParsePurchaseInfo(obj map[string]any) (*PurchaseInfo, error) {
	for _, field := range []string{fieldLeadTimeWeeks, fieldPriceRange, fieldIsBuildingBlock, fieldIsScreening} {
		if _, ok := obj[field]; !ok {
			return nil, nil
		}
	}

	leadTime, err := toFloat(fieldLeadTimeWeeks, obj[fieldLeadTimeWeeks])
	if err != nil {
		return nil, err
	}
	priceRange, err := toString(fieldPriceRange, obj[fieldPriceRange])
	if err != nil {
		return nil, err
	}
	buildingBlock, err := toBool(fieldIsBuildingBlock, obj[fieldIsBuildingBlock])
	if err != nil {
		return nil, err
	}
	screening, err := toBool(fieldIsScreening, obj[fieldIsScreening])
	if err != nil {
		return nil, err
	}

	return &PurchaseInfo{
		LeadTimeWeeks:   leadTime,
		PriceRange:      priceRange,
		IsBuildingBlock: buildingBlock,
		IsScreening:     screening,
	}, nil
}

// ParseSyntheticAccessibility parses a fast-score or a retrosynthesis
// record. The fast shape is recognised by the fastSAScore key, the
// retrosynthesis shape by the score key.
func ParseSyntheticAccessibility(obj map[string]any) (*SyntheticAccessibility, error) {
	sa := &SyntheticAccessibility{}

	if raw := obj[fieldMinNumSteps]; raw != nil {
		steps, err := toInt(fieldMinNumSteps, raw)
		if err != nil {
			return nil, err
		}
		sa.NumSteps = &steps
	}

	warning, err := optionalString(obj, fieldAlertLevel)
	if err != nil {
		return nil, err
	}
	sa.Warning = warning

	var scoreField, urlField string
	switch {
	case hasKey(obj, fieldFastSAScore):
		scoreField, urlField = fieldFastSAScore, fieldAlertImageURL
	case hasKey(obj, fieldScore):
		scoreField, urlField = fieldScore, fieldManifoldLink
	default:
		return nil, malformed("synthetic accessibility: neither %q nor %q present", fieldFastSAScore, fieldScore)
	}

	sa.Score = DefaultScore
	if raw := obj[scoreField]; raw != nil {
		if sa.Score, err = toFloat(scoreField, raw); err != nil {
			return nil, err
		}
	}

	if sa.URL, err = optionalString(obj, urlField); err != nil {
		return nil, err
	}
	return sa, nil
}

// ParseSyntheticAccessibilities parses batch items that each wrap an
// SAData object. An item without SAData yields nil at its position.
func ParseSyntheticAccessibilities(items []any) ([]*SyntheticAccessibility, error) {
	results := make([]*SyntheticAccessibility, 0, len(items))
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, malformed("synthetic accessibility item %d: expected object, got %T", i, raw)
		}

		data := item[fieldSAData]
		if data == nil {
			results = append(results, nil)
			continue
		}
		obj, ok := data.(map[string]any)
		if !ok {
			return nil, malformed("%s %d: expected object, got %T", fieldSAData, i, data)
		}
		sa, err := ParseSyntheticAccessibility(obj)
		if err != nil {
			return nil, err
		}
		results = append(results, sa)
	}
	return results, nil
}

func hasKey(obj map[string]any, key string) bool {
	_, ok := obj[key]
	return ok
}

// stringField returns obj[key] as a string, or def when absent or null.
func stringField(obj map[string]any, key, def string) (string, error) {
	raw := obj[key]
	if raw == nil {
		return def, nil
	}
	return toString(key, raw)
}

func optionalString(obj map[string]any, key string) (*string, error) {
	raw := obj[key]
	if raw == nil {
		return nil, nil
	}
	s, err := toString(key, raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func toString(field string, raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", malformed("%s: expected string, got %T", field, raw)
	}
}

func toBool(field string, raw any) (bool, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return false, malformed("%s: %v", field, err)
		}
		return f != 0, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, malformed("%s: expected boolean, got %q", field, v)
		}
		return b, nil
	default:
		return false, malformed("%s: expected boolean, got %T", field, raw)
	}
}

func toFloat(field string, raw any) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, malformed("%s: %v", field, err)
		}
		return f, nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, malformed("%s: expected number, got %q", field, v)
		}
		return f, nil
	default:
		return 0, malformed("%s: expected number, got %T", field, raw)
	}
}

func toInt(field string, raw any) (int, error) {
	f, err := toFloat(field, raw)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, malformed("%s: expected integer, got %v", field, f)
	}
	return int(f), nil
}
