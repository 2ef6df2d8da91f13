package manifold

import (
	"net/http"
)

// Outcome is the result of classifying a response that did not fail.
type Outcome int

const (
	// OutcomeSuccess means the body should be handed to the parser.
	OutcomeSuccess Outcome = iota

	// OutcomeEmpty means the response degrades to an empty or absent result.
	OutcomeEmpty
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Body fields inspected by Classify.
const (
	fieldError   = "error"
	fieldDetail  = "detail"
	fieldResults = "results"
)

// Classify maps a status code and decoded body to an outcome or error.
// The checks run in a fixed order:
//
//  1. undecodable body: OutcomeEmpty
//  2. status 422: ErrInvalidInput carrying the body's "error" message
//  3. status 500: OutcomeEmpty
//  4. body with "detail": ErrRateLimited carrying the detail message
//  5. anything else: OutcomeSuccess
//
// A 500 is swallowed on purpose so that batch pipelines keep flowing.
func Classify(statusCode int, decoded Decoded) (Outcome, error) {
	if !decoded.OK() {
		return OutcomeEmpty, nil
	}
	body := decoded.Object

	switch statusCode {
	case http.StatusUnprocessableEntity:
		msg, _ := toString(fieldError, body[fieldError])
		return OutcomeEmpty, &Error{Kind: KindInvalidInput, StatusCode: statusCode, Message: msg}
	case http.StatusInternalServerError:
		return OutcomeEmpty, nil
	}

	if detail, ok := body[fieldDetail]; ok {
		msg, _ := toString(fieldDetail, detail)
		return OutcomeEmpty, &Error{Kind: KindRateLimited, StatusCode: statusCode, Message: msg}
	}

	return OutcomeSuccess, nil
}

// Results returns the "results" list of a success body. When required
// is false a missing list yields nil; otherwise it is a malformed response.
func Results(body map[string]any, required bool) ([]any, error) {
	raw, ok := body[fieldResults]
	if !ok || raw == nil {
		if required {
			return nil, malformed("response has no %q field", fieldResults)
		}
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, malformed("%s: expected list, got %T", fieldResults, raw)
	}
	return items, nil
}

// ErrorItem reports whether a batch result item carries an "error" key.
func ErrorItem(item map[string]any) bool {
	return hasKey(item, fieldError)
}
