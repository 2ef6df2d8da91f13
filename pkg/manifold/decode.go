package manifold

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decoded is the outcome of decoding a response body. Exactly one of
// Object and Err is set.
type Decoded struct {
	Object map[string]any
	Err    error
}

// OK reports whether the body decoded to a JSON object.
func (d Decoded) OK() bool {
	return d.Err == nil
}

// Decode parses body as a JSON object. Numbers are kept as json.Number
// so integer fields survive without float rounding. A body that is valid
// JSON but not an object counts as a decode failure.
func Decode(body []byte) Decoded {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return Decoded{Err: fmt.Errorf("decode body: %w", err)}
	}
	if dec.More() {
		return Decoded{Err: fmt.Errorf("decode body: trailing data after JSON value")}
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return Decoded{Err: fmt.Errorf("decode body: expected JSON object, got %T", value)}
	}
	return Decoded{Object: obj}
}
