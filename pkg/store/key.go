package store

import (
	"fmt"
	"sort"
	"strings"
)

// Key namespaces.
const (
	namespaceRun   = "run"
	namespaceScore = "score"
)

// Key identifies a stored record.
type Key struct {
	// Namespace groups records of one kind (run, score)
	Namespace string

	// ID is the record identifier within the namespace
	ID string

	// Labels qualify the record (e.g. {"algorithm": "fast"})
	Labels map[string]string
}

// RunKey returns the key of a run.
func RunKey(id string) Key {
	return Key{Namespace: namespaceRun, ID: id}
}

// ScoreKey returns the key of the latest score of smiles under algorithm.
func ScoreKey(algorithm, smiles string) Key {
	return Key{
		Namespace: namespaceScore,
		ID:        smiles,
		Labels:    map[string]string{"algorithm": algorithm},
	}
}

// String generates a deterministic key string.
// Format: manifold:namespace:id:label1=val1:label2=val2
//
// Example:
//
//	manifold:score:CCO:algorithm=fast
func (k Key) String() string {
	parts := []string{"manifold"}

	if k.Namespace != "" {
		parts = append(parts, k.Namespace)
	}
	if k.ID != "" {
		parts = append(parts, k.ID)
	}

	// Labels sorted for determinism
	if len(k.Labels) > 0 {
		names := make([]string, 0, len(k.Labels))
		for name := range k.Labels {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Labels[name]))
		}
	}

	return strings.Join(parts, ":")
}
