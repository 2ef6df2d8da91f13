package manifold

// MakeBatches splits items into consecutive chunks of size elements.
// The last chunk may be shorter. Chunks share the backing array of items
// but are capacity-clipped, so appending to one never overwrites the next.
func MakeBatches[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, invalidArgument("batch size must be positive (got %d)", size)
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches, nil
}
