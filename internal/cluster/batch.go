package cluster

// MaxParticlesPerSystem is the largest particle count a single particle
// container accepts.
const MaxParticlesPerSystem = 1_000_000

// SplitIntoBatches splits items into consecutive batches of at most
// maxBatchSize elements. The final batch holds the remainder; an empty input
// yields no batches. A non-positive maxBatchSize falls back to
// MaxParticlesPerSystem.
//
// Batches share the backing array of items but are capped so appending to
// one never overwrites the next.
func SplitIntoBatches[T any](items []T, maxBatchSize int) [][]T {
	if maxBatchSize <= 0 {
		maxBatchSize = MaxParticlesPerSystem
	}
	if len(items) == 0 {
		return nil
	}

	batches := make([][]T, 0, BatchCount(len(items), maxBatchSize))
	offset := 0
	for remaining := len(items); remaining > 0; {
		size := min(remaining, maxBatchSize)
		end := offset + size
		batches = append(batches, items[offset:end:end])
		offset = end
		remaining -= size
	}
	return batches
}

// BatchCount returns how many batches n items split into at the given cap.
func BatchCount(n, maxBatchSize int) int {
	if maxBatchSize <= 0 {
		maxBatchSize = MaxParticlesPerSystem
	}
	if n <= 0 {
		return 0
	}
	return (n + maxBatchSize - 1) / maxBatchSize
}
