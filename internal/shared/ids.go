package shared

// NextID returns max(existing ids) + 1, or 1 for an empty collection.
// Ids of removed or deactivated entries still count, so values are never reused.
func NextID[T any](items []T, id func(T) int64) int64 {
	var max int64
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}
