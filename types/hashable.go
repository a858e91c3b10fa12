package types

type Hashable interface {
	GetHashCode() uint64
}

// Unique drops every item whose hash was already seen, keeping first occurrences
// in order.
func Unique[T Hashable](items []T) []T {
	seen := make(map[uint64]bool, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		hash := item.GetHashCode()
		if seen[hash] {
			continue
		}
		seen[hash] = true
		result = append(result, item)
	}
	return result
}
