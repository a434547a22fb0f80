// Package chunk splits write lists into groups sized for a single batch call.
package chunk

// Split divides items front to back into groups of at most size elements.
// The last group holds the remainder. With size < 1, every item gets its own group.
// An empty input yields no groups. Groups share the backing array of items
// with their capacity capped, so appending to a group copies it.
func Split[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}
	groups := make([][]T, 0, Count(len(items), size))
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		groups = append(groups, items[start:end:end])
	}
	return groups
}

// Count returns how many groups Split produces for n items.
func Count(n, size int) int {
	if n <= 0 {
		return 0
	}
	if size < 1 {
		size = 1
	}
	return (n + size - 1) / size
}
