// Package determinism provides helpers for reproducible output. The engine
// guarantees byte-identical results for identical inputs, so every map
// iteration that feeds output goes through these instead of Go's randomized
// range order.
package determinism

import (
	"cmp"
	"sort"

	"github.com/shopspring/decimal"
)

// SortedKeys returns the map's keys in ascending order
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// RangeSorted iterates a map in ascending key order
func RangeSorted[K cmp.Ordered, V any](m map[K]V, fn func(K, V)) {
	for _, k := range SortedKeys(m) {
		fn(k, m[k])
	}
}

// SortStable sorts in place with a stable order
func SortStable[T any](s []T, less func(a, b T) bool) {
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
}

// SumDecimals adds a decimal field extracted from each element
func SumDecimals[T any](s []T, field func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range s {
		total = total.Add(field(item))
	}
	return total
}

// MedianDecimal returns the median of a non-empty slice without mutating
// it. The second return is false for an empty slice.
func MedianDecimal(values []decimal.Decimal) (decimal.Decimal, bool) {
	if len(values) == 0 {
		return decimal.Zero, false
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2)), true
}
