package scanner

import (
	"slices"
	"sort"
)

// Aggregate merges scanner outputs into the canonical candidate order. The
// lists are concatenated, sorted by canonical rendering and then adjacent
// equal renderings are collapsed. Sorting first is what makes the adjacent
// collapse a full deduplication, so the two steps must stay in this order.
func Aggregate(lists ...[]Artifact) []Artifact {
	var merged []Artifact
	for _, list := range lists {
		merged = append(merged, list...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].String() < merged[j].String()
	})

	return slices.CompactFunc(merged, func(a, b Artifact) bool {
		return a.String() == b.String()
	})
}
