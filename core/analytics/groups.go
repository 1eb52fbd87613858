package analytics

import "sort"

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// GroupCount counts the rows of every observed category, most frequent first
// (ties keep the order of first appearance). Unobserved categories are omitted
// unless listed in `include`, in which case they are reported with a zero count.
func GroupCount[T any](rows []T, key func(T) string, include ...string) []CategoryCount {
	index := make(map[string]int)
	counts := make([]CategoryCount, 0)
	for _, row := range rows {
		k := key(row)
		i, ok := index[k]
		if !ok {
			i = len(counts)
			index[k] = i
			counts = append(counts, CategoryCount{Category: k})
		}
		counts[i].Count++
	}
	for _, k := range include {
		if _, ok := index[k]; !ok {
			index[k] = len(counts)
			counts = append(counts, CategoryCount{Category: k})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts
}

type CategoryMean struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
}

// GroupMean returns the mean of `val` per category, sorted by category.
func GroupMean[T any](rows []T, key func(T) string, val func(T) float64) []CategoryMean {
	groups := make(map[string][]T)
	for _, row := range rows {
		k := key(row)
		groups[k] = append(groups[k], row)
	}
	means := make([]CategoryMean, 0, len(groups))
	for k, g := range groups {
		means = append(means, CategoryMean{Category: k, Count: len(g), Mean: Mean(g, val)})
	}
	sort.Slice(means, func(i, j int) bool { return means[i].Category < means[j].Category })
	return means
}
