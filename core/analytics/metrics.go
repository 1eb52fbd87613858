// Package analytics reduces record tables into dashboard view-models.
//
// Every function is pure and tolerates empty input: counts are 0, rates and means are 0,
// distributions list their fixed buckets with zero counts and rankings are empty.
package analytics

import "math"

// Count returns the number of rows matching `pred`; a nil predicate matches every row.
func Count[T any](rows []T, pred func(T) bool) int {
	if pred == nil {
		return len(rows)
	}
	var n int
	for _, row := range rows {
		if pred(row) {
			n++
		}
	}
	return n
}

// Rate returns the percentage (0-100) of rows matching `pred`, 0 for no rows.
func Rate[T any](rows []T, pred func(T) bool) float64 {
	if len(rows) == 0 {
		return 0
	}
	return float64(Count(rows, pred)) / float64(len(rows)) * 100
}

func Sum[T any](rows []T, val func(T) float64) float64 {
	var sum float64
	for _, row := range rows {
		sum += val(row)
	}
	return sum
}

// Mean returns the arithmetic mean of `val` over `rows`, 0 for no rows.
func Mean[T any](rows []T, val func(T) float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	return Sum(rows, val) / float64(len(rows))
}

// Max returns the largest `val` over `rows`, 0 for no rows.
func Max[T any](rows []T, val func(T) float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	max := math.Inf(-1)
	for _, row := range rows {
		max = math.Max(max, val(row))
	}
	return max
}

// Min returns the smallest `val` over `rows`, 0 for no rows.
func Min[T any](rows []T, val func(T) float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	min := math.Inf(1)
	for _, row := range rows {
		min = math.Min(min, val(row))
	}
	return min
}

// Round rounds `f` half away from zero to `places` decimals.
func Round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
