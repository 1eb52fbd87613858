package analytics

import "math"

// Bucket is the half-open range [Min, Max) of a distribution.
type Bucket struct {
	Name string
	Min  float64
	Max  float64
}

func (b Bucket) Contains(v float64) bool {
	return v >= b.Min && v < b.Max
}

// Buckets must partition the real line: contiguous, ordered and unbounded at both ends.
type Buckets []Bucket

// Find returns the bucket `v` falls in; NaN falls in none.
func (bs Buckets) Find(v float64) (Bucket, bool) {
	for _, b := range bs {
		if b.Contains(v) {
			return b, true
		}
	}
	return Bucket{}, false
}

// score buckets; Excellent is unbounded so a perfect score is counted in it
var ScoreBuckets = Buckets{
	{Name: "Excellent", Min: 90, Max: math.Inf(1)},
	{Name: "Good", Min: 75, Max: 90},
	{Name: "Average", Min: 60, Max: 75},
	{Name: "Below Average", Min: math.Inf(-1), Max: 60},
}

// attrition risk bands, shared by the risk distribution and the high risk worklist
var RiskBands = Buckets{
	{Name: RiskLow, Min: math.Inf(-1), Max: 1.5},
	{Name: RiskMedium, Min: 1.5, Max: 3},
	{Name: RiskHigh, Min: 3, Max: 4.5},
	{Name: RiskCritical, Min: 4.5, Max: math.Inf(1)},
}

const (
	RiskLow      = "Low"
	RiskMedium   = "Medium"
	RiskHigh     = "High"
	RiskCritical = "Critical"
)

// RiskBand names the band of an attrition risk score.
func RiskBand(risk float64) string {
	b, _ := RiskBands.Find(risk)
	return b.Name
}

type BucketCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Distribute counts the rows of each bucket, in bucket order. Every bucket is listed, even when empty.
func Distribute[T any](rows []T, val func(T) float64, buckets Buckets) []BucketCount {
	dist := make([]BucketCount, len(buckets))
	for i, b := range buckets {
		dist[i].Name = b.Name
	}
	for _, row := range rows {
		v := val(row)
		for i, b := range buckets {
			if b.Contains(v) {
				dist[i].Count++
				break
			}
		}
	}
	return dist
}
