package analytics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistribute_risk(t *testing.T) {
	got := Distribute([]float64{1.0, 2.0, 3.2, 4.6}, identity, RiskBands)
	want := []BucketCount{
		{Name: RiskLow, Count: 1},
		{Name: RiskMedium, Count: 1},
		{Name: RiskHigh, Count: 1},
		{Name: RiskCritical, Count: 1},
	}
	assert.Equal(t, want, got)
}

func TestDistribute_boundaries(t *testing.T) {
	tests := []struct {
		v       float64
		buckets Buckets
		want    string
	}{
		{v: 100, buckets: ScoreBuckets, want: "Excellent"},
		{v: 90, buckets: ScoreBuckets, want: "Excellent"},
		{v: 89.99, buckets: ScoreBuckets, want: "Good"},
		{v: 75, buckets: ScoreBuckets, want: "Good"},
		{v: 60, buckets: ScoreBuckets, want: "Average"},
		{v: 59.9, buckets: ScoreBuckets, want: "Below Average"},
		{v: -10, buckets: ScoreBuckets, want: "Below Average"},
		{v: 0, buckets: RiskBands, want: RiskLow},
		{v: 1.5, buckets: RiskBands, want: RiskMedium},
		{v: 3, buckets: RiskBands, want: RiskHigh},
		{v: 4.5, buckets: RiskBands, want: RiskCritical},
		{v: 5, buckets: RiskBands, want: RiskCritical},
	}
	for _, tt := range tests {
		b, ok := tt.buckets.Find(tt.v)
		assert.True(t, ok)
		assert.Equal(t, tt.want, b.Name, "value %v", tt.v)
	}
	assert.Equal(t, RiskHigh, RiskBand(3.5))
}

func TestDistribute_coverage(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for _, n := range []int{0, 1, 17, 500} {
		rows := make([]float64, n)
		for i := range rows {
			rows[i] = rnd.Float64()*140 - 20
		}
		for _, buckets := range []Buckets{ScoreBuckets, RiskBands} {
			dist := Distribute(rows, identity, buckets)
			assert.Len(t, dist, len(buckets))
			var total int
			for _, bc := range dist {
				total += bc.Count
			}
			assert.Equal(t, n, total)
		}
	}
}
