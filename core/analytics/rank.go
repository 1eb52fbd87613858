package analytics

import (
	"sort"

	"github.com/trezcool/schoolinsights/core/records"
)

// TopN returns the `n` rows with the largest `val`, largest first. Ties keep their original order.
// When n exceeds the number of rows, every row is returned.
func TopN[T any](rows []T, n int, val func(T) float64) []T {
	if n < 0 {
		n = 0
	}
	ranked := make([]T, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool { return val(ranked[i]) > val(ranked[j]) })
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func attritionRisk(tr records.TeacherRecord) float64 { return tr.AttritionRisk }
func teachingScore(tr records.TeacherRecord) float64 { return tr.TeachingScore }

// HighRiskWorklist returns up to `limit` teachers whose attrition risk is >= threshold, riskiest first.
func HighRiskWorklist(teachers []records.TeacherRecord, threshold float64, limit int) []records.TeacherRecord {
	atRisk := make([]records.TeacherRecord, 0)
	for _, tr := range teachers {
		if tr.AttritionRisk >= threshold {
			atRisk = append(atRisk, tr)
		}
	}
	return TopN(atRisk, limit, attritionRisk)
}
