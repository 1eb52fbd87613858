package analytics

import (
	"sort"
	"time"

	"github.com/trezcool/schoolinsights/core/records"
)

// Day is a calendar date, encoded as "2006-01-02".
type Day struct {
	time.Time
}

const dayLayout = "2006-01-02"

func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Day) String() string {
	return d.Format(dayLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Day) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+dayLayout+`"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Window sorts `rows` by date (ties keep their original order) and keeps those of the
// `days` most recent distinct dates. Fewer distinct dates than `days` keeps every row;
// days <= 0 keeps nothing.
func Window[T any](rows []T, date func(T) time.Time, days int) []T {
	sorted := make([]T, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return DayOf(date(sorted[i])).Before(DayOf(date(sorted[j])).Time) })

	if days <= 0 {
		return sorted[:0]
	}
	seen := 0
	start := len(sorted)
	for i := len(sorted) - 1; i >= 0; i-- {
		if i == len(sorted)-1 || !DayOf(date(sorted[i])).Equal(DayOf(date(sorted[i+1])).Time) {
			if seen == days {
				break
			}
			seen++
		}
		start = i
	}
	return sorted[start:]
}

// DailyStats summarizes one value over the rows of a single date.
type DailyStats struct {
	Date  Day     `json:"date"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Trend windows `rows` to the last `days` dates and summarizes `val` per date, oldest first.
func Trend[T any](rows []T, date func(T) time.Time, val func(T) float64, days int) []DailyStats {
	windowed := Window(rows, date, days)
	stats := make([]DailyStats, 0)
	for i := 0; i < len(windowed); {
		day := DayOf(date(windowed[i]))
		j := i
		for j < len(windowed) && DayOf(date(windowed[j])).Equal(day.Time) {
			j++
		}
		group := windowed[i:j]
		stats = append(stats, DailyStats{
			Date:  day,
			Count: len(group),
			Sum:   Sum(group, val),
			Mean:  Mean(group, val),
			Min:   Min(group, val),
			Max:   Max(group, val),
		})
		i = j
	}
	return stats
}

// ScorePoint is the mean, min and max score of a date.
type ScorePoint struct {
	Date Day     `json:"date"`
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// DayValue is a single aggregate of a date.
type DayValue struct {
	Date  Day     `json:"date"`
	Value float64 `json:"value"`
}

// Reduce selects how late counts are aggregated per date.
type Reduce int

const (
	ReduceSum Reduce = iota
	ReduceMean
)

func eventDate(ev records.PerformanceEvent) time.Time { return ev.Date }
func eventScore(ev records.PerformanceEvent) float64  { return ev.Score }
func eventLate(ev records.PerformanceEvent) float64   { return float64(ev.LateCount) }

func ScoreTrend(events []records.PerformanceEvent, days int) []ScorePoint {
	stats := Trend(events, eventDate, eventScore, days)
	points := make([]ScorePoint, len(stats))
	for i, s := range stats {
		points[i] = ScorePoint{Date: s.Date, Mean: s.Mean, Min: s.Min, Max: s.Max}
	}
	return points
}

func LateTrend(events []records.PerformanceEvent, days int, reduce Reduce) []DayValue {
	stats := Trend(events, eventDate, eventLate, days)
	points := make([]DayValue, len(stats))
	for i, s := range stats {
		points[i] = DayValue{Date: s.Date, Value: s.Sum}
		if reduce == ReduceMean {
			points[i].Value = s.Mean
		}
	}
	return points
}
