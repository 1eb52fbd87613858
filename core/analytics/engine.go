package analytics

import (
	"strings"

	"github.com/trezcool/schoolinsights/core/records"
	"github.com/trezcool/schoolinsights/core/scope"
)

const filterAll = "All"

// Engine computes the view-models of a scoped View. It holds no state but its settings
// and may be shared by concurrent requests.
type Engine struct {
	settings Settings
}

func NewEngine(settings Settings) *Engine {
	return &Engine{settings: settings}
}

func (e *Engine) Settings() Settings {
	return e.settings
}

func isPresent(ev records.PerformanceEvent) bool { return ev.Attendance == records.Present }
func isAbsent(ev records.PerformanceEvent) bool  { return ev.Attendance == records.Absent }
func isAtRisk(tr records.TeacherRecord) bool     { return tr.Status == records.StatusAtRisk }
func hasStatus(s records.Status) func(records.TeacherRecord) bool {
	return func(tr records.TeacherRecord) bool { return tr.Status == s }
}

func (e *Engine) Overview(v scope.View) Overview {
	t := v.Tables
	return Overview{
		TotalTeachers:  len(t.Teachers),
		TotalStudents:  len(t.Students),
		AtRisk:         Count(t.Teachers, isAtRisk),
		Compliance:     Round(Mean(t.Teachers, func(tr records.TeacherRecord) float64 { return tr.ComplianceScore }), 2),
		Teaching:       Round(Mean(t.Teachers, teachingScore), 2),
		AttendanceRate: Round(Rate(t.Performance, isPresent), 1),

		ScoreTrend:          ScoreTrend(t.Performance, e.settings.TrendDays),
		ScoreDistribution:   Distribute(t.Performance, eventScore, ScoreBuckets),
		SubjectDistribution: GroupCount(t.Teachers, func(tr records.TeacherRecord) string { return tr.Subject }),
		StatusDistribution:  GroupCount(t.Teachers, func(tr records.TeacherRecord) string { return string(tr.Status) }),
		AttendanceImpact:    attendanceImpact(t.Performance),
		LateTrend:           LateTrend(t.Performance, e.settings.TrendDays, ReduceSum),

		StudentsUnscoped: v.StudentsUnscoped,
	}
}

func eventAttendance(ev records.PerformanceEvent) string { return string(ev.Attendance) }

func attendanceImpact(events []records.PerformanceEvent) []AttendanceImpact {
	scores := GroupMean(events, eventAttendance, eventScore)
	lates := GroupMean(events, eventAttendance, eventLate)
	impact := make([]AttendanceImpact, len(scores))
	for i := range scores {
		impact[i] = AttendanceImpact{
			Attendance: scores[i].Category,
			Days:       scores[i].Count,
			AvgScore:   Round(scores[i].Mean, 1),
			AvgLate:    Round(lates[i].Mean, 2),
		}
	}
	return impact
}

// Match reports whether a teacher passes the filter. Search matches a name or ID, ignoring case.
func (f DirectoryFilter) Match(tr records.TeacherRecord) bool {
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		if !strings.Contains(strings.ToLower(tr.Name), search) && !strings.Contains(strings.ToLower(tr.TeacherID), search) {
			return false
		}
	}
	if status := strings.TrimSpace(f.Status); status != "" && status != filterAll {
		if tr.Status != records.ParseStatus(status) {
			return false
		}
	}
	if subject := strings.TrimSpace(f.Subject); subject != "" && subject != filterAll {
		if !strings.EqualFold(tr.Subject, subject) {
			return false
		}
	}
	return true
}

func (e *Engine) Directory(v scope.View, f DirectoryFilter) Directory {
	t := v.Tables
	matches := make([]records.TeacherRecord, 0)
	for _, tr := range t.Teachers {
		if f.Match(tr) {
			matches = append(matches, tr)
		}
	}

	dir := Directory{
		Filter:        f,
		Found:         len(matches),
		Active:        Count(matches, hasStatus(records.StatusActive)),
		AtRisk:        Count(matches, hasStatus(records.StatusAtRisk)),
		Left:          Count(matches, hasStatus(records.StatusLeft)),
		Teachers:      matches,
		TopPerformers: TopN(t.Teachers, e.settings.TopPerformers, teachingScore),
		Subjects:      t.Subjects(),
		Statuses:      records.Statuses,
	}
	if limit := e.settings.DirectoryLimit; limit > 0 && len(matches) > limit {
		dir.Teachers = matches[:limit]
		dir.Truncated = true
	}
	if dir.Found == 0 && strings.TrimSpace(f.Search) != "" {
		names := make([]string, len(t.Teachers))
		for i, tr := range t.Teachers {
			names[i] = tr.Name
		}
		dir.Suggestions = CloseMatches(f.Search, names, e.settings.MaxSuggestions, e.settings.SuggestionCutoff)
	}
	return dir
}

func (e *Engine) Attendance(v scope.View) AttendanceReport {
	perf := v.Tables.Performance
	return AttendanceReport{
		PresentRate: Round(Rate(perf, isPresent), 1),
		AbsentRate:  Round(Rate(perf, isAbsent), 1),
		AvgLate:     Round(Mean(perf, eventLate), 2),
		MaxLate:     int(Max(perf, eventLate)),

		Distribution:      GroupCount(perf, eventAttendance),
		LateTrend:         LateTrend(perf, e.settings.TrendDays, ReduceMean),
		ScoreByAttendance: GroupMean(perf, eventAttendance, eventScore),
	}
}

func (e *Engine) Attrition(v scope.View) AttritionReport {
	teachers := v.Tables.Teachers
	dist := Distribute(teachers, attritionRisk, RiskBands)
	return AttritionReport{
		TotalTeachers:     len(teachers),
		AtRisk:            Count(teachers, isAtRisk),
		Critical:          dist[len(dist)-1].Count,
		AvgRisk:           Round(Mean(teachers, attritionRisk), 2),
		RiskDistribution:  dist,
		WorklistThreshold: e.settings.WorklistThreshold,
		Worklist:          HighRiskWorklist(teachers, e.settings.WorklistThreshold, e.settings.WorklistLimit),
	}
}

func (e *Engine) Students(v scope.View) StudentReport {
	t := v.Tables
	rep := StudentReport{
		Total:    len(t.Students),
		Schema:   t.StudentSchema,
		Unscoped: v.StudentsUnscoped,
	}

	if t.StudentSchema.Score {
		scored := make([]records.StudentRecord, 0, len(t.Students))
		for _, sr := range t.Students {
			if sr.Score.Valid {
				scored = append(scored, sr)
			}
		}
		score := func(sr records.StudentRecord) float64 { return sr.Score.Float64 }
		rep.Scored = len(scored)
		rep.AvgScore = Round(Mean(scored, score), 2)
		rep.ScoreDistribution = Distribute(scored, score, ScoreBuckets)
	}
	if t.StudentSchema.Attendance {
		attendance := func(sr records.StudentRecord) string { return sr.Attendance.String }
		present := func(sr records.StudentRecord) bool { return sr.Attendance.String == string(records.Present) }
		withAttendance := make([]records.StudentRecord, 0, len(t.Students))
		for _, sr := range t.Students {
			if sr.Attendance.Valid {
				withAttendance = append(withAttendance, sr)
			}
		}
		rep.PresentRate = Round(Rate(withAttendance, present), 1)
		rep.AttendanceDistribution = GroupCount(withAttendance, attendance)
	}
	if t.StudentSchema.Grade {
		graded := make([]records.StudentRecord, 0, len(t.Students))
		for _, sr := range t.Students {
			if sr.Grade.Valid {
				graded = append(graded, sr)
			}
		}
		rep.GradeDistribution = GroupCount(graded, func(sr records.StudentRecord) string { return sr.Grade.String })
	}
	return rep
}

// Profile is only available to a Teacher whose scope key matches a teacher record.
func (e *Engine) Profile(v scope.View) Profile {
	if !v.Identity.IsScoped() || !v.ProfileAvailable || len(v.Tables.Teachers) == 0 {
		return Profile{}
	}

	t := v.Tables
	tr := t.Teachers[0]
	return Profile{
		Available: true,
		Teacher:   &tr,
		RiskBand:  RiskBand(tr.AttritionRisk),

		Events:      len(t.Performance),
		AvgScore:    Round(Mean(t.Performance, eventScore), 2),
		PresentRate: Round(Rate(t.Performance, isPresent), 1),
		TotalLate:   int(Sum(t.Performance, eventLate)),
		ScoreTrend:  ScoreTrend(t.Performance, e.settings.TrendDays),
		LateTrend:   LateTrend(t.Performance, e.settings.TrendDays, ReduceSum),

		Students:         len(t.Students),
		StudentsUnscoped: v.StudentsUnscoped,
	}
}
