package analytics

import "github.com/trezcool/schoolinsights/core/records"

// Overview is the main dashboard.
type Overview struct {
	TotalTeachers  int     `json:"total_teachers"`
	TotalStudents  int     `json:"total_students"`
	AtRisk         int     `json:"at_risk"`
	Compliance     float64 `json:"avg_compliance"`
	Teaching       float64 `json:"avg_teaching_score"`
	AttendanceRate float64 `json:"attendance_rate"`

	ScoreTrend          []ScorePoint       `json:"score_trend"`
	ScoreDistribution   []BucketCount      `json:"score_distribution"`
	SubjectDistribution []CategoryCount    `json:"subject_distribution"`
	StatusDistribution  []CategoryCount    `json:"status_distribution"`
	AttendanceImpact    []AttendanceImpact `json:"attendance_impact"`
	LateTrend           []DayValue         `json:"late_trend"`

	StudentsUnscoped bool `json:"students_unscoped"`
}

// AttendanceImpact compares the performance of present and absent days.
type AttendanceImpact struct {
	Attendance string  `json:"attendance"`
	Days       int     `json:"days"`
	AvgScore   float64 `json:"avg_score"`
	AvgLate    float64 `json:"avg_late_count"`
}

// DirectoryFilter narrows the teacher directory. Empty or "All" fields do not filter.
type DirectoryFilter struct {
	Search  string `json:"search" query:"search"`
	Status  string `json:"status" query:"status"`
	Subject string `json:"subject" query:"subject"`
}

// Directory is the searchable teacher listing.
type Directory struct {
	Filter DirectoryFilter `json:"filter"`
	Found  int             `json:"found"`
	Active int             `json:"active"`
	AtRisk int             `json:"at_risk"`
	Left   int             `json:"left"`

	// Teachers holds the head of the matches; Truncated tells whether some were left out.
	Teachers  []records.TeacherRecord `json:"teachers"`
	Truncated bool                    `json:"truncated"`

	// Suggestions are close names when a search matches nothing.
	Suggestions   []string                `json:"suggestions,omitempty"`
	TopPerformers []records.TeacherRecord `json:"top_performers"`
	Subjects      []string                `json:"subjects"`
	Statuses      []records.Status        `json:"statuses"`
}

// AttendanceReport covers attendance and punctuality.
type AttendanceReport struct {
	PresentRate float64 `json:"present_rate"`
	AbsentRate  float64 `json:"absent_rate"`
	AvgLate     float64 `json:"avg_late_count"`
	MaxLate     int     `json:"max_late_count"`

	Distribution      []CategoryCount `json:"distribution"`
	LateTrend         []DayValue      `json:"late_trend"`
	ScoreByAttendance []CategoryMean  `json:"score_by_attendance"`
}

// AttritionReport covers attrition risk.
type AttritionReport struct {
	TotalTeachers int     `json:"total_teachers"`
	AtRisk        int     `json:"at_risk"`
	Critical      int     `json:"critical"`
	AvgRisk       float64 `json:"avg_risk"`

	RiskDistribution []BucketCount `json:"risk_distribution"`

	WorklistThreshold float64                 `json:"worklist_threshold"`
	Worklist          []records.TeacherRecord `json:"worklist"`
}

// StudentReport summarizes the students. Sections whose column is absent are left empty.
type StudentReport struct {
	Total  int                   `json:"total"`
	Schema records.StudentSchema `json:"schema"`

	Scored            int           `json:"scored"`
	AvgScore          float64       `json:"avg_score"`
	ScoreDistribution []BucketCount `json:"score_distribution,omitempty"`

	PresentRate            float64         `json:"present_rate"`
	AttendanceDistribution []CategoryCount `json:"attendance_distribution,omitempty"`
	GradeDistribution      []CategoryCount `json:"grade_distribution,omitempty"`

	// Unscoped is true when a Teacher is shown every student of the school.
	Unscoped bool `json:"unscoped"`
}

// Profile is the personal dashboard of a Teacher.
// When Available is false, the profile is unavailable and every other field is empty.
type Profile struct {
	Available bool                   `json:"available"`
	Teacher   *records.TeacherRecord `json:"teacher,omitempty"`
	RiskBand  string                 `json:"risk_band,omitempty"`

	Events      int          `json:"events"`
	AvgScore    float64      `json:"avg_score"`
	PresentRate float64      `json:"present_rate"`
	TotalLate   int          `json:"total_late_count"`
	ScoreTrend  []ScorePoint `json:"score_trend"`
	LateTrend   []DayValue   `json:"late_trend"`

	Students         int  `json:"students"`
	StudentsUnscoped bool `json:"students_unscoped"`
}
