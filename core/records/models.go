package records

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schoolinsights/core"
)

// Status of a teacher's employment.
type Status string

const (
	StatusActive Status = "Active"
	StatusAtRisk Status = "At Risk"
	StatusLeft   Status = "Left"
)

var Statuses = []Status{StatusActive, StatusAtRisk, StatusLeft}

// ParseStatus normalizes the known spellings of a status ("At Risk", "AtRisk", "at_risk"...).
// Unknown values are kept verbatim so that distributions still report them.
func ParseStatus(s string) Status {
	clean := core.CleanString(s)
	switch normalizeName(clean) {
	case "active":
		return StatusActive
	case "at_risk", "atrisk":
		return StatusAtRisk
	case "left":
		return StatusLeft
	}
	return Status(clean)
}

// Attendance of a teacher (performance event) or a student.
type Attendance string

const (
	Present Attendance = "Present"
	Absent  Attendance = "Absent"
)

// ParseAttendance normalizes "present"/"absent"; unknown values are kept verbatim.
func ParseAttendance(s string) Attendance {
	clean := core.CleanString(s)
	switch strings.ToLower(clean) {
	case "present":
		return Present
	case "absent":
		return Absent
	}
	return Attendance(clean)
}

type TeacherRecord struct {
	TeacherID       string      `json:"teacher_id" validate:"notblank"`
	Name            string      `json:"name" validate:"notblank"`
	Subject         string      `json:"subject"`
	ExperienceYears float64     `json:"experience_years" validate:"gte=0"`
	TeachingScore   float64     `json:"teaching_score" validate:"gte=0,lte=10"`
	ComplianceScore float64     `json:"compliance_score" validate:"gte=0,lte=10"`
	AttritionRisk   float64     `json:"attrition_risk_score" validate:"gte=0,lte=5"`
	LateCount       int         `json:"late_count_current_month" validate:"gte=0"`
	Status          Status      `json:"status" validate:"notblank"`
	Email           null.String `json:"email"`
	Phone           null.String `json:"phone"`
	JoiningDate     null.Time   `json:"joining_date"`
	AvatarURL       null.String `json:"avatar_url"`
}

type StudentRecord struct {
	StudentID  string       `json:"student_id" validate:"notblank"`
	Name       string       `json:"name" validate:"notblank"`
	TeacherID  null.String  `json:"teacher_id"`
	Score      null.Float64 `json:"score"`
	Attendance null.String  `json:"attendance"`
	Grade      null.String  `json:"grade"`
}

// StudentSchema tells which optional columns the student table carries.
type StudentSchema struct {
	TeacherID  bool `json:"teacher_id"`
	Score      bool `json:"score"`
	Attendance bool `json:"attendance"`
	Grade      bool `json:"grade"`
}

// PerformanceEvent is one observed day of a teacher.
type PerformanceEvent struct {
	TeacherID  string     `json:"teacher_id" validate:"notblank"`
	Date       time.Time  `json:"date"`
	Score      float64    `json:"score"`
	Attendance Attendance `json:"attendance" validate:"notblank"`
	LateCount  int        `json:"late_count" validate:"gte=0"`
}

// Credential binds a teacher login to the teacher it may see.
type Credential struct {
	Username  string `json:"username" validate:"notblank"`
	Password  string `json:"-" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"notblank"`
}
