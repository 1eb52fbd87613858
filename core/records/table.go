package records

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// column names, after normalization
const (
	ColTeacherID     = "teacher_id"
	ColName          = "name"
	ColSubject       = "subject"
	ColExperience    = "experience_years"
	ColTeachingScore = "teaching_score"
	ColCompliance    = "compliance_score"
	ColRisk          = "attrition_risk_score"
	ColLateCount     = "late_count"
	ColStatus        = "status"
	ColEmail         = "email"
	ColPhone         = "phone"
	ColJoiningDate   = "joining_date"
	ColAvatarURL     = "avatar_url"

	ColStudentID  = "student_id"
	ColScore      = "score"
	ColAttendance = "attendance"
	ColGrade      = "grade"

	ColDate = "date"

	ColUsername = "username"
	ColPassword = "password"
)

// table names
const (
	TeachersTable    = "teachers"
	StudentsTable    = "students"
	PerformanceTable = "performance"
	CredentialsTable = "credentials"
)

// columnAliases maps the headers found in exported sheets to our column names.
var columnAliases = map[string]string{
	"teacher_name":             ColName,
	"student_name":             ColName,
	"total_experience_years":   ColExperience,
	"experience":               ColExperience,
	"teaching_score_internal":  ColTeachingScore,
	"attrition_risk":           ColRisk,
	"late_count_current_month": ColLateCount,
	"joining":                  ColJoiningDate,
	"avatar":                   ColAvatarURL,
	"user":                     ColUsername,
	"login":                    ColUsername,
}

// MissingColumnError is returned when a mandatory column is absent from a table.
type MissingColumnError struct {
	Table  string
	Column string
}

func (err *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing mandatory column %q", err.Table, err.Column)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return strings.Trim(s, "_")
}

func normalizeColumn(s string) string {
	s = normalizeName(strings.TrimPrefix(s, "\ufeff")) // excel BOM
	if alias, ok := columnAliases[s]; ok {
		return alias
	}
	return s
}

// Table is a block of raw rows indexed by its header.
type Table struct {
	Name    string
	Rows    [][]string
	columns map[string]int
}

// ParseTable indexes `rows` by their first (header) row and checks that every `required` column is present.
func ParseTable(name string, rows [][]string, required ...string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, errors.Errorf("%s: missing header row", name)
	}
	t := Table{
		Name:    name,
		Rows:    rows[1:],
		columns: make(map[string]int, len(rows[0])),
	}
	for i, col := range rows[0] {
		col = normalizeColumn(col)
		if _, dup := t.columns[col]; !dup && col != "" {
			t.columns[col] = i
		}
	}
	for _, col := range required {
		if !t.Has(col) {
			return Table{}, &MissingColumnError{Table: name, Column: col}
		}
	}
	return t, nil
}

// Has reports whether the table carries column `col`.
func (t Table) Has(col string) bool {
	_, ok := t.columns[col]
	return ok
}

// Value returns the trimmed cell of `row` at column `col`; "" when the column or the cell is missing.
func (t Table) Value(row []string, col string) string {
	idx, ok := t.columns[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
