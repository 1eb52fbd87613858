package records

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schoolinsights/core"
)

var (
	teachersHeader    = []string{"Teacher ID", "Teacher Name", "Subject", "Total Experience Years", "Teaching Score Internal", "Compliance Score", "Attrition Risk Score", "Late Count Current Month", "Status"}
	studentsHeader    = []string{"student_id", "student_name", "teacher_id", "score", "attendance"}
	performanceHeader = []string{"teacher_id", "date", "score", "attendance", "late_count"}
	credentialsHeader = []string{"username", "password", "teacher_id"}
)

func testRawTables() RawTables {
	return RawTables{
		Teachers: [][]string{
			teachersHeader,
			{"T001", "Asha Rao", "Maths", "12", "8.5", "9", "1.2", "0", "Active"},
			{"T002", "Ben Okafor", "Physics", "3", "6.1", "7.5", "3.8", "4", "AtRisk"},
			{"T003", "Chen Li", "History", "7.0", "7", "8", "4.9", "2.0", "left"},
		},
		Students: [][]string{
			studentsHeader,
			{"S001", "Dara", "T001", "91", "Present"},
			{"S002", "Eli", "T002", "", "absent"},
			{"", "", "", "", ""},
		},
		Performance: [][]string{
			performanceHeader,
			{"T001", "2024-03-01", "88", "Present", "0"},
			{"T002", "01/03/2024", "61.5", "Absent", "2"},
			{"T404", "2024/03/02", "70", "Present", "1"},
		},
		Credentials: [][]string{
			credentialsHeader,
			{"T001", " 9593", "T001"},
		},
	}
}

func TestDecode(t *testing.T) {
	tables, err := Decode(testRawTables())
	require.NoError(t, err)

	require.Len(t, tables.Teachers, 3)
	asha := tables.Teachers[0]
	assert.Equal(t, "Asha Rao", asha.Name)
	assert.Equal(t, 12.0, asha.ExperienceYears)
	assert.Equal(t, 8.5, asha.TeachingScore)
	assert.Equal(t, StatusActive, asha.Status)
	assert.False(t, asha.Email.Valid)
	assert.False(t, asha.JoiningDate.Valid)
	assert.Equal(t, StatusAtRisk, tables.Teachers[1].Status)
	assert.Equal(t, StatusLeft, tables.Teachers[2].Status)
	assert.Equal(t, 2, tables.Teachers[2].LateCount)

	require.Len(t, tables.Students, 2, "blank rows are skipped")
	assert.Equal(t, StudentSchema{TeacherID: true, Score: true, Attendance: true}, tables.StudentSchema)
	assert.Equal(t, "T001", tables.Students[0].TeacherID.String)
	assert.Equal(t, 91.0, tables.Students[0].Score.Float64)
	assert.False(t, tables.Students[1].Score.Valid)
	assert.Equal(t, string(Absent), tables.Students[1].Attendance.String)
	assert.False(t, tables.Students[0].Grade.Valid)

	require.Len(t, tables.Performance, 3)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), tables.Performance[1].Date)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), tables.Performance[2].Date)
	assert.Equal(t, Absent, tables.Performance[1].Attendance)
	assert.Equal(t, 1, tables.DanglingEvents())

	require.Len(t, tables.Credentials, 1)
	assert.Equal(t, " 9593", tables.Credentials[0].Password, "passwords are not trimmed")

	tr, ok := tables.Teacher("T002")
	assert.True(t, ok)
	assert.Equal(t, "Ben Okafor", tr.Name)
	_, ok = tables.Teacher("T404")
	assert.False(t, ok)
	assert.Equal(t, []string{"History", "Maths", "Physics"}, tables.Subjects())
}

func TestDecode_optionalTables(t *testing.T) {
	raw := testRawTables()
	raw.Credentials = nil
	raw.Students = [][]string{{"Student ID", "Name", "Grade"}, {"S001", "Dara", "A"}}

	tables, err := Decode(raw)
	require.NoError(t, err)
	assert.Nil(t, tables.Credentials)
	assert.Equal(t, StudentSchema{Grade: true}, tables.StudentSchema)
	assert.False(t, tables.Students[0].TeacherID.Valid)
	assert.Equal(t, "A", tables.Students[0].Grade.String)
}

func TestDecode_missingColumn(t *testing.T) {
	tests := []struct {
		name   string
		modify func(raw *RawTables)
		table  string
		column string
	}{
		{
			name:   "teachers risk",
			modify: func(raw *RawTables) { raw.Teachers[0] = teachersHeader[:6] },
			table:  TeachersTable, column: ColRisk,
		},
		{
			name:   "students id",
			modify: func(raw *RawTables) { raw.Students[0] = []string{"id", "name"} },
			table:  StudentsTable, column: ColStudentID,
		},
		{
			name: "performance date",
			modify: func(raw *RawTables) {
				raw.Performance[0] = []string{"teacher_id", "day", "score", "attendance", "late_count"}
			},
			table: PerformanceTable, column: ColDate,
		},
		{
			name:   "credentials teacher",
			modify: func(raw *RawTables) { raw.Credentials[0] = []string{"username", "password"} },
			table:  CredentialsTable, column: ColTeacherID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := testRawTables()
			tt.modify(&raw)
			_, err := Decode(raw)
			require.Error(t, err)

			var colErr *MissingColumnError
			require.True(t, errors.As(err, &colErr))
			assert.Equal(t, tt.table, colErr.Table)
			assert.Equal(t, tt.column, colErr.Column)
			assert.Contains(t, err.Error(), tt.column)
		})
	}
}

func TestDecode_invalidValues(t *testing.T) {
	tests := []struct {
		name   string
		modify func(raw *RawTables)
		field  string
		errMsg string
	}{
		{
			name:   "teaching score out of range",
			modify: func(raw *RawTables) { raw.Teachers[1][4] = "11" },
			field:  ColTeachingScore, errMsg: "teachers: row 2",
		},
		{
			name:   "risk out of range",
			modify: func(raw *RawTables) { raw.Teachers[3][6] = "5.5" },
			field:  ColRisk, errMsg: "teachers: row 4",
		},
		{
			name:   "risk missing",
			modify: func(raw *RawTables) { raw.Teachers[2][6] = "" },
			field:  ColRisk, errMsg: "this field is required",
		},
		{
			name:   "experience not a number",
			modify: func(raw *RawTables) { raw.Teachers[1][3] = "ten" },
			field:  ColExperience, errMsg: `"ten" is not a number`,
		},
		{
			name:   "late count not an integer",
			modify: func(raw *RawTables) { raw.Teachers[1][7] = "1.5" },
			field:  ColLateCount, errMsg: "is not an integer",
		},
		{
			name:   "student score not a number",
			modify: func(raw *RawTables) { raw.Students[1][3] = "NaN" },
			field:  ColScore, errMsg: "students: row 2",
		},
		{
			name:   "bad date",
			modify: func(raw *RawTables) { raw.Performance[1][1] = "March 1st" },
			field:  ColDate, errMsg: "is not a date",
		},
		{
			name:   "negative late count",
			modify: func(raw *RawTables) { raw.Performance[2][4] = "-1" },
			field:  "late_count", errMsg: "performance: row 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := testRawTables()
			tt.modify(&raw)
			_, err := Decode(raw)
			require.Error(t, err)

			var vErr *core.ValidationError
			require.True(t, errors.As(err, &vErr), "got %T: %v", err, err)
			require.NotEmpty(t, vErr.Fields)
			assert.Equal(t, tt.field, vErr.Fields[0].Field)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDecode_duplicateTeacher(t *testing.T) {
	raw := testRawTables()
	raw.Teachers = append(raw.Teachers, []string{"T001", "Asha Again", "Maths", "1", "5", "5", "1", "0", "Active"})
	_, err := Decode(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate teacher_id "T001"`)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"Active", StatusActive},
		{" active ", StatusActive},
		{"At Risk", StatusAtRisk},
		{"AtRisk", StatusAtRisk},
		{"at_risk", StatusAtRisk},
		{"at-risk", StatusAtRisk},
		{"LEFT", StatusLeft},
		{"On Leave", Status("On Leave")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseStatus(tt.in); got != tt.want {
				t.Errorf("ParseStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTable(t *testing.T) {
	rows := [][]string{{"\ufeffTeacher-ID", " Name ", "Name"}, {"T001", " Asha ", "dup"}, {"T002"}}
	tbl, err := ParseTable("t", rows, ColTeacherID, ColName)
	require.NoError(t, err)
	assert.True(t, tbl.Has(ColTeacherID))
	assert.False(t, tbl.Has(ColSubject))
	assert.Equal(t, "Asha", tbl.Value(tbl.Rows[0], ColName), "first duplicate header wins")
	assert.Equal(t, "", tbl.Value(tbl.Rows[1], ColName), "short rows read as empty")

	_, err = ParseTable("t", nil)
	assert.Error(t, err)
}
