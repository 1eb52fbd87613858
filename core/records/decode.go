package records

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schoolinsights/core"
)

var (
	validate, translator = core.NewValidator()

	dateLayouts = []string{"2006-01-02", "2006/01/02", "02-01-2006", "02/01/2006", time.RFC3339}

	teacherColumns     = []string{ColTeacherID, ColName, ColSubject, ColExperience, ColTeachingScore, ColCompliance, ColRisk, ColLateCount, ColStatus}
	studentColumns     = []string{ColStudentID, ColName}
	performanceColumns = []string{ColTeacherID, ColDate, ColScore, ColAttendance, ColLateCount}
	credentialColumns  = []string{ColUsername, ColPassword, ColTeacherID}
)

// RawTables holds the undecoded rows of every table, header row first.
// A nil Credentials means the credential table does not exist.
type RawTables struct {
	Teachers    [][]string
	Students    [][]string
	Performance [][]string
	Credentials [][]string
}

// Decode parses and validates every raw table. Any missing mandatory column or invalid value is fatal.
func Decode(raw RawTables) (Tables, error) {
	var tables Tables

	t, err := ParseTable(TeachersTable, raw.Teachers, teacherColumns...)
	if err != nil {
		return Tables{}, err
	}
	if tables.Teachers, err = DecodeTeachers(t); err != nil {
		return Tables{}, err
	}

	if t, err = ParseTable(StudentsTable, raw.Students, studentColumns...); err != nil {
		return Tables{}, err
	}
	if tables.Students, tables.StudentSchema, err = DecodeStudents(t); err != nil {
		return Tables{}, err
	}

	if t, err = ParseTable(PerformanceTable, raw.Performance, performanceColumns...); err != nil {
		return Tables{}, err
	}
	if tables.Performance, err = DecodePerformance(t); err != nil {
		return Tables{}, err
	}

	if raw.Credentials != nil {
		if t, err = ParseTable(CredentialsTable, raw.Credentials, credentialColumns...); err != nil {
			return Tables{}, err
		}
		if tables.Credentials, err = DecodeCredentials(t); err != nil {
			return Tables{}, err
		}
	}

	if err = tables.Validate(); err != nil {
		return Tables{}, err
	}
	return tables, nil
}

// rowDecoder collects the first parsing error of a row.
type rowDecoder struct {
	t   Table
	row []string
	num int // line number in the source, header being line 1
	err error
}

func (d *rowDecoder) fail(col, msg string) {
	if d.err == nil {
		d.err = core.NewValidationError(
			errors.Errorf("%s: row %d: %s: %s", d.t.Name, d.num, col, msg),
			core.FieldError{Field: col, Error: msg},
		)
	}
}

func (d *rowDecoder) str(col string) string {
	return d.t.Value(d.row, col)
}

func (d *rowDecoder) optStr(col string) null.String {
	if v := d.str(col); v != "" {
		return null.StringFrom(v)
	}
	return null.String{}
}

func (d *rowDecoder) parseFloat(col, v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		d.fail(col, fmt.Sprintf("%q is not a number", v))
		return 0
	}
	return f
}

func (d *rowDecoder) float(col string) float64 {
	v := d.str(col)
	if v == "" {
		d.fail(col, "this field is required")
		return 0
	}
	return d.parseFloat(col, v)
}

func (d *rowDecoder) optFloat(col string) null.Float64 {
	v := d.str(col)
	if v == "" {
		return null.Float64{}
	}
	return null.Float64From(d.parseFloat(col, v))
}

// integer accepts integral floats ("3.0") as exported by spreadsheets.
func (d *rowDecoder) integer(col string) int {
	f := d.float(col)
	if f != math.Trunc(f) {
		d.fail(col, fmt.Sprintf("%v is not an integer", f))
	}
	return int(f)
}

func (d *rowDecoder) parseDate(col, v string) time.Time {
	for _, layout := range dateLayouts {
		if tm, err := time.Parse(layout, v); err == nil {
			y, m, day := tm.Date()
			return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		}
	}
	d.fail(col, fmt.Sprintf("%q is not a date", v))
	return time.Time{}
}

func (d *rowDecoder) date(col string) time.Time {
	v := d.str(col)
	if v == "" {
		d.fail(col, "this field is required")
		return time.Time{}
	}
	return d.parseDate(col, v)
}

func (d *rowDecoder) optDate(col string) null.Time {
	v := d.str(col)
	if v == "" {
		return null.Time{}
	}
	return null.TimeFrom(d.parseDate(col, v))
}

// check runs the struct validation of a decoded record.
func (d *rowDecoder) check(record interface{}) {
	if d.err != nil {
		return
	}
	if err := validate.Struct(record); err != nil {
		if flds := core.TranslateErrors(err, translator); len(flds) > 0 {
			d.fail(flds[0].Field, flds[0].Error)
			return
		}
		d.err = errors.Wrapf(err, "%s: row %d", d.t.Name, d.num)
	}
}

func decodeRows(t Table, fn func(d *rowDecoder) error) error {
	for i, row := range t.Rows {
		if isBlank(row) {
			continue
		}
		d := &rowDecoder{t: t, row: row, num: i + 2}
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if core.CleanString(cell) != "" {
			return false
		}
	}
	return true
}

func DecodeTeachers(t Table) ([]TeacherRecord, error) {
	teachers := make([]TeacherRecord, 0, len(t.Rows))
	err := decodeRows(t, func(d *rowDecoder) error {
		tr := TeacherRecord{
			TeacherID:       d.str(ColTeacherID),
			Name:            d.str(ColName),
			Subject:         d.str(ColSubject),
			ExperienceYears: d.float(ColExperience),
			TeachingScore:   d.float(ColTeachingScore),
			ComplianceScore: d.float(ColCompliance),
			AttritionRisk:   d.float(ColRisk),
			LateCount:       d.integer(ColLateCount),
			Status:          ParseStatus(d.str(ColStatus)),
			Email:           d.optStr(ColEmail),
			Phone:           d.optStr(ColPhone),
			JoiningDate:     d.optDate(ColJoiningDate),
			AvatarURL:       d.optStr(ColAvatarURL),
		}
		d.check(tr)
		teachers = append(teachers, tr)
		return d.err
	})
	if err != nil {
		return nil, err
	}
	return teachers, nil
}

func DecodeStudents(t Table) ([]StudentRecord, StudentSchema, error) {
	schema := StudentSchema{
		TeacherID:  t.Has(ColTeacherID),
		Score:      t.Has(ColScore),
		Attendance: t.Has(ColAttendance),
		Grade:      t.Has(ColGrade),
	}
	students := make([]StudentRecord, 0, len(t.Rows))
	err := decodeRows(t, func(d *rowDecoder) error {
		sr := StudentRecord{
			StudentID: d.str(ColStudentID),
			Name:      d.str(ColName),
			TeacherID: d.optStr(ColTeacherID),
			Score:     d.optFloat(ColScore),
			Grade:     d.optStr(ColGrade),
		}
		if att := d.str(ColAttendance); att != "" {
			sr.Attendance = null.StringFrom(string(ParseAttendance(att)))
		}
		d.check(sr)
		students = append(students, sr)
		return d.err
	})
	if err != nil {
		return nil, StudentSchema{}, err
	}
	return students, schema, nil
}

func DecodePerformance(t Table) ([]PerformanceEvent, error) {
	events := make([]PerformanceEvent, 0, len(t.Rows))
	err := decodeRows(t, func(d *rowDecoder) error {
		ev := PerformanceEvent{
			TeacherID:  d.str(ColTeacherID),
			Date:       d.date(ColDate),
			Score:      d.float(ColScore),
			Attendance: ParseAttendance(d.str(ColAttendance)),
			LateCount:  d.integer(ColLateCount),
		}
		d.check(ev)
		events = append(events, ev)
		return d.err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func DecodeCredentials(t Table) ([]Credential, error) {
	creds := make([]Credential, 0, len(t.Rows))
	err := decodeRows(t, func(d *rowDecoder) error {
		// passwords are compared as-is: do not trim them
		pwd := ""
		if idx, ok := t.columns[ColPassword]; ok && idx < len(d.row) {
			pwd = d.row[idx]
		}
		c := Credential{
			Username:  d.str(ColUsername),
			Password:  pwd,
			TeacherID: d.str(ColTeacherID),
		}
		d.check(c)
		creds = append(creds, c)
		return d.err
	})
	if err != nil {
		return nil, err
	}
	return creds, nil
}
