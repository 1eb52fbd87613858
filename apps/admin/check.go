package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/trezcool/schoolinsights/core/records"
)

// check loads the records the way the API does and prints a summary.
func (cli *commandLine) check() error {
	tables, err := cli.loadTables(context.Background())
	if err != nil {
		return err
	}

	optional := make([]string, 0, 4)
	for _, col := range []struct {
		name string
		ok   bool
	}{
		{records.ColTeacherID, tables.StudentSchema.TeacherID},
		{records.ColScore, tables.StudentSchema.Score},
		{records.ColAttendance, tables.StudentSchema.Attendance},
		{records.ColGrade, tables.StudentSchema.Grade},
	} {
		if col.ok {
			optional = append(optional, col.name)
		}
	}

	w := cli.out
	_, _ = fmt.Fprintf(w, "teachers:        %d\n", len(tables.Teachers))
	_, _ = fmt.Fprintf(w, "students:        %d\n", len(tables.Students))
	_, _ = fmt.Fprintf(w, "student columns: %s\n", strings.Join(optional, ", "))
	_, _ = fmt.Fprintf(w, "performance:     %d\n", len(tables.Performance))
	if tables.Credentials == nil {
		_, _ = fmt.Fprintln(w, "credentials:     none (teachers cannot log in)")
	} else {
		_, _ = fmt.Fprintf(w, "credentials:     %d\n", len(tables.Credentials))
	}
	_, _ = fmt.Fprintf(w, "dangling events: %d\n", tables.DanglingEvents())
	_, _ = fmt.Fprintf(w, "subjects:        %s\n", strings.Join(tables.Subjects(), ", "))
	if !tables.StudentSchema.TeacherID {
		_, _ = fmt.Fprintln(w, "warning: students have no teacher_id column, teachers will see every student")
	}
	return nil
}
