// Package scope narrows the record tables to the rows an Identity may see.
package scope

import (
	"github.com/trezcool/schoolinsights/core/auth"
	"github.com/trezcool/schoolinsights/core/records"
)

// StudentFallback decides what a Teacher sees when the student table has no teacher_id column.
type StudentFallback int

const (
	// StudentFallbackAllRows returns every student row unfiltered.
	// This leaks other teachers' students; the View reports it through StudentsUnscoped.
	StudentFallbackAllRows StudentFallback = iota
	// StudentFallbackNoRows returns no student row at all.
	StudentFallbackNoRows
)

// View is the slice of the record store visible to one Identity.
// It is derived per request and must never be shared between identities.
type View struct {
	Identity auth.Identity  `json:"identity"`
	Tables   records.Tables `json:"-"`

	// ProfileAvailable is false for Teachers whose scope key matches no teacher row.
	ProfileAvailable bool `json:"profile_available"`
	// StudentsUnscoped is true when the student rows could not be narrowed to the Teacher.
	StudentsUnscoped bool `json:"students_unscoped"`
}

// Filter scopes tables with a given student fallback policy.
type Filter struct {
	Fallback StudentFallback
}

// Scope applies the default policy (StudentFallbackAllRows).
func Scope(id auth.Identity, tables records.Tables) View {
	return Filter{}.Scope(id, tables)
}

// Scope returns the identity's view of `tables`. Admin and Principal see everything unchanged;
// teacher credentials never reach a Teacher's view.
func (f Filter) Scope(id auth.Identity, tables records.Tables) View {
	if !id.IsScoped() {
		return View{Identity: id, Tables: tables}
	}

	key := id.ScopeKey.String
	view := View{
		Identity: id,
		Tables: records.Tables{
			Teachers:      filter(tables.Teachers, func(tr records.TeacherRecord) bool { return tr.TeacherID == key }),
			Performance:   filter(tables.Performance, func(ev records.PerformanceEvent) bool { return ev.TeacherID == key }),
			StudentSchema: tables.StudentSchema,
		},
	}
	view.ProfileAvailable = len(view.Tables.Teachers) > 0

	switch {
	case tables.StudentSchema.TeacherID:
		view.Tables.Students = filter(tables.Students, func(sr records.StudentRecord) bool {
			return sr.TeacherID.Valid && sr.TeacherID.String == key
		})
	case f.Fallback == StudentFallbackAllRows:
		view.Tables.Students = tables.Students
		view.StudentsUnscoped = true
	default:
		view.Tables.Students = []records.StudentRecord{}
	}
	return view
}

// filter returns the rows matching `keep`, in their original order, in a new slice.
func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}
