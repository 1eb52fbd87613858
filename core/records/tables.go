package records

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolinsights/core"
)

// Tables is the in-memory record store. It is loaded once at start up and
// shared read-only: nothing may mutate its slices afterwards.
type Tables struct {
	Teachers      []TeacherRecord
	Students      []StudentRecord
	Performance   []PerformanceEvent
	Credentials   []Credential
	StudentSchema StudentSchema
}

// Source is any storage the tables can be loaded from.
type Source interface {
	Load(ctx context.Context) (Tables, error)
}

// Load loads the tables from `src` and logs a summary of what was read.
func Load(ctx context.Context, src Source, logger core.Logger) (Tables, error) {
	tables, err := src.Load(ctx)
	if err != nil {
		return Tables{}, errors.Wrap(err, "loading records")
	}
	logger.Info("records loaded", map[string]interface{}{
		"teachers":        len(tables.Teachers),
		"students":        len(tables.Students),
		"performance":     len(tables.Performance),
		"credentials":     len(tables.Credentials),
		"dangling_events": tables.DanglingEvents(),
	})
	return tables, nil
}

// Validate checks the cross-row invariants: teacher IDs must be unique.
// Performance events referencing unknown teachers are tolerated.
func (t Tables) Validate() error {
	seen := make(map[string]struct{}, len(t.Teachers))
	for i, tr := range t.Teachers {
		if _, dup := seen[tr.TeacherID]; dup {
			return core.NewValidationError(
				errors.Errorf("%s: row %d: duplicate teacher_id %q", TeachersTable, i+2, tr.TeacherID),
				core.FieldError{Field: ColTeacherID, Error: "duplicate teacher_id"},
			)
		}
		seen[tr.TeacherID] = struct{}{}
	}
	return nil
}

// Teacher returns the teacher with the given ID.
func (t Tables) Teacher(id string) (TeacherRecord, bool) {
	for _, tr := range t.Teachers {
		if tr.TeacherID == id {
			return tr, true
		}
	}
	return TeacherRecord{}, false
}

// Subjects returns the sorted distinct subjects taught.
func (t Tables) Subjects() []string {
	set := make(map[string]struct{})
	for _, tr := range t.Teachers {
		if tr.Subject != "" {
			set[tr.Subject] = struct{}{}
		}
	}
	subjects := make([]string, 0, len(set))
	for s := range set {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects
}

// DanglingEvents counts the performance events whose teacher does not exist.
func (t Tables) DanglingEvents() int {
	ids := make(map[string]struct{}, len(t.Teachers))
	for _, tr := range t.Teachers {
		ids[tr.TeacherID] = struct{}{}
	}
	var n int
	for _, ev := range t.Performance {
		if _, ok := ids[ev.TeacherID]; !ok {
			n++
		}
	}
	return n
}
