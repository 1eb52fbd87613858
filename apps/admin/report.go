package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolinsights/core/analytics"
	"github.com/trezcool/schoolinsights/core/auth"
	"github.com/trezcool/schoolinsights/core/scope"
)

// dashboard views
const (
	viewOverview   = "overview"
	viewTeachers   = "teachers"
	viewAttendance = "attendance"
	viewAttrition  = "attrition"
	viewStudents   = "students"
	viewProfile    = "profile"
)

var views = []string{viewOverview, viewTeachers, viewAttendance, viewAttrition, viewStudents, viewProfile}

func joinViews() string {
	return strings.Join(views, ", ")
}

// report logs in like the dashboard does and prints one view of the scoped records.
func (cli *commandLine) report(uname, pwd, role, view string, filter analytics.DirectoryFilter) error {
	tables, err := cli.loadTables(context.Background())
	if err != nil {
		return err
	}

	sess := auth.NewSession(auth.NewResolverFromConfig(cli.conf.Auth, tables.Credentials))
	id, err := sess.Login(uname, pwd, role)
	if err != nil {
		return err
	}
	defer sess.Logout()

	v := scope.Scope(id, tables)
	var data interface{}
	switch strings.ToLower(strings.TrimSpace(view)) {
	case viewOverview:
		data = cli.engine.Overview(v)
	case viewTeachers:
		data = cli.engine.Directory(v, filter)
	case viewAttendance:
		data = cli.engine.Attendance(v)
	case viewAttrition:
		data = cli.engine.Attrition(v)
	case viewStudents:
		data = cli.engine.Students(v)
	case viewProfile:
		data = cli.engine.Profile(v)
	default:
		return errors.Errorf("unknown view %q, expected one of: %s", view, joinViews())
	}

	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
