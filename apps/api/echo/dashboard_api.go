package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolinsights/core/analytics"
	"github.com/trezcool/schoolinsights/core/records"
	"github.com/trezcool/schoolinsights/core/scope"
)

type dashboardApi struct {
	tables records.Tables
	filter scope.Filter
	engine *analytics.Engine
}

func registerDashboardAPI(
	g *echo.Group,
	tables records.Tables,
	filter scope.Filter,
	engine *analytics.Engine,
	authMiddlewares ...echo.MiddlewareFunc,
) {
	api := dashboardApi{
		tables: tables,
		filter: filter,
		engine: engine,
	}

	dg := g.Group("/dashboard", authMiddlewares...)
	dg.GET("/overview", api.overview)
	dg.GET("/teachers", api.teachers)
	dg.GET("/attendance", api.attendance)
	dg.GET("/attrition", api.attrition)
	dg.GET("/students", api.students)
	dg.GET("/profile", api.profile)
}

// view scopes the tables to the Identity of the request. Views are never cached nor shared.
func (api *dashboardApi) view(ctx echo.Context) (scope.View, error) {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return scope.View{}, err
	}
	return api.filter.Scope(id, api.tables), nil
}

// Handlers

func (api *dashboardApi) overview(ctx echo.Context) error {
	v, err := api.view(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.engine.Overview(v))
}

func (api *dashboardApi) teachers(ctx echo.Context) error {
	v, err := api.view(ctx)
	if err != nil {
		return err
	}
	var f analytics.DirectoryFilter
	if err = ctx.Bind(&f); err != nil {
		return errors.Wrap(err, "binding to DirectoryFilter")
	}
	return ctx.JSON(http.StatusOK, api.engine.Directory(v, f))
}

func (api *dashboardApi) attendance(ctx echo.Context) error {
	v, err := api.view(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.engine.Attendance(v))
}

func (api *dashboardApi) attrition(ctx echo.Context) error {
	v, err := api.view(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.engine.Attrition(v))
}

func (api *dashboardApi) students(ctx echo.Context) error {
	v, err := api.view(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.engine.Students(v))
}

// profile answers `{"available": false}` when the Identity has no teacher record.
func (api *dashboardApi) profile(ctx echo.Context) error {
	v, err := api.view(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.engine.Profile(v))
}
