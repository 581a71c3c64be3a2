// Copyright 2017-2020, Square, Inc.

// Package api provides controllers for each api endpoint. Controllers are
// "dumb wiring"; there is little to no application logic in this package.
// Controllers call and coordinate other packages to satisfy the api endpoint.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	serr "github.com/robotology/yarpmanager/errors"
	"github.com/robotology/yarpmanager/manager/app"
	"github.com/robotology/yarpmanager/manager/metrics"
	"github.com/robotology/yarpmanager/manager/plan"
	"github.com/robotology/yarpmanager/proto"
	v "github.com/robotology/yarpmanager/version"
)

const (
	API_ROOT = "/api/v1/"
)

// API provides controllers for endpoints it registers with a router.
// It satisfies the http.HandlerFunc interface.
type API struct {
	appCtx app.Context
	pm     plan.Manager
	// --
	echo *echo.Echo
}

// NewAPI creates a new API struct. It initializes an echo web server within the
// struct, and registers all of the API's routes with it.
func NewAPI(appCtx app.Context) *API {
	api := &API{
		appCtx: appCtx,
		pm:     appCtx.Plans,
		// --
		echo: echo.New(),
	}

	// //////////////////////////////////////////////////////////////////////
	// Routes
	// //////////////////////////////////////////////////////////////////////

	// Plan
	api.echo.POST(API_ROOT+"plans", api.createPlanHandler)     // create
	api.echo.GET(API_ROOT+"plans", api.listPlansHandler)       // list -> []proto.Plan
	api.echo.GET(API_ROOT+"plans/:planId", api.getPlanHandler) // get -> proto.Plan

	// Catalog
	api.echo.GET(API_ROOT+"applications", api.applicationsHandler)                // list -> []proto.ApplicationSpec
	api.echo.GET(API_ROOT+"applications/:name", api.applicationHandler)           // get -> proto.ApplicationSpec
	api.echo.POST(API_ROOT+"applications/:name/save", api.saveApplicationHandler) // save
	api.echo.PUT(API_ROOT+"resources/:name/load", api.updateLoadHandler)          // computer load
	api.echo.POST(API_ROOT+"catalog/reload", api.reloadHandler)                   // reload

	// Meta
	api.echo.GET("/version", api.versionHandler)                  // return version.VERSION
	api.echo.GET("/metrics", echo.WrapHandler(metrics.Handler())) // prometheus

	// //////////////////////////////////////////////////////////////////////
	// Middleware
	// //////////////////////////////////////////////////////////////////////
	api.echo.Use(middleware.Recover())
	api.echo.Use(middleware.Logger())
	api.echo.Use((func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Yarpm-Version", v.Version())
			return next(c)
		}
	}))

	return api
}

func (api *API) Router() *echo.Echo {
	return api.echo
}

// Use adds middleware to the echo web server in the API. See
// https://echo.labstack.com/middleware for more details.
func (api *API) Use(middleware ...echo.MiddlewareFunc) {
	api.echo.Use(middleware...)
}

// Run makes the API listen on the configured address.
func (api *API) Run() error {
	srv := api.appCtx.Config.Server
	if srv.TLS.CertFile != "" && srv.TLS.KeyFile != "" {
		return api.echo.StartTLS(srv.ListenAddress, srv.TLS.CertFile, srv.TLS.KeyFile)
	}
	return api.echo.Start(srv.ListenAddress)
}

// Stop stops the API when it's running. When Stop is called, Run returns
// immediately. Make sure to wait for Stop to return.
func (api *API) Stop() error {
	srv := api.appCtx.Config.Server
	if srv.TLS.CertFile != "" && srv.TLS.KeyFile != "" {
		return api.echo.TLSServer.Shutdown(context.TODO())
	}
	return api.echo.Server.Shutdown(context.TODO())
}

// ServeHTTP makes the API implement the http.HandlerFunc interface.
func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.echo.ServeHTTP(w, r)
}

// POST <API_ROOT>/plans
// Resolve an application into a new plan.
func (api *API) createPlanHandler(c echo.Context) error {
	// Convert the payload into a proto.CreatePlan.
	var params proto.CreatePlan
	if err := c.Bind(&params); err != nil {
		return err
	}

	p, err := api.pm.Create(params)
	if err != nil {
		return handleError(err, c)
	}

	// Set the location of the plan in the response header.
	locationUrl, _ := url.Parse(API_ROOT + "plans/" + p.Id)
	c.Response().Header().Set("Location", locationUrl.EscapedPath())

	return c.JSON(http.StatusCreated, p)
}

// GET <API_ROOT>/plans/{planId}
// Get a plan.
func (api *API) getPlanHandler(c echo.Context) error {
	p, err := api.pm.Get(c.Param("planId"))
	if err != nil {
		return handleError(err, c)
	}
	return c.JSON(http.StatusOK, p)
}

// GET <API_ROOT>/plans?application=<name>&state=<state>&limit=<n>
// List plans, newest first.
func (api *API) listPlansHandler(c echo.Context) error {
	f := proto.PlanFilter{
		Application: c.QueryParam("application"),
	}
	if s := c.QueryParam("state"); s != "" {
		state, ok := proto.StateValue[strings.ToUpper(s)]
		if !ok {
			return handleError(serr.ValidationError{Message: fmt.Sprintf("invalid state: %s", s)}, c)
		}
		f.State = state
	}
	if l := c.QueryParam("limit"); l != "" {
		limit, err := strconv.ParseUint(l, 10, 32)
		if err != nil {
			return handleError(serr.ValidationError{Message: fmt.Sprintf("invalid limit: %s", l)}, c)
		}
		f.Limit = uint(limit)
	}

	plans, err := api.pm.List(f)
	if err != nil {
		return handleError(err, c)
	}
	return c.JSON(http.StatusOK, plans)
}

// GET <API_ROOT>/applications
// List catalog applications.
func (api *API) applicationsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, api.pm.Applications())
}

// GET <API_ROOT>/applications/{name}
// Get a catalog application.
func (api *API) applicationHandler(c echo.Context) error {
	a, err := api.pm.Application(c.Param("name"))
	if err != nil {
		return handleError(err, c)
	}
	return c.JSON(http.StatusOK, a)
}

// POST <API_ROOT>/applications/{name}/save
// Write a catalog application to its description file.
func (api *API) saveApplicationHandler(c echo.Context) error {
	if err := api.pm.SaveApplication(c.Param("name")); err != nil {
		return handleError(err, c)
	}
	return c.NoContent(http.StatusOK)
}

// PUT <API_ROOT>/resources/{name}/load
// Report the load average of a computer. Brokers call this periodically.
func (api *API) updateLoadHandler(c echo.Context) error {
	var load proto.LoadUpdate
	if err := c.Bind(&load); err != nil {
		return err
	}
	if load.One < 0 || load.Five < 0 || load.Fifteen < 0 {
		return handleError(serr.ValidationError{Message: "load averages cannot be negative"}, c)
	}
	if err := api.pm.UpdateLoad(c.Param("name"), load); err != nil {
		return handleError(err, c)
	}
	return c.NoContent(http.StatusOK)
}

// POST <API_ROOT>/catalog/reload
// Re-read the description files.
func (api *API) reloadHandler(c echo.Context) error {
	if err := api.pm.Reload(); err != nil {
		return handleError(err, c)
	}
	return c.NoContent(http.StatusOK)
}

func (api *API) versionHandler(c echo.Context) error {
	return c.String(http.StatusOK, v.Version())
}

// ------------------------------------------------------------------------- //

func handleError(err error, c echo.Context) error {
	ret := proto.Error{
		Message:    err.Error(),
		HTTPStatus: http.StatusInternalServerError,
	}

	switch e := err.(type) {
	case serr.PlanNotFound:
		ret.HTTPStatus = http.StatusNotFound
		ret.Entity = e.PlanId
	case serr.ApplicationNotFound:
		ret.HTTPStatus = http.StatusNotFound
		ret.Entity = e.Name
	case serr.ResourceNotFound:
		ret.HTTPStatus = http.StatusNotFound
		ret.Entity = e.Name
	case serr.ErrInvalidCreatePlan, serr.ValidationError:
		ret.HTTPStatus = http.StatusBadRequest
	case serr.ErrResolveTimeout:
		ret.HTTPStatus = http.StatusGatewayTimeout
		ret.Entity = e.Application
	case serr.ErrSaveFailed:
		ret.Entity = e.Application
	}

	return c.JSON(ret.HTTPStatus, ret)
}
