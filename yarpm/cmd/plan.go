// Copyright 2020, Square, Inc.

package cmd

import (
	"fmt"

	"github.com/robotology/yarpmanager/yarpm/app"
)

type Plan struct {
	ctx     app.Context
	appName string
}

func NewPlan(ctx app.Context) *Plan {
	return &Plan{
		ctx: ctx,
	}
}

func (c *Plan) Prepare() error {
	if len(c.ctx.Command.Args) == 0 {
		return fmt.Errorf("Usage: yarpm plan <application>\n")
	}
	c.appName = c.ctx.Command.Args[0]
	return nil
}

func (c *Plan) Run() error {
	var autoDep *bool
	if c.ctx.Options.AutoDependency {
		t := true
		autoDep = &t
	}
	plan, err := c.ctx.Client.CreatePlan(c.appName, autoDep, c.ctx.Options.Silent)
	if c.ctx.Options.Debug {
		app.Debug("plan: %#v", plan)
	}

	if c.ctx.Hooks.CommandRunResult != nil {
		c.ctx.Hooks.CommandRunResult(plan, err)
		return nil
	}

	if err != nil {
		if isNotFound(err) {
			return app.ErrUnknownApplication
		}
		return err
	}
	printPlan(c.ctx.Out, plan, c.ctx.Options.Verbose)
	return nil
}

func (c *Plan) Cmd() string {
	return "plan " + c.appName
}

func (c *Plan) Help() string {
	return "'yarpm plan <application>' resolves an application and prints its deployment plan.\n" +
		"Use --auto-dependency to fail an application when anything it includes fails,\n" +
		"and --silent to not report unsatisfied requirements.\n"
}
