// Copyright 2020, Square, Inc.

package cmd

import (
	"fmt"

	"github.com/robotology/yarpmanager/yarpm/app"
)

type Show struct {
	ctx    app.Context
	planId string
}

func NewShow(ctx app.Context) *Show {
	return &Show{
		ctx: ctx,
	}
}

func (c *Show) Prepare() error {
	if len(c.ctx.Command.Args) == 0 {
		return fmt.Errorf("Usage: yarpm show <id>\n")
	}
	c.planId = c.ctx.Command.Args[0]
	return nil
}

func (c *Show) Run() error {
	plan, err := c.ctx.Client.GetPlan(c.planId)
	if c.ctx.Options.Debug {
		app.Debug("plan: %#v", plan)
	}

	if c.ctx.Hooks.CommandRunResult != nil {
		c.ctx.Hooks.CommandRunResult(plan, err)
		return nil
	}

	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("Unknown plan: %s. Run 'yarpm ls' to list plans.", c.planId)
		}
		return err
	}
	printPlan(c.ctx.Out, plan, c.ctx.Options.Verbose)
	return nil
}

func (c *Show) Cmd() string {
	return "show " + c.planId
}

func (c *Show) Help() string {
	return "'yarpm show <id>' prints a plan. Use -v to also print its warnings and errors.\n"
}
