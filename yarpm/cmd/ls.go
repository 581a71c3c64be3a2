// Copyright 2020, Square, Inc.

package cmd

import (
	"fmt"
	"strings"

	"github.com/robotology/yarpmanager/proto"
	"github.com/robotology/yarpmanager/yarpm/app"
)

type Ls struct {
	ctx    app.Context
	filter proto.PlanFilter
}

func NewLs(ctx app.Context) *Ls {
	return &Ls{
		ctx: ctx,
	}
}

func (c *Ls) Prepare() error {
	c.filter = proto.PlanFilter{
		Limit: c.ctx.Options.Limit,
	}
	if len(c.ctx.Command.Args) > 0 {
		c.filter.Application = c.ctx.Command.Args[0]
	}
	if c.ctx.Options.State != "" {
		state, ok := proto.StateValue[strings.ToUpper(c.ctx.Options.State)]
		if !ok {
			return fmt.Errorf("Invalid --state %s, expected resolved, partial or failed", c.ctx.Options.State)
		}
		c.filter.State = state
	}
	return nil
}

func (c *Ls) Run() error {
	plans, err := c.ctx.Client.ListPlans(c.filter)
	if err != nil {
		return err
	}
	if c.ctx.Options.Debug {
		app.Debug("plans: %#v", plans)
	}

	if c.ctx.Hooks.CommandRunResult != nil {
		c.ctx.Hooks.CommandRunResult(plans, err)
		return nil
	}

	if len(plans) == 0 {
		return nil
	}

	hdr := fmt.Sprintf("%%-20s  %%-20s  %%-8s  %%7s  %%7s  %%s\n")
	line := fmt.Sprintf("%%-20s  %%-20s  %%-8s  %%7d  %%7d  %%s\n")
	fmt.Fprintf(c.ctx.Out, hdr, "ID", "APP", "STATE", "MODULES", "MISSING", "CREATED")
	for _, p := range plans {
		missing := 0
		for _, r := range p.Resources {
			if r.Missing {
				missing++
			}
		}
		fmt.Fprintf(c.ctx.Out, line, p.Id, p.Application, proto.StateName[p.State],
			len(p.Modules), missing, p.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

func (c *Ls) Cmd() string {
	return "ls"
}

func (c *Ls) Help() string {
	return "'yarpm ls [application]' lists plans, newest first.\n" +
		"Use --state and --limit to filter them.\n"
}
