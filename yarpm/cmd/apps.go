// Copyright 2020, Square, Inc.

package cmd

import (
	"fmt"
	"strings"

	"github.com/robotology/yarpmanager/proto"
	"github.com/robotology/yarpmanager/yarpm/app"
)

type Apps struct {
	ctx     app.Context
	appName string
}

func NewApps(ctx app.Context) *Apps {
	return &Apps{
		ctx: ctx,
	}
}

func (c *Apps) Prepare() error {
	if len(c.ctx.Command.Args) > 0 {
		c.appName = c.ctx.Command.Args[0]
	}
	return nil
}

func (c *Apps) Run() error {
	if c.appName != "" {
		return c.one()
	}

	apps, err := c.ctx.Client.Applications()
	if err != nil {
		return err
	}
	if c.ctx.Options.Debug {
		app.Debug("applications: %#v", apps)
	}

	if c.ctx.Hooks.CommandRunResult != nil {
		c.ctx.Hooks.CommandRunResult(apps, err)
		return nil
	}

	for _, a := range apps {
		if a.Description != "" {
			fmt.Fprintf(c.ctx.Out, "%s - %s\n", a.Name, a.Description)
		} else {
			fmt.Fprintf(c.ctx.Out, "%s\n", a.Name)
		}
	}
	return nil
}

func (c *Apps) one() error {
	a, err := c.ctx.Client.Application(c.appName)
	if c.ctx.Options.Debug {
		app.Debug("application: %#v", a)
	}

	if c.ctx.Hooks.CommandRunResult != nil {
		c.ctx.Hooks.CommandRunResult(a, err)
		return nil
	}

	if err != nil {
		if isNotFound(err) {
			return app.ErrUnknownApplication
		}
		return err
	}
	printApp(c.ctx, a)
	return nil
}

func printApp(ctx app.Context, a proto.ApplicationSpec) {
	fmt.Fprintf(ctx.Out, "       name: %s\n", a.Name)
	if a.Description != "" {
		fmt.Fprintf(ctx.Out, "description: %s\n", a.Description)
	}
	if a.Version != "" {
		fmt.Fprintf(ctx.Out, "    version: %s\n", a.Version)
	}
	if a.Prefix != "" {
		fmt.Fprintf(ctx.Out, "     prefix: %s\n", a.Prefix)
	}
	fmt.Fprintf(ctx.Out, "    modules: %s\n", strings.Join(a.Modules, " "))
	fmt.Fprintf(ctx.Out, "       apps: %s\n", strings.Join(a.Applications, " "))
	fmt.Fprintf(ctx.Out, "connections: %d\n", a.Connections)
}

func (c *Apps) Cmd() string {
	if c.appName != "" {
		return "apps " + c.appName
	}
	return "apps"
}

func (c *Apps) Help() string {
	return "'yarpm apps' lists the catalog applications.\n" +
		"'yarpm apps <application>' prints what an application includes.\n"
}
