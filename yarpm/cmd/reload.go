// Copyright 2020, Square, Inc.

package cmd

import (
	"fmt"

	"github.com/robotology/yarpmanager/yarpm/app"
)

type Reload struct {
	ctx app.Context
}

func NewReload(ctx app.Context) *Reload {
	return &Reload{
		ctx: ctx,
	}
}

func (c *Reload) Prepare() error {
	return nil
}

func (c *Reload) Run() error {
	err := c.ctx.Client.Reload()
	if c.ctx.Hooks.CommandRunResult != nil {
		c.ctx.Hooks.CommandRunResult(nil, err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.ctx.Out, "OK, catalog reloaded\n")
	return nil
}

func (c *Reload) Cmd() string {
	return "reload"
}

func (c *Reload) Help() string {
	return "'yarpm reload' makes the manager re-read its description directories.\n"
}
