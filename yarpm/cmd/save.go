// Copyright 2020, Square, Inc.

package cmd

import (
	"fmt"

	"github.com/robotology/yarpmanager/yarpm/app"
)

type Save struct {
	ctx     app.Context
	appName string
}

func NewSave(ctx app.Context) *Save {
	return &Save{
		ctx: ctx,
	}
}

func (c *Save) Prepare() error {
	if len(c.ctx.Command.Args) == 0 {
		return fmt.Errorf("Usage: yarpm save <application>\n")
	}
	c.appName = c.ctx.Command.Args[0]
	return nil
}

func (c *Save) Run() error {
	err := c.ctx.Client.SaveApplication(c.appName)
	if c.ctx.Hooks.CommandRunResult != nil {
		c.ctx.Hooks.CommandRunResult(nil, err)
		return nil
	}
	if err != nil {
		if isNotFound(err) {
			return app.ErrUnknownApplication
		}
		return err
	}
	fmt.Fprintf(c.ctx.Out, "OK, saved %s\n", c.appName)
	return nil
}

func (c *Save) Cmd() string {
	return "save " + c.appName
}

func (c *Save) Help() string {
	return "'yarpm save <application>' writes an application back to its description file.\n"
}
