// Copyright 2020, Square, Inc.

package cmd

import (
	"fmt"

	"github.com/robotology/yarpmanager/version"
	"github.com/robotology/yarpmanager/yarpm/app"
)

type Version struct {
	ctx app.Context
}

func NewVersion(ctx app.Context) *Version {
	return &Version{
		ctx: ctx,
	}
}

func (c *Version) Prepare() error {
	return nil
}

// Run prints the yarpm version and, if the manager is reachable, its version.
func (c *Version) Run() error {
	fmt.Fprintf(c.ctx.Out, "yarpm %s\n", version.Version())
	if c.ctx.Client == nil {
		return nil
	}
	v, err := c.ctx.Client.Version()
	if err != nil {
		if c.ctx.Options.Debug {
			app.Debug("manager version: %s", err)
		}
		fmt.Fprintf(c.ctx.Out, "manager unknown (%s)\n", err)
		return nil
	}
	fmt.Fprintf(c.ctx.Out, "manager %s\n", v)
	return nil
}

func (c *Version) Cmd() string {
	return "version"
}

func (c *Version) Help() string {
	return "'yarpm version' prints the yarpm and manager versions.\n"
}
