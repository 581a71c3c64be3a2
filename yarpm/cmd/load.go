// Copyright 2020, Square, Inc.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/robotology/yarpmanager/proto"
	"github.com/robotology/yarpmanager/yarpm/app"
)

type Load struct {
	ctx      app.Context
	computer string
	load     proto.LoadUpdate
}

func NewLoad(ctx app.Context) *Load {
	return &Load{
		ctx: ctx,
	}
}

// Prepare parses "<computer> <one> [<five> <fifteen>]". Five and fifteen
// default to one.
func (c *Load) Prepare() error {
	args := c.ctx.Command.Args
	if len(args) != 2 && len(args) != 4 {
		return fmt.Errorf("Usage: yarpm load <computer> <one> [<five> <fifteen>]\n")
	}
	c.computer = args[0]
	values := []float64{}
	for _, s := range args[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("Invalid load %s: must be a number >= 0", s)
		}
		values = append(values, v)
	}
	c.load = proto.LoadUpdate{One: values[0], Five: values[0], Fifteen: values[0]}
	if len(values) == 3 {
		c.load.Five = values[1]
		c.load.Fifteen = values[2]
	}
	return nil
}

func (c *Load) Run() error {
	err := c.ctx.Client.UpdateLoad(c.computer, c.load)
	if c.ctx.Hooks.CommandRunResult != nil {
		c.ctx.Hooks.CommandRunResult(nil, err)
		return nil
	}
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("Unknown computer: %s", c.computer)
		}
		return err
	}
	fmt.Fprintf(c.ctx.Out, "OK, %s load %.2f %.2f %.2f\n", c.computer, c.load.One, c.load.Five, c.load.Fifteen)
	return nil
}

func (c *Load) Cmd() string {
	return "load " + c.computer
}

func (c *Load) Help() string {
	return "'yarpm load <computer> <one> [<five> <fifteen>]' reports the load average of a computer.\n" +
		"Plans created afterwards prefer less loaded computers.\n"
}
