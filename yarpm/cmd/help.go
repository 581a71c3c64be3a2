// Copyright 2019-2020, Square, Inc.

package cmd

import (
	"fmt"

	"github.com/robotology/yarpmanager/yarpm/app"
	"github.com/robotology/yarpmanager/yarpm/config"
)

type Help struct {
	ctx app.Context
}

func NewHelp(ctx app.Context) *Help {
	return &Help{
		ctx: ctx,
	}
}

func (c *Help) Prepare() error {
	return nil
}

// Run returns app.ErrHelp after printing help.
func (c *Help) Run() error {
	if len(c.ctx.Command.Args) == 0 {
		c.Usage()
		return app.ErrHelp
	}

	// yarpm help <cmd>
	arg := c.ctx.Command.Args[0]
	var yarpmCmd app.Command
	err := ErrNotExist
	if c.ctx.Factories.Command != nil {
		yarpmCmd, err = c.ctx.Factories.Command.Make(arg, c.ctx)
	}
	if err != nil {
		yarpmCmd, err = (&DefaultFactory{}).Make(arg, c.ctx)
	}
	if c.ctx.Options.Debug {
		app.Debug("Factories.Command.Make: %v", err)
	}
	if err != nil {
		return fmt.Errorf("'%s' is not a valid command. Run 'yarpm help' to list commands.", arg)
	}
	fmt.Fprint(c.ctx.Out, yarpmCmd.Help())
	return app.ErrHelp
}

func (c *Help) Cmd() string {
	return "help"
}

func (c *Help) Help() string {
	return "Run 'yarpm help' for usage, or 'yarpm help <command>' for command help.\n"
}

func (c *Help) Usage() {
	fmt.Fprintf(c.ctx.Out, "Usage: yarpm [flags] command [application|id] [args]\n\n"+
		"Flags:\n"+
		"  --addr             Address of the manager API (default: %s)\n"+
		"  --auto-dependency  Fail an application when anything it includes fails\n"+
		"  --config           Config files (default: %s)\n"+
		"  --debug            Print debug to stderr\n"+
		"  --help             Print help\n"+
		"  --limit            Max plans printed by ls\n"+
		"  --ping             Ping the manager API\n"+
		"  --silent           Do not report unsatisfied requirements\n"+
		"  --state            Only plans in this state for ls (resolved, partial, failed)\n"+
		"  --timeout          API timeout, milliseconds (default: %d)\n"+
		"  --verbose, -v      Print warnings and errors of plans\n"+
		"  --version          Print version\n\n"+
		"Commands:\n"+
		"  apps    [application]              List applications or print one\n"+
		"  help    [command]                  Print help\n"+
		"  load    <computer> <one> [<five> <fifteen>]  Report computer load\n"+
		"  ls      [application]              List plans\n"+
		"  plan    <application>              Resolve an application\n"+
		"  reload                             Re-read the catalog\n"+
		"  save    <application>              Save an application\n"+
		"  show    <id>                       Print a plan\n"+
		"  version                            Print versions\n",
		config.DEFAULT_ADDR, config.DEFAULT_CONFIG_FILES, config.DEFAULT_TIMEOUT)
}
