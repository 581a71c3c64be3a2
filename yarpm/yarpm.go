// Copyright 2017-2020, Square, Inc.

// Package yarpm provides a framework for integration with other programs.
package yarpm

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/robotology/yarpmanager/manager"
	"github.com/robotology/yarpmanager/yarpm/app"
	"github.com/robotology/yarpmanager/yarpm/cmd"
	"github.com/robotology/yarpmanager/yarpm/config"
)

// Run runs yarpm and returns when done. When using a standard yarpm bin, Run
// is called by yarpm/bin/main.go. When yarpm is wrapped by custom code, that
// code imports this pkg then calls yarpm.Run() with its custom factories. If a
// factory is not set (nil), then the default factory is used. Run returns
// app.ErrHelp after printing help.
func Run(ctx app.Context) error {
	if ctx.Out == nil {
		ctx.Out = os.Stdout
	}
	if ctx.In == nil {
		ctx.In = os.Stdin
	}

	// //////////////////////////////////////////////////////////////////////
	// Config and command line
	// //////////////////////////////////////////////////////////////////////

	// Options are set in this order: config -> env var -> cmd line option.
	// So first we must apply config files, then do cmd line parsing which
	// will apply env vars and cmd line options.
	args := os.Args[1:]

	// Parse cmd line to get --config files
	cmdLine, err := config.ParseCommandLine(config.Options{}, args)
	if err != nil {
		return err
	}

	// --config files override defaults if given
	configFiles := config.DEFAULT_CONFIG_FILES
	if cmdLine.Config != "" {
		configFiles = cmdLine.Config
	}

	// Parse default options from config files
	def := config.ParseConfigFiles(configFiles, cmdLine.Debug)
	if def.Addr == "" {
		def.Addr = config.DEFAULT_ADDR
	}
	if def.Timeout == 0 {
		def.Timeout = config.DEFAULT_TIMEOUT
	}

	// Parse env vars and cmd line options, override default config
	cmdLine, err = config.ParseCommandLine(def, args)
	if err != nil {
		return err
	}

	// Final options and commands
	var o config.Options = cmdLine.Options
	var c config.Command = cmdLine.Command
	if o.Debug {
		app.Debug("command: %#v\n", c)
		app.Debug("options: %#v\n", o)
	}

	if ctx.Hooks.AfterParseOptions != nil {
		if o.Debug {
			app.Debug("calling hook AfterParseOptions")
		}
		ctx.Hooks.AfterParseOptions(&o)

		// Dump options again to see if hook changed them
		if o.Debug {
			app.Debug("options: %#v\n", o)
		}
	}
	ctx.Options = o
	ctx.Command = c
	ctx.Nargs = len(c.Args)
	if c.Cmd != "" {
		ctx.Nargs++
	}

	// //////////////////////////////////////////////////////////////////////
	// Help and version
	// //////////////////////////////////////////////////////////////////////

	// yarpm with no command, yarpm --help or yarpm help (full help)
	noCmd := c.Cmd == "" && !o.Ping && !o.Version
	if noCmd || o.Help || (c.Cmd == "help" && len(c.Args) == 0) {
		cmd.NewHelp(ctx).Usage()
		return app.ErrHelp
	}

	// yarpm --version
	if o.Version {
		c.Cmd = "version"
		ctx.Command = c
	}

	// //////////////////////////////////////////////////////////////////////
	// Manager client
	// //////////////////////////////////////////////////////////////////////
	if err := makeClient(&ctx); err != nil {
		return err
	}

	// //////////////////////////////////////////////////////////////////////
	// Ping
	// //////////////////////////////////////////////////////////////////////
	if o.Ping {
		if _, err := ctx.Client.Version(); err != nil {
			return fmt.Errorf("Ping failed: %s", err)
		}
		fmt.Fprintf(ctx.Out, "%s OK\n", o.Addr)
		return nil
	}

	// //////////////////////////////////////////////////////////////////////
	// Commands
	// //////////////////////////////////////////////////////////////////////
	cmdFactory := &cmd.DefaultFactory{}

	var run app.Command
	if ctx.Factories.Command != nil {
		run, err = ctx.Factories.Command.Make(c.Cmd, ctx)
		if err != nil {
			switch err {
			case cmd.ErrNotExist:
				if o.Debug {
					app.Debug("user cmd factory cannot make a %s cmd, trying default factory", c.Cmd)
				}
			default:
				return fmt.Errorf("User command factory error: %s", err)
			}
		}
	}
	if run == nil {
		if o.Debug {
			app.Debug("using default factory to make a %s cmd", c.Cmd)
		}
		run, err = cmdFactory.Make(c.Cmd, ctx)
		if err != nil {
			switch err {
			case cmd.ErrNotExist:
				return fmt.Errorf("Unknown command: %s. Run 'yarpm help' to list commands.", c.Cmd)
			default:
				return fmt.Errorf("Command factory error: %s", err)
			}
		}
	}

	if err := run.Prepare(); err != nil {
		if o.Debug {
			app.Debug("%s Prepare error: %s", c.Cmd, err)
		}
		return err
	}

	if err := run.Run(); err != nil {
		if o.Debug {
			app.Debug("%s Run error: %s", c.Cmd, err)
		}
		switch err {
		case app.ErrUnknownApplication:
			return fmt.Errorf("Unknown application: %s. Run 'yarpm apps' to list all applications.", c.Args[0])
		}
		return err
	}
	return nil
}

func makeClient(ctx *app.Context) error {
	if ctx.Options.Addr == "" {
		return fmt.Errorf("Manager API address is not set."+
			" It is best to specify addr in a config file (%s). Or, specify"+
			" --addr on the command line option or set the ADDR environment"+
			" variable. Use --ping to test addr when set.", config.DEFAULT_CONFIG_FILES)
	}
	if ctx.Options.Debug {
		app.Debug("addr: %s", ctx.Options.Addr)
	}
	if ctx.Client != nil {
		return nil
	}
	var httpClient *http.Client
	if ctx.Factories.HTTPClient != nil {
		var err error
		httpClient, err = ctx.Factories.HTTPClient.Make(*ctx)
		if err != nil {
			return fmt.Errorf("Error making http.Client: %s", err)
		}
	} else {
		httpClient = &http.Client{
			Timeout: time.Duration(ctx.Options.Timeout) * time.Millisecond,
		}
	}
	ctx.Client = manager.NewClient(httpClient, ctx.Options.Addr)
	return nil
}
