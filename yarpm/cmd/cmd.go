// Copyright 2017-2020, Square, Inc.

// Package cmd provides all the commands that yarpm can run: plan, show, etc.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robotology/yarpmanager/proto"
	"github.com/robotology/yarpmanager/yarpm/app"
)

var (
	ErrNotExist = errors.New("command does not exist")
)

type DefaultFactory struct {
}

func (f *DefaultFactory) Make(name string, ctx app.Context) (app.Command, error) {
	switch name {
	case "apps":
		return NewApps(ctx), nil
	case "help":
		return NewHelp(ctx), nil
	case "load":
		return NewLoad(ctx), nil
	case "ls":
		return NewLs(ctx), nil
	case "plan":
		return NewPlan(ctx), nil
	case "reload":
		return NewReload(ctx), nil
	case "save":
		return NewSave(ctx), nil
	case "show":
		return NewShow(ctx), nil
	case "version":
		return NewVersion(ctx), nil
	default:
		return nil, ErrNotExist
	}
}

// isNotFound returns true if err is a 404 from the manager API.
func isNotFound(err error) bool {
	e, ok := err.(proto.Error)
	return ok && e.HTTPStatus == 404
}

// printPlan prints a plan. Missing requirements are always printed;
// warnings and errors only if verbose.
func printPlan(out io.Writer, p proto.Plan, verbose bool) {
	fmt.Fprintf(out, "     id: %s\n", p.Id)
	fmt.Fprintf(out, "    app: %s\n", p.Application)
	fmt.Fprintf(out, "  state: %s\n", proto.StateName[p.State])
	fmt.Fprintf(out, "created: %s\n", p.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if p.State == proto.STATE_FAILED {
		return
	}

	if len(p.Modules) > 0 {
		w := 0
		for _, m := range p.Modules {
			if len(m.Label) > w {
				w = len(m.Label)
			}
		}
		line := fmt.Sprintf("  %%-%ds  %%s  %%s\n", w)
		fmt.Fprintf(out, "modules:\n")
		for _, m := range p.Modules {
			host := m.Host
			if host == "" {
				host = "-"
			}
			if m.Forced {
				host += "*"
			}
			fmt.Fprintf(out, line, m.Label, host, m.Prefix)
		}
	}

	if len(p.Connections) > 0 {
		fmt.Fprintf(out, "connections:\n")
		for _, c := range p.Connections {
			carrier := c.Carrier
			if carrier == "" {
				carrier = "tcp"
			}
			fmt.Fprintf(out, "  %s -> %s (%s)\n", c.From, c.To, carrier)
		}
	}

	missing := []proto.Resource{}
	used := []proto.Resource{}
	for _, r := range p.Resources {
		if r.Missing {
			missing = append(missing, r)
		} else {
			used = append(used, r)
		}
	}
	if len(used) > 0 {
		fmt.Fprintf(out, "resources:\n")
		for _, r := range used {
			fmt.Fprintf(out, "  %s\n", strings.TrimSpace(r.Label+" "+r.Type+" "+r.Version))
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(out, "missing:\n")
		for _, r := range missing {
			fmt.Fprintf(out, "  %s required by %s\n", strings.TrimSpace(r.Type+" "+r.Version), r.Owner)
		}
	}

	if verbose {
		for _, w := range p.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		for _, e := range p.Errors {
			fmt.Fprintf(out, "error: %s\n", e)
		}
	}
}
