// Copyright 2020, Square, Inc.

// Package linter checks description directories the way the manager loads
// them, and optionally resolves one application.
package linter

import (
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/robotology/yarpmanager/linter/app"
	"github.com/robotology/yarpmanager/manager/desc"
)

type options struct {
	Dirs           []string `arg:"positional,required" help:"description directories, in catalog order"`
	Resolve        string   `help:"application to resolve after the checks"`
	AutoDependency bool     `arg:"--auto-dependency" help:"fail an application when anything it includes fails"`
	Dot            string   `help:"write the resolved graph in DOT format to this file, - for stdout"`
}

// printer reports knowledge base diagnostics through printf.
type printer func(string, ...interface{})

func (p printer) Warning(msg string) { p("Warning: %s", msg) }
func (p printer) Error(msg string)   { p("Error: %s", msg) }

// Run lints the directories named in args, which excludes the program name.
func Run(ctx app.Context, args []string) error {
	/* Setup. */
	var opts options
	p, err := arg.NewParser(arg.Config{Program: "yarpm-linter"}, &opts)
	if err != nil {
		return err
	}
	if err := p.Parse(args); err != nil {
		return err
	}
	if ctx.Out == nil {
		ctx.Out = os.Stdout
	}
	def := app.Defaults()
	if ctx.Hooks.LoadDescriptions == nil {
		ctx.Hooks.LoadDescriptions = def.Hooks.LoadDescriptions
	}
	if ctx.Factories.MakeKnowledgeBase == nil {
		ctx.Factories.MakeKnowledgeBase = def.Factories.MakeKnowledgeBase
	}
	printf := func(s string, args ...interface{}) { fmt.Fprintf(ctx.Out, s+"\n", args...) }

	/* Static checks. */
	failed := false
	for _, dir := range opts.Dirs {
		d, err := ctx.Hooks.LoadDescriptions(dir, printf)
		if err != nil {
			return err
		}
		if err := desc.RunChecks(d, printf); err != nil {
			failed = true // RunChecks prints details for us
		}
	}
	if failed {
		return fmt.Errorf("static check failed")
	}

	/* Catalog checks. */
	k := ctx.Factories.MakeKnowledgeBase(printer(printf))
	l := desc.NewDirsLoader(opts.Dirs, printf)
	if !k.CreateFrom(l, l, l) {
		return fmt.Errorf("catalog cannot be loaded")
	}
	if !k.CheckConsistency() {
		return fmt.Errorf("consistency check failed") // knowledge base prints details for us
	}

	if opts.Resolve == "" {
		return nil
	}

	/* Resolution. */
	if k.Application(opts.Resolve) == nil {
		return fmt.Errorf("application %s is not in the catalog", opts.Resolve)
	}
	ok := k.ResolveDependency(opts.Resolve, opts.AutoDependency, false)
	if opts.Dot != "" {
		if err := writeDot(ctx.Out, opts.Dot, k.WorkingGraph()); err != nil {
			return err
		}
	}
	if !ok {
		return fmt.Errorf("application %s cannot be resolved", opts.Resolve)
	}
	for _, m := range k.Modules("") {
		printf("%s on %s", m.Label(), m.Host)
	}
	return nil
}

type dotWriter interface {
	WriteDot(io.Writer)
}

func writeDot(out io.Writer, file string, g dotWriter) error {
	if file == "-" {
		g.WriteDot(out)
		return nil
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	g.WriteDot(f)
	return nil
}
