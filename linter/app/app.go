// Copyright 2020, Square, Inc.

// Package app provides app-wide data structs and functions.
package app

import (
	"io"

	"github.com/robotology/yarpmanager/manager/desc"
	"github.com/robotology/yarpmanager/manager/diag"
	"github.com/robotology/yarpmanager/manager/kb"
)

// Context represents how to run linter. A context is passed to linter.Run().
// A default context is created in main.go. Wrapper code can integrate with
// linter by passing a custom context to linter.Run(). Integration is done
// primarily with hooks and factories.
type Context struct {
	Out io.Writer // where to print output (default: stdout)

	// for integration with other code
	Factories Factories
	Hooks     Hooks
}

type Factories struct {
	MakeKnowledgeBase func(diag.Sink) *kb.KnowledgeBase
}

type Hooks struct {
	LoadDescriptions func(dir string, logFunc func(string, ...interface{})) (desc.Descriptions, error)
}

func Defaults() Context {
	return Context{
		Factories: Factories{
			MakeKnowledgeBase: kb.New,
		},
		Hooks: Hooks{
			LoadDescriptions: desc.Parse,
		},
	}
}
