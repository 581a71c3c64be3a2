// Copyright 2017-2020, Square, Inc.

package main

import (
	"fmt"
	"os"

	"github.com/robotology/yarpmanager/yarpm"
	"github.com/robotology/yarpmanager/yarpm/app"
)

func main() {
	defaultContext := app.Context{
		In:        os.Stdin,
		Out:       os.Stdout,
		Hooks:     app.Hooks{},
		Factories: app.Factories{},
	}
	if err := yarpm.Run(defaultContext); err != nil {
		if err != app.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
