// Copyright 2017-2020, Square, Inc.

package main

import (
	"fmt"
	"os"

	"github.com/robotology/yarpmanager/linter"
	"github.com/robotology/yarpmanager/linter/app"
)

func main() {
	if err := linter.Run(app.Defaults(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("No errors")
}
