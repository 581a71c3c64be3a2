// Copyright 2020, Square, Inc.

// reformat-yaml rewrites a description file in the layout the manager saves
// applications in: keys sorted, defaults dropped, unknown fields removed.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/robotology/yarpmanager/manager/desc"
)

func main() {
	/* Process arguments. */
	args := os.Args
	if len(args) != 3 {
		fmt.Printf("Usage: %s [input file path] [output file path]\n", args[0])
		os.Exit(0)
	}
	filename := args[1]
	ofilename := args[2]

	if err := reformat(filename, ofilename); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func reformat(filename, ofilename string) error {
	printf := func(s string, args ...interface{}) { fmt.Printf(s, args...) }
	d, err := desc.ParseFile(filename, printf)
	if err != nil {
		return err
	}
	if err := desc.RunChecks(d, printf); err != nil {
		// Still written: the file is only reformatted, not fixed.
		fmt.Printf("%s: %s\n", filename, err)
	}
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(ofilename, data, 0644)
}
