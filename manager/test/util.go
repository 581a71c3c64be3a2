// Copyright 2017-2020, Square, Inc.

// Package test provides paths and settings shared by the manager tests.
package test

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
)

var (
	DescPath   string // Where test description files are stored.
	SchemaFile string // The path to the plan db schema.
	MySQLDSN   string // MySQL DSN, empty disables the MySQL tests
)

func init() {
	_, filename, _, _ := runtime.Caller(0)
	DescPath, _ = filepath.Abs(path.Join(filepath.Dir(filename), "descriptions/"))
	SchemaFile, _ = filepath.Abs(path.Join(filepath.Dir(filename), "../resources/plan_schema.sql"))
	MySQLDSN = os.Getenv("YARPM_TEST_MYSQL_DSN")
}
