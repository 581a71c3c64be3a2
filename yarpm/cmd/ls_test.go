// Copyright 2020, Square, Inc.

package cmd_test

import (
	"bytes"
	"testing"

	"github.com/go-test/deep"

	"github.com/robotology/yarpmanager/proto"
	"github.com/robotology/yarpmanager/test/mock"
	"github.com/robotology/yarpmanager/yarpm/app"
	"github.com/robotology/yarpmanager/yarpm/cmd"
	"github.com/robotology/yarpmanager/yarpm/config"
)

func TestLs(t *testing.T) {
	output := &bytes.Buffer{}
	var gotFilter proto.PlanFilter
	client := &mock.Client{
		ListPlansFunc: func(f proto.PlanFilter) ([]proto.Plan, error) {
			gotFilter = f
			return []proto.Plan{testPlan}, nil
		},
	}
	ctx := app.Context{
		Out:     output,
		Client:  client,
		Options: config.Options{State: "partial", Limit: 5},
		Command: config.Command{
			Cmd:  "ls",
			Args: []string{"robot"},
		},
	}
	ls := cmd.NewLs(ctx)
	if err := ls.Prepare(); err != nil {
		t.Fatal(err)
	}
	if err := ls.Run(); err != nil {
		t.Fatal(err)
	}
	expectFilter := proto.PlanFilter{Application: "robot", State: proto.STATE_PARTIAL, Limit: 5}
	if diff := deep.Equal(gotFilter, expectFilter); diff != nil {
		t.Error(diff)
	}
	checkOutput(t, output.String(),
		"ID                    APP                   STATE     MODULES  MISSING  CREATED\n"+
			"c0ffee                robot                 PARTIAL         2        1  2020-03-01 12:00:00 UTC\n")
}

func TestLsEmpty(t *testing.T) {
	output := &bytes.Buffer{}
	ctx := app.Context{
		Out:     output,
		Client:  &mock.Client{},
		Command: config.Command{Cmd: "ls"},
	}
	ls := cmd.NewLs(ctx)
	ls.Prepare()
	if err := ls.Run(); err != nil {
		t.Fatal(err)
	}
	if output.Len() != 0 {
		t.Errorf("got output %q, expected none", output.String())
	}
}

func TestLsBadState(t *testing.T) {
	ctx := app.Context{
		Options: config.Options{State: "running"},
		Command: config.Command{Cmd: "ls"},
	}
	if err := cmd.NewLs(ctx).Prepare(); err == nil {
		t.Error("no error for invalid state")
	}
}

func TestLsError(t *testing.T) {
	ctx := app.Context{
		Out: &bytes.Buffer{},
		Client: &mock.Client{
			ListPlansFunc: func(proto.PlanFilter) ([]proto.Plan, error) {
				return nil, mock.ErrClient
			},
		},
		Command: config.Command{Cmd: "ls"},
	}
	ls := cmd.NewLs(ctx)
	ls.Prepare()
	if err := ls.Run(); err != mock.ErrClient {
		t.Errorf("got err %v, expected mock.ErrClient", err)
	}
}
