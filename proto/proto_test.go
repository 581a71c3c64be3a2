// Copyright 2019-2020, Square, Inc.

package proto_test

import (
	"testing"

	"github.com/robotology/yarpmanager/proto"
)

func TestPlanFilterString(t *testing.T) {
	f := proto.PlanFilter{}
	expect := ""
	got := f.String()
	if got != expect {
		t.Errorf("got '%s', expected '%s'", got, expect)
	}

	f = proto.PlanFilter{Application: "robot"}
	expect = "?application=robot"
	got = f.String()
	if got != expect {
		t.Errorf("got '%s', expected '%s'", got, expect)
	}

	f = proto.PlanFilter{Application: "robot demo", State: proto.STATE_PARTIAL, Limit: 5}
	expect = "?application=robot+demo&state=partial&limit=5"
	got = f.String()
	if got != expect {
		t.Errorf("got '%s', expected '%s'", got, expect)
	}
}
