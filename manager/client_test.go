// Copyright 2017-2020, Square, Inc.

package manager_test

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-test/deep"

	"github.com/robotology/yarpmanager/manager"
	"github.com/robotology/yarpmanager/proto"
)

var (
	ts     *httptest.Server
	path   string
	query  string
	method string
)

// setup creates a test http server that allows you to control the response to
// http calls via function arguments. It will record the path and the method for
// calls against it in global variables that can be accessed from tests. It will
// also unmarshal the payload it receives from a call into the struct that the
// "payloadStruct" argument points to.
func setup(t *testing.T, payloadStruct interface{}, responseStatus int, responseBody string) {
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.RawQuery
		method = r.Method

		if payloadStruct != nil {
			// Get the request payload.
			body, err := ioutil.ReadAll(r.Body)
			if err != nil {
				t.Fatal(err)
			}
			err = json.Unmarshal(body, &payloadStruct)
			if err != nil {
				t.Fatal(err)
			}
		}

		if responseBody != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(responseStatus)
		if responseBody != "" {
			fmt.Fprintln(w, responseBody)
		}
	}))
}

func cleanup() {
	ts.Close()
	ts = nil
	path = ""
	query = ""
	method = ""
}

// //////////////////////////////////////////////////////////////////////////
// Tests
// //////////////////////////////////////////////////////////////////////////

func TestCreatePlanError(t *testing.T) {
	setup(t, nil, http.StatusNotFound, `{"message":"application nope not found","entity":"nope","httpStatus":404}`)
	defer cleanup()
	c := manager.NewClient(&http.Client{}, ts.URL)

	_, err := c.CreatePlan("nope", nil, false)
	expect := proto.Error{Message: "application nope not found", Entity: "nope", HTTPStatus: 404}
	if err != expect {
		t.Errorf("err = %#v, expected %#v", err, expect)
	}
}

func TestCreatePlanSuccess(t *testing.T) {
	var payload proto.CreatePlan
	setup(t, &payload, http.StatusCreated, `{"id":"bq5d7","application":"robot","state":1,"modules":[{"label":"robot:tracker:1","name":"tracker","owner":"robot","prefix":"/tracker","host":"icub2","forced":false,"satisfied":true}]}`)
	defer cleanup()
	c := manager.NewClient(&http.Client{}, ts.URL)

	yes := true
	p, err := c.CreatePlan("robot", &yes, true)
	if err != nil {
		t.Fatal(err)
	}
	if path != "/api/v1/plans" || method != "POST" {
		t.Errorf("request = %s %s, expected POST /api/v1/plans", method, path)
	}
	expectPayload := proto.CreatePlan{Application: "robot", AutoDependency: &yes, Silent: true}
	if diff := deep.Equal(payload, expectPayload); diff != nil {
		t.Error(diff)
	}
	expect := proto.Plan{
		Id:          "bq5d7",
		Application: "robot",
		State:       proto.STATE_RESOLVED,
		Modules: []proto.Module{
			{Label: "robot:tracker:1", Name: "tracker", Owner: "robot", Prefix: "/tracker", Host: "icub2", Satisfied: true},
		},
	}
	if diff := deep.Equal(p, expect); diff != nil {
		t.Error(diff)
	}
}

func TestGetPlan(t *testing.T) {
	setup(t, nil, http.StatusOK, `{"id":"bq5d7","application":"robot","state":2}`)
	defer cleanup()
	c := manager.NewClient(&http.Client{}, ts.URL)

	p, err := c.GetPlan("bq5d7")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/api/v1/plans/bq5d7" || method != "GET" {
		t.Errorf("request = %s %s", method, path)
	}
	if p.Id != "bq5d7" || p.State != proto.STATE_PARTIAL {
		t.Errorf("got %+v", p)
	}
}

func TestListPlans(t *testing.T) {
	setup(t, nil, http.StatusOK, `[{"id":"b"},{"id":"a"}]`)
	defer cleanup()
	c := manager.NewClient(&http.Client{}, ts.URL)

	plans, err := c.ListPlans(proto.PlanFilter{Application: "robot", Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if path != "/api/v1/plans" || query != "application=robot&limit=2" {
		t.Errorf("request = %s?%s", path, query)
	}
	if len(plans) != 2 || plans[0].Id != "b" {
		t.Errorf("got %+v", plans)
	}
}

func TestApplications(t *testing.T) {
	setup(t, nil, http.StatusOK, `[{"name":"robot","modules":["tracker"],"applications":["vision","vision"],"connections":2}]`)
	defer cleanup()
	c := manager.NewClient(&http.Client{}, ts.URL)

	apps, err := c.Applications()
	if err != nil {
		t.Fatal(err)
	}
	expect := []proto.ApplicationSpec{
		{Name: "robot", Modules: []string{"tracker"}, Applications: []string{"vision", "vision"}, Connections: 2},
	}
	if diff := deep.Equal(apps, expect); diff != nil {
		t.Error(diff)
	}
}

func TestSaveApplication(t *testing.T) {
	setup(t, nil, http.StatusOK, "")
	defer cleanup()
	c := manager.NewClient(&http.Client{}, ts.URL)

	if err := c.SaveApplication("robot"); err != nil {
		t.Fatal(err)
	}
	if path != "/api/v1/applications/robot/save" || method != "POST" {
		t.Errorf("request = %s %s", method, path)
	}
}

func TestUpdateLoad(t *testing.T) {
	var payload proto.LoadUpdate
	setup(t, &payload, http.StatusOK, "")
	defer cleanup()
	c := manager.NewClient(&http.Client{}, ts.URL)

	load := proto.LoadUpdate{One: 0.5, Five: 0.25, Fifteen: 0.125}
	if err := c.UpdateLoad("icub1", load); err != nil {
		t.Fatal(err)
	}
	if path != "/api/v1/resources/icub1/load" || method != "PUT" {
		t.Errorf("request = %s %s", method, path)
	}
	if diff := deep.Equal(payload, load); diff != nil {
		t.Error(diff)
	}
}

func TestUnexpectedStatus(t *testing.T) {
	setup(t, nil, http.StatusInternalServerError, "")
	defer cleanup()
	c := manager.NewClient(&http.Client{}, ts.URL)

	if err := c.Reload(); err == nil {
		t.Error("expected an error but did not get one")
	}
}
