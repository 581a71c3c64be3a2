// Copyright 2017-2020, Square, Inc.

package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-test/deep"

	serr "github.com/robotology/yarpmanager/errors"
	"github.com/robotology/yarpmanager/manager/api"
	"github.com/robotology/yarpmanager/manager/app"
	"github.com/robotology/yarpmanager/proto"
	testutil "github.com/robotology/yarpmanager/test"
	"github.com/robotology/yarpmanager/test/mock"
)

var server *httptest.Server

func setup(pm *mock.PlanManager) {
	appCtx := app.Defaults()
	appCtx.Plans = pm
	server = httptest.NewServer(api.NewAPI(appCtx))
}

func cleanup() {
	server.CloseClientConnections()
	server.Close()
}

func baseURL() string {
	if server != nil {
		return server.URL + api.API_ROOT
	}
	return api.API_ROOT
}

// //////////////////////////////////////////////////////////////////////////
// Tests
// //////////////////////////////////////////////////////////////////////////

func TestCreatePlanHandlerInvalidPayload(t *testing.T) {
	payload := `"bad":"json"}` // Bad payload.
	setup(&mock.PlanManager{})
	defer cleanup()

	statusCode, _, err := testutil.MakeHTTPRequest("POST", baseURL()+"plans", []byte(payload), nil)
	if err != nil {
		t.Fatal(err)
	}
	if statusCode != http.StatusBadRequest {
		t.Errorf("response status = %d, expected %d", statusCode, http.StatusBadRequest)
	}
}

func TestCreatePlanHandlerSuccess(t *testing.T) {
	payload := `{"application":"robot","autoDependency":false}`
	p := proto.Plan{
		Id:          "bq5d7",
		Application: "robot",
		State:       proto.STATE_RESOLVED,
		CreatedAt:   time.Date(2020, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	var got proto.CreatePlan
	pm := &mock.PlanManager{
		CreateFunc: func(cp proto.CreatePlan) (proto.Plan, error) {
			got = cp
			return p, nil
		},
	}
	setup(pm)
	defer cleanup()

	var actual proto.Plan
	statusCode, headers, err := testutil.MakeHTTPRequest("POST", baseURL()+"plans", []byte(payload), &actual)
	if err != nil {
		t.Fatal(err)
	}
	if statusCode != http.StatusCreated {
		t.Errorf("response status = %d, expected %d", statusCode, http.StatusCreated)
	}
	no := false
	if diff := deep.Equal(got, proto.CreatePlan{Application: "robot", AutoDependency: &no}); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(actual, p); diff != nil {
		t.Error(diff)
	}
	if loc := headers.Get("Location"); loc != api.API_ROOT+"plans/bq5d7" {
		t.Errorf("location = %s, expected %s", loc, api.API_ROOT+"plans/bq5d7")
	}
}

func TestCreatePlanHandlerErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		entity string
	}{
		{serr.ApplicationNotFound{Name: "nope"}, http.StatusNotFound, "nope"},
		{serr.ErrInvalidCreatePlan{Message: "application is not set"}, http.StatusBadRequest, ""},
		{serr.ErrResolveTimeout{Application: "robot", Timeout: time.Second}, http.StatusGatewayTimeout, "robot"},
		{mock.ErrPlanManager, http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		pm := &mock.PlanManager{
			CreateFunc: func(proto.CreatePlan) (proto.Plan, error) {
				return proto.Plan{}, tt.err
			},
		}
		setup(pm)

		var perr proto.Error
		statusCode, _, err := testutil.MakeHTTPRequest("POST", baseURL()+"plans", []byte(`{"application":"x"}`), &perr)
		cleanup()
		if err != nil {
			t.Fatal(err)
		}
		if statusCode != tt.status {
			t.Errorf("%v: response status = %d, expected %d", tt.err, statusCode, tt.status)
		}
		expect := proto.Error{Message: tt.err.Error(), Entity: tt.entity, HTTPStatus: tt.status}
		if perr != expect {
			t.Errorf("error = %#v, expected %#v", perr, expect)
		}
	}
}

func TestGetPlanHandlerNotFound(t *testing.T) {
	pm := &mock.PlanManager{
		GetFunc: func(planId string) (proto.Plan, error) {
			return proto.Plan{}, serr.PlanNotFound{PlanId: planId}
		},
	}
	setup(pm)
	defer cleanup()

	statusCode, _, err := testutil.MakeHTTPRequest("GET", baseURL()+"plans/abc", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if statusCode != http.StatusNotFound {
		t.Errorf("response status = %d, expected %d", statusCode, http.StatusNotFound)
	}
}

func TestListPlansHandler(t *testing.T) {
	var got proto.PlanFilter
	pm := &mock.PlanManager{
		ListFunc: func(f proto.PlanFilter) ([]proto.Plan, error) {
			got = f
			return []proto.Plan{{Id: "b"}, {Id: "a"}}, nil
		},
	}
	setup(pm)
	defer cleanup()

	var plans []proto.Plan
	statusCode, _, err := testutil.MakeHTTPRequest("GET", baseURL()+"plans?application=robot&state=partial&limit=5", nil, &plans)
	if err != nil {
		t.Fatal(err)
	}
	if statusCode != http.StatusOK {
		t.Errorf("response status = %d, expected %d", statusCode, http.StatusOK)
	}
	expect := proto.PlanFilter{Application: "robot", State: proto.STATE_PARTIAL, Limit: 5}
	if diff := deep.Equal(got, expect); diff != nil {
		t.Error(diff)
	}
	if len(plans) != 2 {
		t.Errorf("got %d plans, expected 2", len(plans))
	}

	for _, q := range []string{"state=done", "limit=-1"} {
		statusCode, _, err := testutil.MakeHTTPRequest("GET", baseURL()+"plans?"+q, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if statusCode != http.StatusBadRequest {
			t.Errorf("%s: response status = %d, expected %d", q, statusCode, http.StatusBadRequest)
		}
	}
}

func TestApplicationHandlers(t *testing.T) {
	vision := proto.ApplicationSpec{Name: "vision", Modules: []string{"camera", "viewer"}, Applications: []string{}, Connections: 1}
	pm := &mock.PlanManager{
		ApplicationsFunc: func() []proto.ApplicationSpec {
			return []proto.ApplicationSpec{vision}
		},
		ApplicationFunc: func(name string) (proto.ApplicationSpec, error) {
			if name != "vision" {
				return proto.ApplicationSpec{}, serr.ApplicationNotFound{Name: name}
			}
			return vision, nil
		},
	}
	setup(pm)
	defer cleanup()

	var apps []proto.ApplicationSpec
	statusCode, _, err := testutil.MakeHTTPRequest("GET", baseURL()+"applications", nil, &apps)
	if err != nil {
		t.Fatal(err)
	}
	if statusCode != http.StatusOK {
		t.Errorf("response status = %d, expected %d", statusCode, http.StatusOK)
	}
	if diff := deep.Equal(apps, []proto.ApplicationSpec{vision}); diff != nil {
		t.Error(diff)
	}

	statusCode, _, err = testutil.MakeHTTPRequest("GET", baseURL()+"applications/nope", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if statusCode != http.StatusNotFound {
		t.Errorf("response status = %d, expected %d", statusCode, http.StatusNotFound)
	}
}

func TestSaveApplicationHandler(t *testing.T) {
	var saved string
	pm := &mock.PlanManager{
		SaveApplicationFunc: func(name string) error {
			saved = name
			if name == "ro" {
				return serr.ErrSaveFailed{Application: name}
			}
			return nil
		},
	}
	setup(pm)
	defer cleanup()

	statusCode, _, err := testutil.MakeHTTPRequest("POST", baseURL()+"applications/robot/save", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if statusCode != http.StatusOK || saved != "robot" {
		t.Errorf("response status = %d, saved %s; expected 200, robot", statusCode, saved)
	}

	statusCode, _, err = testutil.MakeHTTPRequest("POST", baseURL()+"applications/ro/save", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if statusCode != http.StatusInternalServerError {
		t.Errorf("response status = %d, expected %d", statusCode, http.StatusInternalServerError)
	}
}

func TestUpdateLoadHandler(t *testing.T) {
	var computer string
	var load proto.LoadUpdate
	pm := &mock.PlanManager{
		UpdateLoadFunc: func(name string, l proto.LoadUpdate) error {
			if name == "nope" {
				return serr.ResourceNotFound{Name: name}
			}
			computer, load = name, l
			return nil
		},
	}
	setup(pm)
	defer cleanup()

	statusCode, _, err := testutil.MakeHTTPRequest("PUT", baseURL()+"resources/icub1/load", []byte(`{"one":0.5,"five":0.25,"fifteen":0.125}`), nil)
	if err != nil {
		t.Fatal(err)
	}
	if statusCode != http.StatusOK {
		t.Errorf("response status = %d, expected %d", statusCode, http.StatusOK)
	}
	if computer != "icub1" {
		t.Errorf("computer = %s, expected icub1", computer)
	}
	if diff := deep.Equal(load, proto.LoadUpdate{One: 0.5, Five: 0.25, Fifteen: 0.125}); diff != nil {
		t.Error(diff)
	}

	statusCode, _, _ = testutil.MakeHTTPRequest("PUT", baseURL()+"resources/icub1/load", []byte(`{"one":-1}`), nil)
	if statusCode != http.StatusBadRequest {
		t.Errorf("response status = %d, expected %d", statusCode, http.StatusBadRequest)
	}
	statusCode, _, _ = testutil.MakeHTTPRequest("PUT", baseURL()+"resources/nope/load", []byte(`{"one":1}`), nil)
	if statusCode != http.StatusNotFound {
		t.Errorf("response status = %d, expected %d", statusCode, http.StatusNotFound)
	}
}

func TestMetaHandlers(t *testing.T) {
	setup(&mock.PlanManager{})
	defer cleanup()

	for _, path := range []string{"/version", "/metrics"} {
		res, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Errorf("%s: response status = %d, expected %d", path, res.StatusCode, http.StatusOK)
		}
		if path == "/version" && !strings.HasPrefix(res.Header.Get("X-Yarpm-Version"), "1.") {
			t.Errorf("version header = %q", res.Header.Get("X-Yarpm-Version"))
		}
	}
}
