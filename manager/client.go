// Copyright 2017-2020, Square, Inc.

// Package manager provides an HTTP client for interacting with the manager API.
package manager

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/robotology/yarpmanager/proto"
)

// A Client is an HTTP client used for interacting with the manager API.
type Client interface {
	// CreatePlan resolves an application into a new plan. A nil
	// autoDependency uses the manager default.
	CreatePlan(app string, autoDependency *bool, silent bool) (proto.Plan, error)

	// GetPlan returns the plan with the given id.
	GetPlan(planId string) (proto.Plan, error)

	// ListPlans returns plans matching the filter, newest first.
	ListPlans(proto.PlanFilter) ([]proto.Plan, error)

	// Applications returns the catalog applications.
	Applications() ([]proto.ApplicationSpec, error)

	// Application returns one catalog application.
	Application(name string) (proto.ApplicationSpec, error)

	// SaveApplication writes a catalog application to its description file.
	SaveApplication(name string) error

	// UpdateLoad reports the load average of a computer.
	UpdateLoad(computer string, load proto.LoadUpdate) error

	// Reload makes the manager re-read its catalog.
	Reload() error

	// Version returns the manager version.
	Version() (string, error)
}

type client struct {
	*http.Client
	baseUrl string
}

// NewClient takes an http.Client and base API URL and creates a Client.
func NewClient(c *http.Client, baseUrl string) Client {
	return &client{
		Client:  c,
		baseUrl: baseUrl,
	}
}

func (c *client) CreatePlan(app string, autoDependency *bool, silent bool) (proto.Plan, error) {
	// POST /api/v1/plans
	url := c.baseUrl + "/api/v1/plans"

	params := proto.CreatePlan{
		Application:    app,
		AutoDependency: autoDependency,
		Silent:         silent,
	}

	var p proto.Plan
	err := c.makeRequest("POST", url, params, http.StatusCreated, &p)
	return p, err
}

func (c *client) GetPlan(planId string) (proto.Plan, error) {
	// GET /api/v1/plans/${planId}
	url := c.baseUrl + "/api/v1/plans/" + planId

	var p proto.Plan
	err := c.makeRequest("GET", url, nil, http.StatusOK, &p)
	return p, err
}

func (c *client) ListPlans(f proto.PlanFilter) ([]proto.Plan, error) {
	// GET /api/v1/plans?application=...&state=...&limit=...
	url := c.baseUrl + "/api/v1/plans" + f.String()

	var plans []proto.Plan
	err := c.makeRequest("GET", url, nil, http.StatusOK, &plans)
	return plans, err
}

func (c *client) Applications() ([]proto.ApplicationSpec, error) {
	// GET /api/v1/applications
	url := c.baseUrl + "/api/v1/applications"

	var apps []proto.ApplicationSpec
	err := c.makeRequest("GET", url, nil, http.StatusOK, &apps)
	return apps, err
}

func (c *client) Application(name string) (proto.ApplicationSpec, error) {
	// GET /api/v1/applications/${name}
	url := c.baseUrl + "/api/v1/applications/" + url.PathEscape(name)

	var app proto.ApplicationSpec
	err := c.makeRequest("GET", url, nil, http.StatusOK, &app)
	return app, err
}

func (c *client) SaveApplication(name string) error {
	// POST /api/v1/applications/${name}/save
	url := c.baseUrl + "/api/v1/applications/" + url.PathEscape(name) + "/save"

	return c.makeRequest("POST", url, nil, http.StatusOK, nil)
}

func (c *client) UpdateLoad(computer string, load proto.LoadUpdate) error {
	// PUT /api/v1/resources/${computer}/load
	url := c.baseUrl + "/api/v1/resources/" + url.PathEscape(computer) + "/load"

	return c.makeRequest("PUT", url, load, http.StatusOK, nil)
}

func (c *client) Reload() error {
	// POST /api/v1/catalog/reload
	url := c.baseUrl + "/api/v1/catalog/reload"

	return c.makeRequest("POST", url, nil, http.StatusOK, nil)
}

func (c *client) Version() (string, error) {
	resp, err := c.Client.Get(c.baseUrl + "/version")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unsuccessful status code: %d (response body: %s)", resp.StatusCode, string(body))
	}
	return string(body), nil
}

// ------------------------------------------------------------------------- //

// makeRequest is a helper function for making HTTP requests. The httpVerb, url,
// and expectedStatusCode arguments are self explanatory. If the payloadStruct
// argument is provided (if it's not nil), the struct will be marshalled into
// JSON and sent as the payload of the request. If the respStruct argument is
// provided (if it's not nil), the response body of the request will be
// unmarshalled into the struct pointed to by it. If the manager returns a
// proto.Error, it is returned as the error.
func (c *client) makeRequest(httpVerb, url string, payloadStruct interface{}, expectedStatusCode int, respStruct interface{}) error {
	// Marshal payload.
	var payload []byte
	var err error
	if payloadStruct != nil {
		payload, err = json.Marshal(payloadStruct)
		if err != nil {
			return err
		}
	}

	// Create the request.
	req, err := http.NewRequest(httpVerb, url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}

	// Send the request.
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Read the response body.
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Check the status code.
	if resp.StatusCode != expectedStatusCode {
		var perr proto.Error
		if err := json.Unmarshal(body, &perr); err == nil && perr.Message != "" {
			perr.HTTPStatus = resp.StatusCode
			return perr
		}
		return fmt.Errorf("unsuccessful status code: %d (response body: %s)",
			resp.StatusCode, string(body))
	}

	// Unmarshal the body into the struct pointed to by the respStruct argument.
	if respStruct != nil && len(body) > 0 {
		if err = json.Unmarshal(body, respStruct); err != nil {
			return err
		}
	}

	return nil
}
