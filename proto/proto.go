// Copyright 2017-2020, Square, Inc.

// Package proto provide API message structures and constants.
package proto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	STATE_UNKNOWN byte = iota

	STATE_RESOLVED // every required dependency is satisfied
	STATE_PARTIAL  // resolved, but some requirements have no provider
	STATE_FAILED   // not resolved in time
)

var StateName = map[byte]string{
	STATE_UNKNOWN:  "UNKNOWN",
	STATE_RESOLVED: "RESOLVED",
	STATE_PARTIAL:  "PARTIAL",
	STATE_FAILED:   "FAILED",
}

var StateValue = map[string]byte{
	"UNKNOWN":  STATE_UNKNOWN,
	"RESOLVED": STATE_RESOLVED,
	"PARTIAL":  STATE_PARTIAL,
	"FAILED":   STATE_FAILED,
}

// Plan is the deployment plan of one application: where every module runs,
// which resources serve them and which ports to connect.
type Plan struct {
	Id             string    `json:"id"`             // unique identifier for the plan
	Application    string    `json:"application"`    // catalog name of the root application
	State          byte      `json:"state"`          // STATE_* const
	AutoDependency bool      `json:"autoDependency"` // nested failures fail the parent
	CreatedAt      time.Time `json:"createdAt"`      // when the plan was resolved

	Applications []Application `json:"applications"`
	Modules      []Module      `json:"modules"`
	Resources    []Resource    `json:"resources"`
	Connections  []Connection  `json:"connections"`

	Warnings []string `json:"warnings,omitempty"` // diagnostics reported while resolving
	Errors   []string `json:"errors,omitempty"`
}

// Application is one application instance in a plan.
type Application struct {
	Label     string `json:"label"`           // unique within the plan
	Name      string `json:"name"`            // catalog name
	Owner     string `json:"owner,omitempty"` // label of the including application
	Prefix    string `json:"prefix"`
	Satisfied bool   `json:"satisfied"`
}

// Module is one module instance in a plan.
type Module struct {
	Label      string `json:"label"`
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	Prefix     string `json:"prefix"`
	Host       string `json:"host"`   // empty if no computer was required
	Forced     bool   `json:"forced"` // host pinned by the application
	Rank       int    `json:"rank,omitempty"`
	Broker     string `json:"broker,omitempty"`
	Parameters string `json:"parameters,omitempty"`
	Satisfied  bool   `json:"satisfied"`
	Inputs     []Port `json:"inputs,omitempty"`
	Outputs    []Port `json:"outputs,omitempty"`
}

type Port struct {
	Port     string `json:"port"`
	Carrier  string `json:"carrier,omitempty"`
	Type     string `json:"type,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Resource is a provider selected for a plan or, if Missing is true, a
// requirement nothing provides.
type Resource struct {
	Label   string  `json:"label,omitempty"`
	Name    string  `json:"name,omitempty"`
	Type    string  `json:"type"`
	Version string  `json:"version,omitempty"`
	Owner   string  `json:"owner,omitempty"` // requiring module or application, if Missing
	Missing bool    `json:"missing,omitempty"`
	Load    float64 `json:"load,omitempty"` // computers only
}

type Connection struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Carrier    string `json:"carrier,omitempty"`
	Owner      string `json:"owner"`
	Priority   bool   `json:"priority,omitempty"`
	Persistent bool   `json:"persistent,omitempty"`
}

// CreatePlan represents the payload to resolve an application into a plan.
type CreatePlan struct {
	Application    string `json:"application"`              // catalog name of the application
	AutoDependency *bool  `json:"autoDependency,omitempty"` // nested failures fail the parent, nil for the manager default
	Silent         bool   `json:"silent"`                   // do not report unsatisfied requirements
}

// ApplicationSpec is a catalog application.
type ApplicationSpec struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Version      string   `json:"version,omitempty"`
	Prefix       string   `json:"prefix,omitempty"`
	Modules      []string `json:"modules"`      // names of the included modules
	Applications []string `json:"applications"` // names of the included applications
	Connections  int      `json:"connections"`
}

// LoadUpdate represents the payload to report the load of a computer.
type LoadUpdate struct {
	One     float64 `json:"one"`
	Five    float64 `json:"five"`
	Fifteen float64 `json:"fifteen"`
}

// PlanFilter represents optional filters for listing plans.
type PlanFilter struct {
	Application string
	State       byte
	Limit       uint
}

// String returns the URL query of f, "" if f filters nothing.
func (f PlanFilter) String() string {
	v := []string{}
	if f.Application != "" {
		v = append(v, "application="+url.QueryEscape(f.Application))
	}
	if f.State != STATE_UNKNOWN {
		v = append(v, "state="+strings.ToLower(StateName[f.State]))
	}
	if f.Limit != 0 {
		v = append(v, "limit="+strconv.FormatUint(uint64(f.Limit), 10))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + strings.Join(v, "&")
}

// Error is the standard response for all handled errors. Client errors (HTTP 400
// codes) and internal errors (HTTP 500 codes) are returned as an Error, if handled.
// If not handled (API crash, panic, etc.), the manager returns an HTTP 500 code and the
// response data is undefined; the client should print any response data as a string.
type Error struct {
	Message    string `json:"message"`    // human-readable and loggable error message
	Entity     string `json:"entity"`     // plan id or application name that caused the error, if any
	HTTPStatus int    `json:"httpStatus"` // HTTP status code
}

func NewError(msgFmt string, msgArgs ...interface{}) Error {
	e := Error{}
	if msgFmt != "" {
		e.Message = fmt.Sprintf(msgFmt, msgArgs...)
	}
	return e
}

func (e Error) String() string {
	return e.Message
}

func (e Error) Error() string {
	return e.Message
}
