// Copyright 2020, Square, Inc.

package graph

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

const COMPUTER_TYPE = "computer"

// Resource is a generic capability. Without an owner it is offered by the
// environment (a provider); with an owner it is needed by that module or
// application (a requirement). For requirements, Version is a semver
// constraint ("~1.2", ">=2.0.0"); for providers it is the offered version.
type Resource struct {
	NodeBase
	Name        string
	Type        string
	Version     string
	Description string
	Disabled    bool
	Required    bool
}

func (r *Resource) Kind() Kind { return KIND_RESOURCE }

func (r *Resource) Clone() Node {
	c := *r
	c.NodeBase = r.cloneBase()
	return &c
}

// LoadAverage is the 1, 5 and 15 minute load average of a computer.
type LoadAverage struct {
	One     float64
	Five    float64
	Fifteen float64
}

type Platform struct {
	Name         string // e.g. linux
	Distribution string // e.g. ubuntu
	Release      string // version on a provider, constraint on a requirement
}

// Computer is a machine that can host modules. As a requirement, zero-valued
// fields do not constrain the match; Memory and Cores are minimums.
type Computer struct {
	Resource
	Arch        string
	Memory      uint64 // MB
	Cores       int
	Siblings    int // execution units sharing the load
	Platform    Platform
	Load        LoadAverage
	Peripherals []*Resource
}

func (c *Computer) Kind() Kind { return KIND_COMPUTER }

func (c *Computer) Clone() Node {
	cc := *c
	cc.NodeBase = c.cloneBase()
	cc.Peripherals = make([]*Resource, len(c.Peripherals))
	for i, p := range c.Peripherals {
		cc.Peripherals[i] = p.Clone().(*Resource)
	}
	return &cc
}

// NewComputer returns a provider computer named after host.
func NewComputer(host string) *Computer {
	c := &Computer{
		Resource: Resource{Name: host, Type: COMPUTER_TYPE},
	}
	c.SetLabel(host)
	return c
}

// MultiResource aggregates all requirements of one owner so that the owner has
// a single dependency edge. A provider satisfies it only when it satisfies
// every required constituent.
type MultiResource struct {
	NodeBase
	Name      string
	Resources []Node // *Resource or *Computer
}

func (m *MultiResource) Kind() Kind { return KIND_MULTI_RESOURCE }

func (m *MultiResource) Clone() Node {
	c := *m
	c.NodeBase = m.cloneBase()
	c.Resources = cloneNodes(m.Resources)
	return &c
}

// IsResource returns true for the resource kinds: Resource, Computer and
// MultiResource.
func IsResource(n Node) bool {
	switch n.Kind() {
	case KIND_RESOURCE, KIND_COMPUTER, KIND_MULTI_RESOURCE:
		return true
	}
	return false
}

// IsProvider returns true if n is an ownerless resource.
func IsProvider(n Node) bool {
	return IsResource(n) && n.Owner() == ""
}

// Satisfies returns true if provider offers what requirement asks for.
func Satisfies(provider, requirement Node) bool {
	if disabled(provider) {
		return false
	}
	switch req := requirement.(type) {
	case *MultiResource:
		for _, r := range req.Resources {
			if !required(r) {
				continue
			}
			if !Satisfies(provider, r) {
				return false
			}
		}
		return true
	case *Computer:
		p, ok := provider.(*Computer)
		if !ok {
			return false
		}
		return p.satisfiesComputer(req)
	case *Resource:
		switch p := provider.(type) {
		case *Resource:
			return p.matches(req)
		case *Computer:
			if p.Resource.matches(req) {
				return true
			}
			for _, per := range p.Peripherals {
				if !per.Disabled && per.matches(req) {
					return true
				}
			}
		}
	}
	return false
}

func (r *Resource) matches(req *Resource) bool {
	if r.Type != req.Type {
		return false
	}
	if req.Name != "" && req.Name != r.Name {
		return false
	}
	return versionOK(r.Version, req.Version)
}

func (c *Computer) satisfiesComputer(req *Computer) bool {
	if req.Name != "" && req.Name != c.Name {
		return false
	}
	if req.Arch != "" && !strings.EqualFold(req.Arch, c.Arch) {
		return false
	}
	if req.Platform.Name != "" && !strings.EqualFold(req.Platform.Name, c.Platform.Name) {
		return false
	}
	if req.Platform.Distribution != "" && !strings.EqualFold(req.Platform.Distribution, c.Platform.Distribution) {
		return false
	}
	if !versionOK(c.Platform.Release, req.Platform.Release) {
		return false
	}
	if req.Memory > c.Memory || req.Cores > c.Cores {
		return false
	}
	for _, want := range req.Peripherals {
		if !want.Required {
			continue
		}
		found := false
		for _, have := range c.Peripherals {
			if !have.Disabled && have.matches(want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// versionOK checks have against the constraint want. Values that are not
// valid semver fall back to exact string comparison.
func versionOK(have, want string) bool {
	if want == "" {
		return true
	}
	if have == "" {
		return false
	}
	c, err := semver.NewConstraint(want)
	if err != nil {
		return have == want
	}
	v, err := semver.NewVersion(have)
	if err != nil {
		return have == want
	}
	return c.Check(v)
}

func required(n Node) bool {
	switch r := n.(type) {
	case *Resource:
		return r.Required
	case *Computer:
		return r.Required
	}
	return true
}

func disabled(n Node) bool {
	switch r := n.(type) {
	case *Resource:
		return r.Disabled
	case *Computer:
		return r.Disabled
	}
	return false
}
