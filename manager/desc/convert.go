// Copyright 2020, Square, Inc.

package desc

import (
	"github.com/robotology/yarpmanager/manager/graph"
)

// Module returns the catalog module described by s.
func (s *ModuleSpec) Module() *graph.Module {
	m := &graph.Module{
		Name:        s.Name,
		Description: s.Description,
		Version:     s.Version,
		Rank:        s.Rank,
		Broker:      s.Broker,
		Parameters:  s.Parameters,
	}
	for _, in := range s.Inputs {
		m.Inputs = append(m.Inputs, &graph.InputData{
			Port:        in.Port,
			Carrier:     in.Carrier,
			Type:        in.Type,
			Required:    in.Required,
			Priority:    in.Priority,
			Description: in.Description,
		})
	}
	for _, out := range s.Outputs {
		m.Outputs = append(m.Outputs, &graph.OutputData{
			Port:        out.Port,
			Carrier:     out.Carrier,
			Type:        out.Type,
			Description: out.Description,
		})
	}
	m.Resources = requirements(s.Requires)
	m.SetLabel(s.Name)
	return m
}

// Application returns the catalog application described by s.
func (s *AppSpec) Application() *graph.Application {
	app := &graph.Application{
		Name:        s.Name,
		Description: s.Description,
		Version:     s.Version,
		Prefix:      s.Prefix,
		Model:       s.Model,
	}
	for _, ref := range s.Modules {
		app.Modules = append(app.Modules, graph.ModuleInterface{
			Name:       ref.Name,
			Prefix:     ref.Prefix,
			Host:       ref.Host,
			Rank:       ref.Rank,
			Broker:     ref.Broker,
			Parameters: ref.Parameters,
			Model:      ref.Model,
			Resources:  requirements(ref.Requires),
		})
	}
	for _, ref := range s.Applications {
		app.Applications = append(app.Applications, graph.ApplicationInterface{
			Name:   ref.Name,
			Prefix: ref.Prefix,
			Model:  ref.Model,
		})
	}
	for _, c := range s.Connections {
		app.Connections = append(app.Connections, graph.Connection{
			From:         c.From,
			To:           c.To,
			Carrier:      c.Carrier,
			Priority:     c.Priority,
			FromExternal: c.FromExternal,
			ToExternal:   c.ToExternal,
			Persistent:   c.Persistent,
			Model:        c.Model,
		})
	}
	for _, a := range s.Arbitrators {
		app.Arbitrators = append(app.Arbitrators, graph.Arbitrator{
			Port:  a.Port,
			Rules: a.Rules,
			Model: a.Model,
		})
	}
	app.Resources = requirements(s.Requires)
	app.SetLabel(s.Name)
	return app
}

// Provider returns the provider resource described by s, labeled with its
// name: a *graph.Computer for type computer, a *graph.Resource otherwise.
func (s *ResourceSpec) Provider() graph.Node {
	n := s.node(false)
	n.SetLabel(s.Name)
	return n
}

// Requirement returns the requirement described by s.
func (s *ResourceSpec) Requirement() graph.Node {
	return s.node(true)
}

func (s *ResourceSpec) node(requirement bool) graph.Node {
	r := s.resource(requirement)
	if r.Type != graph.COMPUTER_TYPE {
		return &r
	}
	c := &graph.Computer{
		Resource: r,
		Arch:     s.Arch,
		Memory:   s.Memory,
		Cores:    s.Cores,
		Siblings: s.Siblings,
	}
	if s.Platform != nil {
		c.Platform = graph.Platform{
			Name:         s.Platform.Name,
			Distribution: s.Platform.Distribution,
			Release:      s.Platform.Release,
		}
	}
	if s.Load != nil {
		c.Load = graph.LoadAverage{One: s.Load.One, Five: s.Load.Five, Fifteen: s.Load.Fifteen}
	}
	for _, p := range s.Peripherals {
		per := p.resource(requirement)
		c.Peripherals = append(c.Peripherals, &per)
	}
	return c
}

func (s *ResourceSpec) resource(requirement bool) graph.Resource {
	r := graph.Resource{
		Name:        s.Name,
		Type:        s.Type,
		Version:     s.Version,
		Description: s.Description,
		Disabled:    s.Disabled,
	}
	if r.Type == "" {
		r.Type = graph.COMPUTER_TYPE
	}
	if requirement {
		r.Required = s.Required == nil || *s.Required
	}
	return r
}

func requirements(specs []*ResourceSpec) []graph.Node {
	var nodes []graph.Node
	for _, s := range specs {
		nodes = append(nodes, s.Requirement())
	}
	return nodes
}

// --------------------------------------------------------------------------
// Catalog nodes to descriptions
// --------------------------------------------------------------------------

// NewAppSpec returns the description of app.
func NewAppSpec(app *graph.Application) *AppSpec {
	s := &AppSpec{
		Name:        app.Name,
		Description: app.Description,
		Version:     app.Version,
		Prefix:      app.Prefix,
		Model:       app.Model,
		Requires:    requirementSpecs(app.Resources),
	}
	for _, mi := range app.Modules {
		s.Modules = append(s.Modules, &ModuleRef{
			Name:       mi.Name,
			Prefix:     mi.Prefix,
			Host:       mi.Host,
			Rank:       mi.Rank,
			Broker:     mi.Broker,
			Parameters: mi.Parameters,
			Model:      mi.Model,
			Requires:   requirementSpecs(mi.Resources),
		})
	}
	for _, ai := range app.Applications {
		s.Applications = append(s.Applications, &AppRef{
			Name:   ai.Name,
			Prefix: ai.Prefix,
			Model:  ai.Model,
		})
	}
	for _, c := range app.Connections {
		s.Connections = append(s.Connections, &ConnectionSpec{
			From:         c.From,
			To:           c.To,
			Carrier:      c.Carrier,
			Priority:     c.Priority,
			FromExternal: c.FromExternal,
			ToExternal:   c.ToExternal,
			Persistent:   c.Persistent,
			Model:        c.Model,
		})
	}
	for _, a := range app.Arbitrators {
		s.Arbitrators = append(s.Arbitrators, &ArbitratorSpec{
			Port:  a.Port,
			Rules: a.Rules,
			Model: a.Model,
		})
	}
	return s
}

func requirementSpecs(nodes []graph.Node) []*ResourceSpec {
	var specs []*ResourceSpec
	for _, n := range nodes {
		if s := requirementSpec(n); s != nil {
			specs = append(specs, s)
		}
	}
	return specs
}

func requirementSpec(n graph.Node) *ResourceSpec {
	switch r := n.(type) {
	case *graph.Resource:
		return resourceSpec(r)
	case *graph.Computer:
		s := resourceSpec(&r.Resource)
		s.Arch = r.Arch
		s.Memory = r.Memory
		s.Cores = r.Cores
		s.Siblings = r.Siblings
		if r.Platform != (graph.Platform{}) {
			s.Platform = &PlatformSpec{
				Name:         r.Platform.Name,
				Distribution: r.Platform.Distribution,
				Release:      r.Platform.Release,
			}
		}
		for _, p := range r.Peripherals {
			s.Peripherals = append(s.Peripherals, resourceSpec(p))
		}
		return s
	}
	return nil
}

func resourceSpec(r *graph.Resource) *ResourceSpec {
	required := r.Required
	return &ResourceSpec{
		Name:        r.Name,
		Type:        r.Type,
		Version:     r.Version,
		Description: r.Description,
		Required:    &required,
		Disabled:    r.Disabled,
	}
}
