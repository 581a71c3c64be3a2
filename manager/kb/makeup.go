// Copyright 2020, Square, Inc.

package kb

import (
	"github.com/robotology/yarpmanager/manager/diag"
	"github.com/robotology/yarpmanager/manager/graph"
	"github.com/robotology/yarpmanager/manager/id"
)

// addModuleToGraph inserts m into g together with one node per port and, if
// m has requirements, one MultiResource aggregating them. Links from m to its
// inputs are virtual unless the input is required; links to outputs are
// always virtual.
func addModuleToGraph(g *graph.Graph, m *graph.Module) bool {
	if _, ok := g.AddNode(m); !ok {
		return false
	}
	for _, in := range m.Inputs {
		n := in.Clone().(*graph.InputData)
		n.Port = m.Prefix + in.Port
		n.SetLabel(m.Label() + ":in:" + in.Port)
		n.SetOwner(m.Label())
		if _, ok := g.AddNode(n); ok {
			g.AddLink(m.Label(), n.Label(), 0, !in.Required, in.Required)
		}
	}
	for _, out := range m.Outputs {
		n := out.Clone().(*graph.OutputData)
		n.Port = m.Prefix + out.Port
		n.SetLabel(m.Label() + ":out:" + out.Port)
		n.SetOwner(m.Label())
		if _, ok := g.AddNode(n); ok {
			g.AddLink(m.Label(), n.Label(), 0, true, false)
		}
	}
	if len(m.Resources) > 0 {
		addRequirements(g, m.Label(), m.Name, m.Resources)
	}
	return true
}

func addRequirements(g *graph.Graph, owner, name string, reqs []graph.Node) {
	multi := &graph.MultiResource{Name: name + " resources"}
	for _, r := range reqs {
		c := r.Clone()
		c.SetOwner(owner)
		multi.Resources = append(multi.Resources, c)
	}
	multi.SetLabel(owner + ":resources")
	multi.SetOwner(owner)
	if _, ok := g.AddNode(multi); ok {
		g.AddLink(owner, multi.Label(), 0, false, true)
	}
}

func composePrefix(parent, child string) string {
	return parent + child
}

// makeupApplication clones the catalog template tmpl into the working graph
// as the root of a request and expands it recursively. Returns the root.
func (kb *KnowledgeBase) makeupApplication(tmpl *graph.Application, gen id.Generator) *graph.Application {
	root := tmpl.Clone().(*graph.Application)
	root.SetLabel(tmpl.Label())
	root.SetOwner("")
	root.BasePrefix = tmpl.Prefix
	if _, ok := kb.tmpGraph.AddNode(root); !ok {
		diag.Errorf(kb.sink, "cannot add application %s to the working graph", root.Label())
		return nil
	}
	kb.expand(root, gen, map[string]bool{tmpl.Label(): true})
	return root
}

// expand instantiates everything app references. ancestors holds the catalog
// labels of the applications on the path from the root to app; referencing
// any of them would never terminate.
func (kb *KnowledgeBase) expand(app *graph.Application, gen id.Generator, ancestors map[string]bool) {
	// Nested applications
	for _, ai := range app.Applications {
		if ai.Name == app.Name || ancestors[ai.Name] {
			diag.Warningf(kb.sink, "application %s cannot include itself", ai.Name)
			continue
		}
		tmpl := kb.Application(ai.Name)
		if tmpl == nil {
			diag.Warningf(kb.sink, "application %s not found, ignored in %s", ai.Name, app.Label())
			continue
		}
		child := tmpl.Clone().(*graph.Application)
		child.SetLabel(gen.UID(app.Label(), ai.Name))
		child.SetOwner(app.Label())
		child.BasePrefix = ai.Prefix
		child.Prefix = composePrefix(app.Prefix, ai.Prefix)
		child.Model = ai.Model
		if _, ok := kb.tmpGraph.AddNode(child); !ok {
			diag.Warningf(kb.sink, "duplicate instance %s ignored", child.Label())
			continue
		}
		kb.tmpGraph.AddLink(app.Label(), child.Label(), 0, false, true)

		ancestors[ai.Name] = true
		kb.expand(child, gen, ancestors)
		delete(ancestors, ai.Name)
	}

	// Module instances
	for _, mi := range app.Modules {
		tmpl := kb.Module(mi.Name)
		if tmpl == nil {
			diag.Warningf(kb.sink, "module %s not found, ignored in %s", mi.Name, app.Label())
			continue
		}
		m := tmpl.Clone().(*graph.Module)
		m.SetLabel(gen.UID(app.Label(), mi.Name))
		m.SetOwner(app.Label())
		m.BasePrefix = mi.Prefix
		m.Prefix = composePrefix(app.Prefix, mi.Prefix)
		m.Model = mi.Model
		if mi.Host != "" {
			m.Host = mi.Host
			m.Forced = true
		}
		if mi.Rank != 0 {
			m.Rank = mi.Rank
		}
		if mi.Broker != "" {
			m.Broker = mi.Broker
		}
		if mi.Parameters != "" {
			m.Parameters = mi.Parameters
		}
		for _, r := range mi.Resources {
			m.Resources = append(m.Resources, r.Clone())
			app.Resources = append(app.Resources, r.Clone())
		}
		if !addModuleToGraph(kb.tmpGraph, m) {
			diag.Warningf(kb.sink, "duplicate instance %s ignored", m.Label())
			continue
		}
		kb.tmpGraph.AddLink(app.Label(), m.Label(), 0, false, true)
	}

	// Connections and arbitrators belong to this instance
	for i := range app.Connections {
		c := &app.Connections[i]
		c.Owner = app.Label()
		if !c.FromExternal {
			c.From = composePrefix(app.Prefix, c.From)
		}
		if !c.ToExternal {
			c.To = composePrefix(app.Prefix, c.To)
		}
	}
	for i := range app.Arbitrators {
		arb := &app.Arbitrators[i]
		arb.Owner = app.Label()
		arb.Port = composePrefix(app.Prefix, arb.Port)
	}

	// Direct requirements, including those merged from module interfaces
	if len(app.Resources) > 0 {
		addRequirements(kb.tmpGraph, app.Label(), app.Name, app.Resources)
	}
}
