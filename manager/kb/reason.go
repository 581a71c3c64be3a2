// Copyright 2020, Square, Inc.

package kb

import (
	"github.com/robotology/yarpmanager/manager/diag"
	"github.com/robotology/yarpmanager/manager/graph"
)

// selection is what one subtree of the working graph contributes to a plan.
type selection struct {
	applications []*graph.Application
	modules      []*graph.Module
	resources    []graph.Node
	connections  []graph.Connection
}

func (s *selection) merge(o selection) {
	s.applications = append(s.applications, o.applications...)
	s.modules = append(s.modules, o.modules...)
	s.resources = append(s.resources, o.resources...)
	s.connections = append(s.connections, o.connections...)
}

func (s *selection) add(n graph.Node) {
	switch x := n.(type) {
	case *graph.Application:
		s.applications = append(s.applications, x)
		s.connections = append(s.connections, x.Connections...)
	case *graph.Module:
		s.modules = append(s.modules, x)
	case *graph.Resource, *graph.Computer, *graph.MultiResource:
		s.resources = append(s.resources, x)
	}
}

// ResolveDependency resolves the catalog application name: it expands the
// application into a fresh working graph, links requirements to providers
// and selects a provider for every requirement. It returns true if every
// required dependency of the root is satisfied. The selection is stored even
// when resolution fails, so callers can inspect what is missing.
//
// If autoDependency is true, a nested module or application that fails also
// fails the application that contains it. Otherwise only resource failures
// propagate. If silent is true, unsatisfied requirements are not reported.
func (kb *KnowledgeBase) ResolveDependency(name string, autoDependency, silent bool) bool {
	app := kb.Application(name)
	if app == nil {
		diag.Errorf(kb.sink, "application %s not found", name)
		return false
	}
	return kb.resolve(app, autoDependency, silent)
}

// ResolveApplication is ResolveDependency for a catalog application handle.
func (kb *KnowledgeBase) ResolveApplication(app *graph.Application, autoDependency, silent bool) bool {
	if app == nil {
		diag.Errorf(kb.sink, "no application given")
		return false
	}
	if kb.Application(app.Label()) != app {
		diag.Errorf(kb.sink, "application %s not found", app.Label())
		return false
	}
	return kb.resolve(app, autoDependency, silent)
}

func (kb *KnowledgeBase) resolve(app *graph.Application, autoDependency, silent bool) bool {
	kb.tmpGraph.Clear()
	kb.tmpGraph.Name = app.Label()
	kb.clearSelection()

	root := kb.makeupApplication(app, kb.idf.Make())
	if root == nil {
		return false
	}

	for _, n := range kb.kbGraph.Nodes() {
		if !graph.IsProvider(n) {
			continue
		}
		if _, ok := kb.tmpGraph.AddNode(n.Clone()); !ok {
			diag.Warningf(kb.sink, "resource %s conflicts with an instance label, ignored", n.Label())
		}
	}
	kb.makeResourceLinks(kb.tmpGraph)

	sel := selection{}
	ok := kb.reason(kb.tmpGraph, root, &sel, autoDependency, silent)

	kb.mainApp = root
	kb.store(sel)
	return ok
}

// constrainSatisfied returns false for a module-owned requirement that has
// no provider. Requirements owned by applications are never violated here.
func constrainSatisfied(g *graph.Graph, n graph.Node) bool {
	if !graph.IsResource(n) || n.Owner() == "" {
		return true
	}
	if len(graph.ActiveLinks(n)) > 0 {
		return true
	}
	return ownerModule(g, n) == nil
}

// reason walks the working graph depth first from n and adds what it selects
// to sel. Applications, modules and ports need all of their required links
// (conjunctive); a requirement needs one provider (disjunctive), the one with
// the lowest link weight.
func (kb *KnowledgeBase) reason(g *graph.Graph, n graph.Node, sel *selection, autoDependency, silent bool) bool {
	if !constrainSatisfied(g, n) {
		if !silent {
			diag.Warningf(kb.sink, "%s cannot be satisfied: no resource provides %s", n.Owner(), describe(n))
		}
		kb.missing[n.Label()] = true
		sel.resources = append(sel.resources, n)
		n.SetSatisfied(false)
		return false
	}

	links := graph.ActiveLinks(n)
	if len(links) == 0 {
		if graph.IsResource(n) && n.Owner() != "" {
			// An application requirement nobody provides does not fail the
			// application, but it is still reported as missing.
			if !silent {
				diag.Warningf(kb.sink, "%s cannot be satisfied: no resource provides %s", n.Owner(), describe(n))
			}
			kb.missing[n.Label()] = true
			sel.resources = append(sel.resources, n)
		} else {
			sel.add(n)
		}
		n.SetSatisfied(true)
		return true
	}

	n.SetVisited(true)
	var ok bool
	if graph.IsResource(n) {
		ok = kb.reasonDisjunctive(g, n, links, sel, autoDependency, silent)
	} else {
		sel.add(n)
		ok = kb.reasonConjunctive(g, n, links, sel, autoDependency, silent)
	}
	n.SetVisited(false)
	n.SetSatisfied(ok)
	return ok
}

func (kb *KnowledgeBase) reasonConjunctive(g *graph.Graph, n graph.Node, links []graph.Link, sel *selection, autoDependency, silent bool) bool {
	ok := true
	for _, l := range links {
		child := g.GetNode(l.To)
		if child == nil || child.Visited() {
			continue
		}
		childSel := selection{}
		res := kb.reason(g, child, &childSel, autoDependency, silent)
		sel.merge(childSel)
		if !res && propagates(n, child, l, autoDependency) {
			ok = false
		}
	}
	return ok
}

// propagates returns true if the failure of child fails its parent n.
func propagates(n, child graph.Node, l graph.Link, autoDependency bool) bool {
	if !l.Required {
		return false
	}
	if n.Kind() == graph.KIND_APPLICATION {
		switch child.Kind() {
		case graph.KIND_MODULE, graph.KIND_APPLICATION:
			return autoDependency
		}
	}
	return true
}

func (kb *KnowledgeBase) reasonDisjunctive(g *graph.Graph, n graph.Node, links []graph.Link, sel *selection, autoDependency, silent bool) bool {
	owner := ownerModule(g, n)
	var best graph.Node
	var bestWeight float64
	var bestSel selection
	bestUsed := false
	for _, l := range links {
		child := g.GetNode(l.To)
		if child == nil || child.Visited() {
			continue
		}
		childSel := selection{}
		if !kb.reason(g, child, &childSel, autoDependency, silent) {
			continue
		}
		// Application requirements repeat what their modules need, so a
		// provider already chosen in this resolution wins over any other.
		// Otherwise the lowest weight wins and ties keep the first provider.
		used := owner == nil && kb.chosen(child.Label())
		if best == nil || (used && !bestUsed) || (used == bestUsed && l.Weight < bestWeight) {
			best = child
			bestWeight = l.Weight
			bestSel = childSel
			bestUsed = used
		}
	}
	if best == nil {
		if !silent {
			diag.Warningf(kb.sink, "%s cannot be satisfied: no usable resource provides %s", n.Owner(), describe(n))
		}
		kb.missing[n.Label()] = true
		sel.resources = append(sel.resources, n)
		return false
	}
	sel.merge(bestSel)
	kb.choices[n.Label()] = best.Label()

	if c, ok := best.(*graph.Computer); ok && owner != nil {
		owner.Host = c.Name
	}
	if bestUsed {
		// Already tuned for the requirement that chose it first.
		return true
	}
	inc := tuningIncrement(best, owner)
	g.AdjustLinksTo(best.Label(), inc, n.Label())
	kb.tuning[best.Label()] += inc
	return true
}

// chosen returns true if provider was selected for a requirement earlier in
// the current resolution.
func (kb *KnowledgeBase) chosen(provider string) bool {
	for _, p := range kb.choices {
		if p == provider {
			return true
		}
	}
	return false
}

func describe(n graph.Node) string {
	switch r := n.(type) {
	case *graph.MultiResource:
		s := ""
		for i, c := range r.Resources {
			if i > 0 {
				s += ", "
			}
			s += describe(c)
		}
		return "[" + s + "]"
	case *graph.Computer:
		if r.Name != "" {
			return "computer " + r.Name
		}
		return "computer"
	case *graph.Resource:
		if r.Name != "" {
			return r.Type + " " + r.Name
		}
		return r.Type
	}
	return n.Label()
}

// store keeps sel as the result of the last resolution. Elements are kept
// once, in first-selected order; missing MultiResources are replaced by their
// constituents.
func (kb *KnowledgeBase) store(sel selection) {
	seenApp := map[*graph.Application]bool{}
	for _, a := range sel.applications {
		if !seenApp[a] {
			seenApp[a] = true
			kb.applications = append(kb.applications, a)
		}
	}
	seenMod := map[*graph.Module]bool{}
	for _, m := range sel.modules {
		if !seenMod[m] {
			seenMod[m] = true
			kb.modules = append(kb.modules, m)
		}
	}
	seenRes := map[graph.Node]bool{}
	for _, r := range sel.resources {
		for _, x := range flatten(r) {
			if !seenRes[x] {
				seenRes[x] = true
				kb.resources = append(kb.resources, x)
			}
		}
	}
	type connKey struct{ owner, from, to string }
	seenConn := map[connKey]bool{}
	for _, c := range sel.connections {
		k := connKey{c.Owner, c.From, c.To}
		if !seenConn[k] {
			seenConn[k] = true
			kb.connections = append(kb.connections, c)
		}
	}
}

func flatten(n graph.Node) []graph.Node {
	if m, ok := n.(*graph.MultiResource); ok {
		return m.Resources
	}
	return []graph.Node{n}
}

// --------------------------------------------------------------------------
// Results of the last resolution
// --------------------------------------------------------------------------

// MainApplication returns the root instance of the last resolution, nil if
// nothing was resolved.
func (kb *KnowledgeBase) MainApplication() *graph.Application {
	return kb.mainApp
}

// WorkingGraph returns the working graph of the last resolution. Callers must
// not modify it.
func (kb *KnowledgeBase) WorkingGraph() *graph.Graph {
	return kb.tmpGraph
}

// Applications returns the selected application instances. If parent is not
// empty, only those directly nested in parent are returned.
func (kb *KnowledgeBase) Applications(parent string) []*graph.Application {
	if parent == "" {
		return append([]*graph.Application{}, kb.applications...)
	}
	apps := []*graph.Application{}
	for _, a := range kb.applications {
		if a.Owner() == parent {
			apps = append(apps, a)
		}
	}
	return apps
}

// Modules returns the selected module instances. If parent is not empty,
// only those directly in parent are returned.
func (kb *KnowledgeBase) Modules(parent string) []*graph.Module {
	if parent == "" {
		return append([]*graph.Module{}, kb.modules...)
	}
	mods := []*graph.Module{}
	for _, m := range kb.modules {
		if m.Owner() == parent {
			mods = append(mods, m)
		}
	}
	return mods
}

// Resources returns the selected providers and the unsatisfied requirements.
// If parent is not empty, only those serving parent and the modules directly
// in it are returned.
func (kb *KnowledgeBase) Resources(parent string) []graph.Node {
	if parent == "" {
		return append([]graph.Node{}, kb.resources...)
	}
	scope := map[string]bool{parent: true}
	for _, m := range kb.modules {
		if m.Owner() == parent {
			scope[m.Label()] = true
		}
	}
	res := []graph.Node{}
	seen := map[graph.Node]bool{}
	for _, n := range kb.tmpGraph.Nodes() {
		if !graph.IsResource(n) || !scope[n.Owner()] {
			continue
		}
		var found []graph.Node
		if p, ok := kb.choices[n.Label()]; ok {
			found = []graph.Node{kb.tmpGraph.GetNode(p)}
		} else if kb.missing[n.Label()] {
			found = flatten(n)
		}
		for _, x := range found {
			if x != nil && !seen[x] {
				seen[x] = true
				res = append(res, x)
			}
		}
	}
	return res
}

// Connections returns the connections of the selected applications. If
// parent is not empty, only those declared by parent are returned.
func (kb *KnowledgeBase) Connections(parent string) []graph.Connection {
	if parent == "" {
		return append([]graph.Connection{}, kb.connections...)
	}
	conns := []graph.Connection{}
	for _, c := range kb.connections {
		if c.Owner == parent {
			conns = append(conns, c)
		}
	}
	return conns
}

// Missing returns the requirements of the last resolution that no provider
// satisfied, in working graph order.
func (kb *KnowledgeBase) Missing() []graph.Node {
	missing := []graph.Node{}
	for _, n := range kb.tmpGraph.Nodes() {
		if kb.missing[n.Label()] {
			missing = append(missing, n)
		}
	}
	return missing
}

// Provider returns the provider chosen for the requirement with the given
// label, or nil.
func (kb *KnowledgeBase) Provider(requirement string) graph.Node {
	p, ok := kb.choices[requirement]
	if !ok {
		return nil
	}
	return kb.tmpGraph.GetNode(p)
}
