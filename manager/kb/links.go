// Copyright 2020, Square, Inc.

package kb

import (
	"github.com/robotology/yarpmanager/manager/diag"
	"github.com/robotology/yarpmanager/manager/graph"
)

// CalculateLoad returns the weighted load average of c divided by the number
// of execution units sharing it.
func CalculateLoad(c *graph.Computer) float64 {
	siblings := float64(c.Siblings)
	if siblings < 1 {
		siblings = 1
	}
	return (c.Load.One*15 + c.Load.Five*10 + c.Load.Fifteen) / 26.0 / siblings
}

// weight is the link weight to provider p: its load plus the tuning it
// accumulated from earlier choices.
func (kb *KnowledgeBase) weight(p graph.Node) float64 {
	w := kb.tuning[p.Label()]
	if c, ok := p.(*graph.Computer); ok {
		w += CalculateLoad(c)
	}
	return w
}

// tuningIncrement is added to the links of a provider after it was chosen.
// High-rank modules make a provider much less attractive; otherwise a
// computer gets less attractive in proportion to its execution units.
func tuningIncrement(p graph.Node, owner *graph.Module) float64 {
	if owner != nil && owner.Rank >= 10 {
		return float64(owner.Rank) / 100.0
	}
	if c, ok := p.(*graph.Computer); ok {
		if c.Siblings > 1 {
			return 1.0 / float64(c.Siblings)
		}
		return 1.0
	}
	return 1.0
}

// ownerModule returns the module that owns n in g, or nil.
func ownerModule(g *graph.Graph, n graph.Node) *graph.Module {
	if n.Owner() == "" {
		return nil
	}
	m, _ := g.GetNode(n.Owner()).(*graph.Module)
	return m
}

// makeResourceLinks links every requirement in g to the providers that
// satisfy it. A requirement of a module with a forced host is linked only to
// that host, which is created as a bare computer if it is not in g.
func (kb *KnowledgeBase) makeResourceLinks(g *graph.Graph) {
	providers := []graph.Node{}
	for _, n := range g.Nodes() {
		if graph.IsProvider(n) {
			providers = append(providers, n)
		}
	}

	for _, req := range g.Nodes() {
		if !graph.IsResource(req) || req.Owner() == "" {
			continue
		}
		g.ClearLinks(req.Label())

		if owner := ownerModule(g, req); owner != nil && owner.Forced {
			host := kb.forcedHost(g, owner.Host)
			if host == nil {
				continue
			}
			g.AddLink(req.Label(), host.Label(), kb.weight(host), false, true)
			continue
		}

		for _, p := range providers {
			if graph.Satisfies(p, req) {
				g.AddLink(req.Label(), p.Label(), kb.weight(p), false, true)
			}
		}
	}
}

func (kb *KnowledgeBase) forcedHost(g *graph.Graph, name string) graph.Node {
	n := g.GetNode(name)
	if n == nil {
		c := graph.NewComputer(name)
		g.AddNode(c)
		return c
	}
	if !graph.IsProvider(n) {
		diag.Warningf(kb.sink, "host %s conflicts with %s %s", name, n.Kind(), n.Label())
		return nil
	}
	return n
}
