// Copyright 2017-2020, Square, Inc.

// Package graph provides the node types of the deployment planner and the
// Graph that holds them. A Graph owns its nodes and indexes them by label;
// nodes refer to each other (links, owner) by label only, so copying a node
// into another graph is a value copy plus an insert under a new label.
package graph

import (
	"fmt"
	"io"
)

// Graph is a label-indexed set of nodes. Iteration follows insertion order.
// A Graph is not safe for concurrent use.
type Graph struct {
	Name  string
	nodes map[string]Node // label -> node
	order []string        // labels in insertion order
}

func New(name string) *Graph {
	return &Graph{
		Name:  name,
		nodes: map[string]Node{},
		order: []string{},
	}
}

// AddNode inserts n and returns it. It returns nil, false if a node with the
// same label already exists; the graph is unchanged in that case.
func (g *Graph) AddNode(n Node) (Node, bool) {
	if n == nil || n.Label() == "" {
		return nil, false
	}
	if _, ok := g.nodes[n.Label()]; ok {
		return nil, false
	}
	g.nodes[n.Label()] = n
	g.order = append(g.order, n.Label())
	return n, true
}

// RemoveNode removes the node with the given label and, recursively, every
// node it owns. Links from remaining nodes to removed nodes are dropped.
// Returns false if the node does not exist.
func (g *Graph) RemoveNode(label string) bool {
	if _, ok := g.nodes[label]; !ok {
		return false
	}
	removed := map[string]bool{}
	g.collectOwned(label, removed)

	order := make([]string, 0, len(g.order)-len(removed))
	for _, l := range g.order {
		if removed[l] {
			delete(g.nodes, l)
			continue
		}
		order = append(order, l)
	}
	g.order = order

	for _, n := range g.nodes {
		b := n.base()
		links := b.links[:0]
		for _, link := range b.links {
			if !removed[link.To] {
				links = append(links, link)
			}
		}
		b.links = links
	}
	return true
}

func (g *Graph) collectOwned(label string, removed map[string]bool) {
	if removed[label] {
		return
	}
	removed[label] = true
	for _, l := range g.order {
		if n := g.nodes[l]; n.Owner() == label {
			g.collectOwned(l, removed)
		}
	}
}

func (g *Graph) HasNode(label string) bool {
	_, ok := g.nodes[label]
	return ok
}

// GetNode returns the node with the given label or nil.
func (g *Graph) GetNode(label string) Node {
	return g.nodes[label]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.order))
	for _, l := range g.order {
		nodes = append(nodes, g.nodes[l])
	}
	return nodes
}

func (g *Graph) Len() int {
	return len(g.order)
}

// Clear removes all nodes.
func (g *Graph) Clear() {
	g.nodes = map[string]Node{}
	g.order = []string{}
}

// AddLink links from -> to. Adding a link that already exists updates its
// weight and flags instead of duplicating it. Returns false if either node is
// not in the graph.
func (g *Graph) AddLink(from, to string, weight float64, virtual, required bool) bool {
	src, ok := g.nodes[from]
	if !ok {
		return false
	}
	if _, ok := g.nodes[to]; !ok {
		return false
	}
	b := src.base()
	link := Link{To: to, Weight: weight, Virtual: virtual, Required: required}
	if i, ok := b.link(to); ok {
		b.links[i] = link
		return true
	}
	b.links = append(b.links, link)
	return true
}

// RemoveLink removes the link from -> to if it exists.
func (g *Graph) RemoveLink(from, to string) bool {
	src, ok := g.nodes[from]
	if !ok {
		return false
	}
	b := src.base()
	i, ok := b.link(to)
	if !ok {
		return false
	}
	b.links = append(b.links[:i], b.links[i+1:]...)
	return true
}

// ClearLinks removes all outgoing links of the node with the given label.
func (g *Graph) ClearLinks(label string) {
	if n, ok := g.nodes[label]; ok {
		n.base().links = nil
	}
}

// AdjustLinksTo adds delta to the weight of every link that points at to,
// except the link that starts at exceptFrom. Returns the number of links
// changed.
func (g *Graph) AdjustLinksTo(to string, delta float64, exceptFrom string) int {
	changed := 0
	for _, l := range g.order {
		if l == exceptFrom {
			continue
		}
		b := g.nodes[l].base()
		if i, ok := b.link(to); ok {
			b.links[i].Weight += delta
			changed++
		}
	}
	return changed
}

// Owned returns the nodes whose owner is the given label, in insertion order.
func (g *Graph) Owned(owner string) []Node {
	owned := []Node{}
	for _, l := range g.order {
		if n := g.nodes[l]; n.Owner() == owner {
			owned = append(owned, n)
		}
	}
	return owned
}

// WriteDot writes g in DOT graph format. Virtual links are dashed.
func (g *Graph) WriteDot(w io.Writer) {
	fmt.Fprintf(w, "digraph {\n")
	fmt.Fprintf(w, "\trankdir=LR;\n")
	fmt.Fprintf(w, "\tlabelloc=\"t\";\n")
	fmt.Fprintf(w, "\tlabel=\"%s\"\n", g.Name)
	for _, l := range g.order {
		n := g.nodes[l]
		fmt.Fprintf(w, "\t\"%s\" [label=\"%s\\n%s\",shape=%s]\n", l, l, n.Kind(), dotShape(n.Kind()))
	}
	for _, l := range g.order {
		for _, link := range g.nodes[l].base().links {
			style := "solid"
			if link.Virtual {
				style = "dashed"
			}
			fmt.Fprintf(w, "\t\"%s\" -> \"%s\" [label=\"%.2f\",style=%s];\n", l, link.To, link.Weight, style)
		}
	}
	fmt.Fprintln(w, "}")
}

func dotShape(k Kind) string {
	switch k {
	case KIND_APPLICATION:
		return "folder"
	case KIND_MODULE:
		return "box"
	case KIND_COMPUTER:
		return "box3d"
	case KIND_INPUT_DATA, KIND_OUTPUT_DATA:
		return "cds"
	default:
		return "ellipse"
	}
}
