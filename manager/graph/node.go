// Copyright 2020, Square, Inc.

package graph

// Kind is the closed set of node variants a Graph can hold. Code that needs
// variant-specific behavior switches on Kind (or on the concrete type) instead
// of probing for optional methods.
type Kind byte

const (
	KIND_MODULE Kind = iota + 1
	KIND_APPLICATION
	KIND_RESOURCE
	KIND_COMPUTER
	KIND_MULTI_RESOURCE
	KIND_INPUT_DATA
	KIND_OUTPUT_DATA
)

var kindName = map[Kind]string{
	KIND_MODULE:         "module",
	KIND_APPLICATION:    "application",
	KIND_RESOURCE:       "resource",
	KIND_COMPUTER:       "computer",
	KIND_MULTI_RESOURCE: "multi-resource",
	KIND_INPUT_DATA:     "input",
	KIND_OUTPUT_DATA:    "output",
}

func (k Kind) String() string {
	if s, ok := kindName[k]; ok {
		return s
	}
	return "unknown"
}

// Link is a directed, weighted edge from one node to another. Links are stored
// on the source node and refer to the sink by label.
type Link struct {
	To       string  // label of the sink node
	Weight   float64 // lower is preferred when choosing among providers
	Virtual  bool    // informational only, never traversed when reasoning
	Required bool    // failure of the sink fails the source
}

// Node is a vertex in a Graph. The interface is sealed: only the types in this
// package implement it, so a switch over Kind() is exhaustive.
type Node interface {
	Kind() Kind
	Label() string
	SetLabel(string)
	Owner() string // label of the containing Module/Application, "" if none
	SetOwner(string)
	Links() []Link
	Visited() bool
	SetVisited(bool)
	Satisfied() bool
	SetSatisfied(bool)

	// Clone returns a deep copy. Links and transient flags are not copied:
	// a clone is a fresh, unlinked node ready to be inserted into a graph.
	Clone() Node

	base() *NodeBase
}

// NodeBase carries the fields common to every node. It is embedded in all
// node types.
type NodeBase struct {
	label     string
	owner     string
	links     []Link
	visited   bool
	satisfied bool
}

func (n *NodeBase) Label() string         { return n.label }
func (n *NodeBase) SetLabel(label string) { n.label = label }
func (n *NodeBase) Owner() string         { return n.owner }
func (n *NodeBase) SetOwner(owner string) { n.owner = owner }
func (n *NodeBase) Visited() bool         { return n.visited }
func (n *NodeBase) SetVisited(v bool)     { n.visited = v }
func (n *NodeBase) Satisfied() bool       { return n.satisfied }
func (n *NodeBase) SetSatisfied(s bool)   { n.satisfied = s }
func (n *NodeBase) base() *NodeBase       { return n }

// Links returns a copy of the node's outgoing links in insertion order.
func (n *NodeBase) Links() []Link {
	links := make([]Link, len(n.links))
	copy(links, n.links)
	return links
}

// cloneBase copies label and owner only.
func (n *NodeBase) cloneBase() NodeBase {
	return NodeBase{label: n.label, owner: n.owner}
}

func (n *NodeBase) link(to string) (int, bool) {
	for i := range n.links {
		if n.links[i].To == to {
			return i, true
		}
	}
	return -1, false
}

// ActiveLinks returns the links of n that reasoning traverses (non-virtual).
func ActiveLinks(n Node) []Link {
	active := []Link{}
	for _, l := range n.base().links {
		if !l.Virtual {
			active = append(active, l)
		}
	}
	return active
}
