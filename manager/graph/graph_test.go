// Copyright 2017-2020, Square, Inc.

package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-test/deep"
)

func newModule(label string) *Module {
	m := &Module{Name: label}
	m.SetLabel(label)
	return m
}

func labels(nodes []Node) []string {
	l := []string{}
	for _, n := range nodes {
		l = append(l, n.Label())
	}
	return l
}

func TestAddNodeDuplicate(t *testing.T) {
	g := New("test")
	n, ok := g.AddNode(newModule("m1"))
	if !ok || n == nil {
		t.Fatal("first AddNode failed")
	}
	n, ok = g.AddNode(newModule("m1"))
	if ok || n != nil {
		t.Errorf("got %v, %t adding duplicate, expected nil, false", n, ok)
	}
	if g.Len() != 1 {
		t.Errorf("graph has %d nodes, expected 1", g.Len())
	}
}

func TestAddNodeNoLabel(t *testing.T) {
	g := New("test")
	if _, ok := g.AddNode(&Module{}); ok {
		t.Error("added node without label")
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New("test")
	for _, l := range []string{"c", "a", "b"} {
		g.AddNode(newModule(l))
	}
	if diff := deep.Equal(labels(g.Nodes()), []string{"c", "a", "b"}); diff != nil {
		t.Error(diff)
	}
}

func TestAddLinkIdempotent(t *testing.T) {
	g := New("test")
	g.AddNode(newModule("a"))
	g.AddNode(newModule("b"))

	if !g.AddLink("a", "b", 1.0, false, true) {
		t.Fatal("AddLink returned false")
	}
	if !g.AddLink("a", "b", 2.5, false, true) {
		t.Fatal("AddLink returned false")
	}
	expect := []Link{{To: "b", Weight: 2.5, Required: true}}
	if diff := deep.Equal(g.GetNode("a").Links(), expect); diff != nil {
		t.Error(diff)
	}

	if g.AddLink("a", "nope", 0, false, false) {
		t.Error("linked to a node that does not exist")
	}
}

func TestRemoveNodeCascade(t *testing.T) {
	g := New("test")
	app := &Application{Name: "app"}
	app.SetLabel("app")
	g.AddNode(app)

	mod := newModule("app:mod:1")
	mod.SetOwner("app")
	g.AddNode(mod)

	in := &InputData{Port: "/in"}
	in.SetLabel("app:mod:1:/in")
	in.SetOwner("app:mod:1")
	g.AddNode(in)

	other := newModule("other")
	g.AddNode(other)

	g.AddLink("app", "app:mod:1", 0, false, true)
	g.AddLink("app:mod:1", "app:mod:1:/in", 0, false, true)
	g.AddLink("other", "app:mod:1:/in", 0, false, false)

	if !g.RemoveNode("app") {
		t.Fatal("RemoveNode returned false")
	}
	if diff := deep.Equal(labels(g.Nodes()), []string{"other"}); diff != nil {
		t.Error(diff)
	}
	if len(g.GetNode("other").Links()) != 0 {
		t.Errorf("dangling link left on other: %v", g.GetNode("other").Links())
	}
	if g.RemoveNode("app") {
		t.Error("removed a node twice")
	}
}

func TestAdjustLinksTo(t *testing.T) {
	g := New("test")
	for _, l := range []string{"r1", "r2", "r3", "host"} {
		g.AddNode(newModule(l))
	}
	g.AddLink("r1", "host", 0.5, false, true)
	g.AddLink("r2", "host", 0.5, false, true)
	g.AddLink("r3", "r1", 0.5, false, true)

	n := g.AdjustLinksTo("host", 1.0, "r1")
	if n != 1 {
		t.Errorf("changed %d links, expected 1", n)
	}
	if w := g.GetNode("r1").Links()[0].Weight; w != 0.5 {
		t.Errorf("r1 weight = %f, expected 0.5", w)
	}
	if w := g.GetNode("r2").Links()[0].Weight; w != 1.5 {
		t.Errorf("r2 weight = %f, expected 1.5", w)
	}
}

func TestCloneIndependent(t *testing.T) {
	m := newModule("m")
	m.Prefix = "/a"
	m.Inputs = []*InputData{{Port: "/in", Required: true}}
	m.Resources = []Node{&Resource{Type: "gpu", Required: true}}

	c := m.Clone().(*Module)
	c.Prefix = "/b"
	c.Inputs[0].Port = "/changed"
	c.Resources[0].(*Resource).Type = "cpu"

	if m.Prefix != "/a" || m.Inputs[0].Port != "/in" || m.Resources[0].(*Resource).Type != "gpu" {
		t.Errorf("mutating clone changed original: %+v", m)
	}
	if c.Label() != "m" {
		t.Errorf("clone label = %s, expected m", c.Label())
	}
}

func TestCloneDropsLinks(t *testing.T) {
	g := New("test")
	g.AddNode(newModule("a"))
	g.AddNode(newModule("b"))
	g.AddLink("a", "b", 0, false, true)
	g.GetNode("a").SetVisited(true)

	c := g.GetNode("a").Clone()
	if len(c.Links()) != 0 || c.Visited() {
		t.Errorf("clone kept links or flags: %v %t", c.Links(), c.Visited())
	}
}

func TestWriteDot(t *testing.T) {
	g := New("demo")
	g.AddNode(newModule("a"))
	g.AddNode(NewComputer("host1"))
	g.AddLink("a", "host1", 0.25, true, false)

	var buf bytes.Buffer
	g.WriteDot(&buf)
	out := buf.String()
	for _, s := range []string{"digraph {", `"a" -> "host1"`, "style=dashed", "box3d"} {
		if !strings.Contains(out, s) {
			t.Errorf("dot output missing %q:\n%s", s, out)
		}
	}
}
