// Copyright 2020, Square, Inc.

package graph

// Module is a single executable with named ports and resource needs. In the
// catalog it is a template; in a working graph it is an instance with a
// resolved prefix and, after reasoning, a host.
type Module struct {
	NodeBase
	Name        string
	Description string
	Version     string
	Prefix      string // effective prefix, applied to all port names
	BasePrefix  string // prefix given by the including application interface
	Host        string // resolved machine, empty until assigned or forced
	Forced      bool   // host pinned by the operator, no provider search
	Rank        int
	Broker      string
	Parameters  string
	Model       string // opaque editor data carried by the module interface

	Inputs    []*InputData
	Outputs   []*OutputData
	Resources []Node // requirements: *Resource or *Computer
}

func (m *Module) Kind() Kind { return KIND_MODULE }

func (m *Module) Clone() Node {
	c := *m
	c.NodeBase = m.cloneBase()
	c.Inputs = make([]*InputData, len(m.Inputs))
	for i, in := range m.Inputs {
		c.Inputs[i] = in.Clone().(*InputData)
	}
	c.Outputs = make([]*OutputData, len(m.Outputs))
	for i, out := range m.Outputs {
		c.Outputs[i] = out.Clone().(*OutputData)
	}
	c.Resources = cloneNodes(m.Resources)
	return &c
}

// InputData is a port a module reads from. Required inputs must be connected
// for the module to work.
type InputData struct {
	NodeBase
	Port        string
	Carrier     string
	Type        string // data type carried by the port
	Required    bool
	Priority    bool
	Description string
}

func (d *InputData) Kind() Kind { return KIND_INPUT_DATA }

func (d *InputData) Clone() Node {
	c := *d
	c.NodeBase = d.cloneBase()
	return &c
}

// OutputData is a port a module writes to.
type OutputData struct {
	NodeBase
	Port        string
	Carrier     string
	Type        string
	Description string
}

func (d *OutputData) Kind() Kind { return KIND_OUTPUT_DATA }

func (d *OutputData) Clone() Node {
	c := *d
	c.NodeBase = d.cloneBase()
	return &c
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	c := make([]Node, len(nodes))
	for i, n := range nodes {
		c[i] = n.Clone()
	}
	return c
}
