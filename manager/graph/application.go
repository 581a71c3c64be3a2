// Copyright 2020, Square, Inc.

package graph

// Application is a composable group of modules and nested applications plus
// the connections between their ports.
type Application struct {
	NodeBase
	Name        string
	Description string
	Version     string
	Prefix      string // effective prefix
	BasePrefix  string // prefix given by the including application interface
	Model       string

	Applications []ApplicationInterface
	Modules      []ModuleInterface
	Connections  []Connection
	Arbitrators  []Arbitrator
	Resources    []Node // direct requirements: *Resource or *Computer
}

func (a *Application) Kind() Kind { return KIND_APPLICATION }

func (a *Application) Clone() Node {
	c := *a
	c.NodeBase = a.cloneBase()
	c.Applications = append([]ApplicationInterface(nil), a.Applications...)
	c.Modules = make([]ModuleInterface, len(a.Modules))
	for i, mi := range a.Modules {
		c.Modules[i] = mi.clone()
	}
	c.Connections = append([]Connection(nil), a.Connections...)
	c.Arbitrators = make([]Arbitrator, len(a.Arbitrators))
	for i, arb := range a.Arbitrators {
		c.Arbitrators[i] = arb.clone()
	}
	c.Resources = cloneNodes(a.Resources)
	return &c
}

// ApplicationInterface references a catalog application from inside another
// application.
type ApplicationInterface struct {
	Name   string
	Prefix string
	Model  string
}

// ModuleInterface references a catalog module from inside an application and
// overrides some of its settings for that instance.
type ModuleInterface struct {
	Name       string
	Prefix     string
	Host       string // non-empty pins the instance to this host
	Rank       int
	Broker     string
	Parameters string
	Model      string
	Resources  []Node // extra requirements for this instance
}

func (mi ModuleInterface) clone() ModuleInterface {
	mi.Resources = cloneNodes(mi.Resources)
	return mi
}

// Connection links an output port to an input port.
type Connection struct {
	From         string
	To           string
	Carrier      string
	Owner        string // label of the declaring application
	Priority     bool
	FromExternal bool // From is not prefixed with the application prefix
	ToExternal   bool // To is not prefixed with the application prefix
	Persistent   bool
	Model        string
}

// Arbitrator selects among several connections feeding the same port.
type Arbitrator struct {
	Port  string
	Rules map[string]string // connection -> rule
	Owner string
	Model string
}

func (a Arbitrator) clone() Arbitrator {
	if a.Rules != nil {
		rules := make(map[string]string, len(a.Rules))
		for k, v := range a.Rules {
			rules[k] = v
		}
		a.Rules = rules
	}
	return a
}
