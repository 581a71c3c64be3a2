// Copyright 2020, Square, Inc.

// Package kb provides the KnowledgeBase, the deployment planner. It keeps a
// catalog of modules, applications and resources and, on request, expands one
// application into a working graph of instances, matches resource
// requirements to providers and selects the modules, resources, applications
// and connections that make up the deployment plan.
//
// A KnowledgeBase is not safe for concurrent use. The catalog may be shared
// read-only, but resolution mutates the working graph and the selection, so
// callers serialize requests (see manager/plan).
package kb

import (
	"fmt"

	"github.com/robotology/yarpmanager/manager/diag"
	"github.com/robotology/yarpmanager/manager/graph"
	"github.com/robotology/yarpmanager/manager/id"
)

// A ModuleLoader produces module descriptions, one per call, nil at the end.
type ModuleLoader interface {
	Reset()
	NextModule() *graph.Module
}

// An AppLoader produces application descriptions, one per call, nil at the end.
type AppLoader interface {
	Reset()
	NextApplication() *graph.Application
}

// A ResourceLoader produces provider resources (*graph.Resource or
// *graph.Computer), one per call, nil at the end.
type ResourceLoader interface {
	Reset()
	NextResource() graph.Node
}

// An AppSaver persists an application description.
type AppSaver interface {
	Save(*graph.Application) bool
}

type KnowledgeBase struct {
	kbGraph  *graph.Graph // catalog, never changed by resolution
	tmpGraph *graph.Graph // working graph, rebuilt for every request
	sink     diag.Sink
	idf      id.GeneratorFactory

	// Accumulated tuning increments per provider label. Added to link
	// weights so that later requests prefer providers chosen less often.
	tuning map[string]float64

	// Result of the last successful call to ResolveDependency.
	mainApp      *graph.Application
	applications []*graph.Application
	modules      []*graph.Module
	resources    []graph.Node
	connections  []graph.Connection
	choices      map[string]string // requirement label -> provider label
	missing      map[string]bool   // requirement labels without a provider
}

// New creates an empty KnowledgeBase that reports to sink. A nil sink drops
// all diagnostics.
func New(sink diag.Sink) *KnowledgeBase {
	if sink == nil {
		sink = diag.Discard
	}
	kb := &KnowledgeBase{
		sink: sink,
		idf:  id.NewGeneratorFactory(),
	}
	kb.reset()
	return kb
}

// SetDiagnostics replaces the diagnostics sink.
func (kb *KnowledgeBase) SetDiagnostics(sink diag.Sink) {
	if sink == nil {
		sink = diag.Discard
	}
	kb.sink = sink
}

func (kb *KnowledgeBase) reset() {
	kb.kbGraph = graph.New("catalog")
	kb.tmpGraph = graph.New("working")
	kb.tuning = map[string]float64{}
	kb.clearSelection()
}

func (kb *KnowledgeBase) clearSelection() {
	kb.mainApp = nil
	kb.applications = []*graph.Application{}
	kb.modules = []*graph.Module{}
	kb.resources = []graph.Node{}
	kb.connections = []graph.Connection{}
	kb.choices = map[string]string{}
	kb.missing = map[string]bool{}
}

// CreateFrom resets the knowledge base and fills the catalog from the given
// loaders. Any loader may be nil; it returns false only if all are nil.
// Definitions that cannot be added are reported as warnings.
func (kb *KnowledgeBase) CreateFrom(ml ModuleLoader, al AppLoader, rl ResourceLoader) bool {
	if ml == nil && al == nil && rl == nil {
		diag.Errorf(kb.sink, "no loader given")
		return false
	}
	kb.reset()

	if ml != nil {
		ml.Reset()
		for m := ml.NextModule(); m != nil; m = ml.NextModule() {
			kb.AddModule(m)
		}
	}
	if al != nil {
		al.Reset()
		for a := al.NextApplication(); a != nil; a = al.NextApplication() {
			kb.AddApplication(a)
		}
	}
	if rl != nil {
		rl.Reset()
		for r := rl.NextResource(); r != nil; r = rl.NextResource() {
			kb.AddResource(r)
		}
	}
	return true
}

// AddModule adds a module to the catalog under its label (its name if the
// label is empty). A duplicate label is reported and the catalog is unchanged.
func (kb *KnowledgeBase) AddModule(m *graph.Module) (*graph.Module, bool) {
	if m == nil {
		return nil, false
	}
	if m.Label() == "" {
		m.SetLabel(m.Name)
	}
	if kb.kbGraph.HasNode(m.Label()) {
		diag.Warningf(kb.sink, "module %s already exists", m.Label())
		return nil, false
	}
	m.SetOwner("")
	if !addModuleToGraph(kb.kbGraph, m) {
		diag.Warningf(kb.sink, "cannot add module %s", m.Label())
		return nil, false
	}
	return m, true
}

// AddResource adds a provider resource to the catalog under its label (its
// name if the label is empty). A duplicate label is reported and the catalog
// is unchanged.
func (kb *KnowledgeBase) AddResource(r graph.Node) bool {
	if r == nil {
		return false
	}
	var name string
	switch res := r.(type) {
	case *graph.Resource:
		name = res.Name
	case *graph.Computer:
		name = res.Name
	default:
		diag.Warningf(kb.sink, "%s %s is not a resource", r.Kind(), r.Label())
		return false
	}
	if r.Label() == "" {
		r.SetLabel(name)
	}
	r.SetOwner("")
	if _, ok := kb.kbGraph.AddNode(r); !ok {
		diag.Warningf(kb.sink, "resource %s already exists", r.Label())
		return false
	}
	return true
}

// AddApplication adds an application to the catalog under its label (its
// name if the label is empty). If the label is taken, the incoming
// application is renamed name(n) with the first free n.
func (kb *KnowledgeBase) AddApplication(app *graph.Application) (*graph.Application, bool) {
	if app == nil {
		return nil, false
	}
	if app.Label() == "" {
		app.SetLabel(app.Name)
	}
	if kb.kbGraph.HasNode(app.Label()) {
		orig := app.Label()
		for n := 1; ; n++ {
			label := fmt.Sprintf("%s(%d)", orig, n)
			if !kb.kbGraph.HasNode(label) {
				app.SetLabel(label)
				app.Name = label
				break
			}
		}
		diag.Warningf(kb.sink, "application %s already exists, renamed to %s", orig, app.Label())
	}
	app.SetOwner("")
	if _, ok := kb.kbGraph.AddNode(app); !ok {
		diag.Warningf(kb.sink, "cannot add application %s", app.Label())
		return nil, false
	}
	return app, true
}

func (kb *KnowledgeBase) RemoveModule(name string) bool {
	if _, ok := kb.kbGraph.GetNode(name).(*graph.Module); !ok {
		diag.Warningf(kb.sink, "module %s not found", name)
		return false
	}
	return kb.kbGraph.RemoveNode(name)
}

func (kb *KnowledgeBase) RemoveApplication(name string) bool {
	if _, ok := kb.kbGraph.GetNode(name).(*graph.Application); !ok {
		diag.Warningf(kb.sink, "application %s not found", name)
		return false
	}
	return kb.kbGraph.RemoveNode(name)
}

func (kb *KnowledgeBase) RemoveResource(name string) bool {
	n := kb.kbGraph.GetNode(name)
	if n == nil || !graph.IsProvider(n) {
		diag.Warningf(kb.sink, "resource %s not found", name)
		return false
	}
	delete(kb.tuning, name)
	return kb.kbGraph.RemoveNode(name)
}

// --------------------------------------------------------------------------
// Catalog queries
// --------------------------------------------------------------------------

// Application returns the catalog application with the given label or nil.
func (kb *KnowledgeBase) Application(name string) *graph.Application {
	app, _ := kb.kbGraph.GetNode(name).(*graph.Application)
	return app
}

// Module returns the catalog module with the given label or nil.
func (kb *KnowledgeBase) Module(name string) *graph.Module {
	m, _ := kb.kbGraph.GetNode(name).(*graph.Module)
	return m
}

// Resource returns the catalog provider with the given label or nil.
func (kb *KnowledgeBase) Resource(name string) graph.Node {
	n := kb.kbGraph.GetNode(name)
	if n == nil || !graph.IsProvider(n) {
		return nil
	}
	return n
}

// CatalogApplications returns all catalog applications in load order.
func (kb *KnowledgeBase) CatalogApplications() []*graph.Application {
	apps := []*graph.Application{}
	for _, n := range kb.kbGraph.Nodes() {
		if app, ok := n.(*graph.Application); ok {
			apps = append(apps, app)
		}
	}
	return apps
}

// CatalogModules returns all catalog modules in load order.
func (kb *KnowledgeBase) CatalogModules() []*graph.Module {
	mods := []*graph.Module{}
	for _, n := range kb.kbGraph.Nodes() {
		if m, ok := n.(*graph.Module); ok {
			mods = append(mods, m)
		}
	}
	return mods
}

// CatalogResources returns all provider resources in load order.
func (kb *KnowledgeBase) CatalogResources() []graph.Node {
	res := []graph.Node{}
	for _, n := range kb.kbGraph.Nodes() {
		if graph.IsProvider(n) {
			res = append(res, n)
		}
	}
	return res
}

// CatalogGraph returns the catalog graph. Callers must not modify it.
func (kb *KnowledgeBase) CatalogGraph() *graph.Graph {
	return kb.kbGraph
}

// UpdateComputerLoad sets the load average of a catalog computer, as
// reported by the broker running on it.
func (kb *KnowledgeBase) UpdateComputerLoad(name string, load graph.LoadAverage) bool {
	c, ok := kb.kbGraph.GetNode(name).(*graph.Computer)
	if !ok {
		diag.Warningf(kb.sink, "computer %s not found", name)
		return false
	}
	c.Load = load
	return true
}

// ResetTuning drops the accumulated load-balancing increments.
func (kb *KnowledgeBase) ResetTuning() {
	kb.tuning = map[string]float64{}
}

// --------------------------------------------------------------------------
// Catalog application editing
// --------------------------------------------------------------------------

// AddModuleToApplication appends a module reference to a catalog application.
func (kb *KnowledgeBase) AddModuleToApplication(appName string, mi graph.ModuleInterface) bool {
	app := kb.Application(appName)
	if app == nil {
		diag.Warningf(kb.sink, "application %s not found", appName)
		return false
	}
	if kb.Module(mi.Name) == nil {
		diag.Warningf(kb.sink, "module %s not found", mi.Name)
		return false
	}
	app.Modules = append(app.Modules, mi)
	return true
}

// RemoveModuleFromApplication removes the first reference to module name with
// the given prefix.
func (kb *KnowledgeBase) RemoveModuleFromApplication(appName, name, prefix string) bool {
	app := kb.Application(appName)
	if app == nil {
		diag.Warningf(kb.sink, "application %s not found", appName)
		return false
	}
	for i, mi := range app.Modules {
		if mi.Name == name && mi.Prefix == prefix {
			app.Modules = append(app.Modules[:i], app.Modules[i+1:]...)
			return true
		}
	}
	return false
}

// AddApplicationToApplication appends a nested application reference. An
// application cannot include itself, directly or through other applications.
func (kb *KnowledgeBase) AddApplicationToApplication(appName string, ai graph.ApplicationInterface) bool {
	app := kb.Application(appName)
	if app == nil {
		diag.Warningf(kb.sink, "application %s not found", appName)
		return false
	}
	child := kb.Application(ai.Name)
	if child == nil {
		diag.Warningf(kb.sink, "application %s not found", ai.Name)
		return false
	}
	if ai.Name == app.Label() || kb.includes(child, app.Label(), map[string]bool{}) {
		diag.Warningf(kb.sink, "application %s cannot include itself", app.Label())
		return false
	}
	app.Applications = append(app.Applications, ai)
	return true
}

// RemoveApplicationFromApplication removes the first reference to name with
// the given prefix.
func (kb *KnowledgeBase) RemoveApplicationFromApplication(appName, name, prefix string) bool {
	app := kb.Application(appName)
	if app == nil {
		diag.Warningf(kb.sink, "application %s not found", appName)
		return false
	}
	for i, ai := range app.Applications {
		if ai.Name == name && ai.Prefix == prefix {
			app.Applications = append(app.Applications[:i], app.Applications[i+1:]...)
			return true
		}
	}
	return false
}

func (kb *KnowledgeBase) AddConnectionToApplication(appName string, c graph.Connection) bool {
	app := kb.Application(appName)
	if app == nil {
		diag.Warningf(kb.sink, "application %s not found", appName)
		return false
	}
	for _, have := range app.Connections {
		if have.From == c.From && have.To == c.To {
			diag.Warningf(kb.sink, "connection %s -> %s already exists in %s", c.From, c.To, appName)
			return false
		}
	}
	c.Owner = app.Label()
	app.Connections = append(app.Connections, c)
	return true
}

func (kb *KnowledgeBase) RemoveConnectionFromApplication(appName, from, to string) bool {
	app := kb.Application(appName)
	if app == nil {
		diag.Warningf(kb.sink, "application %s not found", appName)
		return false
	}
	for i, c := range app.Connections {
		if c.From == from && c.To == to {
			app.Connections = append(app.Connections[:i], app.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// includes returns true if app references target directly or transitively.
func (kb *KnowledgeBase) includes(app *graph.Application, target string, seen map[string]bool) bool {
	if seen[app.Label()] {
		return false
	}
	seen[app.Label()] = true
	for _, ai := range app.Applications {
		if ai.Name == target {
			return true
		}
		if child := kb.Application(ai.Name); child != nil && kb.includes(child, target, seen) {
			return true
		}
	}
	return false
}

// CheckConsistency reports every catalog application that includes itself
// or references a module or application missing from the catalog. It returns
// true if no problem was found.
func (kb *KnowledgeBase) CheckConsistency() bool {
	ok := true
	for _, app := range kb.CatalogApplications() {
		for _, ai := range app.Applications {
			child := kb.Application(ai.Name)
			switch {
			case ai.Name == app.Label():
				diag.Warningf(kb.sink, "application %s includes itself", app.Label())
				ok = false
			case child == nil:
				diag.Warningf(kb.sink, "application %s references unknown application %s", app.Label(), ai.Name)
				ok = false
			case kb.includes(child, app.Label(), map[string]bool{}):
				diag.Warningf(kb.sink, "application %s includes itself through %s", app.Label(), ai.Name)
				ok = false
			}
		}
		for _, mi := range app.Modules {
			if kb.Module(mi.Name) == nil {
				diag.Warningf(kb.sink, "application %s references unknown module %s", app.Label(), mi.Name)
				ok = false
			}
		}
	}
	return ok
}
