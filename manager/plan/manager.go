// Copyright 2020, Square, Inc.

// Package plan provides the plan manager: it resolves catalog applications
// into deployment plans with the knowledge base and keeps the plans in a
// repo. The knowledge base is not safe for concurrent use, so the manager
// runs one operation on it at a time.
package plan

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	serr "github.com/robotology/yarpmanager/errors"
	"github.com/robotology/yarpmanager/manager/diag"
	"github.com/robotology/yarpmanager/manager/graph"
	"github.com/robotology/yarpmanager/manager/kb"
	"github.com/robotology/yarpmanager/manager/metrics"
	"github.com/robotology/yarpmanager/proto"
	"github.com/robotology/yarpmanager/util"
)

// A Manager creates and serves plans, and gives access to the catalog.
type Manager interface {
	// Create resolves an application into a new plan and saves it. A plan
	// whose requirements are not all satisfied is still created, with state
	// STATE_PARTIAL. If resolving takes longer than the timeout, a plan with
	// state STATE_FAILED is saved and ErrResolveTimeout returned.
	Create(proto.CreatePlan) (proto.Plan, error)

	// Get returns the plan with the given id.
	Get(planId string) (proto.Plan, error)

	// List returns plans matching the filter, newest first.
	List(proto.PlanFilter) ([]proto.Plan, error)

	// Applications returns the catalog applications in load order.
	Applications() []proto.ApplicationSpec

	// Application returns one catalog application.
	Application(name string) (proto.ApplicationSpec, error)

	// UpdateLoad sets the load average of a catalog computer. Plans created
	// afterwards use it to weigh the computer.
	UpdateLoad(computer string, load proto.LoadUpdate) error

	// SaveApplication writes a catalog application back to the description
	// files.
	SaveApplication(name string) error

	// Reload re-reads the catalog. Load-balancing state is dropped.
	Reload() error
}

// Loader loads the catalog. desc.Loader implements it.
type Loader interface {
	kb.ModuleLoader
	kb.AppLoader
	kb.ResourceLoader

	// Load re-reads the catalog sources. Reset only rewinds what was read.
	Load()
}

type ManagerConfig struct {
	KB             *kb.KnowledgeBase
	Loader         Loader
	Saver          kb.AppSaver
	Repo           Repo
	Timeout        time.Duration // 0 means no limit
	AutoDependency bool          // used when a request does not set it
}

type manager struct {
	kb             *kb.KnowledgeBase
	loader         Loader
	saver          kb.AppSaver
	repo           Repo
	timeout        time.Duration
	autoDependency bool
	*sync.Mutex    // guards kb
}

// NewManager returns a Manager. The catalog is not loaded: call Reload first.
func NewManager(cfg ManagerConfig) Manager {
	return &manager{
		kb:             cfg.KB,
		loader:         cfg.Loader,
		saver:          cfg.Saver,
		repo:           cfg.Repo,
		timeout:        cfg.Timeout,
		autoDependency: cfg.AutoDependency,
		Mutex:          &sync.Mutex{},
	}
}

type result struct {
	plan proto.Plan
	err  error
}

func (m *manager) Create(cp proto.CreatePlan) (proto.Plan, error) {
	if cp.Application == "" {
		return proto.Plan{}, serr.ErrInvalidCreatePlan{Message: "application is not set"}
	}
	autoDependency := m.autoDependency
	if cp.AutoDependency != nil {
		autoDependency = *cp.AutoDependency
	}

	p := proto.Plan{
		Id:             util.XID().String(),
		Application:    cp.Application,
		AutoDependency: autoDependency,
		CreatedAt:      time.Now().UTC(),
	}
	plog := log.WithFields(log.Fields{"plan_id": p.Id, "application": p.Application})

	// The result channel is buffered so an abandoned resolution can finish
	// and exit on its own.
	done := make(chan result, 1)
	go func(p proto.Plan) {
		m.Lock()
		defer m.Unlock()
		p, err := m.resolve(p, cp.Silent, plog)
		done <- result{plan: p, err: err}
	}(p)

	var timeout <-chan time.Time
	if m.timeout > 0 {
		t := time.NewTimer(m.timeout)
		defer t.Stop()
		timeout = t.C
	}

	var res result
	select {
	case res = <-done:
	case <-timeout:
		metrics.ResolveTimeoutsTotal.Inc()
		err := serr.ErrResolveTimeout{Application: cp.Application, Timeout: m.timeout}
		plog.Warn(err)
		p.State = proto.STATE_FAILED
		p.Errors = []string{err.Error()}
		if rerr := m.repo.Add(p); rerr != nil {
			plog.Errorf("error saving plan: %s", rerr)
		}
		metrics.PlansTotal.WithLabelValues(proto.StateName[p.State]).Inc()
		return p, err
	}
	if res.err != nil {
		return proto.Plan{}, res.err
	}

	p = res.plan
	if err := m.repo.Add(p); err != nil {
		return p, err
	}
	metrics.PlansTotal.WithLabelValues(proto.StateName[p.State]).Inc()
	plog.Infof("plan created: %s, %d modules, %d missing", proto.StateName[p.State], len(p.Modules), missing(p))
	return p, nil
}

// resolve runs the knowledge base. The caller must hold the lock.
func (m *manager) resolve(p proto.Plan, silent bool, plog *log.Entry) (proto.Plan, error) {
	if m.kb.Application(p.Application) == nil {
		return p, serr.ApplicationNotFound{Name: p.Application}
	}

	rec := diag.NewRecorder()
	m.kb.SetDiagnostics(diag.Multi(rec, diag.NewLogger(plog)))
	defer m.kb.SetDiagnostics(diag.NewLogger(nil))

	start := time.Now()
	ok := m.kb.ResolveDependency(p.Application, p.AutoDependency, silent)
	metrics.ResolveDuration.Observe(time.Since(start).Seconds())

	m.fill(&p)
	if ok && missing(p) == 0 {
		p.State = proto.STATE_RESOLVED
	} else {
		p.State = proto.STATE_PARTIAL
	}
	p.Warnings = rec.Warnings()
	p.Errors = rec.Errors()
	metrics.MissingResources.Set(float64(missing(p)))
	return p, nil
}

// fill copies the selection of the last resolution into p.
func (m *manager) fill(p *proto.Plan) {
	p.Applications = []proto.Application{}
	for _, a := range m.kb.Applications("") {
		p.Applications = append(p.Applications, proto.Application{
			Label:     a.Label(),
			Name:      a.Name,
			Owner:     a.Owner(),
			Prefix:    a.Prefix,
			Satisfied: a.Satisfied(),
		})
	}

	p.Modules = []proto.Module{}
	for _, mod := range m.kb.Modules("") {
		pm := proto.Module{
			Label:      mod.Label(),
			Name:       mod.Name,
			Owner:      mod.Owner(),
			Prefix:     mod.Prefix,
			Host:       mod.Host,
			Forced:     mod.Forced,
			Rank:       mod.Rank,
			Broker:     mod.Broker,
			Parameters: mod.Parameters,
			Satisfied:  mod.Satisfied(),
		}
		for _, in := range mod.Inputs {
			pm.Inputs = append(pm.Inputs, proto.Port{
				Port:     mod.Prefix + in.Port,
				Carrier:  in.Carrier,
				Type:     in.Type,
				Required: in.Required,
			})
		}
		for _, out := range mod.Outputs {
			pm.Outputs = append(pm.Outputs, proto.Port{
				Port:    mod.Prefix + out.Port,
				Carrier: out.Carrier,
				Type:    out.Type,
			})
		}
		p.Modules = append(p.Modules, pm)
	}

	p.Resources = []proto.Resource{}
	for _, n := range m.kb.Resources("") {
		if r, ok := resource(n); ok {
			p.Resources = append(p.Resources, r)
		}
	}

	p.Connections = []proto.Connection{}
	for _, c := range m.kb.Connections("") {
		p.Connections = append(p.Connections, proto.Connection{
			From:       c.From,
			To:         c.To,
			Carrier:    c.Carrier,
			Owner:      c.Owner,
			Priority:   c.Priority,
			Persistent: c.Persistent,
		})
	}
}

// resource converts a provider or an unsatisfied requirement.
func resource(n graph.Node) (proto.Resource, bool) {
	var r *graph.Resource
	var load float64
	switch v := n.(type) {
	case *graph.Resource:
		r = v
	case *graph.Computer:
		r = &v.Resource
		if v.Owner() == "" {
			load = kb.CalculateLoad(v)
		}
	default:
		return proto.Resource{}, false
	}
	return proto.Resource{
		Label:   n.Label(),
		Name:    r.Name,
		Type:    r.Type,
		Version: r.Version,
		Owner:   n.Owner(),
		Missing: n.Owner() != "",
		Load:    load,
	}, true
}

func missing(p proto.Plan) int {
	n := 0
	for _, r := range p.Resources {
		if r.Missing {
			n++
		}
	}
	return n
}

func (m *manager) Get(planId string) (proto.Plan, error) {
	return m.repo.Get(planId)
}

func (m *manager) List(f proto.PlanFilter) ([]proto.Plan, error) {
	return m.repo.List(f)
}

func (m *manager) Applications() []proto.ApplicationSpec {
	m.Lock()
	defer m.Unlock()
	specs := []proto.ApplicationSpec{}
	for _, app := range m.kb.CatalogApplications() {
		specs = append(specs, applicationSpec(app))
	}
	return specs
}

func (m *manager) Application(name string) (proto.ApplicationSpec, error) {
	m.Lock()
	defer m.Unlock()
	app := m.kb.Application(name)
	if app == nil {
		return proto.ApplicationSpec{}, serr.ApplicationNotFound{Name: name}
	}
	return applicationSpec(app), nil
}

func applicationSpec(app *graph.Application) proto.ApplicationSpec {
	spec := proto.ApplicationSpec{
		Name:         app.Name,
		Description:  app.Description,
		Version:      app.Version,
		Prefix:       app.Prefix,
		Modules:      []string{},
		Applications: []string{},
		Connections:  len(app.Connections),
	}
	for _, mi := range app.Modules {
		spec.Modules = append(spec.Modules, mi.Name)
	}
	for _, ai := range app.Applications {
		spec.Applications = append(spec.Applications, ai.Name)
	}
	return spec
}

func (m *manager) UpdateLoad(computer string, load proto.LoadUpdate) error {
	m.Lock()
	defer m.Unlock()
	metrics.LoadUpdatesTotal.Inc()
	ok := m.kb.UpdateComputerLoad(computer, graph.LoadAverage{
		One:     load.One,
		Five:    load.Five,
		Fifteen: load.Fifteen,
	})
	if !ok {
		return serr.ResourceNotFound{Name: computer}
	}
	return nil
}

func (m *manager) SaveApplication(name string) error {
	m.Lock()
	defer m.Unlock()
	if m.kb.Application(name) == nil {
		return serr.ApplicationNotFound{Name: name}
	}
	if m.saver == nil {
		return serr.ErrSaveFailed{Application: name}
	}
	if !m.kb.SaveApplication(name, m.saver) {
		return serr.ErrSaveFailed{Application: name}
	}
	log.WithField("application", name).Info("application saved")
	return nil
}

func (m *manager) Reload() error {
	m.Lock()
	defer m.Unlock()
	if m.loader == nil {
		return fmt.Errorf("no catalog loader")
	}
	m.loader.Load()
	if !m.kb.CreateFrom(m.loader, m.loader, m.loader) {
		return fmt.Errorf("cannot load catalog")
	}
	m.kb.CheckConsistency()

	apps := len(m.kb.CatalogApplications())
	mods := len(m.kb.CatalogModules())
	res := len(m.kb.CatalogResources())
	metrics.CatalogSize.WithLabelValues("application").Set(float64(apps))
	metrics.CatalogSize.WithLabelValues("module").Set(float64(mods))
	metrics.CatalogSize.WithLabelValues("resource").Set(float64(res))
	log.Infof("catalog loaded: %d applications, %d modules, %d resources", apps, mods, res)
	return nil
}
