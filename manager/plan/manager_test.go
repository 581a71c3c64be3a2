// Copyright 2020, Square, Inc.

package plan

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/rs/xid"

	serr "github.com/robotology/yarpmanager/errors"
	"github.com/robotology/yarpmanager/manager/desc"
	"github.com/robotology/yarpmanager/manager/kb"
	rmtest "github.com/robotology/yarpmanager/manager/test"
	"github.com/robotology/yarpmanager/proto"
	"github.com/robotology/yarpmanager/test/mock"
)

var yes = true

func newManager(t *testing.T, saver kb.AppSaver) *manager {
	l := desc.NewLoader(rmtest.DescPath+"/basic", nil)
	m := NewManager(ManagerConfig{
		KB:     kb.New(nil),
		Loader: l,
		Saver:  saver,
		Repo:   NewMemoryRepo(0),
	}).(*manager)
	if err := m.Reload(); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCreate(t *testing.T) {
	m := newManager(t, nil)
	p, err := m.Create(proto.CreatePlan{Application: "robot", AutoDependency: &yes})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := xid.FromString(p.Id); err != nil {
		t.Errorf("plan id %q is not an xid: %s", p.Id, err)
	}
	if p.State != proto.STATE_RESOLVED {
		t.Errorf("state = %s, expected RESOLVED (warnings: %v)", proto.StateName[p.State], p.Warnings)
	}
	if !p.AutoDependency {
		t.Error("autoDependency not set")
	}

	hosts := map[string]string{}
	for _, mod := range p.Modules {
		hosts[mod.Label] = mod.Host
	}
	expect := map[string]string{
		"robot:vision:1:camera:1": "icub1",
		"robot:vision:1:viewer:1": "icub2",
		"robot:vision:2:camera:2": "icub1",
		"robot:vision:2:viewer:2": "icub2",
		"robot:tracker:1":         "icub2",
	}
	if diff := deep.Equal(hosts, expect); diff != nil {
		t.Error(diff)
	}

	var cam proto.Module
	for _, mod := range p.Modules {
		if mod.Label == "robot:vision:1:camera:1" {
			cam = mod
		}
	}
	expectOut := []proto.Port{{Port: "/left/cam/img", Carrier: "udp", Type: "ImageRgb"}}
	if diff := deep.Equal(cam.Outputs, expectOut); diff != nil {
		t.Error(diff)
	}

	if len(p.Applications) != 3 {
		t.Errorf("got %d applications, expected 3", len(p.Applications))
	}
	if len(p.Connections) != 4 {
		t.Errorf("got %d connections, expected 4", len(p.Connections))
	}
	ros := false
	for _, r := range p.Resources {
		if r.Missing {
			t.Errorf("resource %+v missing", r)
		}
		if r.Label == "rosmaster" {
			ros = true
		}
	}
	if !ros {
		t.Errorf("rosmaster not in resources: %+v", p.Resources)
	}

	got, err := m.Get(p.Id)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(got, p); diff != nil {
		t.Error(diff)
	}
	list, err := m.List(proto.PlanFilter{Application: "robot"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Id != p.Id {
		t.Errorf("list = %+v, expected plan %s", list, p.Id)
	}
}

func TestCreatePartial(t *testing.T) {
	m := newManager(t, nil)
	m.kb.RemoveResource("icub2") // the only gpu

	p, err := m.Create(proto.CreatePlan{Application: "robot"})
	if err != nil {
		t.Fatal(err)
	}
	if p.State != proto.STATE_PARTIAL {
		t.Errorf("state = %s, expected PARTIAL", proto.StateName[p.State])
	}
	gpu := false
	for _, r := range p.Resources {
		if r.Missing && r.Type == "gpu" && r.Owner == "robot:tracker:1" {
			gpu = true
		}
	}
	if !gpu {
		t.Errorf("missing gpu not reported: %+v", p.Resources)
	}
	warned := false
	for _, w := range p.Warnings {
		if strings.Contains(w, "cannot be satisfied") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("no warning for the tracker: %v", p.Warnings)
	}
}

func TestCreateErrors(t *testing.T) {
	m := newManager(t, nil)

	_, err := m.Create(proto.CreatePlan{})
	if _, ok := err.(serr.ErrInvalidCreatePlan); !ok {
		t.Errorf("err = %v (%T), expected ErrInvalidCreatePlan", err, err)
	}

	_, err = m.Create(proto.CreatePlan{Application: "nope"})
	if expect := (serr.ApplicationNotFound{Name: "nope"}); err != expect {
		t.Errorf("err = %#v, expected %#v", err, expect)
	}

	list, _ := m.List(proto.PlanFilter{})
	if len(list) != 0 {
		t.Errorf("got %d plans, expected none", len(list))
	}
}

func TestCreateRepo(t *testing.T) {
	m := newManager(t, nil)
	repo := &mock.PlanRepo{}
	m.repo = repo
	p, err := m.Create(proto.CreatePlan{Application: "vision"})
	if err != nil {
		t.Fatal(err)
	}
	if len(repo.Added) != 1 || repo.Added[0].Id != p.Id {
		t.Errorf("repo got %+v, expected plan %s", repo.Added, p.Id)
	}

	repo.AddErr = mock.ErrPlanRepo
	if _, err := m.Create(proto.CreatePlan{Application: "vision"}); err != mock.ErrPlanRepo {
		t.Errorf("got err %v, expected mock.ErrPlanRepo", err)
	}
}

func TestCreateTimeout(t *testing.T) {
	m := newManager(t, nil)
	m.timeout = 10 * time.Millisecond

	// Hold the knowledge base so the resolution cannot start.
	m.Lock()
	p, err := m.Create(proto.CreatePlan{Application: "robot"})
	m.Unlock()

	if _, ok := err.(serr.ErrResolveTimeout); !ok {
		t.Fatalf("err = %v (%T), expected ErrResolveTimeout", err, err)
	}
	if p.State != proto.STATE_FAILED {
		t.Errorf("state = %s, expected FAILED", proto.StateName[p.State])
	}
	got, err := m.Get(p.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != proto.STATE_FAILED {
		t.Errorf("saved state = %s, expected FAILED", proto.StateName[got.State])
	}
}

func TestUpdateLoad(t *testing.T) {
	m := newManager(t, nil)

	err := m.UpdateLoad("nope", proto.LoadUpdate{One: 1})
	if expect := (serr.ResourceNotFound{Name: "nope"}); err != expect {
		t.Errorf("err = %#v, expected %#v", err, expect)
	}

	if err := m.UpdateLoad("icub1", proto.LoadUpdate{One: 5, Five: 5, Fifteen: 5}); err != nil {
		t.Fatal(err)
	}
	p, err := m.Create(proto.CreatePlan{Application: "vision"})
	if err != nil {
		t.Fatal(err)
	}
	for _, mod := range p.Modules {
		if mod.Host != "icub2" {
			t.Errorf("%s on %s, expected icub2", mod.Label, mod.Host)
		}
	}
}

func TestApplications(t *testing.T) {
	m := newManager(t, nil)

	names := []string{}
	for _, a := range m.Applications() {
		names = append(names, a.Name)
	}
	if diff := deep.Equal(names, []string{"robot", "vision"}); diff != nil {
		t.Error(diff)
	}

	got, err := m.Application("vision")
	if err != nil {
		t.Fatal(err)
	}
	expect := proto.ApplicationSpec{
		Name:         "vision",
		Description:  "camera and viewer",
		Prefix:       "/vision",
		Modules:      []string{"camera", "viewer"},
		Applications: []string{},
		Connections:  1,
	}
	if diff := deep.Equal(got, expect); diff != nil {
		t.Error(diff)
	}

	if _, err := m.Application("nope"); err == nil {
		t.Error("no error for unknown application")
	}
}

func TestSaveApplication(t *testing.T) {
	tmp, err := ioutil.TempDir("", "yarpm-plan")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmp)

	m := newManager(t, desc.NewSaver(tmp, nil))
	if err := m.SaveApplication("vision"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "vision.yaml")); err != nil {
		t.Error(err)
	}
	if err := m.SaveApplication("nope"); err == nil {
		t.Error("saved an unknown application")
	}

	m.saver = nil
	err = m.SaveApplication("vision")
	if expect := (serr.ErrSaveFailed{Application: "vision"}); err != expect {
		t.Errorf("err = %#v, expected %#v", err, expect)
	}
}

func TestReload(t *testing.T) {
	m := newManager(t, nil)
	m.kb.RemoveApplication("vision")
	if m.kb.Application("vision") != nil {
		t.Fatal("vision not removed")
	}
	if err := m.Reload(); err != nil {
		t.Fatal(err)
	}
	if m.kb.Application("vision") == nil {
		t.Error("vision not reloaded")
	}

	m.loader = nil
	if err := m.Reload(); err == nil {
		t.Error("no error without a loader")
	}
}

func TestReloadChangedFiles(t *testing.T) {
	tmp, err := ioutil.TempDir("", "yarpm-plan")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmp)
	file := filepath.Join(tmp, "apps.yaml")
	if err := ioutil.WriteFile(file, []byte("applications:\n  demo: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(ManagerConfig{
		KB:     kb.New(nil),
		Loader: desc.NewLoader(tmp, nil),
		Repo:   NewMemoryRepo(0),
	}).(*manager)
	if err := m.Reload(); err != nil {
		t.Fatal(err)
	}
	if m.kb.Application("demo") == nil {
		t.Fatal("demo not loaded")
	}

	if err := ioutil.WriteFile(file, []byte("applications:\n  other: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := m.Reload(); err != nil {
		t.Fatal(err)
	}
	if m.kb.Application("demo") != nil || m.kb.Application("other") == nil {
		t.Error("Reload did not pick up the changed file")
	}
}
