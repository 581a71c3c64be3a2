// Copyright 2020, Square, Inc.

package desc_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"

	. "github.com/robotology/yarpmanager/manager/desc"
	"github.com/robotology/yarpmanager/manager/diag"
	"github.com/robotology/yarpmanager/manager/graph"
	"github.com/robotology/yarpmanager/manager/kb"
)

func loadBasic(t *testing.T) *kb.KnowledgeBase {
	rec := diag.NewRecorder()
	k := kb.New(rec)
	l := NewLoader(descDir+"basic", (&logRecorder{}).Printf)
	if !k.CreateFrom(l, l, l) {
		t.Fatal("CreateFrom returned false")
	}
	if len(rec.Warnings()) != 0 {
		t.Fatalf("warnings loading catalog: %v", rec.Warnings())
	}
	return k
}

func TestLoaderOrder(t *testing.T) {
	l := NewLoader(descDir+"basic", nil)
	l.Reset()
	names := []string{}
	for m := l.NextModule(); m != nil; m = l.NextModule() {
		names = append(names, m.Name)
	}
	if diff := deep.Equal(names, []string{"camera", "tracker", "viewer"}); diff != nil {
		t.Error(diff)
	}
	if l.NextModule() != nil {
		t.Error("NextModule returned a module after the end")
	}

	// Restartable
	l.Reset()
	if m := l.NextModule(); m == nil || m.Name != "camera" {
		t.Errorf("after Reset got %v, expected camera", m)
	}
}

func TestLoaderSkipsBadFiles(t *testing.T) {
	log := &logRecorder{}
	l := NewLoader(descDir+"bad", log.Printf)
	l.Reset()
	if m := l.NextModule(); m != nil {
		t.Errorf("got module %s from a bad file", m.Name)
	}
	if r := l.NextResource(); r == nil || r.Label() != "icub1" {
		t.Errorf("got %v, expected icub1", r)
	}
	if !log.contains("skipping description file modules.yaml") {
		t.Errorf("no warning for bad file: %v", log.lines)
	}
}

func TestLoaderDirs(t *testing.T) {
	l := NewDirsLoader([]string{descDir + "basic", descDir + "dup"}, nil)
	rec := diag.NewRecorder()
	k := kb.New(rec)
	if !k.CreateFrom(l, l, l) {
		t.Fatal("CreateFrom returned false")
	}
	if m := k.Module("camera"); m == nil || m.Description != "frame grabber" {
		t.Errorf("camera = %+v, expected the one in basic", m)
	}
	found := false
	for _, w := range rec.Warnings() {
		if w == "module camera already exists" {
			found = true
		}
	}
	if !found {
		t.Errorf("no duplicate warning: %v", rec.Warnings())
	}
}

func writeDesc(t *testing.T, dir, file, data string) {
	if err := ioutil.WriteFile(filepath.Join(dir, file), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderDuplicateApplications(t *testing.T) {
	tmp, err := ioutil.TempDir("", "yarpm-desc")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmp)
	writeDesc(t, tmp, "a.yaml", "modules:\n  camera:\n    description: first\napplications:\n  demo:\n    description: first\n")
	writeDesc(t, tmp, "b.yaml", "modules:\n  camera:\n    description: second\napplications:\n  demo:\n    description: second\n")

	log := &logRecorder{}
	l := NewLoader(tmp, log.Printf)
	rec := diag.NewRecorder()
	k := kb.New(rec)
	if !k.CreateFrom(l, l, l) {
		t.Fatal("CreateFrom returned false")
	}

	if a := k.Application("demo"); a == nil || a.Description != "first" {
		t.Errorf("demo = %+v, expected the one in a.yaml", a)
	}
	if a := k.Application("demo(1)"); a == nil || a.Description != "second" {
		t.Errorf("demo(1) = %+v, expected the one in b.yaml", a)
	}
	found := false
	for _, w := range rec.Warnings() {
		if w == "application demo already exists, renamed to demo(1)" {
			found = true
		}
	}
	if !found {
		t.Errorf("no rename warning: %v", rec.Warnings())
	}

	if m := k.Module("camera"); m == nil || m.Description != "first" {
		t.Errorf("camera = %+v, expected the one in a.yaml", m)
	}
	if !log.contains("module camera in b.yaml already defined") {
		t.Errorf("no duplicate module warning: %v", log.lines)
	}
}

func TestLoaderReadsOnLoad(t *testing.T) {
	tmp, err := ioutil.TempDir("", "yarpm-desc")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmp)
	writeDesc(t, tmp, "a.yaml", "modules:\n  camera: {}\n")

	l := NewLoader(tmp, nil)
	k := kb.New(nil)
	if !k.CreateFrom(l, l, l) {
		t.Fatal("CreateFrom returned false")
	}
	if k.Module("camera") == nil {
		t.Fatal("camera not loaded")
	}

	// Reset rewinds what was read, the file is not read again
	writeDesc(t, tmp, "a.yaml", "modules:\n  viewer: {}\n")
	k.CreateFrom(l, l, l)
	if k.Module("camera") == nil || k.Module("viewer") != nil {
		t.Error("Reset re-read the directory")
	}

	l.Load()
	k.CreateFrom(l, l, l)
	if k.Module("camera") != nil || k.Module("viewer") == nil {
		t.Error("Load did not re-read the directory")
	}
}

func TestResolveRobot(t *testing.T) {
	k := loadBasic(t)
	if !k.ResolveDependency("robot", true, false) {
		t.Fatal("ResolveDependency returned false")
	}

	hosts := map[string]string{}
	for _, m := range k.Modules("") {
		hosts[m.Label()] = m.Host
	}
	// The tracker needs the gpu on icub2. Both cameras and both viewers
	// spread over the two computers.
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

	if p := k.Provider("robot:resources"); p == nil || p.Label() != "rosmaster" {
		t.Errorf("ros provider = %v, expected rosmaster", p)
	}
	if len(k.Connections("")) != 4 {
		t.Errorf("got %d connections, expected 4", len(k.Connections("")))
	}
	c := k.Connections("robot:vision:2")
	if len(c) != 1 || c[0].From != "/right/cam/img" {
		t.Errorf("connections of right vision = %+v", c)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmp, err := ioutil.TempDir("", "yarpm-desc")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmp)

	k := loadBasic(t)
	orig := k.Application("robot").Clone().(*graph.Application)
	k.ResolveDependency("robot", true, false)

	log := &logRecorder{}
	s := NewSaver(tmp, log.Printf)
	if !k.SaveApplication("robot", s) {
		t.Fatalf("SaveApplication returned false: %v", log.lines)
	}
	if _, err := os.Stat(filepath.Join(tmp, "robot.yaml")); err != nil {
		t.Fatal(err)
	}

	d, err := Parse(tmp, log.Printf)
	if err != nil {
		t.Fatal(err)
	}
	spec, ok := d.Applications["robot"]
	if !ok {
		t.Fatalf("robot not in saved file: %v", d.Applications)
	}
	saved := spec.Application()
	if diff := deep.Equal(saved.Applications, orig.Applications); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(saved.Modules, orig.Modules); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(saved.Connections, orig.Connections); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(saved.Resources, orig.Resources); diff != nil {
		t.Error(diff)
	}

	// Saving again replaces the application in the same file
	if !s.Save(saved) {
		t.Fatal("Save returned false")
	}
	files, _ := ioutil.ReadDir(tmp)
	if len(files) != 1 {
		t.Errorf("got %d files, expected 1", len(files))
	}
}

func TestSaveIntoExistingFile(t *testing.T) {
	tmp, err := ioutil.TempDir("", "yarpm-desc")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmp)

	data, err := ioutil.ReadFile(descDir + "basic/applications.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(tmp, "apps.yaml"), data, 0644); err != nil {
		t.Fatal(err)
	}

	app := &graph.Application{Name: "vision", Prefix: "/eyes"}
	if !NewSaver(tmp, nil).Save(app) {
		t.Fatal("Save returned false")
	}
	d, err := Parse(tmp, (&logRecorder{}).Printf)
	if err != nil {
		t.Fatal(err)
	}
	if d.Applications["vision"].Prefix != "/eyes" {
		t.Errorf("vision prefix = %s, expected /eyes", d.Applications["vision"].Prefix)
	}
	if d.Applications["robot"] == nil {
		t.Error("robot lost when saving vision")
	}
	if _, err := os.Stat(filepath.Join(tmp, "vision.yaml")); err == nil {
		t.Error("vision written to a new file")
	}
}

func TestRunChecks(t *testing.T) {
	d, err := Parse(descDir+"basic", (&logRecorder{}).Printf)
	if err != nil {
		t.Fatal(err)
	}
	log := &logRecorder{}
	if err := RunChecks(d, log.Printf); err != nil {
		t.Errorf("checks failed on basic descriptions: %v", log.lines)
	}

	d.Applications["loop"] = &AppSpec{
		Name:         "loop",
		Applications: []*AppRef{{Name: "loop"}},
		Modules:      []*ModuleRef{{Name: "ghost"}},
		Connections:  []*ConnectionSpec{{From: "/a"}},
	}
	d.Modules["bad"] = &ModuleSpec{
		Name:     "bad",
		Inputs:   []*InputSpec{{Port: "/in"}, {Port: "/in"}},
		Requires: []*ResourceSpec{{Type: "ros", Version: "noetic!"}},
	}
	log = &logRecorder{}
	if err := RunChecks(d, log.Printf); err == nil {
		t.Error("checks passed, expected failure")
	}
	for _, s := range []string{
		`application loop: invalid value(s) "ghost"`,
		`application loop: invalid value(s) "loop" in field ` + "`applications.name`, expected an application other than itself",
		"a connection needs both ends",
		`module bad: value(s) "/in" duplicated`,
		`module bad: invalid value(s) "noetic!"`,
	} {
		if !log.contains(s) {
			t.Errorf("missing %q in %v", s, log.lines)
		}
	}
}

func TestCheckErrors(t *testing.T) {
	err := PortsNamedModuleCheck{}.CheckModule(ModuleSpec{Name: "m", Outputs: []*OutputSpec{{}}})
	expect := MissingValueError{Where: "module m", Field: "outputs.port"}
	if err != expect {
		t.Errorf("err = %#v, expected %#v", err, expect)
	}
	if err := (HasContentAppCheck{}).CheckApp(AppSpec{Name: "empty"}); err == nil {
		t.Error("empty application passed")
	}
}
