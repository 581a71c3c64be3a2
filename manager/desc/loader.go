// Copyright 2020, Square, Inc.

package desc

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/robotology/yarpmanager/manager/graph"
)

// Loader reads description directories for the knowledge base. It
// implements kb.ModuleLoader, kb.AppLoader and kb.ResourceLoader. The
// directories are read by Load, or by the first Reset if Load was never
// called; later Resets only rewind, so one Load serves all three sequences.
// Files that fail to parse are logged and skipped. Definitions are returned
// directory by directory, in file then name order within a directory. A
// module or resource defined twice in one directory is kept from the first
// file; every application is returned and the knowledge base renames
// duplicates. Names defined in more than one directory are left to the
// knowledge base.
type Loader struct {
	dirs    []string
	logFunc func(string, ...interface{})

	loaded     bool
	modules    []*ModuleSpec
	apps       []*AppSpec
	resources  []*ResourceSpec
	mi, ai, ri int
}

func NewLoader(dir string, logFunc func(string, ...interface{})) *Loader {
	return NewDirsLoader([]string{dir}, logFunc)
}

func NewDirsLoader(dirs []string, logFunc func(string, ...interface{})) *Loader {
	if logFunc == nil {
		logFunc = func(string, ...interface{}) {}
	}
	return &Loader{
		dirs:    dirs,
		logFunc: logFunc,
	}
}

// Load re-reads the directories and rewinds all three sequences.
func (l *Loader) Load() {
	l.modules = []*ModuleSpec{}
	l.apps = []*AppSpec{}
	l.resources = []*ResourceSpec{}
	for _, dir := range l.dirs {
		modules := map[string]bool{}
		resources := map[string]bool{}
		err := walkDir(dir, l.logFunc, false, func(relPath string, d Descriptions) {
			for _, name := range sortedKeys(d.Modules) {
				if modules[name] {
					l.logFunc("Warning: module %s in %s already defined, ignored\n", name, relPath)
					continue
				}
				modules[name] = true
				l.modules = append(l.modules, d.Modules[name])
			}
			for _, name := range sortedKeys(d.Applications) {
				l.apps = append(l.apps, d.Applications[name])
			}
			for _, name := range sortedKeys(d.Resources) {
				if resources[name] {
					l.logFunc("Warning: resource %s in %s already defined, ignored\n", name, relPath)
					continue
				}
				resources[name] = true
				l.resources = append(l.resources, d.Resources[name])
			}
		})
		if err != nil {
			l.logFunc("Warning: error reading description files: %s\n", err)
		}
	}
	l.loaded = true
	l.mi, l.ai, l.ri = 0, 0, 0
}

// Reset rewinds all three sequences. It reads the directories only if they
// were never read.
func (l *Loader) Reset() {
	if !l.loaded {
		l.Load()
		return
	}
	l.mi, l.ai, l.ri = 0, 0, 0
}

// NextModule returns the next module, nil after the last one.
func (l *Loader) NextModule() *graph.Module {
	if l.mi >= len(l.modules) {
		return nil
	}
	s := l.modules[l.mi]
	l.mi++
	return s.Module()
}

// NextApplication returns the next application, nil after the last one.
func (l *Loader) NextApplication() *graph.Application {
	if l.ai >= len(l.apps) {
		return nil
	}
	s := l.apps[l.ai]
	l.ai++
	return s.Application()
}

// NextResource returns the next provider, nil after the last one.
func (l *Loader) NextResource() graph.Node {
	if l.ri >= len(l.resources) {
		return nil
	}
	s := l.resources[l.ri]
	l.ri++
	return s.Provider()
}

// --------------------------------------------------------------------------

// Saver writes applications into a description directory. An application
// already defined in a file of the directory is replaced in that file; a new
// one is written to <Dir>/<name>.yaml. It implements kb.AppSaver.
type Saver struct {
	Dir     string
	logFunc func(string, ...interface{})
}

func NewSaver(dir string, logFunc func(string, ...interface{})) *Saver {
	if logFunc == nil {
		logFunc = func(string, ...interface{}) {}
	}
	return &Saver{Dir: dir, logFunc: logFunc}
}

// Save writes app. It returns false, and logs the error, if writing fails.
func (s *Saver) Save(app *graph.Application) bool {
	if err := s.write(app); err != nil {
		name := ""
		if app != nil {
			name = app.Name
		}
		s.logFunc("Error: saving application %s: %s\n", name, err)
		return false
	}
	return true
}

func (s *Saver) write(app *graph.Application) error {
	if app == nil || app.Name == "" {
		return fmt.Errorf("application has no name")
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}

	file, d, err := s.find(app.Name)
	if err != nil {
		return err
	}
	if file == "" {
		file = s.Path(app.Name)
		d = Descriptions{}
	}
	if d.Applications == nil {
		d.Applications = map[string]*AppSpec{}
	}
	d.Applications[app.Name] = NewAppSpec(app)

	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(file, data, 0644)
}

// find returns the file in Dir that defines application name and its
// contents, or "" if no file does.
func (s *Saver) find(name string) (string, Descriptions, error) {
	var found string
	var d Descriptions
	err := filepath.Walk(s.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if found != "" || info.IsDir() || !strings.HasSuffix(info.Name(), ".yaml") {
			return nil
		}
		fd, err := ParseFile(path, s.logFunc)
		if err != nil {
			return nil // not ours to fix
		}
		if _, ok := fd.Applications[name]; ok {
			found = path
			d = fd
		}
		return nil
	})
	return found, d, err
}

// Path returns the file an application named name is saved to.
func (s *Saver) Path(name string) string {
	return filepath.Join(s.Dir, FileName(name))
}

// FileName returns a file name for name that is safe on any file system.
func FileName(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
	return safe + ".yaml"
}
