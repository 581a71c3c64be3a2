// Copyright 2020, Square, Inc.

package desc

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// ParseFile reads a single description file.
// `logFunc` is a Printf-like function used to log warning(s) should they occur.
// Errors are returned, not logged.
func ParseFile(file string, logFunc func(string, ...interface{})) (Descriptions, error) {
	var d Descriptions

	data, err := ioutil.ReadFile(file)
	if err != nil {
		return d, err
	}

	/* Emit warning if unexpected or duplicate fields are present. */
	/* Error if descriptions are incorrectly formatted or fields are of incorrect type. */
	err = yaml.UnmarshalStrict(data, &d)
	if err != nil {
		logFunc("Warning: %s: %s\n", file, err)
		d = Descriptions{}
		err = yaml.Unmarshal(data, &d)
		if err != nil {
			return d, err
		}
	}

	for name, m := range d.Modules {
		if m == nil {
			m = &ModuleSpec{}
			d.Modules[name] = m
		}
		m.Name = name
	}
	for name, a := range d.Applications {
		if a == nil {
			a = &AppSpec{}
			d.Applications[name] = a
		}
		a.Name = name
	}
	for name, r := range d.Resources {
		if r == nil {
			r = &ResourceSpec{}
			d.Resources[name] = r
		}
		if r.Name == "" {
			r.Name = name
		}
	}

	return d, nil
}

// Parse reads all description files in dir. A name defined in more than one
// file is kept from the first file (in lexical path order) and a warning is
// logged. The first file that fails to parse stops the walk and its error is
// returned.
func Parse(dir string, logFunc func(string, ...interface{})) (Descriptions, error) {
	return parseDir(dir, logFunc, true)
}

func parseDir(dir string, logFunc func(string, ...interface{}), strict bool) (Descriptions, error) {
	all := NewDescriptions()

	err := walkDir(dir, logFunc, strict, func(relPath string, d Descriptions) {
		for _, name := range sortedKeys(d.Modules) {
			if _, ok := all.Modules[name]; ok {
				logFunc("Warning: module %s in %s already defined, ignored\n", name, relPath)
				continue
			}
			all.Modules[name] = d.Modules[name]
		}
		for _, name := range sortedKeys(d.Applications) {
			if _, ok := all.Applications[name]; ok {
				logFunc("Warning: application %s in %s already defined, ignored\n", name, relPath)
				continue
			}
			all.Applications[name] = d.Applications[name]
		}
		for _, name := range sortedKeys(d.Resources) {
			if _, ok := all.Resources[name]; ok {
				logFunc("Warning: resource %s in %s already defined, ignored\n", name, relPath)
				continue
			}
			all.Resources[name] = d.Resources[name]
		}
	})
	if err != nil {
		return all, fmt.Errorf("error reading description files: %s", err)
	}

	return all, nil
}

// walkDir parses every description file under dir, in lexical path order,
// and calls fn with each. If strict is false, a file that fails to parse is
// logged and skipped instead of stopping the walk.
func walkDir(dir string, logFunc func(string, ...interface{}), strict bool, fn func(relPath string, d Descriptions)) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".yaml") {
			return nil
		}
		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			relPath = path
		}

		d, err := ParseFile(path, logFunc) // logs warnings but not errors
		if err != nil {
			if strict {
				return fmt.Errorf("error reading description file %s: %s", relPath, err)
			}
			logFunc("Warning: skipping description file %s: %s\n", relPath, err)
			return nil
		}
		fn(relPath, d)
		return nil
	})
}

// sortedKeys returns the keys of a description map in lexical order.
func sortedKeys(m interface{}) []string {
	keys := []string{}
	switch v := m.(type) {
	case map[string]*ModuleSpec:
		for k := range v {
			keys = append(keys, k)
		}
	case map[string]*AppSpec:
		for k := range v {
			keys = append(keys, k)
		}
	case map[string]*ResourceSpec:
		for k := range v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
