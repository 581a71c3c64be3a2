// Copyright 2017-2020, Square, Inc.

// Package desc reads and writes the YAML description files of modules,
// applications and resources, and converts them to catalog nodes.
//
// A description file has up to three top-level maps keyed by name:
//
//	modules:
//	  camera:
//	    outputs:
//	      - port: /img
//	    requires:
//	      - type: computer
//	        memory: 1024
//	applications:
//	  demo:
//	    prefix: /demo
//	    modules:
//	      - name: camera
//	        prefix: /cam
//	resources:
//	  icub1:
//	    type: computer
//	    cores: 8
//
// Files are read from a directory tree; every file ending in .yaml is read.
package desc

// Descriptions are the contents of one description file or of a whole
// directory of them.
type Descriptions struct {
	Modules      map[string]*ModuleSpec   `yaml:"modules,omitempty"`
	Applications map[string]*AppSpec      `yaml:"applications,omitempty"`
	Resources    map[string]*ResourceSpec `yaml:"resources,omitempty"`
}

func NewDescriptions() Descriptions {
	return Descriptions{
		Modules:      map[string]*ModuleSpec{},
		Applications: map[string]*AppSpec{},
		Resources:    map[string]*ResourceSpec{},
	}
}

// ModuleSpec describes one executable.
type ModuleSpec struct {
	Name        string          `yaml:"-"` // map key
	Description string          `yaml:"description,omitempty"`
	Version     string          `yaml:"version,omitempty"`
	Rank        int             `yaml:"rank,omitempty"`
	Broker      string          `yaml:"broker,omitempty"`     // launcher used to start it
	Parameters  string          `yaml:"parameters,omitempty"` // command line arguments
	Inputs      []*InputSpec    `yaml:"inputs,omitempty"`
	Outputs     []*OutputSpec   `yaml:"outputs,omitempty"`
	Requires    []*ResourceSpec `yaml:"requires,omitempty"`
}

type InputSpec struct {
	Port        string `yaml:"port"`
	Carrier     string `yaml:"carrier,omitempty"`
	Type        string `yaml:"type,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
	Priority    bool   `yaml:"priority,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type OutputSpec struct {
	Port        string `yaml:"port"`
	Carrier     string `yaml:"carrier,omitempty"`
	Type        string `yaml:"type,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ResourceSpec is a provider in the resources map and a requirement in a
// requires list. Type defaults to computer.
type ResourceSpec struct {
	Name        string          `yaml:"name,omitempty"` // requirements only, providers use the map key
	Type        string          `yaml:"type,omitempty"`
	Version     string          `yaml:"version,omitempty"`
	Description string          `yaml:"description,omitempty"`
	Required    *bool           `yaml:"required,omitempty"` // requirements only, default true
	Disabled    bool            `yaml:"disabled,omitempty"`
	Arch        string          `yaml:"arch,omitempty"`
	Memory      uint64          `yaml:"memory,omitempty"` // MB
	Cores       int             `yaml:"cores,omitempty"`
	Siblings    int             `yaml:"siblings,omitempty"`
	Platform    *PlatformSpec   `yaml:"platform,omitempty"`
	Load        *LoadSpec       `yaml:"load,omitempty"`
	Peripherals []*ResourceSpec `yaml:"peripherals,omitempty"`
}

type PlatformSpec struct {
	Name         string `yaml:"name,omitempty"`
	Distribution string `yaml:"distribution,omitempty"`
	Release      string `yaml:"release,omitempty"`
}

type LoadSpec struct {
	One     float64 `yaml:"one"`
	Five    float64 `yaml:"five"`
	Fifteen float64 `yaml:"fifteen"`
}

// AppSpec describes an application.
type AppSpec struct {
	Name         string            `yaml:"-"` // map key
	Description  string            `yaml:"description,omitempty"`
	Version      string            `yaml:"version,omitempty"`
	Prefix       string            `yaml:"prefix,omitempty"`
	Model        string            `yaml:"model,omitempty"`
	Modules      []*ModuleRef      `yaml:"modules,omitempty"`
	Applications []*AppRef         `yaml:"applications,omitempty"`
	Connections  []*ConnectionSpec `yaml:"connections,omitempty"`
	Arbitrators  []*ArbitratorSpec `yaml:"arbitrators,omitempty"`
	Requires     []*ResourceSpec   `yaml:"requires,omitempty"`
}

// ModuleRef includes a module in an application.
type ModuleRef struct {
	Name       string          `yaml:"name"`
	Prefix     string          `yaml:"prefix,omitempty"`
	Host       string          `yaml:"host,omitempty"` // pins the module to this computer
	Rank       int             `yaml:"rank,omitempty"`
	Broker     string          `yaml:"broker,omitempty"`
	Parameters string          `yaml:"parameters,omitempty"`
	Model      string          `yaml:"model,omitempty"`
	Requires   []*ResourceSpec `yaml:"requires,omitempty"`
}

// AppRef includes an application in another one.
type AppRef struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

type ConnectionSpec struct {
	From         string `yaml:"from"`
	To           string `yaml:"to"`
	Carrier      string `yaml:"carrier,omitempty"`
	Priority     bool   `yaml:"priority,omitempty"`
	FromExternal bool   `yaml:"fromExternal,omitempty"`
	ToExternal   bool   `yaml:"toExternal,omitempty"`
	Persistent   bool   `yaml:"persistent,omitempty"`
	Model        string `yaml:"model,omitempty"`
}

type ArbitratorSpec struct {
	Port  string            `yaml:"port"`
	Rules map[string]string `yaml:"rules,omitempty"`
	Model string            `yaml:"model,omitempty"`
}
