// Copyright 2016-2020, Square, Inc.

// Package config handles config files, --config, and env vars at startup.
package config

import (
	"fmt"
	"io/ioutil"
	"log"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"gopkg.in/yaml.v2"
)

const (
	DEFAULT_CONFIG_FILES = "/etc/yarpm/yarpm.yaml,~/.yarpm.yaml"
	DEFAULT_ADDR         = "http://127.0.0.1:9340"
	DEFAULT_TIMEOUT      = 5000 // 5s
)

// Options represents typical command line options: --addr, --config, etc.
type Options struct {
	Addr           string `arg:"env" yaml:"addr"`
	Config         string `arg:"env"`
	Debug          bool
	Help           bool
	Ping           bool
	Timeout        uint `arg:"env" yaml:"timeout"`
	Version        bool
	Verbose        bool   `arg:"-v"`
	AutoDependency bool   `arg:"--auto-dependency" yaml:"auto_dependency"`
	Silent         bool   `arg:"--silent"`
	State          string `arg:"--state"`
	Limit          uint   `arg:"--limit"`
}

// Command represents a command (plan, show, etc.) and its values.
type Command struct {
	Cmd  string   `arg:"positional"`
	Args []string `arg:"positional"`
}

// CommandLine represents options (--addr, etc.) and commands (plan, etc.).
// The caller is expected to copy and use the embedded structs separately, like:
//
//	var o config.Options = cmdLine.Options
//	var c config.Command = cmdLine.Command
//
// Some commands and options are mutually exclusive, like --ping and --version.
// Others can be used together, like --addr and --timeout with any command.
type CommandLine struct {
	Options
	Command
}

// ParseCommandLine parses args (without the program name) and env vars.
// Command line options override env vars. Default options are used unless
// overridden by env vars or command line options. Defaults are usually parsed
// from config files.
func ParseCommandLine(def Options, args []string) (CommandLine, error) {
	var c CommandLine
	c.Options = def
	p, err := arg.NewParser(arg.Config{Program: "yarpm"}, &c)
	if err != nil {
		return c, fmt.Errorf("arg.NewParser: %s", err)
	}
	if err := p.Parse(args); err != nil {
		switch err {
		case arg.ErrHelp:
			c.Help = true
		case arg.ErrVersion:
			c.Version = true
		default:
			return c, fmt.Errorf("Error parsing command line: %s", err)
		}
	}
	return c, nil
}

// ParseConfigFiles reads the comma-separated config files in order. Options
// set in later files override earlier ones. Missing or invalid files are
// skipped.
func ParseConfigFiles(files string, debug bool) Options {
	var def Options
	for _, file := range strings.Split(files, ",") {
		if file == "" {
			continue
		}
		// If file starts with ~/, we need to expand this to the user home dir
		// because this is a shell expansion, not something Go knows about.
		if strings.HasPrefix(file, "~/") {
			usr, err := user.Current()
			if err != nil {
				continue
			}
			file = filepath.Join(usr.HomeDir, file[2:])
		}

		absfile, err := filepath.Abs(file)
		if err != nil {
			if debug {
				log.Printf("filepath.Abs(%s) error: %s", file, err)
			}
			continue
		}

		bytes, err := ioutil.ReadFile(absfile)
		if err != nil {
			if debug {
				log.Printf("Cannot read config file %s: %s", file, err)
			}
			continue
		}

		var o Options
		if err := yaml.Unmarshal(bytes, &o); err != nil {
			if debug {
				log.Printf("Invalid YAML in config file %s: %s", file, err)
			}
			continue
		}

		// Set options from this config file only if they're set
		if debug {
			log.Printf("Applying config file %s (%s)", file, absfile)
		}
		if o.Addr != "" {
			def.Addr = o.Addr
		}
		if o.Timeout != 0 {
			def.Timeout = o.Timeout
		}
		if o.AutoDependency {
			def.AutoDependency = true
		}
	}
	return def
}
