// Copyright 2017-2020, Square, Inc.

// Package id provides per-request instance labels for template expansion.
package id

import (
	"fmt"
	"sync"
)

// SEPARATOR joins the parts of an instance label: parent:child:n.
const SEPARATOR = ":"

// A GeneratorFactory makes Generators.
type GeneratorFactory interface {
	// Make makes a Generator. A new generator should be made for every request.
	Make() Generator
}

// generatorFactory implements the GeneratorFactory interface.
type generatorFactory struct{}

func NewGeneratorFactory() GeneratorFactory {
	return generatorFactory{}
}

func (f generatorFactory) Make() Generator {
	return NewGenerator()
}

// A Generator numbers instances of the same name. It is safe for use in
// concurrent threads.
type Generator interface {
	// Next returns the next instance number for name, starting at 1.
	Next(name string) int

	// UID returns a label for the next instance of child under parent,
	// formatted parent:child:n. Labels are unique to the Generator.
	UID(parent, child string) string
}

// generator implements the Generator interface.
type generator struct {
	counts map[string]int
	*sync.Mutex
}

func NewGenerator() Generator {
	return &generator{
		counts: map[string]int{},
		Mutex:  &sync.Mutex{},
	}
}

func (g *generator) Next(name string) int {
	g.Lock()
	defer g.Unlock()
	g.counts[name]++
	return g.counts[name]
}

func (g *generator) UID(parent, child string) string {
	return fmt.Sprintf("%s%s%s%s%d", parent, SEPARATOR, child, SEPARATOR, g.Next(child))
}
