// Copyright 2020, Square, Inc.

// Package diag provides the diagnostics sink the knowledge base reports
// warnings and errors to. The knowledge base never aborts on its own: it
// returns false or an empty result and leaves the details here.
package diag

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// A Sink receives diagnostics messages.
type Sink interface {
	Warning(msg string)
	Error(msg string)
}

// Warningf formats a warning and sends it to s.
func Warningf(s Sink, format string, args ...interface{}) {
	s.Warning(fmt.Sprintf(format, args...))
}

// Errorf formats an error and sends it to s.
func Errorf(s Sink, format string, args ...interface{}) {
	s.Error(fmt.Sprintf(format, args...))
}

// --------------------------------------------------------------------------

// Logger is a Sink that writes to a logrus entry.
type Logger struct {
	entry *log.Entry
}

func NewLogger(entry *log.Entry) Logger {
	if entry == nil {
		entry = log.NewEntry(log.StandardLogger())
	}
	return Logger{entry: entry}
}

func (l Logger) Warning(msg string) {
	l.entry.Warn(msg)
}

func (l Logger) Error(msg string) {
	l.entry.Error(msg)
}

// --------------------------------------------------------------------------

// Recorder is a Sink that keeps every message. It is safe for concurrent use.
type Recorder struct {
	warnings []string
	errors   []string
	*sync.Mutex
}

func NewRecorder() *Recorder {
	return &Recorder{
		warnings: []string{},
		errors:   []string{},
		Mutex:    &sync.Mutex{},
	}
}

func (r *Recorder) Warning(msg string) {
	r.Lock()
	r.warnings = append(r.warnings, msg)
	r.Unlock()
}

func (r *Recorder) Error(msg string) {
	r.Lock()
	r.errors = append(r.errors, msg)
	r.Unlock()
}

// Warnings returns a copy of all warnings received so far.
func (r *Recorder) Warnings() []string {
	r.Lock()
	defer r.Unlock()
	return append([]string{}, r.warnings...)
}

// Errors returns a copy of all errors received so far.
func (r *Recorder) Errors() []string {
	r.Lock()
	defer r.Unlock()
	return append([]string{}, r.errors...)
}

// Reset drops all recorded messages.
func (r *Recorder) Reset() {
	r.Lock()
	r.warnings = []string{}
	r.errors = []string{}
	r.Unlock()
}

// --------------------------------------------------------------------------

type multi []Sink

// Multi returns a Sink that sends every message to all sinks.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) Warning(msg string) {
	for _, s := range m {
		s.Warning(msg)
	}
}

func (m multi) Error(msg string) {
	for _, s := range m {
		s.Error(msg)
	}
}

type discard struct{}

// Discard is a Sink that drops every message.
var Discard Sink = discard{}

func (discard) Warning(string) {}
func (discard) Error(string)   {}
