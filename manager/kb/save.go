// Copyright 2020, Square, Inc.

package kb

import (
	"github.com/robotology/yarpmanager/manager/diag"
	"github.com/robotology/yarpmanager/manager/graph"
)

// SaveApplication writes the catalog application name with saver. If name is
// the root of the last resolution, the interface lists are rebuilt from the
// live instances first, so edits made to them (prefix, model, forced host)
// are saved too.
func (kb *KnowledgeBase) SaveApplication(name string, saver AppSaver) bool {
	if saver == nil {
		diag.Errorf(kb.sink, "no saver given")
		return false
	}
	tmpl := kb.Application(name)
	if tmpl == nil {
		diag.Errorf(kb.sink, "application %s not found", name)
		return false
	}
	out := tmpl.Clone().(*graph.Application)
	if kb.mainApp != nil && kb.mainApp.Label() == tmpl.Label() {
		kb.normalize(out, kb.mainApp)
	}
	if !saver.Save(out) {
		diag.Errorf(kb.sink, "cannot save application %s", name)
		return false
	}
	return true
}

// normalize copies the settings of the instances of live back into the
// interface lists of out. The k-th instance of a name belongs to the k-th
// interface with that name. Interfaces without an instance, such as those
// added after the resolution or naming an unknown entry, are kept as they are.
func (kb *KnowledgeBase) normalize(out, live *graph.Application) {
	apps := map[string][]*graph.Application{}
	mods := map[string][]*graph.Module{}
	for _, n := range kb.tmpGraph.Owned(live.Label()) {
		switch x := n.(type) {
		case *graph.Application:
			apps[x.Name] = append(apps[x.Name], x)
		case *graph.Module:
			mods[x.Name] = append(mods[x.Name], x)
		}
	}

	for i, ai := range out.Applications {
		l := apps[ai.Name]
		if len(l) == 0 {
			continue
		}
		out.Applications[i].Prefix = l[0].BasePrefix
		out.Applications[i].Model = l[0].Model
		apps[ai.Name] = l[1:]
	}
	for i, mi := range out.Modules {
		l := mods[mi.Name]
		if len(l) == 0 {
			continue
		}
		x := l[0]
		out.Modules[i].Prefix = x.BasePrefix
		out.Modules[i].Model = x.Model
		if x.Forced {
			out.Modules[i].Host = x.Host
		}
		mods[mi.Name] = l[1:]
	}

	for i := range out.Connections {
		if i < len(live.Connections) {
			out.Connections[i].Model = live.Connections[i].Model
		}
	}
	for i := range out.Arbitrators {
		if i < len(live.Arbitrators) {
			out.Arbitrators[i].Model = live.Arbitrators[i].Model
		}
	}
}
