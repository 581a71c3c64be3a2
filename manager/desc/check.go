// Copyright 2020, Square, Inc.

package desc

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var checkFailed = fmt.Errorf("Static check(s) failed")

// Runs checks on all descriptions.
// `logFunc` is a Printf-like function used to log warnings and errors should they occur.
// If any error is logged, this function returns an error.
func RunChecks(d Descriptions, logFunc func(string, ...interface{})) error {
	var ret error

	moduleErrors := makeModuleErrorChecks()
	for _, name := range sortedKeys(d.Modules) {
		for _, check := range moduleErrors {
			if err := check.CheckModule(*d.Modules[name]); err != nil {
				logFunc("Error: %s\n", err)
				ret = checkFailed
			}
		}
	}

	appErrors := makeAppErrorChecks(d)
	appWarnings := makeAppWarningChecks()
	for _, name := range sortedKeys(d.Applications) {
		app := *d.Applications[name]
		for _, check := range appErrors {
			if err := check.CheckApp(app); err != nil {
				logFunc("Error: %s\n", err)
				ret = checkFailed
			}
		}
		for _, check := range appWarnings {
			if err := check.CheckApp(app); err != nil {
				logFunc("Warning: %s\n", err)
			}
		}
	}

	for _, name := range sortedKeys(d.Resources) {
		if err := (ValidVersionsResourceCheck{}).CheckResource("resource "+name, *d.Resources[name]); err != nil {
			logFunc("Error: %s\n", err)
			ret = checkFailed
		}
	}

	return ret
}

/* ========================================================================== */
/* Add new checks here. Order shouldn't matter. */

func makeModuleErrorChecks() []ModuleCheck {
	return []ModuleCheck{
		PortsNamedModuleCheck{},
		PortsOnceModuleCheck{},
		RequiresValidModuleCheck{},
	}
}

func makeAppErrorChecks(d Descriptions) []AppCheck {
	return []AppCheck{
		ModulesExistAppCheck{d.Modules},
		AppsExistAppCheck{d.Applications},
		NoSelfInclusionAppCheck{},
		ConnectionsCompleteAppCheck{},
		RequiresValidAppCheck{},
	}
}

func makeAppWarningChecks() []AppCheck {
	return []AppCheck{
		HasContentAppCheck{},
	}
}

/* ========================================================================== */

var _ error = InvalidValueError{}

type InvalidValueError struct {
	Where    string // "module x", "application y"
	Field    string
	Values   []string
	Expected string
}

func (e InvalidValueError) Error() string {
	values := fmt.Sprintf("\"%s\"", strings.Join(e.Values, "\", \""))
	return fmt.Sprintf("%s: invalid value(s) %s in field `%s`, expected %s", e.Where, values, e.Field, e.Expected)
}

var _ error = MissingValueError{}

type MissingValueError struct {
	Where       string
	Field       string
	Explanation string
}

func (e MissingValueError) Error() string {
	var explanation string
	if e.Explanation != "" {
		explanation = fmt.Sprintf(": %s", e.Explanation)
	}
	return fmt.Sprintf("%s: field(s) `%s` missing%s", e.Where, e.Field, explanation)
}

var _ error = DuplicateValueError{}

type DuplicateValueError struct {
	Where  string
	Field  string
	Values []string
}

func (e DuplicateValueError) Error() string {
	values := fmt.Sprintf("\"%s\"", strings.Join(e.Values, "\", \""))
	return fmt.Sprintf("%s: value(s) %s duplicated in field `%s`", e.Where, values, e.Field)
}

/* ========================================================================== */

type ModuleCheck interface {
	CheckModule(ModuleSpec) error
}

type AppCheck interface {
	CheckApp(AppSpec) error
}

/* ========================================================================== */
type PortsNamedModuleCheck struct{}

/* Every input and output must have a port. */
func (check PortsNamedModuleCheck) CheckModule(m ModuleSpec) error {
	for _, in := range m.Inputs {
		if in.Port == "" {
			return MissingValueError{Where: "module " + m.Name, Field: "inputs.port"}
		}
	}
	for _, out := range m.Outputs {
		if out.Port == "" {
			return MissingValueError{Where: "module " + m.Name, Field: "outputs.port"}
		}
	}
	return nil
}

/* ========================================================================== */
type PortsOnceModuleCheck struct{}

/* A port is declared at most once per direction. */
func (check PortsOnceModuleCheck) CheckModule(m ModuleSpec) error {
	seen := map[string]bool{}
	dups := []string{}
	for _, in := range m.Inputs {
		if seen["in"+in.Port] {
			dups = append(dups, in.Port)
		}
		seen["in"+in.Port] = true
	}
	for _, out := range m.Outputs {
		if seen["out"+out.Port] {
			dups = append(dups, out.Port)
		}
		seen["out"+out.Port] = true
	}
	if len(dups) > 0 {
		return DuplicateValueError{Where: "module " + m.Name, Field: "port", Values: dups}
	}
	return nil
}

/* ========================================================================== */
type RequiresValidModuleCheck struct{}

func (check RequiresValidModuleCheck) CheckModule(m ModuleSpec) error {
	for _, r := range m.Requires {
		if err := (ValidVersionsResourceCheck{}).CheckResource("module "+m.Name, *r); err != nil {
			return err
		}
	}
	return nil
}

/* ========================================================================== */
type ValidVersionsResourceCheck struct{}

/* Versions and releases must be semver versions or constraints. */
func (check ValidVersionsResourceCheck) CheckResource(where string, r ResourceSpec) error {
	values := []string{}
	if r.Version != "" && !validVersion(r.Version) {
		values = append(values, r.Version)
	}
	if r.Platform != nil && r.Platform.Release != "" && !validVersion(r.Platform.Release) {
		values = append(values, r.Platform.Release)
	}
	for _, p := range r.Peripherals {
		if p.Version != "" && !validVersion(p.Version) {
			values = append(values, p.Version)
		}
	}
	if len(values) > 0 {
		return InvalidValueError{
			Where:    where,
			Field:    "version",
			Values:   values,
			Expected: "semver version or constraint",
		}
	}
	return nil
}

func validVersion(v string) bool {
	if _, err := semver.NewVersion(v); err == nil {
		return true
	}
	_, err := semver.NewConstraint(v)
	return err == nil
}

/* ========================================================================== */
type ModulesExistAppCheck struct {
	Modules map[string]*ModuleSpec
}

/* Every included module must be described. */
func (check ModulesExistAppCheck) CheckApp(app AppSpec) error {
	missing := []string{}
	for _, ref := range app.Modules {
		if _, ok := check.Modules[ref.Name]; !ok {
			missing = append(missing, ref.Name)
		}
	}
	if len(missing) > 0 {
		return InvalidValueError{
			Where:    "application " + app.Name,
			Field:    "modules.name",
			Values:   missing,
			Expected: "described module",
		}
	}
	return nil
}

/* ========================================================================== */
type AppsExistAppCheck struct {
	Applications map[string]*AppSpec
}

/* Every included application must be described. */
func (check AppsExistAppCheck) CheckApp(app AppSpec) error {
	missing := []string{}
	for _, ref := range app.Applications {
		if _, ok := check.Applications[ref.Name]; !ok {
			missing = append(missing, ref.Name)
		}
	}
	if len(missing) > 0 {
		return InvalidValueError{
			Where:    "application " + app.Name,
			Field:    "applications.name",
			Values:   missing,
			Expected: "described application",
		}
	}
	return nil
}

/* ========================================================================== */
type NoSelfInclusionAppCheck struct{}

func (check NoSelfInclusionAppCheck) CheckApp(app AppSpec) error {
	for _, ref := range app.Applications {
		if ref.Name == app.Name {
			return InvalidValueError{
				Where:    "application " + app.Name,
				Field:    "applications.name",
				Values:   []string{ref.Name},
				Expected: "an application other than itself",
			}
		}
	}
	return nil
}

/* ========================================================================== */
type ConnectionsCompleteAppCheck struct{}

func (check ConnectionsCompleteAppCheck) CheckApp(app AppSpec) error {
	for _, c := range app.Connections {
		if c.From == "" || c.To == "" {
			return MissingValueError{
				Where:       "application " + app.Name,
				Field:       "connections.from, connections.to",
				Explanation: "a connection needs both ends",
			}
		}
	}
	return nil
}

/* ========================================================================== */
type RequiresValidAppCheck struct{}

func (check RequiresValidAppCheck) CheckApp(app AppSpec) error {
	where := "application " + app.Name
	for _, r := range app.Requires {
		if err := (ValidVersionsResourceCheck{}).CheckResource(where, *r); err != nil {
			return err
		}
	}
	for _, ref := range app.Modules {
		for _, r := range ref.Requires {
			if err := (ValidVersionsResourceCheck{}).CheckResource(where, *r); err != nil {
				return err
			}
		}
	}
	return nil
}

/* ========================================================================== */
type HasContentAppCheck struct{}

/* An application with nothing in it is probably a mistake. */
func (check HasContentAppCheck) CheckApp(app AppSpec) error {
	if len(app.Modules) == 0 && len(app.Applications) == 0 {
		return MissingValueError{
			Where:       "application " + app.Name,
			Field:       "modules, applications",
			Explanation: "application is empty",
		}
	}
	return nil
}
