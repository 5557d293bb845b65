// Package session defines the task registry cravat schedules work from:
// session definitions, their registration and parametrized expansion, the
// default selection set, and the context a running session body uses to
// install packages and invoke commands.
package session

import (
	"context"
	"fmt"
	"strings"
)

// Body is a session's work, invoked once per interpreter run.
type Body func(ctx context.Context, s *Context) error

// Definition describes one registered session.
type Definition struct {
	// Name is the session's registry name, e.g. "tests" or "docs(dirhtml)".
	Name string
	// Doc is the one-line description shown by cravat list.
	Doc string
	// Interpreters are the interpreter versions the session runs against,
	// one run per version. Empty for host sessions.
	Interpreters []string
	// Host marks a session that runs directly on the system without a
	// provisioned environment.
	Host bool
	// Default marks the session as part of the default selection set.
	Default bool
	// Tags are the selection tags the session carries.
	Tags []string
	// Body is the session's work.
	Body Body
}

// New starts a session definition with the given name and body. Sessions
// are default-selected until NotDefault is called; interpreters must be
// set with On or OnHost before registration.
func New(name string, body Body) *Definition {
	return &Definition{
		Name:    name,
		Default: true,
		Body:    body,
	}
}

// WithDoc sets the session's one-line description.
func (d *Definition) WithDoc(doc string) *Definition {
	d.Doc = doc
	return d
}

// On sets the interpreter versions the session runs against.
func (d *Definition) On(interpreters ...string) *Definition {
	d.Interpreters = interpreters
	d.Host = false
	return d
}

// OnHost marks the session as running directly on the system, with no
// provisioned environment.
func (d *Definition) OnHost() *Definition {
	d.Interpreters = nil
	d.Host = true
	return d
}

// NotDefault removes the session from the default selection set.
func (d *Definition) NotDefault() *Definition {
	d.Default = false
	return d
}

// Tagged adds selection tags to the session.
func (d *Definition) Tagged(tags ...string) *Definition {
	d.Tags = append(d.Tags, tags...)
	return d
}

// HasTag reports whether the session carries tag.
func (d *Definition) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RunName returns the display name for one interpreter run. Sessions that
// run against several interpreters get a version suffix so each run is
// distinguishable; single-interpreter and host sessions use the bare name.
func (d *Definition) RunName(interpreter string) string {
	if len(d.Interpreters) > 1 && interpreter != "" {
		return d.Name + "-" + interpreter
	}
	return d.Name
}

// validate reports what makes the definition unregisterable.
func (d *Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("session has no name")
	}
	if strings.TrimSpace(d.Name) != d.Name {
		return fmt.Errorf("session name %q has surrounding whitespace", d.Name)
	}
	if d.Body == nil {
		return fmt.Errorf("session %s has no body", d.Name)
	}
	if !d.Host && len(d.Interpreters) == 0 {
		return fmt.Errorf("session %s names no interpreter and is not a host session", d.Name)
	}
	if d.Host && len(d.Interpreters) > 0 {
		return fmt.Errorf("session %s is a host session but names interpreters", d.Name)
	}
	return nil
}
