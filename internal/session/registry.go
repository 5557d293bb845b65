package session

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/bowtie-json-schema/cravat/internal/errors"
)

// Registry holds the registered session definitions in registration order
// and tracks the default selection set.
type Registry struct {
	order    []string
	sessions map[string]*Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Definition),
	}
}

// Register adds a definition to the registry. Registering two sessions
// under the same name fails with errors.ErrDuplicateSession.
func (r *Registry) Register(def *Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	if _, exists := r.sessions[def.Name]; exists {
		return errors.Wrapf(errors.ErrDuplicateSession, "%s", def.Name)
	}

	r.order = append(r.order, def.Name)
	r.sessions[def.Name] = def
	return nil
}

// MustRegister is Register for init-time wiring, where a failure is a
// programming error.
func (r *Registry) MustRegister(def *Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Param is one parametrization value and the identifier it contributes to
// the expanded session name.
type Param struct {
	Value string
	ID    string
}

// P builds a Param whose ID is its value.
func P(value string) Param {
	return Param{Value: value, ID: value}
}

// Parametrize registers one session instance per parameter, named
// "base(id)". Each instance carries the base definition's interpreters,
// tags, and default enrollment, and gets its body from make, called with
// the parameter's value. An empty parameter list registers nothing.
func (r *Registry) Parametrize(base *Definition, params []Param, make func(value string) Body) error {
	for _, param := range params {
		instance := &Definition{
			Name:         fmt.Sprintf("%s(%s)", base.Name, param.ID),
			Doc:          base.Doc,
			Interpreters: base.Interpreters,
			Host:         base.Host,
			Default:      base.Default,
			Tags:         base.Tags,
			Body:         make(param.Value),
		}
		if err := r.Register(instance); err != nil {
			return err
		}
	}
	return nil
}

// Sessions returns all definitions in registration order.
func (r *Registry) Sessions() []*Definition {
	defs := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.sessions[name])
	}
	return defs
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (*Definition, bool) {
	def, ok := r.sessions[name]
	return def, ok
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	return len(r.order)
}

// Defaults returns the default selection set in registration order.
func (r *Registry) Defaults() []*Definition {
	var defs []*Definition
	for _, name := range r.order {
		if def := r.sessions[name]; def.Default {
			defs = append(defs, def)
		}
	}
	return defs
}

// Select resolves a request for sessions against the registry.
//
// With no names and no tags, the default selection set is returned in
// registration order. Names are matched exactly first, then as glob
// patterns against every registered name in registration order. Tags
// select every session carrying the tag, in registration order. Names
// and tags cannot be combined.
//
// Validation is wholesale: every selector is checked before anything is
// returned, and a selector matching nothing fails the entire selection
// with errors.ErrUnknownSession or errors.ErrUnknownTag.
func (r *Registry) Select(names, tags []string) ([]*Definition, error) {
	if len(names) > 0 && len(tags) > 0 {
		return nil, errors.ErrSelectorConflict
	}

	if len(names) == 0 && len(tags) == 0 {
		return r.Defaults(), nil
	}

	if len(names) > 0 {
		return r.selectByName(names)
	}
	return r.selectByTag(tags)
}

// selectByName resolves names and glob patterns in request order.
func (r *Registry) selectByName(names []string) ([]*Definition, error) {
	var selected []*Definition
	seen := make(map[string]bool)
	var unknown []error

	add := func(def *Definition) {
		if !seen[def.Name] {
			seen[def.Name] = true
			selected = append(selected, def)
		}
	}

	for _, name := range names {
		if def, ok := r.sessions[name]; ok {
			add(def)
			continue
		}

		if !isPattern(name) {
			unknown = append(unknown, errors.Wrapf(errors.ErrUnknownSession, "%s", name))
			continue
		}

		g, err := glob.Compile(name)
		if err != nil {
			unknown = append(unknown, errors.Wrapf(errors.ErrUnknownSession, "bad pattern %s", name))
			continue
		}

		matched := false
		for _, registered := range r.order {
			if g.Match(registered) {
				add(r.sessions[registered])
				matched = true
			}
		}
		if !matched {
			unknown = append(unknown, errors.Wrapf(errors.ErrUnknownSession, "%s matches nothing", name))
		}
	}

	if len(unknown) > 0 {
		return nil, errors.Join(unknown...)
	}
	return selected, nil
}

// selectByTag resolves tags, preserving registration order.
func (r *Registry) selectByTag(tags []string) ([]*Definition, error) {
	var selected []*Definition
	seen := make(map[string]bool)
	var unknown []error

	for _, tag := range tags {
		matched := false
		for _, name := range r.order {
			def := r.sessions[name]
			if def.HasTag(tag) {
				matched = true
				if !seen[def.Name] {
					seen[def.Name] = true
					selected = append(selected, def)
				}
			}
		}
		if !matched {
			unknown = append(unknown, errors.Wrapf(errors.ErrUnknownTag, "%s", tag))
		}
	}

	if len(unknown) > 0 {
		return nil, errors.Join(unknown...)
	}
	return selected, nil
}

// isPattern reports whether name contains glob metacharacters.
func isPattern(name string) bool {
	return strings.ContainsAny(name, "*?[{")
}
