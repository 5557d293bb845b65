// Package lifecycle registers the sessions cravat ships: the test suite,
// dependency auditing, distribution builds and their schema verification,
// style and type checking, the documentation builders, the benchmarks, and
// the host-side helpers for harness development and the frontend.
//
// Sessions appear in the registry in the order below, which is also the
// order `cravat list` prints and the default run order. Sessions built
// with NotDefault only run when selected by name or tag.
package lifecycle

import (
	"github.com/bowtie-json-schema/cravat/internal/bench"
	"github.com/bowtie-json-schema/cravat/internal/config"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// docBuilders are the sphinx builders the docs session fans out over.
var docBuilders = []string{"dirhtml", "doctest", "linkcheck", "man", "spelling"}

// Registry builds the shipped session registry. Interpreter fan-out and
// host tooling come from cfg.
func Registry(cfg *config.Config) (*session.Registry, error) {
	supported := cfg.Python.Supported
	latest := cfg.Python.Latest()

	r := session.NewRegistry()

	head := []*session.Definition{
		session.New("tests", testsBody).
			WithDoc("Run Bowtie's test suite.").
			On(supported...),
		session.New("audit", auditBody).
			WithDoc("Audit Python dependencies for vulnerabilities.").
			On(supported...),
		session.New("build", buildBody).
			WithDoc("Build Bowtie (via a PEP517 builder), and check the built artifact is valid.").
			On(latest).
			Tagged("build"),
		session.New("shiv", shivBody).
			WithDoc("Build a shiv which will run Bowtie.").
			On(latest).
			Tagged("build"),
		session.New("style", styleBody).
			WithDoc("Lint for style on Bowtie's Python codebase.").
			On(latest).
			Tagged("style"),
		session.New("typing", typingBody).
			WithDoc("Check Bowtie's codebase using pyright.").
			On(latest),
	}
	for _, def := range head {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}

	docs := session.New("docs", nil).
		WithDoc("Build Bowtie's documentation.").
		On(latest).
		Tagged("docs")
	params := make([]session.Param, len(docBuilders))
	for i, builder := range docBuilders {
		params[i] = session.P(builder)
	}
	if err := r.Parametrize(docs, params, docsBody); err != nil {
		return nil, err
	}

	tail := []*session.Definition{
		session.New("docs(style)", docsStyleBody).
			WithDoc("Check Bowtie's documentation style.").
			On(latest).
			Tagged("docs", "style"),
	}
	for _, scenario := range bench.Scenarios() {
		tail = append(tail, bench.Session(scenario, latest))
	}
	tail = append(tail,
		session.New("develop-harness", developHarnessBody(cfg)).
			WithDoc("Build a local version of an implementation harness.").
			OnHost().
			NotDefault(),
		session.New("requirements", requirementsBody).
			WithDoc("Update bowtie's requirements.txt files.").
			On(latest).
			NotDefault(),
		session.New("ui", uiBody(cfg)).
			WithDoc("Run a local development UI.").
			OnHost().
			NotDefault(),
	)
	for _, def := range tail {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}

	return r, nil
}
