// Package runner schedules session runs. Selected sessions execute one at
// a time in selection order, fanned out per interpreter; a failing run
// never stops its siblings, and the overall error reports every failure
// at the end. An interrupt aborts the run in flight and stops scheduling.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bowtie-json-schema/cravat/internal/config"
	"github.com/bowtie-json-schema/cravat/internal/env"
	"github.com/bowtie-json-schema/cravat/internal/errors"
	"github.com/bowtie-json-schema/cravat/internal/logging"
	"github.com/bowtie-json-schema/cravat/internal/project"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// Status is the outcome of one session run.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusInterrupted
)

// String returns the status as it appears in the run report.
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Result records one session run.
type Result struct {
	// Name is the run name, e.g. "tests-3.11".
	Name string
	// Session is the registry name the run came from.
	Session string
	// Interpreter is empty for host runs.
	Interpreter string
	Status      Status
	// Err is nil for passed runs and a *errors.SessionError otherwise.
	Err      error
	Duration time.Duration
}

// Options configure a Runner. Execer, Logger, and Out fall back to the
// system execer, a nop logger, and stdout.
type Options struct {
	Project *project.Project
	Config  *config.Config
	Execer  env.Execer
	Logger  *logging.Logger
	Out     io.Writer
}

// Runner executes selected sessions against a checkout.
type Runner struct {
	project *project.Project
	config  *config.Config
	execer  env.Execer
	logger  *logging.Logger
	out     io.Writer
	runID   string
}

// New builds a Runner. Every invocation gets a fresh run ID, which child
// loggers carry so one run's lines can be filtered out of the debug log.
func New(opts Options) *Runner {
	execer := opts.Execer
	if execer == nil {
		execer = env.System{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	return &Runner{
		project: opts.Project,
		config:  cfg,
		execer:  execer,
		logger:  logger,
		out:     out,
		runID:   uuid.NewString(),
	}
}

// RunID identifies this runner's invocation in logs.
func (r *Runner) RunID() string { return r.runID }

// Run executes the definitions in order, one run per interpreter. Posargs
// reach every session body verbatim. The returned results cover every run
// that started; the error joins the failures, if any.
func (r *Runner) Run(ctx context.Context, defs []*session.Definition, posargs []string) ([]Result, error) {
	logger := r.logger.WithRun(r.runID)

	var results []Result
scheduling:
	for _, def := range defs {
		for _, interpreter := range interpretersOf(def) {
			result := r.runOne(ctx, def, interpreter, posargs, logger)
			results = append(results, result)
			r.printStatus(result)

			if ctx.Err() != nil {
				break scheduling
			}
		}
	}

	r.printReport(results)
	return results, runError(results)
}

func (r *Runner) runOne(ctx context.Context, def *session.Definition, interpreter string, posargs []string, logger *logging.Logger) Result {
	name := def.RunName(interpreter)
	log := logger.WithSession(name)
	if interpreter != "" {
		log = log.WithInterpreter(interpreter)
	}
	log.Info("session starting")

	fmt.Fprintln(r.out, headerStyle.Render("• "+name))
	start := time.Now()

	err := r.execute(ctx, def, interpreter, name, posargs, log)

	result := Result{
		Name:        name,
		Session:     def.Name,
		Interpreter: interpreter,
		Duration:    time.Since(start),
	}
	switch {
	case err == nil:
		result.Status = StatusPassed
		log.Info("session passed", "duration", result.Duration.String())
	case ctx.Err() != nil:
		result.Status = StatusInterrupted
		result.Err = errors.NewSessionError(name, errors.ErrInterrupted)
		log.Warn("session interrupted")
	default:
		result.Status = StatusFailed
		result.Err = errors.NewSessionError(name, err)
		log.Error("session failed", "error", err.Error())
	}
	return result
}

func (r *Runner) execute(ctx context.Context, def *session.Definition, interpreter, name string, posargs []string, log *logging.Logger) error {
	environment, err := r.environment(ctx, def, interpreter, name, log)
	if err != nil {
		return err
	}

	sctx := session.NewContext(session.ContextConfig{
		Name:        name,
		Interpreter: interpreter,
		Posargs:     posargs,
		Environment: environment,
		Project:     r.project,
		Logger:      log,
		Out:         r.out,
	})
	err = def.Body(ctx, sctx)
	if closeErr := sctx.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (r *Runner) environment(ctx context.Context, def *session.Definition, interpreter, name string, log *logging.Logger) (env.Environment, error) {
	if def.Host {
		return env.NewHost(r.execer), nil
	}

	dir := filepath.Join(r.config.Envs.ResolveDir(r.project.Root()), slug(name))
	return env.CreateVenv(ctx, r.execer, interpreter, dir, r.config.Envs.Reuse, log)
}

// interpretersOf expands a definition into its runs. Host sessions run
// once with no interpreter.
func interpretersOf(def *session.Definition) []string {
	if def.Host {
		return []string{""}
	}
	return def.Interpreters
}

// slug converts a run name into a directory name, so "docs(dirhtml)"
// provisions under envs/docs-dirhtml.
func slug(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		case r == ')':
			return -1
		default:
			return '-'
		}
	}, name)
	return strings.Trim(mapped, "-")
}

func runError(results []Result) error {
	var errs []error
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}
	return errors.Join(errs...)
}
