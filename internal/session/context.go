package session

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bowtie-json-schema/cravat/internal/env"
	"github.com/bowtie-json-schema/cravat/internal/errors"
	"github.com/bowtie-json-schema/cravat/internal/logging"
	"github.com/bowtie-json-schema/cravat/internal/project"
)

// ContextConfig carries everything one session run needs.
type ContextConfig struct {
	// Name is the run's display name, e.g. "tests-3.11".
	Name string
	// Interpreter is the interpreter version, empty for host sessions.
	Interpreter string
	// Posargs are the trailing command-line arguments forwarded to the
	// session.
	Posargs []string
	// Environment is the provisioned environment commands run in.
	Environment env.Environment
	// Project is the bowtie checkout being operated on.
	Project *project.Project
	// Logger receives the run's structured log output.
	Logger *logging.Logger
	// Out receives user-facing output. Nil means stdout.
	Out io.Writer
}

// Context is the handle a session body uses to inspect its run and invoke
// commands. It is not safe for concurrent use; one Context belongs to one
// run.
type Context struct {
	name        string
	interpreter string
	posargs     []string
	environment env.Environment
	project     *project.Project
	logger      *logging.Logger
	out         io.Writer
	tempDirs    []string
}

// NewContext builds the context for one session run.
func NewContext(cfg ContextConfig) *Context {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Context{
		name:        cfg.Name,
		interpreter: cfg.Interpreter,
		posargs:     cfg.Posargs,
		environment: cfg.Environment,
		project:     cfg.Project,
		logger:      logger,
		out:         out,
	}
}

// Name returns the run's display name.
func (s *Context) Name() string { return s.name }

// Interpreter returns the run's interpreter version, empty for host runs.
func (s *Context) Interpreter() string { return s.interpreter }

// Posargs returns the trailing arguments forwarded to the session.
func (s *Context) Posargs() []string { return s.posargs }

// Project returns the bowtie checkout being operated on.
func (s *Context) Project() *project.Project { return s.project }

// Logger returns the run's logger.
func (s *Context) Logger() *logging.Logger { return s.logger }

// BinDir returns the environment's executable directory, empty for host
// runs.
func (s *Context) BinDir() string { return s.environment.BinDir() }

// Executable resolves name against the environment's bin directory.
func (s *Context) Executable(name string) string {
	return s.environment.Executable(name)
}

// Install installs Python packages into the run's environment.
func (s *Context) Install(ctx context.Context, args ...string) error {
	s.logger.Debug("installing packages", "args", args)
	return s.environment.Install(ctx, args...)
}

// Run executes program with args inside the run's environment.
func (s *Context) Run(ctx context.Context, program string, args ...string) error {
	return s.RunSpec(ctx, env.Spec{Program: program, Args: args})
}

// RunExternal executes a program expected to come from the host rather
// than the session's environment, such as podman or hyperfine.
func (s *Context) RunExternal(ctx context.Context, program string, args ...string) error {
	return s.RunSpec(ctx, env.Spec{Program: program, Args: args, External: true})
}

// RunSpec executes the fully described command inside the run's
// environment. Use it when a command needs environment variables or an
// output override.
func (s *Context) RunSpec(ctx context.Context, spec env.Spec) error {
	s.logger.Debug("running command", "program", spec.Program, "args", spec.Args, "external", spec.External)
	return s.environment.Run(ctx, spec)
}

// TempDir creates a temporary directory scoped to the run. All directories
// created this way are removed by Close.
func (s *Context) TempDir() (string, error) {
	dir, err := os.MkdirTemp("", "cravat-*")
	if err != nil {
		return "", errors.Wrap(err, "creating temp dir")
	}
	s.tempDirs = append(s.tempDirs, dir)
	return dir, nil
}

// Printf writes user-facing output for the run.
func (s *Context) Printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// Close releases the run's scoped resources.
func (s *Context) Close() error {
	var errs []error
	for _, dir := range s.tempDirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}
	s.tempDirs = nil
	return errors.Join(errs...)
}
