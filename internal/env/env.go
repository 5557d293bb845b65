// Package env provisions the environments sessions run in: virtual
// environments created per session run, or the host environment for
// sessions that run directly on the system.
package env

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/bowtie-json-schema/cravat/internal/errors"
)

// Spec describes one external command invocation.
type Spec struct {
	// Program is the executable to run. Environments may rewrite it to an
	// absolute path inside their bin directory.
	Program string
	// Args are the program's arguments.
	Args []string
	// Dir is the working directory. Empty means inherit the process's.
	Dir string
	// Env holds additional environment variables layered over the
	// process environment.
	Env map[string]string
	// PathPrepend is a directory placed at the front of PATH.
	PathPrepend string
	// Stdout overrides where the command's standard output goes.
	// Nil means the process's stdout.
	Stdout io.Writer
	// External marks a program expected to come from the host rather
	// than the session's environment. Environments skip bin-directory
	// resolution for external commands.
	External bool
}

// Execer runs external commands. The production implementation shells
// out; tests substitute a recorder.
type Execer interface {
	Exec(ctx context.Context, spec Spec) error
}

// Environment is the provisioned place a session's commands run in.
type Environment interface {
	// BinDir returns the directory holding the environment's
	// executables. Empty for the host environment.
	BinDir() string

	// Executable resolves name against the environment's bin directory.
	// The host environment returns the name unchanged.
	Executable(name string) string

	// Install installs Python packages into the environment. The host
	// environment has nothing to install into and fails with
	// errors.ErrNoEnvironment.
	Install(ctx context.Context, args ...string) error

	// Run executes the command described by spec inside the environment.
	Run(ctx context.Context, spec Spec) error
}

// InterpreterExecutable maps an interpreter version to the executable
// that provides it. A bare "major.minor" is CPython ("3.11" becomes
// "python3.11"); a prefixed version names the executable directly
// ("pypy3.10"). An empty version falls back to "python3".
func InterpreterExecutable(version string) string {
	if version == "" {
		return "python3"
	}
	if version[0] >= '0' && version[0] <= '9' {
		return "python" + version
	}
	return version
}

// System is the Execer that runs commands via os/exec.
type System struct{}

// Exec runs the command, wiring the spec's environment and output
// overrides. Failures are reported as *errors.CommandError carrying the
// exit code, or -1 if the process never started.
func (System) Exec(ctx context.Context, spec Spec) error {
	cmd := exec.CommandContext(ctx, spec.Program, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = buildEnviron(spec)

	if spec.Stdout != nil {
		cmd.Stdout = spec.Stdout
	} else {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return errors.NewCommandError(spec.Program, spec.Args, exitErr.ExitCode(), err)
	}
	return errors.NewCommandError(spec.Program, spec.Args, -1, err)
}

// buildEnviron layers the spec's Env and PathPrepend over the process
// environment.
func buildEnviron(spec Spec) []string {
	if len(spec.Env) == 0 && spec.PathPrepend == "" {
		return nil // let os/exec inherit
	}

	environ := os.Environ()
	set := func(key, value string) {
		prefix := key + "="
		for i, entry := range environ {
			if strings.HasPrefix(entry, prefix) {
				environ[i] = prefix + value
				return
			}
		}
		environ = append(environ, prefix+value)
	}

	for key, value := range spec.Env {
		set(key, value)
	}

	if spec.PathPrepend != "" {
		path := os.Getenv("PATH")
		if path == "" {
			set("PATH", spec.PathPrepend)
		} else {
			set("PATH", spec.PathPrepend+string(os.PathListSeparator)+path)
		}
	}

	return environ
}

// Ensure implementations satisfy their interfaces at compile time.
var (
	_ Execer      = System{}
	_ Environment = (*Venv)(nil)
	_ Environment = (*Host)(nil)
)
