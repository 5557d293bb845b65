package env

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bowtie-json-schema/cravat/internal/errors"
	"github.com/bowtie-json-schema/cravat/internal/logging"
)

// Venv is a Python virtual environment provisioned for one session run.
type Venv struct {
	dir    string
	execer Execer
	logger *logging.Logger
}

// CreateVenv provisions a virtual environment at dir using the interpreter
// for version. When reuse is true and dir already holds a provisioned
// environment, creation is skipped; otherwise any existing directory is
// replaced with a fresh environment.
func CreateVenv(ctx context.Context, execer Execer, version, dir string, reuse bool, logger *logging.Logger) (*Venv, error) {
	v := &Venv{dir: dir, execer: execer, logger: logger}

	if reuse && v.provisioned() {
		logger.Debug("reusing virtualenv", "dir", dir)
		return v, nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return nil, errors.Wrap(err, "clearing virtualenv")
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return nil, errors.Wrap(err, "creating virtualenv parent")
	}

	interpreter := InterpreterExecutable(version)
	logger.Debug("creating virtualenv", "dir", dir, "interpreter", interpreter)

	spec := Spec{
		Program:  interpreter,
		Args:     []string{"-m", "venv", dir},
		External: true,
	}
	if err := execer.Exec(ctx, spec); err != nil {
		return nil, errors.Wrap(err, "creating virtualenv")
	}

	return v, nil
}

// provisioned reports whether the venv directory holds a usable python.
func (v *Venv) provisioned() bool {
	return isExecutable(v.Executable("python"))
}

// Dir returns the virtual environment's root directory.
func (v *Venv) Dir() string { return v.dir }

// BinDir returns the directory holding the environment's executables.
func (v *Venv) BinDir() string { return filepath.Join(v.dir, "bin") }

// Executable resolves name against the environment's bin directory.
func (v *Venv) Executable(name string) string {
	return filepath.Join(v.BinDir(), name)
}

// Install installs Python packages into the environment via pip.
func (v *Venv) Install(ctx context.Context, args ...string) error {
	spec := Spec{
		Program: v.Executable("python"),
		Args:    append([]string{"-m", "pip", "install"}, args...),
	}
	return v.execer.Exec(ctx, spec)
}

// Run executes the command described by spec. Programs that exist in the
// environment's bin directory are resolved there; external commands and
// programs the environment does not provide fall back to PATH lookup with
// the bin directory prepended, so environment executables still win.
func (v *Venv) Run(ctx context.Context, spec Spec) error {
	if !spec.External {
		if candidate := v.Executable(spec.Program); isExecutable(candidate) {
			spec.Program = candidate
		}
	}
	spec.PathPrepend = v.BinDir()
	return v.execer.Exec(ctx, spec)
}

// isExecutable reports whether path is a regular file with an execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
