package env

import (
	"context"

	"github.com/bowtie-json-schema/cravat/internal/errors"
)

// Host is the environment for sessions that run directly on the system
// without a provisioned virtual environment.
type Host struct {
	execer Execer
}

// NewHost returns the host environment backed by execer.
func NewHost(execer Execer) *Host {
	return &Host{execer: execer}
}

// BinDir returns the empty string: the host has no bin directory of its own.
func (h *Host) BinDir() string { return "" }

// Executable returns name unchanged; host commands resolve via PATH.
func (h *Host) Executable(name string) string { return name }

// Install fails: there is no provisioned environment to install into.
func (h *Host) Install(ctx context.Context, args ...string) error {
	return errors.ErrNoEnvironment
}

// Run executes the command on the host.
func (h *Host) Run(ctx context.Context, spec Spec) error {
	return h.execer.Exec(ctx, spec)
}
