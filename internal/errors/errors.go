// Package errors provides centralized error definitions and error handling
// utilities for the cravat codebase. It defines sentinel errors for the
// session registry and scheduler, semantic error types that carry domain
// context (session name, external command, archive verification report),
// and re-exports the standard library helpers so callers can import only
// this package for all error handling.
//
// # Error Taxonomy
//
// Configuration errors (unknown session name, missing benchmark posargs)
// are detected before any external process starts:
//   - ErrUnknownSession, ErrUnknownTag, ErrDuplicateSession
//   - ErrMissingPosargs
//
// Invariant violations are fatal for the session that detects them and are
// never degraded to warnings:
//   - ErrNoSchemas (empty ground-truth schema set)
//   - VerificationError (packaged artifact missing ground-truth files)
//
// External process failures propagate as the owning session's failure:
//   - CommandError wraps the exit status of a subprocess
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrUnknownSession) { ... }
//
//	var verr *errors.VerificationError
//	if errors.As(err, &verr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Registry and selection sentinel errors
var (
	// ErrUnknownSession indicates a selected session name (or pattern)
	// matches nothing in the registry.
	ErrUnknownSession = New("unknown session")
	// ErrDuplicateSession indicates a session was registered twice under
	// the same name.
	ErrDuplicateSession = New("session already registered")
	// ErrUnknownTag indicates a tag selection that no session carries.
	ErrUnknownTag = New("no session carries tag")
	// ErrSelectorConflict indicates a selection that mixes session names
	// with tags, which have no defined combined meaning.
	ErrSelectorConflict = New("session names and tags cannot be combined")
	// ErrNoProject indicates no bowtie checkout was found at or above
	// the working directory.
	ErrNoProject = New("no bowtie checkout found")
)

// Execution sentinel errors
var (
	// ErrNoEnvironment indicates an install request on a host session,
	// which has no provisioned environment to install into.
	ErrNoEnvironment = New("session has no provisioned environment")
	// ErrMissingPosargs indicates a session that requires trailing
	// arguments was invoked without them.
	ErrMissingPosargs = New("missing required positional arguments")
	// ErrInterrupted indicates the run was cut short by a signal or
	// context cancellation.
	ErrInterrupted = New("interrupted")
)

// Verification sentinel errors
var (
	// ErrNoSchemas indicates the ground-truth schema directory produced an
	// empty file set, which means a broken working tree rather than a
	// valid "no schemas" state.
	ErrNoSchemas = New("no schema files found")
)

// SessionError represents a failure scoped to one session run.
//
// Example:
//
//	err := errors.NewSessionError("docs(linkcheck)", cause)
//	fmt.Println(err) // "session docs(linkcheck): <cause>"
type SessionError struct {
	Session string
	cause   error
}

// NewSessionError wraps cause with the owning session's name.
func NewSessionError(session string, cause error) *SessionError {
	return &SessionError{Session: session, cause: cause}
}

func (e *SessionError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("session %s failed", e.Session)
	}
	return fmt.Sprintf("session %s: %v", e.Session, e.cause)
}

// Unwrap returns the underlying error.
func (e *SessionError) Unwrap() error {
	return e.cause
}

// CommandError represents a subprocess that exited unsuccessfully.
type CommandError struct {
	Program  string
	Args     []string
	ExitCode int
	cause    error
}

// NewCommandError wraps the outcome of running program with args.
// exitCode is -1 when the process never started or was killed by a signal.
func NewCommandError(program string, args []string, exitCode int, cause error) *CommandError {
	return &CommandError{Program: program, Args: args, ExitCode: exitCode, cause: cause}
}

func (e *CommandError) Error() string {
	cmd := e.Program
	if len(e.Args) > 0 {
		cmd += " " + strings.Join(e.Args, " ")
	}
	if e.ExitCode >= 0 {
		return fmt.Sprintf("command failed [exit=%d]: %s", e.ExitCode, cmd)
	}
	if e.cause != nil {
		return fmt.Sprintf("command failed: %s: %v", cmd, e.cause)
	}
	return fmt.Sprintf("command failed: %s", cmd)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.cause
}

// VerificationError reports ground-truth schema files absent from a
// packaged artifact. Missing holds absolute working-tree paths, sorted.
type VerificationError struct {
	Archive string
	Missing []string
}

// NewVerificationError builds a report for one archive.
func NewVerificationError(archive string, missing []string) *VerificationError {
	return &VerificationError{Archive: archive, Missing: missing}
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s distribution schemas are missing: %s",
		e.Archive, strings.Join(e.Missing, ", "))
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
