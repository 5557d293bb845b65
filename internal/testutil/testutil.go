// Package testutil provides testing utilities for cravat tests.
package testutil

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bowtie-json-schema/cravat/internal/env"
	"github.com/bowtie-json-schema/cravat/internal/project"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// SetupCheckout creates a temporary bowtie working tree for testing:
// pyproject.toml at the root, the package with its schemas, docs, two
// harness directories, tests, the frontend, and the pinned requirement
// files. The tree is automatically cleaned up when the test completes.
func SetupCheckout(t *testing.T) string {
	t.Helper()
	return SetupCheckoutWithContent(t, nil)
}

// SetupCheckoutWithContent creates a test working tree with extra files.
// The files map contains checkout-relative paths to file contents and may
// override the defaults.
func SetupCheckoutWithContent(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	tree := map[string]string{
		"pyproject.toml":        "[project]\nname = \"bowtie\"\n",
		"requirements.txt":      "attrs\n",
		"test-requirements.in":  "pytest\n",
		"test-requirements.txt": "pytest\n",
		"docs/requirements.in":  "sphinx\n",
		"docs/requirements.txt": "sphinx\n",

		"bowtie/__init__.py":                     "",
		"bowtie/schemas/io-schema.json":          "{}\n",
		"bowtie/schemas/dialects/draft2020.json": "{}\n",

		"implementations/go-jsonschema/Dockerfile":     "FROM scratch\n",
		"implementations/python-jsonschema/Dockerfile": "FROM scratch\n",

		"tests/test_integration.py": "",
		"frontend/package.json":     "{}\n",
	}
	for path, content := range files {
		tree[path] = content
	}
	for path, content := range tree {
		WriteFile(t, dir, path, content)
	}
	return dir
}

// WriteFile writes a checkout-relative file, creating parent directories.
func WriteFile(t *testing.T, dir, path, content string) {
	t.Helper()

	full := filepath.Join(dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// RecordingExecer is an env.Execer that records every command instead of
// running it. Fail, when set, decides the result per command.
type RecordingExecer struct {
	mu    sync.Mutex
	specs []env.Spec

	Fail func(spec env.Spec) error
}

// Exec implements env.Execer.
func (e *RecordingExecer) Exec(ctx context.Context, spec env.Spec) error {
	e.mu.Lock()
	e.specs = append(e.specs, spec)
	e.mu.Unlock()
	if e.Fail != nil {
		return e.Fail(spec)
	}
	return nil
}

// Specs returns the recorded commands in execution order.
func (e *RecordingExecer) Specs() []env.Spec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]env.Spec(nil), e.specs...)
}

// FakeEnvironment is an env.Environment that records installs and runs.
// A zero Bin makes it behave like a host environment.
type FakeEnvironment struct {
	Bin        string
	Installs   [][]string
	Runs       []env.Spec
	InstallErr error
	RunErr     func(spec env.Spec) error
}

// BinDir implements env.Environment.
func (f *FakeEnvironment) BinDir() string { return f.Bin }

// Executable implements env.Environment.
func (f *FakeEnvironment) Executable(name string) string {
	if f.Bin == "" {
		return name
	}
	return filepath.Join(f.Bin, name)
}

// Install implements env.Environment.
func (f *FakeEnvironment) Install(ctx context.Context, args ...string) error {
	f.Installs = append(f.Installs, append([]string(nil), args...))
	return f.InstallErr
}

// Run implements env.Environment.
func (f *FakeEnvironment) Run(ctx context.Context, spec env.Spec) error {
	f.Runs = append(f.Runs, spec)
	if f.RunErr != nil {
		return f.RunErr(spec)
	}
	return nil
}

var _ env.Execer = (*RecordingExecer)(nil)

var _ env.Environment = (*FakeEnvironment)(nil)

// SessionFixture bundles a session context with the fakes behind it.
type SessionFixture struct {
	Context     *session.Context
	Environment *FakeEnvironment
	Project     *project.Project
	Out         *bytes.Buffer
}

// NewSession returns a session context over a fresh checkout, wired to a
// FakeEnvironment and a captured output buffer.
func NewSession(t *testing.T, name string, posargs ...string) *SessionFixture {
	t.Helper()

	root := SetupCheckout(t)
	fake := &FakeEnvironment{Bin: filepath.Join(t.TempDir(), "bin")}
	out := &bytes.Buffer{}
	sctx := session.NewContext(session.ContextConfig{
		Name:        name,
		Interpreter: "3.11",
		Posargs:     posargs,
		Environment: fake,
		Project:     project.At(root),
		Out:         out,
	})
	t.Cleanup(func() { _ = sctx.Close() })

	return &SessionFixture{
		Context:     sctx,
		Environment: fake,
		Project:     project.At(root),
		Out:         out,
	}
}

// WriteSdist writes a gzipped source tarball at path with the given member
// names. Every member is a small regular file.
func WriteSdist(t *testing.T, path string, members ...string) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)
	for _, name := range members {
		header := &tar.Header{Name: name, Mode: 0o644, Typeflag: tar.TypeReg, Size: 2}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("failed to write tar header %s: %v", name, err)
		}
		if _, err := tw.Write([]byte("{}")); err != nil {
			t.Fatalf("failed to write tar member %s: %v", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
}

// WriteWheel writes a wheel (zip) at path with the given member names.
func WriteWheel(t *testing.T, path string, members ...string) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer file.Close()

	zw := zip.NewWriter(file)
	for _, name := range members {
		writer, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip member %s: %v", name, err)
		}
		if _, err := writer.Write([]byte("{}")); err != nil {
			t.Fatalf("failed to write zip member %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
}

// SkipIfNoPython skips the test if no python3 is installed.
func SkipIfNoPython(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not found in PATH, skipping test")
	}
}
