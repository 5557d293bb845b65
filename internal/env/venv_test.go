package env

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bowtie-json-schema/cravat/internal/logging"
)

// provisionFake writes a fake executable into the venv's bin directory.
func provisionFake(t *testing.T, dir, name string) {
	t.Helper()
	bin := filepath.Join(dir, "bin")
	if err := os.MkdirAll(bin, 0755); err != nil {
		t.Fatalf("creating bin dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("writing fake executable: %v", err)
	}
}

func TestCreateVenv(t *testing.T) {
	t.Run("invokes the interpreter's venv module", func(t *testing.T) {
		execer := &fakeExecer{}
		dir := filepath.Join(t.TempDir(), "envs", "tests-3.11")

		_, err := CreateVenv(context.Background(), execer, "3.11", dir, false, logging.NopLogger())
		if err != nil {
			t.Fatalf("CreateVenv failed: %v", err)
		}

		if len(execer.specs) != 1 {
			t.Fatalf("expected 1 exec call, got %d", len(execer.specs))
		}
		spec := execer.specs[0]
		if spec.Program != "python3.11" {
			t.Errorf("Program = %q, want %q", spec.Program, "python3.11")
		}
		wantArgs := []string{"-m", "venv", dir}
		if len(spec.Args) != len(wantArgs) {
			t.Fatalf("Args = %v, want %v", spec.Args, wantArgs)
		}
		for i, arg := range wantArgs {
			if spec.Args[i] != arg {
				t.Errorf("Args[%d] = %q, want %q", i, spec.Args[i], arg)
			}
		}
		if !spec.External {
			t.Error("venv creation should run the host interpreter")
		}
	})

	t.Run("pypy versions use the named executable", func(t *testing.T) {
		execer := &fakeExecer{}
		dir := filepath.Join(t.TempDir(), "envs", "tests-pypy3.10")

		_, err := CreateVenv(context.Background(), execer, "pypy3.10", dir, false, logging.NopLogger())
		if err != nil {
			t.Fatalf("CreateVenv failed: %v", err)
		}
		if execer.specs[0].Program != "pypy3.10" {
			t.Errorf("Program = %q, want %q", execer.specs[0].Program, "pypy3.10")
		}
	})

	t.Run("reuse skips provisioning", func(t *testing.T) {
		execer := &fakeExecer{}
		dir := filepath.Join(t.TempDir(), "envs", "tests-3.11")
		provisionFake(t, dir, "python")

		_, err := CreateVenv(context.Background(), execer, "3.11", dir, true, logging.NopLogger())
		if err != nil {
			t.Fatalf("CreateVenv failed: %v", err)
		}
		if len(execer.specs) != 0 {
			t.Errorf("expected no exec calls for reused venv, got %d", len(execer.specs))
		}
	})

	t.Run("reuse still provisions an empty directory", func(t *testing.T) {
		execer := &fakeExecer{}
		dir := filepath.Join(t.TempDir(), "envs", "tests-3.11")

		_, err := CreateVenv(context.Background(), execer, "3.11", dir, true, logging.NopLogger())
		if err != nil {
			t.Fatalf("CreateVenv failed: %v", err)
		}
		if len(execer.specs) != 1 {
			t.Errorf("expected 1 exec call, got %d", len(execer.specs))
		}
	})

	t.Run("without reuse an existing environment is replaced", func(t *testing.T) {
		execer := &fakeExecer{}
		dir := filepath.Join(t.TempDir(), "envs", "tests-3.11")
		provisionFake(t, dir, "python")

		_, err := CreateVenv(context.Background(), execer, "3.11", dir, false, logging.NopLogger())
		if err != nil {
			t.Fatalf("CreateVenv failed: %v", err)
		}
		if len(execer.specs) != 1 {
			t.Errorf("expected 1 exec call, got %d", len(execer.specs))
		}
		if _, err := os.Stat(filepath.Join(dir, "bin", "python")); !os.IsNotExist(err) {
			t.Error("stale environment contents should have been cleared")
		}
	})
}

func TestVenvInstall(t *testing.T) {
	execer := &fakeExecer{}
	dir := filepath.Join(t.TempDir(), "envs", "tests-3.11")

	v, err := CreateVenv(context.Background(), execer, "3.11", dir, false, logging.NopLogger())
	if err != nil {
		t.Fatalf("CreateVenv failed: %v", err)
	}
	execer.specs = nil

	if err := v.Install(context.Background(), "-r", "test-requirements.txt"); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	if len(execer.specs) != 1 {
		t.Fatalf("expected 1 exec call, got %d", len(execer.specs))
	}
	spec := execer.specs[0]
	if spec.Program != filepath.Join(dir, "bin", "python") {
		t.Errorf("Program = %q, want venv python", spec.Program)
	}
	wantArgs := []string{"-m", "pip", "install", "-r", "test-requirements.txt"}
	if len(spec.Args) != len(wantArgs) {
		t.Fatalf("Args = %v, want %v", spec.Args, wantArgs)
	}
	for i, arg := range wantArgs {
		if spec.Args[i] != arg {
			t.Errorf("Args[%d] = %q, want %q", i, spec.Args[i], arg)
		}
	}
}

func TestVenvRun(t *testing.T) {
	t.Run("resolves programs in the bin directory", func(t *testing.T) {
		execer := &fakeExecer{}
		dir := filepath.Join(t.TempDir(), "envs", "style-3.11")
		v, err := CreateVenv(context.Background(), execer, "3.11", dir, false, logging.NopLogger())
		if err != nil {
			t.Fatalf("CreateVenv failed: %v", err)
		}
		provisionFake(t, dir, "ruff")
		execer.specs = nil

		if err := v.Run(context.Background(), Spec{Program: "ruff", Args: []string{"check", "bowtie"}}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		spec := execer.specs[0]
		if spec.Program != filepath.Join(dir, "bin", "ruff") {
			t.Errorf("Program = %q, want resolved bin path", spec.Program)
		}
		if spec.PathPrepend != filepath.Join(dir, "bin") {
			t.Errorf("PathPrepend = %q, want bin dir", spec.PathPrepend)
		}
	})

	t.Run("external programs are not resolved", func(t *testing.T) {
		execer := &fakeExecer{}
		dir := filepath.Join(t.TempDir(), "envs", "bench-3.11")
		v, err := CreateVenv(context.Background(), execer, "3.11", dir, false, logging.NopLogger())
		if err != nil {
			t.Fatalf("CreateVenv failed: %v", err)
		}
		provisionFake(t, dir, "hyperfine")
		execer.specs = nil

		if err := v.Run(context.Background(), Spec{Program: "hyperfine", External: true}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if execer.specs[0].Program != "hyperfine" {
			t.Errorf("Program = %q, want bare name for external command", execer.specs[0].Program)
		}
	})

	t.Run("unknown programs fall back to PATH with bin first", func(t *testing.T) {
		execer := &fakeExecer{}
		dir := filepath.Join(t.TempDir(), "envs", "tests-3.11")
		v, err := CreateVenv(context.Background(), execer, "3.11", dir, false, logging.NopLogger())
		if err != nil {
			t.Fatalf("CreateVenv failed: %v", err)
		}
		execer.specs = nil

		if err := v.Run(context.Background(), Spec{Program: "pytest"}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		spec := execer.specs[0]
		if spec.Program != "pytest" {
			t.Errorf("Program = %q, want bare name", spec.Program)
		}
		if spec.PathPrepend != filepath.Join(dir, "bin") {
			t.Errorf("PathPrepend = %q, want bin dir", spec.PathPrepend)
		}
	})
}

func TestVenvPaths(t *testing.T) {
	v := &Venv{dir: "/envs/tests-3.11"}

	if got := v.BinDir(); got != filepath.Join("/envs/tests-3.11", "bin") {
		t.Errorf("BinDir() = %q", got)
	}
	if got := v.Executable("bowtie"); got != filepath.Join("/envs/tests-3.11", "bin", "bowtie") {
		t.Errorf("Executable() = %q", got)
	}
	if got := v.Dir(); got != "/envs/tests-3.11" {
		t.Errorf("Dir() = %q", got)
	}
}
