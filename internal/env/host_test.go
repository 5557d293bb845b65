package env

import (
	"context"
	"testing"

	"github.com/bowtie-json-schema/cravat/internal/errors"
)

func TestHostInstall(t *testing.T) {
	h := NewHost(&fakeExecer{})

	err := h.Install(context.Background(), "pip-tools")
	if !errors.Is(err, errors.ErrNoEnvironment) {
		t.Errorf("Install error = %v, want ErrNoEnvironment", err)
	}
}

func TestHostRun(t *testing.T) {
	execer := &fakeExecer{}
	h := NewHost(execer)

	spec := Spec{Program: "podman", Args: []string{"build", "-t", "ghcr.io/bowtie-json-schema/go-jsonschema"}, External: true}
	if err := h.Run(context.Background(), spec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(execer.specs) != 1 {
		t.Fatalf("expected 1 exec call, got %d", len(execer.specs))
	}
	if execer.specs[0].Program != "podman" {
		t.Errorf("Program = %q, want %q", execer.specs[0].Program, "podman")
	}
}

func TestHostPaths(t *testing.T) {
	h := NewHost(&fakeExecer{})

	if h.BinDir() != "" {
		t.Errorf("BinDir() = %q, want empty", h.BinDir())
	}
	if h.Executable("bowtie") != "bowtie" {
		t.Errorf("Executable() = %q, want unchanged name", h.Executable("bowtie"))
	}
}
