package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bowtie-json-schema/cravat/internal/errors"
)

// newCheckout creates a minimal bowtie checkout in a temp directory.
func newCheckout(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "pyproject.toml"), []byte("[project]\nname = \"bowtie\"\n"), 0644); err != nil {
		t.Fatalf("writing pyproject.toml: %v", err)
	}
	return root
}

func TestDiscover(t *testing.T) {
	t.Run("finds checkout at start directory", func(t *testing.T) {
		root := newCheckout(t)

		p, err := Discover(root)
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if p.Root() != root {
			t.Errorf("Root() = %q, want %q", p.Root(), root)
		}
	})

	t.Run("walks up from nested directory", func(t *testing.T) {
		root := newCheckout(t)
		nested := filepath.Join(root, "bowtie", "schemas")
		if err := os.MkdirAll(nested, 0755); err != nil {
			t.Fatalf("creating nested dir: %v", err)
		}

		p, err := Discover(nested)
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if p.Root() != root {
			t.Errorf("Root() = %q, want %q", p.Root(), root)
		}
	})

	t.Run("returns ErrNoProject outside any checkout", func(t *testing.T) {
		dir := t.TempDir()

		_, err := Discover(dir)
		if err == nil {
			t.Fatal("Discover should fail outside a checkout")
		}
		if !errors.Is(err, errors.ErrNoProject) {
			t.Errorf("error = %v, want ErrNoProject", err)
		}
	})

	t.Run("ignores pyproject.toml directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.Mkdir(filepath.Join(dir, "pyproject.toml"), 0755); err != nil {
			t.Fatalf("creating decoy dir: %v", err)
		}

		if _, err := Discover(dir); !errors.Is(err, errors.ErrNoProject) {
			t.Errorf("a pyproject.toml directory should not mark a checkout, got %v", err)
		}
	})
}

func TestPaths(t *testing.T) {
	p := At("/checkout")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Pyproject", p.Pyproject(), "/checkout/pyproject.toml"},
		{"Docs", p.Docs(), "/checkout/docs"},
		{"Package", p.Package(), "/checkout/bowtie"},
		{"Schemas", p.Schemas(), "/checkout/bowtie/schemas"},
		{"Implementations", p.Implementations(), "/checkout/implementations"},
		{"Tests", p.Tests(), "/checkout/tests"},
		{"UI", p.UI(), "/checkout/frontend"},
		{"WorkDir", p.WorkDir(), "/checkout/.cravat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != filepath.FromSlash(tt.want) {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestRequirements(t *testing.T) {
	p := At("/checkout")
	reqs := p.Requirements()

	if len(reqs) != 3 {
		t.Fatalf("Requirements() returned %d entries, want 3", len(reqs))
	}

	// Order matters: main's output feeds the other compiles.
	wantOrder := []string{RequirementsMain, RequirementsDocs, RequirementsTests}
	for i, want := range wantOrder {
		if reqs[i].Name != want {
			t.Errorf("Requirements()[%d].Name = %q, want %q", i, reqs[i].Name, want)
		}
	}

	// main compiles from pyproject.toml, not an .in file
	if reqs[0].Input != p.Pyproject() {
		t.Errorf("main input = %q, want %q", reqs[0].Input, p.Pyproject())
	}
	if reqs[0].Path != filepath.Join("/checkout", "requirements.txt") {
		t.Errorf("main path = %q", reqs[0].Path)
	}

	// docs lives under docs/
	if reqs[1].Path != filepath.Join("/checkout", "docs", "requirements.txt") {
		t.Errorf("docs path = %q", reqs[1].Path)
	}
	if reqs[1].Input != filepath.Join("/checkout", "docs", "requirements.in") {
		t.Errorf("docs input = %q", reqs[1].Input)
	}

	// tests uses the test- prefix
	if reqs[2].Path != filepath.Join("/checkout", "test-requirements.txt") {
		t.Errorf("tests path = %q", reqs[2].Path)
	}
	if reqs[2].Input != filepath.Join("/checkout", "test-requirements.in") {
		t.Errorf("tests input = %q", reqs[2].Input)
	}
}

func TestRequirement(t *testing.T) {
	p := At("/checkout")

	req, ok := p.Requirement(RequirementsDocs)
	if !ok {
		t.Fatal("Requirement(docs) not found")
	}
	if req.Name != RequirementsDocs {
		t.Errorf("Name = %q, want %q", req.Name, RequirementsDocs)
	}

	if _, ok := p.Requirement("nonexistent"); ok {
		t.Error("Requirement(nonexistent) should not be found")
	}
}

func TestListImplementations(t *testing.T) {
	root := newCheckout(t)
	impls := filepath.Join(root, "implementations")

	for _, name := range []string{"go-jsonschema", "python-jsonschema", "lua-jsonschema"} {
		if err := os.MkdirAll(filepath.Join(impls, name), 0755); err != nil {
			t.Fatalf("creating implementation dir: %v", err)
		}
	}
	// Plain files are not implementations
	if err := os.WriteFile(filepath.Join(impls, "README.md"), []byte("harnesses"), 0644); err != nil {
		t.Fatalf("writing README: %v", err)
	}

	p := At(root)
	names, err := p.ListImplementations()
	if err != nil {
		t.Fatalf("ListImplementations failed: %v", err)
	}

	want := []string{"go-jsonschema", "lua-jsonschema", "python-jsonschema"}
	if len(names) != len(want) {
		t.Fatalf("got %d implementations, want %d: %v", len(names), len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestListImplementations_MissingDir(t *testing.T) {
	p := At(t.TempDir())

	if _, err := p.ListImplementations(); err == nil {
		t.Error("expected error for missing implementations directory")
	}
}

func TestRel(t *testing.T) {
	p := At("/checkout")

	if got := p.Rel(filepath.Join("/checkout", "docs", "requirements.in")); got != filepath.Join("docs", "requirements.in") {
		t.Errorf("Rel() = %q", got)
	}
}
