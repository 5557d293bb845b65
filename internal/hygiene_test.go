// Package internal holds repository-wide tests: source hygiene checks and
// integration tests that drive several packages against one checkout.
package internal

import (
	"bytes"
	"go/format"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// repoRoot locates the repository root. This package's tests run from
// internal/, but running them from the root works too.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if filepath.Base(wd) == "internal" {
		return filepath.Dir(wd)
	}
	return wd
}

// TestGofmt fails when a source file is not gofmt-clean. Run `gofmt -w .`
// to fix whatever it reports.
func TestGofmt(t *testing.T) {
	root := repoRoot(t)

	var dirty []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			// The same directories the go tool ignores.
			if path != root && (name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		formatted, err := format.Source(src)
		if err != nil {
			// Leave files that do not parse to the compiler.
			return nil
		}
		if !bytes.Equal(src, formatted) {
			rel, _ := filepath.Rel(root, path)
			dirty = append(dirty, rel)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}

	for _, path := range dirty {
		t.Errorf("%s is not gofmt-clean", path)
	}
}

// TestGolangciLint runs the repository's linters and fails on any finding.
// Skipped when golangci-lint is not installed.
func TestGolangciLint(t *testing.T) {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint is not installed")
	}

	cmd := exec.Command("golangci-lint", "run", "--allow-parallel-runners", "./...")
	cmd.Dir = repoRoot(t)
	// Sandboxed runners may not have a writable default build cache.
	cmd.Env = append(os.Environ(), "GOCACHE="+t.TempDir())
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Errorf("golangci-lint reported issues:\n%s", output)
	}
}
