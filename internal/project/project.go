// Package project models the bowtie checkout cravat operates on: the fixed
// directory layout, the ordered requirements tables, and the implementation
// harness listing.
package project

import (
	"os"
	"path/filepath"

	"github.com/bowtie-json-schema/cravat/internal/errors"
)

// PackageName is the Python package the checkout ships.
const PackageName = "bowtie"

// Requirement table names
const (
	RequirementsMain  = "main"
	RequirementsDocs  = "docs"
	RequirementsTests = "tests"
)

// Project is a bowtie checkout rooted at a directory containing pyproject.toml.
type Project struct {
	root string
}

// Discover finds the bowtie checkout by traversing up from startDir, looking
// for pyproject.toml. Returns an error wrapping errors.ErrNoProject if the
// traversal reaches the filesystem root without finding one.
func Discover(startDir string) (*Project, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		marker := filepath.Join(dir, "pyproject.toml")
		if info, err := os.Stat(marker); err == nil && info.Mode().IsRegular() {
			return &Project{root: dir}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding pyproject.toml
			return nil, errors.Wrapf(errors.ErrNoProject, "no pyproject.toml at or above %s", startDir)
		}
		dir = parent
	}
}

// At returns the Project rooted at root without probing for markers.
// Used when the root is configured explicitly.
func At(root string) *Project {
	return &Project{root: root}
}

// Root returns the checkout root directory.
func (p *Project) Root() string { return p.root }

// Pyproject returns the path to pyproject.toml.
func (p *Project) Pyproject() string { return filepath.Join(p.root, "pyproject.toml") }

// Docs returns the documentation source directory.
func (p *Project) Docs() string { return filepath.Join(p.root, "docs") }

// Package returns the bowtie Python package directory.
func (p *Project) Package() string { return filepath.Join(p.root, PackageName) }

// Schemas returns the directory holding bowtie's JSON schemas, the ground
// truth for build artifact verification.
func (p *Project) Schemas() string { return filepath.Join(p.root, PackageName, "schemas") }

// Implementations returns the directory of harness definitions.
func (p *Project) Implementations() string { return filepath.Join(p.root, "implementations") }

// Tests returns the test suite directory.
func (p *Project) Tests() string { return filepath.Join(p.root, "tests") }

// UI returns the frontend directory.
func (p *Project) UI() string { return filepath.Join(p.root, "frontend") }

// WorkDir returns cravat's own state directory inside the checkout.
func (p *Project) WorkDir() string { return filepath.Join(p.root, ".cravat") }

// Requirement is one pinned requirements file and the input it is compiled
// from.
type Requirement struct {
	Name  string // table key: "main", "docs", or "tests"
	Path  string // pinned output, e.g. requirements.txt
	Input string // compile input: pyproject.toml for main, <stem>.in otherwise
}

// Requirements returns the pinned requirement files in compile order.
// The files depend on each other, so main must be compiled before the rest.
func (p *Project) Requirements() []Requirement {
	return []Requirement{
		{
			Name:  RequirementsMain,
			Path:  filepath.Join(p.root, "requirements.txt"),
			Input: p.Pyproject(),
		},
		{
			Name:  RequirementsDocs,
			Path:  filepath.Join(p.root, "docs", "requirements.txt"),
			Input: filepath.Join(p.root, "docs", "requirements.in"),
		},
		{
			Name:  RequirementsTests,
			Path:  filepath.Join(p.root, "test-requirements.txt"),
			Input: filepath.Join(p.root, "test-requirements.in"),
		},
	}
}

// Requirement returns the named entry from the requirements table.
func (p *Project) Requirement(name string) (Requirement, bool) {
	for _, req := range p.Requirements() {
		if req.Name == name {
			return req, true
		}
	}
	return Requirement{}, false
}

// ListImplementations returns the names of the harness directories under
// implementations/, sorted. Plain files are skipped.
func (p *Project) ListImplementations() ([]string, error) {
	entries, err := os.ReadDir(p.Implementations())
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Rel returns path relative to the checkout root. It falls back to the
// input path when it cannot be made relative.
func (p *Project) Rel(path string) string {
	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		return path
	}
	return rel
}
