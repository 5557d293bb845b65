// Package artifact verifies built distributions against the working tree:
// every JSON schema file shipped in the checkout must also be present in
// each built archive, whatever its packaging format.
package artifact

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"github.com/bowtie-json-schema/cravat/internal/errors"
)

// schemaGlob matches schema files at any depth below the schemas root.
var schemaGlob = glob.MustCompile("**.json", '/')

// FileSet is a set of working-tree paths.
type FileSet map[string]struct{}

// NewFileSet builds a FileSet from paths.
func NewFileSet(paths ...string) FileSet {
	set := make(FileSet, len(paths))
	for _, path := range paths {
		set.Add(path)
	}
	return set
}

// Add inserts path into the set.
func (s FileSet) Add(path string) {
	s[path] = struct{}{}
}

// Contains reports whether path is in the set.
func (s FileSet) Contains(path string) bool {
	_, ok := s[path]
	return ok
}

// Missing returns the paths of s absent from other, sorted.
func (s FileSet) Missing(other FileSet) []string {
	var missing []string
	for path := range s {
		if !other.Contains(path) {
			missing = append(missing, path)
		}
	}
	sort.Strings(missing)
	return missing
}

// Paths returns the set's contents, sorted.
func (s FileSet) Paths() []string {
	paths := make([]string, 0, len(s))
	for path := range s {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Lister maps one built archive's members onto working-tree schema paths.
// Implementations exist per packaging format; the verifier itself never
// inspects archive internals.
type Lister interface {
	// Label names the archive in verification reports, e.g. "tar".
	Label() string
	// Schemas returns the working-tree paths under schemasDir that the
	// archive's schema members map to.
	Schemas(schemasDir string) (FileSet, error)
}

// GroundTruth enumerates the schema files under schemasDir, the set every
// built archive must contain. An empty result means a broken working tree,
// not a vacuous pass, and fails with errors.ErrNoSchemas.
func GroundTruth(schemasDir string) (FileSet, error) {
	root, err := filepath.Abs(schemasDir)
	if err != nil {
		return nil, err
	}

	truth := make(FileSet)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if schemaGlob.Match(filepath.ToSlash(rel)) {
			truth.Add(path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "enumerating schemas in %s", root)
	}

	if len(truth) == 0 {
		return nil, errors.Wrapf(errors.ErrNoSchemas, "%s", root)
	}
	return truth, nil
}

// Verify checks each archive independently: the ground truth under
// schemasDir must be a subset of the paths the archive's members map to.
// Every failing archive contributes its own *errors.VerificationError
// listing the missing paths.
func Verify(schemasDir string, listers ...Lister) error {
	truth, err := GroundTruth(schemasDir)
	if err != nil {
		return err
	}

	var failures []error
	for _, lister := range listers {
		found, err := lister.Schemas(schemasDir)
		if err != nil {
			failures = append(failures, errors.Wrapf(err, "reading %s archive", lister.Label()))
			continue
		}
		if missing := truth.Missing(found); len(missing) > 0 {
			failures = append(failures, errors.NewVerificationError(lister.Label(), missing))
		}
	}
	return errors.Join(failures...)
}

// FindArchives locates the built sdist and wheel in dir. A build produces
// exactly one of each; anything else is an error.
func FindArchives(dir string) (tarPath, wheelPath string, err error) {
	tarPath, err = findOne(dir, "*.tar.gz", "sdist")
	if err != nil {
		return "", "", err
	}
	wheelPath, err = findOne(dir, "*.whl", "wheel")
	if err != nil {
		return "", "", err
	}
	return tarPath, wheelPath, nil
}

func findOne(dir, pattern, kind string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", err
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("expected exactly one %s in %s, found %d", kind, dir, len(matches))
	}
	return matches[0], nil
}
