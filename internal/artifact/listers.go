package artifact

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bowtie-json-schema/cravat/internal/errors"
)

var (
	_ Lister = (*TarLister)(nil)
	_ Lister = (*WheelLister)(nil)
)

// TarLister inspects an sdist. Member names carry a release directory
// prefix ("pkg-1.2.3/...") ahead of the package-relative path, so matching
// looks anywhere in the name and mapping drops the first three components.
type TarLister struct {
	path   string
	prefix string
}

// NewTarLister returns a Lister over the sdist at path. prefix is the
// package-relative schemas directory, slash-separated ("bowtie/schemas").
func NewTarLister(path, prefix string) *TarLister {
	return &TarLister{path: path, prefix: prefix}
}

// Label implements Lister.
func (l *TarLister) Label() string { return "tar" }

// Schemas implements Lister.
func (l *TarLister) Schemas(schemasDir string) (FileSet, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing %s", l.path)
	}
	defer gz.Close()

	found := make(FileSet)
	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", l.path)
		}
		if header.Typeflag == tar.TypeDir {
			continue
		}
		if !strings.Contains(header.Name, l.prefix) {
			continue
		}
		// "pkg-1.2.3/bowtie/schemas/dialect/foo.json" -> "dialect/foo.json"
		parts := strings.SplitN(header.Name, "/", 4)
		if len(parts) < 4 {
			continue
		}
		found.Add(filepath.Join(schemasDir, filepath.FromSlash(parts[3])))
	}
	return found, nil
}

// WheelLister inspects a wheel. Wheels store package-relative member names
// directly, so mapping just strips the schemas prefix.
type WheelLister struct {
	path   string
	prefix string
}

// NewWheelLister returns a Lister over the wheel at path. prefix is the
// package-relative schemas directory, slash-separated ("bowtie/schemas").
func NewWheelLister(path, prefix string) *WheelLister {
	return &WheelLister{path: path, prefix: prefix}
}

// Label implements Lister.
func (l *WheelLister) Label() string { return "wheel" }

// Schemas implements Lister.
func (l *WheelLister) Schemas(schemasDir string) (FileSet, error) {
	reader, err := zip.OpenReader(l.path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", l.path)
	}
	defer reader.Close()

	found := make(FileSet)
	for _, member := range reader.File {
		if strings.HasSuffix(member.Name, "/") {
			continue
		}
		if !strings.HasPrefix(member.Name, l.prefix) {
			continue
		}
		rel := strings.TrimPrefix(member.Name, l.prefix+"/")
		found.Add(filepath.Join(schemasDir, filepath.FromSlash(rel)))
	}
	return found, nil
}
