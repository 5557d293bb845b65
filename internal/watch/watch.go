// Package watch re-runs sessions when checkout sources change. It
// watches the project tree recursively, filters out caches and cravat's
// own state, and coalesces editor event bursts before reporting.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bowtie-json-schema/cravat/internal/errors"
	"github.com/bowtie-json-schema/cravat/internal/logging"
)

// ignoredDirs are directory basenames that never hold session-relevant
// sources.
var ignoredDirs = []string{
	".git",
	".cravat",
	".nox",
	".tox",
	"node_modules",
	"__pycache__",
	".pytest_cache",
	".ruff_cache",
	".DS_Store",
}

const defaultDebounce = 200 * time.Millisecond

// Watcher reports changes under a checkout as debounced bursts of
// paths.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
	debounce time.Duration
}

// New creates a Watcher over the checkout rooted at root. The whole
// tree is watched except for ignored directories.
func New(root string, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "watching checkout")
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating watcher")
	}

	w := &Watcher{
		root:     root,
		watcher:  fw,
		logger:   logger,
		debounce: defaultDebounce,
	}
	if err := w.addRecursive(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive watches dir and every non-ignored directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && ignored(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Debug("not watching directory", "dir", path, "error", err)
		}
		return nil
	})
}

// Run blocks, invoking onChange with each debounced burst of changed
// paths. It returns nil once ctx is canceled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.ignoredPath(event.Name) {
				continue
			}

			// Editors fire several events per save; collect the burst.
			pending[event.Name] = struct{}{}
			debounce.Reset(w.debounce)

			// Directories created while watching need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}

		case <-debounce.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			slices.Sort(changed)
			clear(pending)

			w.logger.Debug("sources changed", "paths", len(changed))
			onChange(changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// ignoredPath reports whether any component of path below the watch
// root is an ignored directory.
func (w *Watcher) ignoredPath(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if ignored(part) {
			return true
		}
	}
	return false
}

func ignored(base string) bool {
	if strings.HasSuffix(base, ".egg-info") {
		return true
	}
	return slices.Contains(ignoredDirs, base)
}
