package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

// startWatcher runs w in the background and returns a channel of
// reported bursts. The watcher stops when the test finishes.
func startWatcher(t *testing.T, w *Watcher) <-chan []string {
	t.Helper()

	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	bursts := make(chan []string, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(paths []string) { bursts <- paths })
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return bursts
}

func waitForBurst(t *testing.T, bursts <-chan []string) []string {
	t.Helper()
	select {
	case paths := <-bursts:
		return paths
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
		return nil
	}
}

func TestNew_RequiresDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pyproject.toml")
	if err := os.WriteFile(file, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(file, nil); err == nil {
		t.Error("New() on a file succeeded, want an error")
	} else if !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("New() error = %v, want a not-a-directory message", err)
	}

	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := New(missing, nil); err == nil {
		t.Error("New() on a missing path succeeded, want an error")
	}
}

func TestWatcher_ReportsChanges(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	bursts := startWatcher(t, w)

	changed := filepath.Join(root, "conftest.py")
	if err := os.WriteFile(changed, []byte("pass\n"), 0644); err != nil {
		t.Fatal(err)
	}

	paths := waitForBurst(t, bursts)
	if !slices.Contains(paths, changed) {
		t.Errorf("burst = %v, want it to contain %s", paths, changed)
	}
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	bursts := startWatcher(t, w)

	for _, name := range []string{"a.py", "b.py", "c.py"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	paths := waitForBurst(t, bursts)
	if len(paths) == 0 {
		t.Fatal("empty burst")
	}
	// A burst never repeats a path.
	seen := map[string]bool{}
	for _, path := range paths {
		if seen[path] {
			t.Errorf("burst repeats %s", path)
		}
		seen[path] = true
	}
}

func TestWatcher_IgnoresWorkDir(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{".cravat", "__pycache__"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}

	w, err := New(root, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	bursts := startWatcher(t, w)

	ignored := filepath.Join(root, ".cravat", "debug.log")
	if err := os.WriteFile(ignored, []byte("log"), 0644); err != nil {
		t.Fatal(err)
	}
	cached := filepath.Join(root, "__pycache__", "mod.pyc")
	if err := os.WriteFile(cached, []byte("pyc"), 0644); err != nil {
		t.Fatal(err)
	}

	// Give the events time to arrive, then prove liveness with a
	// tracked file.
	time.Sleep(200 * time.Millisecond)
	tracked := filepath.Join(root, "tracked.py")
	if err := os.WriteFile(tracked, []byte("pass\n"), 0644); err != nil {
		t.Fatal(err)
	}

	paths := waitForBurst(t, bursts)
	if slices.Contains(paths, ignored) || slices.Contains(paths, cached) {
		t.Errorf("burst %v contains ignored paths", paths)
	}
	if !slices.Contains(paths, tracked) {
		t.Errorf("burst %v missing %s", paths, tracked)
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	bursts := startWatcher(t, w)

	created := filepath.Join(root, "tests")
	if err := os.Mkdir(created, 0755); err != nil {
		t.Fatal(err)
	}
	waitForBurst(t, bursts) // the directory creation itself

	time.Sleep(200 * time.Millisecond)
	nested := filepath.Join(created, "test_new.py")
	if err := os.WriteFile(nested, []byte("pass\n"), 0644); err != nil {
		t.Fatal(err)
	}

	paths := waitForBurst(t, bursts)
	if !slices.Contains(paths, nested) {
		t.Errorf("burst = %v, want it to contain %s", paths, nested)
	}
}

func TestIgnored(t *testing.T) {
	tests := []struct {
		base string
		want bool
	}{
		{base: ".git", want: true},
		{base: ".cravat", want: true},
		{base: "node_modules", want: true},
		{base: "__pycache__", want: true},
		{base: "bowtie.egg-info", want: true},
		{base: "bowtie", want: false},
		{base: "tests", want: false},
		{base: "docs", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			if got := ignored(tt.base); got != tt.want {
				t.Errorf("ignored(%q) = %v, want %v", tt.base, got, tt.want)
			}
		})
	}
}
