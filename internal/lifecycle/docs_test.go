package lifecycle

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bowtie-json-schema/cravat/internal/testutil"
)

func TestDocsBody(t *testing.T) {
	fixture := testutil.NewSession(t, "docs(dirhtml)")

	if err := docsBody("dirhtml")(context.Background(), fixture.Context); err != nil {
		t.Fatalf("docsBody() error = %v", err)
	}

	root := fixture.Project.Root()
	assertInstall(t, fixture.Environment.Installs, 0, "-r", filepath.Join(root, "docs", "requirements.txt"))

	runs := fixture.Environment.Runs
	if len(runs) != 1 {
		t.Fatalf("Runs = %v, want one sphinx run", runs)
	}
	run := runs[0]
	if run.Program != "python" {
		t.Errorf("Program = %q, want python", run.Program)
	}

	want := []string{"-m", "sphinx", "-b", "dirhtml", filepath.Join(root, "docs"), "-n", "-T", "-W", "-q"}
	if len(run.Args) != len(want)+1 {
		t.Fatalf("Args = %v, want %v plus an output directory", run.Args, want)
	}
	for i := range want {
		if run.Args[i] != want[i] {
			t.Errorf("Args[%d] = %q, want %q", i, run.Args[i], want[i])
		}
	}
	if got := filepath.Base(run.Args[len(run.Args)-1]); got != "dirhtml" {
		t.Errorf("output directory = %q, want one named after the builder", got)
	}
}

func TestDocsBody_SpellingKeepsSphinxOutput(t *testing.T) {
	fixture := testutil.NewSession(t, "docs(spelling)")

	if err := docsBody("spelling")(context.Background(), fixture.Context); err != nil {
		t.Fatalf("docsBody() error = %v", err)
	}

	runs := fixture.Environment.Runs
	if len(runs) != 1 {
		t.Fatalf("Runs = %v, want one sphinx run", runs)
	}
	if slices.Contains(runs[0].Args, "-q") {
		t.Errorf("Args = %v, spelling must not be quiet", runs[0].Args)
	}
}

func TestDocsBody_PosargsOverrideOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "manpages")
	fixture := testutil.NewSession(t, "docs(man)", out)

	if err := docsBody("man")(context.Background(), fixture.Context); err != nil {
		t.Fatalf("docsBody() error = %v", err)
	}

	runs := fixture.Environment.Runs
	if got := runs[0].Args[len(runs[0].Args)-1]; got != out {
		t.Errorf("output directory = %q, want %q", got, out)
	}
}

func TestDocsStyleBody(t *testing.T) {
	fixture := testutil.NewSession(t, "docs(style)")

	if err := docsStyleBody(context.Background(), fixture.Context); err != nil {
		t.Fatalf("docsStyleBody() error = %v", err)
	}

	assertInstall(t, fixture.Environment.Installs, 0, "doc8", "pygments", "pygments-github-lexers")

	root := fixture.Project.Root()
	runs := fixture.Environment.Runs
	if len(runs) != 1 {
		t.Fatalf("Runs = %v, want one doc8 run", runs)
	}
	assertRun(t, runs[0], "python",
		"-m", "doc8",
		"--config", filepath.Join(root, "pyproject.toml"),
		filepath.Join(root, "docs"),
	)
}
