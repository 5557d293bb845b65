package lifecycle

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bowtie-json-schema/cravat/internal/env"
	"github.com/bowtie-json-schema/cravat/internal/errors"
	"github.com/bowtie-json-schema/cravat/internal/testutil"
)

// fakeBuilder answers `python -m build` by writing a complete sdist and
// wheel into the requested output directory. Wheel members named in omit
// are left out.
func fakeBuilder(t *testing.T, omit map[string]bool) func(env.Spec) error {
	return func(spec env.Spec) error {
		if spec.Program != "python" || len(spec.Args) < 2 || spec.Args[1] != "build" {
			return nil
		}
		outDir := spec.Args[len(spec.Args)-1]

		testutil.WriteSdist(t, filepath.Join(outDir, "bowtie-1.0.0.tar.gz"),
			"bowtie-1.0.0/PKG-INFO",
			"bowtie-1.0.0/bowtie/schemas/io-schema.json",
			"bowtie-1.0.0/bowtie/schemas/dialects/draft2020.json",
		)

		members := []string{"bowtie/__init__.py"}
		for _, member := range []string{
			"bowtie/schemas/io-schema.json",
			"bowtie/schemas/dialects/draft2020.json",
		} {
			if !omit[member] {
				members = append(members, member)
			}
		}
		testutil.WriteWheel(t, filepath.Join(outDir, "bowtie-1.0.0-py3-none-any.whl"), members...)
		return nil
	}
}

func TestBuildBody(t *testing.T) {
	fixture := testutil.NewSession(t, "build")
	fixture.Environment.RunErr = fakeBuilder(t, nil)

	if err := buildBody(context.Background(), fixture.Context); err != nil {
		t.Fatalf("buildBody() error = %v", err)
	}

	assertInstall(t, fixture.Environment.Installs, 0, "build", "twine")

	runs := fixture.Environment.Runs
	if len(runs) != 2 {
		t.Fatalf("Runs = %v, want build then twine", runs)
	}

	build := runs[0]
	if build.Program != "python" || build.Args[1] != "build" {
		t.Errorf("first run = %s %v, want python -m build", build.Program, build.Args)
	}
	if build.Args[2] != fixture.Project.Root() {
		t.Errorf("build root = %q, want %q", build.Args[2], fixture.Project.Root())
	}

	twine := runs[1]
	if twine.Program != "twine" {
		t.Errorf("second run = %s, want twine", twine.Program)
	}
	glob := twine.Args[len(twine.Args)-1]
	if !strings.HasSuffix(glob, "/*") {
		t.Errorf("twine target = %q, want the literal output glob", glob)
	}
}

func TestBuildBody_MissingWheelSchema(t *testing.T) {
	fixture := testutil.NewSession(t, "build")
	fixture.Environment.RunErr = fakeBuilder(t, map[string]bool{
		"bowtie/schemas/dialects/draft2020.json": true,
	})

	err := buildBody(context.Background(), fixture.Context)
	if err == nil {
		t.Fatal("buildBody() error = nil, want verification failure")
	}

	var verification *errors.VerificationError
	if !errors.As(err, &verification) {
		t.Fatalf("buildBody() error = %v, want VerificationError", err)
	}
	if verification.Archive != "wheel" {
		t.Errorf("Archive = %q, want wheel", verification.Archive)
	}
}

func TestShivBody(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bowtie")
	fixture := testutil.NewSession(t, "shiv", out)

	if err := shivBody(context.Background(), fixture.Context); err != nil {
		t.Fatalf("shivBody() error = %v", err)
	}

	assertInstall(t, fixture.Environment.Installs, 0, "shiv")

	root := fixture.Project.Root()
	runs := fixture.Environment.Runs
	if len(runs) != 1 {
		t.Fatalf("Runs = %v, want one shiv run", runs)
	}
	assertRun(t, runs[0], "python",
		"-m", "shiv",
		"--reproducible",
		"-c", "bowtie",
		"-r", filepath.Join(root, "requirements.txt"),
		root,
		"-o", out,
	)

	if got, want := fixture.Out.String(), "Outputted a shiv to "+out+".\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestShivBody_DefaultOutput(t *testing.T) {
	fixture := testutil.NewSession(t, "shiv")

	if err := shivBody(context.Background(), fixture.Context); err != nil {
		t.Fatalf("shivBody() error = %v", err)
	}

	runs := fixture.Environment.Runs
	if len(runs) != 1 {
		t.Fatalf("Runs = %v, want one shiv run", runs)
	}
	out := runs[0].Args[len(runs[0].Args)-1]
	if filepath.Base(out) != "bowtie" {
		t.Errorf("default output = %q, want a file named bowtie", out)
	}
	if !strings.Contains(fixture.Out.String(), out) {
		t.Errorf("output %q does not mention the shiv location %q", fixture.Out.String(), out)
	}
}
