package lifecycle

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bowtie-json-schema/cravat/internal/env"
	"github.com/bowtie-json-schema/cravat/internal/errors"
	"github.com/bowtie-json-schema/cravat/internal/project"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// coverageHook is installed into the environment's site-packages so that
// subprocesses started by the suite report coverage too.
// See https://coverage.readthedocs.io/en/latest/subprocess.html.
const coverageHook = `from pathlib import Path
import sysconfig

(Path(sysconfig.get_path("purelib")) / "coverage.pth").write_text(
    "import coverage\ncoverage.process_startup()\n",
    encoding="utf-8",
)
`

// testsBody runs the suite with pytest. The magic first posarg "coverage"
// switches to a coverage run; "coverage github" additionally appends the
// report to the GitHub Actions step summary.
func testsBody(ctx context.Context, s *session.Context) error {
	tests, _ := s.Project().Requirement(project.RequirementsTests)
	if err := s.Install(ctx, "-r", tests.Path); err != nil {
		return err
	}

	posargs := s.Posargs()
	if len(posargs) > 0 && posargs[0] == "coverage" {
		return coverageRun(ctx, s, posargs)
	}

	args := append(append([]string{}, posargs...), s.Project().Tests())
	return s.Run(ctx, "pytest", args...)
}

func coverageRun(ctx context.Context, s *session.Context, posargs []string) error {
	var summaryPath string
	if len(posargs) > 1 && posargs[1] == "github" {
		var ok bool
		summaryPath, ok = os.LookupEnv("GITHUB_STEP_SUMMARY")
		if !ok {
			return errors.New("GITHUB_STEP_SUMMARY is not set")
		}
	}

	if err := s.Install(ctx, "coverage[toml]"); err != nil {
		return err
	}
	if err := s.Run(ctx, "python", "-c", coverageHook); err != nil {
		return err
	}

	pyproject, err := filepath.Abs(s.Project().Pyproject())
	if err != nil {
		return err
	}
	err = s.RunSpec(ctx, env.Spec{
		Program: "coverage",
		Args:    []string{"run", "-m", "pytest", s.Project().Tests()},
		Env:     map[string]string{"COVERAGE_PROCESS_START": pyproject},
	})
	if err != nil {
		return err
	}

	if summaryPath == "" {
		return s.Run(ctx, "coverage", "report")
	}

	summary, err := os.OpenFile(summaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer summary.Close()
	if _, err := summary.WriteString("### Coverage\n\n"); err != nil {
		return err
	}
	return s.RunSpec(ctx, env.Spec{
		Program: "coverage",
		Args:    []string{"report", "--format=markdown"},
		Stdout:  summary,
	})
}
