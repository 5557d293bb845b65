package lifecycle

import (
	"context"
	"path/filepath"

	"github.com/bowtie-json-schema/cravat/internal/artifact"
	"github.com/bowtie-json-schema/cravat/internal/project"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// buildBody builds the sdist and wheel, lets twine vet their metadata, and
// then cross-checks that every schema in the working tree made it into
// both archives.
func buildBody(ctx context.Context, s *session.Context) error {
	if err := s.Install(ctx, "build", "twine"); err != nil {
		return err
	}

	outDir, err := s.TempDir()
	if err != nil {
		return err
	}
	if err := s.Run(ctx, "python", "-m", "build", s.Project().Root(), "--outdir", outDir); err != nil {
		return err
	}
	// twine expands the glob itself.
	if err := s.Run(ctx, "twine", "check", "--strict", outDir+"/*"); err != nil {
		return err
	}

	tarPath, wheelPath, err := artifact.FindArchives(outDir)
	if err != nil {
		return err
	}
	prefix := project.PackageName + "/schemas"
	return artifact.Verify(
		s.Project().Schemas(),
		artifact.NewTarLister(tarPath, prefix),
		artifact.NewWheelLister(wheelPath, prefix),
	)
}

// shivBody builds a single-file executable zipapp. The output lands at the
// first posarg when given, otherwise in a temporary directory.
func shivBody(ctx context.Context, s *session.Context) error {
	if err := s.Install(ctx, "shiv"); err != nil {
		return err
	}

	var out string
	if posargs := s.Posargs(); len(posargs) > 0 {
		out = posargs[0]
	} else {
		dir, err := s.TempDir()
		if err != nil {
			return err
		}
		out = filepath.Join(dir, "bowtie")
	}

	main, _ := s.Project().Requirement(project.RequirementsMain)
	err := s.Run(ctx, "python",
		"-m", "shiv",
		"--reproducible",
		"-c", "bowtie",
		"-r", main.Path,
		s.Project().Root(),
		"-o", out,
	)
	if err != nil {
		return err
	}
	s.Printf("Outputted a shiv to %s.\n", out)
	return nil
}
