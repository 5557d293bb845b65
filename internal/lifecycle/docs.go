package lifecycle

import (
	"context"
	"path/filepath"

	"github.com/bowtie-json-schema/cravat/internal/project"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// docsBody builds the documentation with one sphinx builder. Warnings are
// errors everywhere; the spelling builder keeps sphinx's normal output
// because its findings arrive as stdout, not warnings.
func docsBody(builder string) session.Body {
	return func(ctx context.Context, s *session.Context) error {
		docs, _ := s.Project().Requirement(project.RequirementsDocs)
		if err := s.Install(ctx, "-r", docs.Path); err != nil {
			return err
		}

		args := []string{"-m", "sphinx", "-b", builder, s.Project().Docs(), "-n", "-T", "-W"}
		if builder != "spelling" {
			args = append(args, "-q")
		}

		posargs := s.Posargs()
		if len(posargs) == 0 {
			dir, err := s.TempDir()
			if err != nil {
				return err
			}
			posargs = []string{filepath.Join(dir, builder)}
		}
		return s.Run(ctx, "python", append(args, posargs...)...)
	}
}

func docsStyleBody(ctx context.Context, s *session.Context) error {
	if err := s.Install(ctx, "doc8", "pygments", "pygments-github-lexers"); err != nil {
		return err
	}
	return s.Run(ctx, "python", "-m", "doc8", "--config", s.Project().Pyproject(), s.Project().Docs())
}
