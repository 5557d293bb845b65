package lifecycle

import (
	"context"

	"github.com/bowtie-json-schema/cravat/internal/project"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

func auditBody(ctx context.Context, s *session.Context) error {
	main, _ := s.Project().Requirement(project.RequirementsMain)
	if err := s.Install(ctx, "pip-audit", "-r", main.Path); err != nil {
		return err
	}
	// This "vulnerability" is incorrect. See aio-libs/aiohttp#6772.
	return s.Run(ctx, "python", "-m", "pip_audit", "--ignore-vuln", "PYSEC-2022-43059")
}

func styleBody(ctx context.Context, s *session.Context) error {
	if err := s.Install(ctx, "ruff"); err != nil {
		return err
	}
	return s.Run(ctx, "ruff", "check", s.Project().Package(), s.Project().Tests())
}

func typingBody(ctx context.Context, s *session.Context) error {
	if err := s.Install(ctx, "pyright", s.Project().Root()); err != nil {
		return err
	}
	return s.Run(ctx, "pyright", s.Project().Package())
}
