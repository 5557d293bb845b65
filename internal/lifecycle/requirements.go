package lifecycle

import (
	"context"

	"github.com/bowtie-json-schema/cravat/internal/env"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// requirementsBody re-pins the requirements files. The table is ordered
// because the files depend on each other; pip-compile resolves inputs
// relative to the checkout root, so it runs from there.
func requirementsBody(ctx context.Context, s *session.Context) error {
	if err := s.Install(ctx, "pip-tools"); err != nil {
		return err
	}

	for _, req := range s.Project().Requirements() {
		err := s.RunSpec(ctx, env.Spec{
			Program: "pip-compile",
			Args: []string{
				"--resolver", "backtracking",
				"--strip-extras",
				"-U",
				s.Project().Rel(req.Input),
			},
			Dir: s.Project().Root(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
