package lifecycle

import (
	"context"
	"path/filepath"

	"github.com/bowtie-json-schema/cravat/internal/config"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// developHarnessBody builds local harness images from the checkout and
// smoke-tests each one, relying on bowtie being available on PATH. Real
// harness versions come from the registry's published packages; this
// exists for developing a new harness.
func developHarnessBody(cfg *config.Config) session.Body {
	registry := cfg.Harness.Registry
	builder := cfg.Harness.Builder

	return func(ctx context.Context, s *session.Context) error {
		for _, each := range s.Posargs() {
			name := filepath.Base(each)
			dockerfile := filepath.Join(s.Project().Implementations(), name, "Dockerfile")
			err := s.RunExternal(ctx, builder,
				"build",
				"-f", dockerfile,
				"-t", registry+"/"+name,
			)
			if err != nil {
				return err
			}
			if err := s.RunExternal(ctx, "bowtie", "smoke", "--quiet", "-i", name); err != nil {
				return err
			}
		}
		return nil
	}
}
