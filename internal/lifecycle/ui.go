package lifecycle

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bowtie-json-schema/cravat/internal/config"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// uiBody starts the frontend dev server, installing its dependencies first
// when node_modules is absent.
func uiBody(cfg *config.Config) session.Body {
	pm := cfg.UI.PackageManager

	return func(ctx context.Context, s *session.Context) error {
		ui := s.Project().UI()
		if info, err := os.Stat(filepath.Join(ui, "node_modules")); err != nil || !info.IsDir() {
			if err := s.Run(ctx, pm, "install", "--dir", ui); err != nil {
				return err
			}
		}
		return s.Run(ctx, pm, "run", "--dir", ui, "start")
	}
}
