package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bowtie-json-schema/cravat/internal/config"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cravat's work directory",
	Long: `Remove the work directory (.cravat) holding provisioned environments
and logs, plus the environments directory if it lives elsewhere.
Sessions recreate what they need on the next run.`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	proj, err := locateProject(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	workDir := proj.WorkDir()
	targets := []string{workDir}

	// envs.dir may point outside the work dir.
	envsDir := cfg.Envs.ResolveDir(proj.Root())
	if envsDir != workDir && !strings.HasPrefix(envsDir, workDir+string(filepath.Separator)) {
		targets = append(targets, envsDir)
	}

	removed := 0
	for _, target := range targets {
		if _, err := os.Stat(target); err != nil {
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("removing %s: %w", target, err)
		}
		fmt.Fprintf(out, "Removed %s\n", target)
		removed++
	}

	if removed == 0 {
		fmt.Fprintln(out, "Nothing to clean")
	}
	return nil
}
