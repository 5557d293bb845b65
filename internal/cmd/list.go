package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bowtie-json-schema/cravat/internal/config"
	"github.com/bowtie-json-schema/cravat/internal/lifecycle"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Long: `List the registered sessions. By default only sessions that a bare
'cravat run' would execute are shown; --all includes the rest.`,
	RunE: runList,
}

var (
	listFormat string
	listAll    bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listFormat, "format", "text", "output format: text, yaml or json")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include sessions that don't run by default")
}

// listEntry is one session in machine-readable list output.
type listEntry struct {
	Name         string   `json:"name" yaml:"name"`
	Doc          string   `json:"doc,omitempty" yaml:"doc,omitempty"`
	Default      bool     `json:"default" yaml:"default"`
	Host         bool     `json:"host,omitempty" yaml:"host,omitempty"`
	Interpreters []string `json:"interpreters,omitempty" yaml:"interpreters,omitempty"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	registry, err := lifecycle.Registry(cfg)
	if err != nil {
		return err
	}

	defs := registry.Sessions()
	if !listAll {
		defs = registry.Defaults()
	}

	entries := make([]listEntry, 0, len(defs))
	for _, def := range defs {
		entries = append(entries, listEntry{
			Name:         def.Name,
			Doc:          def.Doc,
			Default:      def.Default,
			Host:         def.Host,
			Interpreters: def.Interpreters,
			Tags:         def.Tags,
		})
	}

	out := cmd.OutOrStdout()
	switch listFormat {
	case "text":
		return writeSessionList(out, entries)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(out)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", listFormat)
	}
}

func writeSessionList(w io.Writer, entries []listEntry) error {
	for _, entry := range entries {
		marker := "-"
		if entry.Default {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s", marker, entry.Name)
		if entry.Doc != "" {
			line = fmt.Sprintf("%-24s -> %s", line, entry.Doc)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "\nSessions marked with * run by default.")
	return err
}
