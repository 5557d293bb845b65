package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bowtie-json-schema/cravat/internal/config"
	"github.com/bowtie-json-schema/cravat/internal/errors"
	"github.com/bowtie-json-schema/cravat/internal/lifecycle"
	"github.com/bowtie-json-schema/cravat/internal/logging"
	"github.com/bowtie-json-schema/cravat/internal/project"
	"github.com/bowtie-json-schema/cravat/internal/runner"
	"github.com/bowtie-json-schema/cravat/internal/session"
	"github.com/bowtie-json-schema/cravat/internal/tui"
	"github.com/bowtie-json-schema/cravat/internal/watch"
)

var runCmd = &cobra.Command{
	Use:   "run [-- posargs...]",
	Short: "Run sessions",
	Long: `Run development sessions against the bowtie checkout.

With no selection flags the default set runs: tests, audit, build, shiv,
style, typing and the documentation builds. Select specific sessions by
name or glob pattern with -s, or by tag with -t. Arguments after --
are handed to every selected session.

Examples:
  cravat run
  cravat run -s tests -- -k smoke
  cravat run -s 'docs(*)'
  cravat run -t build --watch`,
	RunE: runRun,
}

var (
	runSessions []string
	runTags     []string
	runWatch    bool
	runChoose   bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringArrayVarP(&runSessions, "session", "s", nil, "session name or glob pattern (repeatable)")
	runCmd.Flags().StringArrayVarP(&runTags, "tag", "t", nil, "run every session carrying this tag (repeatable)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "re-run the selection when checkout sources change")
	runCmd.Flags().BoolVar(&runChoose, "choose", false, "pick sessions interactively")
}

func runRun(cmd *cobra.Command, args []string) error {
	posargs, err := splitPosargs(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	proj, err := locateProject(cfg)
	if err != nil {
		return err
	}

	logger := newRunLogger(cfg, proj)
	defer func() { _ = logger.Close() }()

	registry, err := lifecycle.Registry(cfg)
	if err != nil {
		return err
	}

	names, tags := runSessions, runTags
	if runChoose {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--choose needs a terminal on stdin")
		}
		chosen, err := tui.Choose(registry.Sessions())
		if err != nil {
			if errors.Is(err, errors.ErrInterrupted) {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions chosen.")
				return nil
			}
			return err
		}
		names, tags = chosen, nil
	}

	defs, err := registry.Select(names, tags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	_, err = runner.New(runner.Options{
		Project: proj,
		Config:  cfg,
		Logger:  logger,
		Out:     out,
	}).Run(ctx, defs, posargs)

	if !runWatch {
		return err
	}
	// Watch mode keeps going after a failing run; the report already
	// showed it.
	return watchLoop(ctx, cfg, proj, logger, defs, posargs, out)
}

// splitPosargs returns the arguments after --. Positional arguments
// before it have no meaning to run.
func splitPosargs(cmd *cobra.Command, args []string) ([]string, error) {
	dash := cmd.ArgsLenAtDash()
	if dash == -1 {
		if len(args) > 0 {
			return nil, fmt.Errorf("unexpected argument %q: select sessions with -s, pass posargs after --", args[0])
		}
		return nil, nil
	}
	if dash > 0 {
		return nil, fmt.Errorf("unexpected argument %q: select sessions with -s, pass posargs after --", args[0])
	}
	return args[dash:], nil
}

// watchLoop re-runs the selection on every debounced burst of source
// changes until interrupted.
func watchLoop(ctx context.Context, cfg *config.Config, proj *project.Project, logger *logging.Logger, defs []*session.Definition, posargs []string, out io.Writer) error {
	watcher, err := watch.New(proj.Root(), logger)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	fmt.Fprintln(out, "Watching for changes; press ctrl-c to stop.")

	return watcher.Run(ctx, func(paths []string) {
		fmt.Fprintf(out, "\n%d file(s) changed; re-running.\n", len(paths))

		r := runner.New(runner.Options{
			Project: proj,
			Config:  cfg,
			Logger:  logger,
			Out:     out,
		})
		if _, err := r.Run(ctx, defs, posargs); err != nil {
			logger.Warn("watched run failed", "error", err)
		}
		fmt.Fprintln(out, "Watching for changes; press ctrl-c to stop.")
	})
}

// locateProject finds the bowtie checkout, preferring an explicit
// project.root over walking up from the working directory.
func locateProject(cfg *config.Config) (*project.Project, error) {
	if cfg.Project.Root != "" {
		return project.At(cfg.Project.Root), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return project.Discover(cwd)
}

// newRunLogger opens the debug log under the work dir, or a nop logger
// when file logging is disabled or unavailable.
func newRunLogger(cfg *config.Config, proj *project.Project) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.NewLogger(proj.WorkDir(), cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}
