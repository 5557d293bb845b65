// Package bench builds the benchmark sessions. A benchmark is a Scenario
// that plans a hyperfine invocation against the installed bowtie; the
// Session factory wraps the scenario in a session that installs the tool,
// resolves its executable, and hands the plan to hyperfine. Benchmark
// sessions never run by default and carry the "perf" tag.
package bench

import (
	"context"
	"fmt"
	"strings"

	"github.com/bowtie-json-schema/cravat/internal/project"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// tool is the executable every scenario measures.
const tool = "bowtie"

// Scenario plans one timed command. Plan receives the session context and
// the path of the installed tool and returns hyperfine's arguments plus
// the command template to time. Templates may carry hyperfine -L
// placeholders such as {implementation}.
type Scenario struct {
	Name string
	Doc  string
	Plan func(s *session.Context, bowtie string) (args []string, command string, err error)
}

// Session builds the session for a scenario, named "bench(<name>)". Any
// leading "bench_" on the scenario name is dropped first.
func Session(sc Scenario, interpreters ...string) *session.Definition {
	name := strings.TrimPrefix(sc.Name, "bench_")
	return session.New(fmt.Sprintf("bench(%s)", name), body(sc)).
		WithDoc(sc.Doc).
		On(interpreters...).
		NotDefault().
		Tagged("perf")
}

func body(sc Scenario) session.Body {
	return func(ctx context.Context, s *session.Context) error {
		main, _ := s.Project().Requirement(project.RequirementsMain)
		if err := s.Install(ctx, "-r", main.Path, s.Project().Root()); err != nil {
			return err
		}

		args, command, err := sc.Plan(s, s.Executable(tool))
		if err != nil {
			return err
		}
		return s.RunExternal(ctx, "hyperfine", append(args, command)...)
	}
}
