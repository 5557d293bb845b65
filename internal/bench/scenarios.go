package bench

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bowtie-json-schema/cravat/internal/errors"
	"github.com/bowtie-json-schema/cravat/internal/session"
)

// Scenarios returns every shipped benchmark in registration order.
func Scenarios() []Scenario {
	return []Scenario{Info(), Smoke(), Suite()}
}

// Info times `bowtie info`, effectively the tool's startup cost.
func Info() Scenario {
	return Scenario{
		Name: "info",
		Doc:  "Time how long `bowtie info` takes to run (effectively startup time).",
		Plan: func(s *session.Context, bowtie string) ([]string, string, error) {
			args, err := matrixOrPosargs(s, "3")
			if err != nil {
				return nil, "", err
			}
			return args, bowtie + " info -i {implementation}", nil
		},
	}
}

// Smoke times `bowtie smoke`: startup plus a couple of simple examples.
func Smoke() Scenario {
	return Scenario{
		Name: "smoke",
		Doc:  "Time how long `bowtie smoke` takes to run (startup + ~2 simple examples).",
		Plan: func(s *session.Context, bowtie string) ([]string, string, error) {
			args, err := matrixOrPosargs(s, "3")
			if err != nil {
				return nil, "", err
			}
			return args, bowtie + " smoke -i {implementation}", nil
		},
	}
}

// Suite times `bowtie suite` over the test suite named in the session's
// posargs. Without an explicit -i in the posargs the run fans out over
// every harness directory.
func Suite() Scenario {
	return Scenario{
		Name: "suite",
		Doc:  "Time how long `bowtie suite` takes to run a version of the test suite.",
		Plan: func(s *session.Context, bowtie string) ([]string, string, error) {
			posargs := s.Posargs()
			if len(posargs) == 0 {
				return nil, "", errors.Wrap(errors.ErrMissingPosargs, "provide a test suite to benchmark")
			}

			joined := shellJoin(posargs)
			if slices.Contains(posargs, "-i") {
				return nil, fmt.Sprintf("%s suite %s", bowtie, joined), nil
			}

			// Not every implementation supports every dialect.
			args, err := implementationMatrix(s, "1", "--ignore-failure")
			if err != nil {
				return nil, "", err
			}
			return args, fmt.Sprintf("%s suite -i {implementation} %s", bowtie, joined), nil
		},
	}
}

// matrixOrPosargs returns the session's posargs verbatim when given, so a
// caller can steer hyperfine directly, and the default implementation
// matrix otherwise.
func matrixOrPosargs(s *session.Context, warmup string) ([]string, error) {
	if posargs := s.Posargs(); len(posargs) > 0 {
		return posargs, nil
	}
	return implementationMatrix(s, warmup)
}

// implementationMatrix builds hyperfine arguments that fan the {implementation}
// placeholder out over every harness directory in the checkout.
func implementationMatrix(s *session.Context, warmup string, extra ...string) ([]string, error) {
	names, err := s.Project().ListImplementations()
	if err != nil {
		return nil, err
	}
	args := append([]string{"--warmup", warmup}, extra...)
	return append(args, "-L", "implementation", strings.Join(names, ",")), nil
}

// shellSafe matches arguments that need no quoting on a POSIX command line.
var shellSafe = regexp.MustCompile(`^[\w@%+=:,./-]+$`)

// shellJoin renders args as a single shell command string, single-quoting
// anything shellSafe rejects. hyperfine hands the result to a shell, so
// the quoting must round-trip.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if shellSafe.MatchString(arg) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}
