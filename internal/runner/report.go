package runner

import (
	"fmt"
	"time"
)

// printStatus writes the one-line outcome of a run as it finishes.
func (r *Runner) printStatus(result Result) {
	style := statusStyle(result.Status)
	line := fmt.Sprintf("%s %s %s", statusIcon(result.Status), result.Name, result.Status)
	fmt.Fprintf(r.out, "%s %s\n", style.Render(line), mutedStyle.Render(formatDuration(result.Duration)))
}

// printReport writes the closing summary once every scheduled run is done.
// A single run already said everything in its status line.
func (r *Runner) printReport(results []Result) {
	if len(results) < 2 {
		return
	}

	var passed, failed, interrupted int
	for _, result := range results {
		switch result.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		case StatusInterrupted:
			interrupted++
		}
	}

	summary := fmt.Sprintf("ran %d sessions: %d passed, %d failed", len(results), passed, failed)
	if interrupted > 0 {
		summary += fmt.Sprintf(", %d interrupted", interrupted)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Render(summary))
	for _, result := range results {
		style := statusStyle(result.Status)
		fmt.Fprintf(r.out, "  %s %s\n",
			style.Render(fmt.Sprintf("%s %s", statusIcon(result.Status), result.Name)),
			mutedStyle.Render(formatDuration(result.Duration)),
		)
	}
}

// formatDuration trims a duration for the report: sub-second runs keep
// millisecond resolution, everything else rounds to tenths of a second.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
