package report

import (
	"fmt"
	"strings"
)

// Markdown renders the report as a markdown document suitable for CI
// comments and files.
func (r *Report) Markdown(opts Options) string {
	var sb strings.Builder

	if opts.Title != "" {
		fmt.Fprintf(&sb, "### %s\n\n", opts.Title)
	}

	unit := opts.Unit
	if unit == "" {
		unit = "value"
	}

	writeSection := func(heading string, entries []Entry) {
		if len(entries) == 0 {
			return
		}
		fmt.Fprintf(&sb, "#### %s\n\n", heading)
		fmt.Fprintf(&sb, "| Benchmark | Old (%s) | New (%s) | Delta |\n", unit, unit)
		sb.WriteString("|---|---|---|---|\n")
		for _, e := range entries {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				markName(e), formatValue(e.Old), formatValue(e.New), formatDelta(e.Delta))
		}
		sb.WriteString("\n")
	}

	writeSection("Regressions", r.Regressions)
	writeSection("Improvements", r.Improvements)

	if len(r.Added) > 0 {
		sb.WriteString("#### Added\n\n")
		for _, e := range r.Added {
			fmt.Fprintf(&sb, "- %s (%s %s)\n", e.Name, formatValue(e.New), unit)
		}
		sb.WriteString("\n")
	}
	if len(r.Removed) > 0 {
		sb.WriteString("#### Removed\n\n")
		for _, e := range r.Removed {
			fmt.Fprintf(&sb, "- %s (%s %s)\n", e.Name, formatValue(e.Old), unit)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "%d benchmark(s) unchanged within threshold.\n", r.Unchanged)
	if r.hasNoisy() {
		sb.WriteString("\nEntries marked (?) did not converge and are likely noise.\n")
	}

	return sb.String()
}

func (r *Report) hasNoisy() bool {
	for _, e := range r.Regressions {
		if e.Noisy {
			return true
		}
	}
	for _, e := range r.Improvements {
		if e.Noisy {
			return true
		}
	}
	return false
}

func markName(e Entry) string {
	if e.Noisy {
		return e.Name + " (?)"
	}
	return e.Name
}
