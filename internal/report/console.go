package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	regressionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	improveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// colorEnabled allows tests to force plain output.
var colorEnabled = func() bool {
	return termenv.ColorProfile() != termenv.Ascii && !termenv.EnvNoColor()
}

func styled(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

// Console renders the report as a terse aligned table for terminals.
func (r *Report) Console(opts Options) string {
	var sb strings.Builder

	if opts.Title != "" {
		sb.WriteString(styled(titleStyle, opts.Title) + "\n")
	}

	unit := opts.Unit
	if unit == "" {
		unit = "value"
	}

	w := tabwriter.NewWriter(&sb, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "BENCHMARK\tOLD (%s)\tNEW (%s)\tDELTA\n", unit, unit)

	writeRows := func(entries []Entry, style lipgloss.Style) {
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				markName(e), formatValue(e.Old), formatValue(e.New),
				styled(style, formatDelta(e.Delta)))
		}
	}
	writeRows(r.Regressions, regressionStyle)
	writeRows(r.Improvements, improveStyle)

	for _, e := range r.Added {
		fmt.Fprintf(w, "%s\t-\t%s\t%s\n", e.Name, formatValue(e.New), styled(dimStyle, "added"))
	}
	for _, e := range r.Removed {
		fmt.Fprintf(w, "%s\t%s\t-\t%s\n", e.Name, formatValue(e.Old), styled(dimStyle, "removed"))
	}
	w.Flush()

	fmt.Fprintf(&sb, "%d benchmark(s) unchanged within threshold.\n", r.Unchanged)
	if r.hasNoisy() {
		sb.WriteString(styled(dimStyle, "Entries marked (?) did not converge and are likely noise.") + "\n")
	}

	return sb.String()
}
