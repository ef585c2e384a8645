// Package report turns the settled result-line blocks of a comparison into
// a human-readable diff, either styled console text or markdown. The report
// applies its own significance threshold, which is wider than the
// round-level one: below-significance noise is not worth showing.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"benchdelta/internal/bench"
	"benchdelta/internal/compare"
)

// Format selects the output rendering.
type Format string

const (
	FormatConsole  Format = "console"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatConsole, FormatMarkdown:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown report format %q (expected console or markdown)", s)
}

// Options configures rendering beyond the raw classification.
type Options struct {
	Format Format
	// Title heads the report section, e.g. "Performance (O)".
	Title string
	// Unit labels the value columns, e.g. "µs" or "bytes".
	Unit string
	// Noisy lists benchmarks force-settled by the stagnation escape hatch;
	// they are marked as likely noise.
	Noisy []string
}

// Entry is one reportable benchmark delta.
type Entry struct {
	Name  string
	Old   float64
	New   float64
	Delta float64 // percent, relative to Old
	Noisy bool
}

// Report is the classified, significance-filtered diff of two line blocks.
type Report struct {
	Regressions  []Entry
	Improvements []Entry
	Added        []Entry
	Removed      []Entry
	Unchanged    int
}

// Changed reports whether anything is worth showing.
func (r *Report) Changed() bool {
	return len(r.Regressions)+len(r.Improvements)+len(r.Added)+len(r.Removed) > 0
}

// Build joins the two settled line blocks by benchmark name and filters the
// shared names by the report threshold. Added and removed names are always
// reportable regardless of threshold.
func Build(oldLines, newLines []string, threshold float64, noisy []string) *Report {
	oldRes := bench.ByName(bench.ParseResults(joinLines(oldLines)))
	newRes := bench.ByName(bench.ParseResults(joinLines(newLines)))
	noisySet := make(map[string]bool, len(noisy))
	for _, name := range noisy {
		noisySet[name] = true
	}

	r := &Report{}
	for name, o := range oldRes {
		n, shared := newRes[name]
		if !shared {
			r.Removed = append(r.Removed, Entry{Name: name, Old: o.Min})
			continue
		}
		if compare.Within(o.Min, n.Min, threshold) {
			r.Unchanged++
			continue
		}
		e := Entry{Name: name, Old: o.Min, New: n.Min, Delta: deltaPercent(o.Min, n.Min), Noisy: noisySet[name]}
		if e.Delta > 0 {
			r.Regressions = append(r.Regressions, e)
		} else {
			r.Improvements = append(r.Improvements, e)
		}
	}
	for name, n := range newRes {
		if _, shared := oldRes[name]; !shared {
			r.Added = append(r.Added, Entry{Name: name, New: n.Min})
		}
	}

	// Largest change first; added/removed alphabetical.
	sort.Slice(r.Regressions, func(i, j int) bool { return r.Regressions[i].Delta > r.Regressions[j].Delta })
	sort.Slice(r.Improvements, func(i, j int) bool { return r.Improvements[i].Delta < r.Improvements[j].Delta })
	sort.Slice(r.Added, func(i, j int) bool { return r.Added[i].Name < r.Added[j].Name })
	sort.Slice(r.Removed, func(i, j int) bool { return r.Removed[i].Name < r.Removed[j].Name })
	return r
}

// Render builds and formats the report. It returns the empty string when
// nothing is significant at threshold.
func Render(oldLines, newLines []string, threshold float64, opts Options) (string, error) {
	if opts.Format == "" {
		opts.Format = FormatConsole
	}
	r := Build(oldLines, newLines, threshold, opts.Noisy)
	if !r.Changed() {
		return "", nil
	}
	switch opts.Format {
	case FormatMarkdown:
		return r.Markdown(opts), nil
	case FormatConsole:
		return r.Console(opts), nil
	}
	return "", fmt.Errorf("unknown report format %q", opts.Format)
}

// RenderFooter formats trailing free-form text (hardware inventory) for a
// full report: collapsed behind a details block in markdown, dimmed on the
// console. Empty text renders as empty.
func RenderFooter(format Format, text string) string {
	if text == "" {
		return ""
	}
	trimmed := strings.TrimRight(text, "\n")
	if format == FormatMarkdown {
		return "<details>\n<summary>Hardware</summary>\n\n" + trimmed + "\n</details>\n"
	}
	return styled(dimStyle, trimmed) + "\n"
}

func deltaPercent(old, new float64) float64 {
	if old == 0 {
		if new == 0 {
			return 0
		}
		return 100
	}
	return (new - old) / old * 100
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDelta(d float64) string {
	return fmt.Sprintf("%+.1f%%", d)
}

func joinLines(lines []string) string {
	out := ""
	for _, line := range lines {
		out += line + "\n"
	}
	return out
}
