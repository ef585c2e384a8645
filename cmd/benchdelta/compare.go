package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"benchdelta/internal/bench"
	"benchdelta/internal/compare"
	"benchdelta/internal/hostinfo"
	"benchdelta/internal/notify"
	"benchdelta/internal/report"
	"benchdelta/internal/sizes"
	"benchdelta/internal/telemetry"
	"benchdelta/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Factories, overridable in tests.
var (
	newDriverFunc = func(logger *slog.Logger) bench.Driver { return bench.NewExecDriver(logger) }
	newSizerFunc  = func() compare.Sizer { return &sizes.Tool{} }
)

type compareFlags struct {
	optLevels    []string
	skipCodeSize bool
	skipPerf     bool
	thresholdPct float64
	numSamples   int
	platform     string
	format       string
	output       string
	progress     bool
	notify       bool
	metricsAddr  string
}

func newCompareCmd() *cobra.Command {
	flags := &compareFlags{}

	cmd := &cobra.Command{
		Use:   "compare OLD_BUILD_DIR NEW_BUILD_DIR",
		Short: "Compare benchmarks and code sizes between two builds",
		Long: `Compares each selected optimization level independently. Performance
comparison is adaptive: benchmarks outside the threshold band are re-measured
with more samples until they settle or stop converging. Code size is compared
in a single pass.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.optLevels, "opt-levels", nil, "Optimization levels to compare (default from config: O,Osize,Onone)")
	cmd.Flags().BoolVar(&flags.skipCodeSize, "skip-code-size", false, "Skip the code-size comparison")
	cmd.Flags().BoolVar(&flags.skipPerf, "skip-performance", false, "Skip the performance comparison")
	cmd.Flags().Float64Var(&flags.thresholdPct, "threshold", 0, "Round-level relative threshold in percent (default from config: 5)")
	cmd.Flags().IntVar(&flags.numSamples, "num-samples", 0, "Minimum sample count for the first round (default from config: 3)")
	cmd.Flags().StringVar(&flags.platform, "platform", "", "Target platform label for the report footer")
	cmd.Flags().StringVar(&flags.format, "format", "", "Report format: console or markdown (default from config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Also write the report to this file")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "Show a live progress view while measuring")
	cmd.Flags().BoolVar(&flags.notify, "notify", false, "Send a Slack notification when anything changed")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address while running")

	return cmd
}

func runCompare(cmd *cobra.Command, oldDir, newDir string, flags *compareFlags) error {
	log := cmdLogger()
	resolveCompareDefaults(cmd, flags)

	threshold := flags.thresholdPct / 100
	if threshold <= 0 || threshold >= 1 {
		return fmt.Errorf("threshold must be in (0,100) percent, got %v", flags.thresholdPct)
	}

	optLevels, err := parseOptLevels(flags.optLevels)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()
	if flags.metricsAddr != "" {
		go func() {
			if err := metrics.Serve(flags.metricsAddr); err != nil {
				log.Error("metrics server failed", "addr", flags.metricsAddr, "error", err)
			}
		}()
	}

	driver := newDriverFunc(log)
	sizer := newSizerFunc()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var sections []string
	for _, opt := range optLevels {
		if !flags.skipPerf {
			section, err := comparePerformance(ctx, driver, metrics, opt, oldDir, newDir, threshold, format, flags, log)
			if err != nil {
				return err
			}
			if section != "" {
				sections = append(sections, section)
			}
		}

		if !flags.skipCodeSize {
			oldLines, newLines, err := compare.CompareSizes(oldDir, newDir, opt.ArtifactPattern(), sizer)
			if err != nil {
				return err
			}
			section, err := report.Render(oldLines, newLines, compare.SizeReportThreshold, report.Options{
				Format: format,
				Title:  fmt.Sprintf("Code size (%s)", opt),
				Unit:   "bytes",
			})
			if err != nil {
				return err
			}
			if section != "" {
				sections = append(sections, section)
			}
		}
	}

	text := strings.Join(sections, "\n")
	if text != "" {
		text += "\n" + footer(flags.platform, format)
	}

	if err := emitReport(cmd, text, format, flags.output); err != nil {
		return err
	}

	if len(sections) == 0 {
		log.Info("no significant changes detected")
		return nil
	}

	if flags.notify {
		manager := notify.NewManager()
		if manager.Enabled() {
			summary := fmt.Sprintf("benchdelta: changes detected comparing %s -> %s (%d report section(s))",
				oldDir, newDir, len(sections))
			if err := manager.Notify(ctx, summary); err != nil {
				log.Error("notification failed", "error", err)
			}
		} else {
			log.Warn("--notify set but no notification provider is configured")
		}
	}

	return nil
}

func comparePerformance(ctx context.Context, driver bench.Driver, metrics *telemetry.Metrics,
	opt bench.OptLevel, oldDir, newDir string, threshold float64, format report.Format, flags *compareFlags, log *slog.Logger) (string, error) {

	var program *tea.Program
	if flags.progress && isTerminal(os.Stdout) {
		program = tea.NewProgram(ui.NewProgressModel(string(opt)))
	}

	observer := func(s compare.RoundStats) {
		metrics.ObserveRound(string(opt), s.Added, s.Removed, s.Settled, s.Pending)
		if program != nil {
			program.Send(ui.RoundMsg{
				Round: s.Round, Samples: s.Samples,
				Settled: s.Settled, Added: s.Added, Removed: s.Removed,
				Pending: s.Pending,
			})
		}
	}

	engine, err := compare.NewEngine(driver, compare.Options{
		Threshold:      threshold,
		InitialSamples: flags.numSamples,
		Opt:            opt,
		Observer:       observer,
		Logger:         log,
	})
	if err != nil {
		return "", err
	}

	start := time.Now()
	oldLines, newLines, runErr := runWithProgress(ctx, program, func(runCtx context.Context) ([]string, []string, error) {
		return engine.Run(runCtx, oldDir, newDir)
	})
	metrics.ComparisonDuration.WithLabelValues(string(opt)).Observe(time.Since(start).Seconds())
	if runErr != nil {
		return "", runErr
	}

	if noisy := engine.Noisy(); len(noisy) > 0 {
		log.Warn("benchmarks settled without converging", "opt_level", opt, "benchmarks", noisy)
	}

	return report.Render(oldLines, newLines, threshold*compare.PerfReportFactor, report.Options{
		Format: format,
		Title:  fmt.Sprintf("Performance (%s)", opt),
		Unit:   "µs",
		Noisy:  engine.Noisy(),
	})
}

// runWithProgress runs fn while the progress program (if any) owns the
// terminal. The engine itself stays strictly sequential; only the view is
// concurrent. When the view is interrupted, fn's context is cancelled and
// its goroutine is drained before results are read, so a ctrl+c never
// surfaces as a clean empty run.
func runWithProgress(ctx context.Context, program *tea.Program, fn func(context.Context) ([]string, []string, error)) ([]string, []string, error) {
	if program == nil {
		return fn(ctx)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var oldLines, newLines []string
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		oldLines, newLines, runErr = fn(runCtx)
		program.Send(ui.DoneMsg{Err: runErr})
	}()

	final, err := program.Run()
	cancel()
	<-done
	if err != nil {
		return nil, nil, err
	}
	if m, ok := final.(ui.ProgressModel); ok && m.Aborted() {
		return nil, nil, errors.New("comparison interrupted")
	}
	return oldLines, newLines, runErr
}

// resolveCompareDefaults fills unset flags from config. A flag the user
// set explicitly is left alone, even when its value is the zero value, so
// an explicit --threshold 0 fails validation instead of silently becoming
// the configured default.
func resolveCompareDefaults(cmd *cobra.Command, flags *compareFlags) {
	if len(flags.optLevels) == 0 {
		flags.optLevels = viper.GetStringSlice("opt_levels")
	}
	if !cmd.Flags().Changed("threshold") {
		flags.thresholdPct = viper.GetFloat64("threshold")
		if flags.thresholdPct == 0 {
			flags.thresholdPct = 5
		}
	}
	if !cmd.Flags().Changed("num-samples") {
		flags.numSamples = viper.GetInt("num_samples")
		if flags.numSamples == 0 {
			flags.numSamples = 3
		}
	}
	if flags.format == "" {
		flags.format = viper.GetString("report.format")
		if flags.format == "" {
			flags.format = string(report.FormatConsole)
		}
	}
	if flags.platform == "" {
		flags.platform = viper.GetString("platform")
	}
	if flags.metricsAddr == "" {
		flags.metricsAddr = viper.GetString("metrics_addr")
	}
	if viper.GetBool("skip_code_size") {
		flags.skipCodeSize = true
	}
	if viper.GetBool("skip_performance") {
		flags.skipPerf = true
	}
}

func parseOptLevels(names []string) ([]bench.OptLevel, error) {
	if len(names) == 0 {
		return bench.AllOptLevels, nil
	}
	levels := make([]bench.OptLevel, 0, len(names))
	for _, name := range names {
		opt, err := bench.ParseOptLevel(name)
		if err != nil {
			return nil, err
		}
		levels = append(levels, opt)
	}
	return levels, nil
}

func footer(platform string, format report.Format) string {
	text := hostinfo.Collect()
	if platform != "" {
		text = "Target: " + platform + "\n" + text
	}
	return report.RenderFooter(format, text)
}

// emitReport writes the report to stdout (glamour-rendered when markdown
// lands on a terminal) and optionally to a file.
func emitReport(cmd *cobra.Command, text string, format report.Format, outputPath string) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing report to %s: %w", outputPath, err)
		}
	}
	if text == "" {
		return nil
	}

	if format == report.FormatMarkdown && isTerminal(os.Stdout) {
		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			if pretty, rerr := renderer.Render(text); rerr == nil {
				fmt.Fprint(cmd.OutOrStdout(), pretty)
				return nil
			}
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

var isTerminal = func(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func cmdLogger() *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
