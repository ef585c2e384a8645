package compare

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"benchdelta/internal/bench"
)

// Options configures one Engine run.
type Options struct {
	// Threshold is the round-level relative difference band, in (0,1).
	Threshold float64
	// InitialSamples is the sample count for the first round.
	InitialSamples int
	// Opt selects which benchmark binary the driver invokes.
	Opt bench.OptLevel
	// Observer, when set, is called once per completed round.
	Observer func(RoundStats)
	Logger   *slog.Logger
}

// RoundStats describes one completed round for observers (progress UI,
// metrics). Counts are per-round, not cumulative.
type RoundStats struct {
	Round   int
	Samples int
	Added   int
	Removed int
	Settled int
	Pending int
}

// Engine runs the adaptive comparison loop for one optimization level.
// All iteration state lives inside a single Run call; an Engine value holds
// no state shared between calls except the noisy-name record of the most
// recent run.
type Engine struct {
	driver bench.Driver
	opts   Options
	noisy  []string
}

func NewEngine(driver bench.Driver, opts Options) (*Engine, error) {
	if opts.Threshold <= 0 || opts.Threshold >= 1 {
		return nil, fmt.Errorf("threshold must be in (0,1), got %v", opts.Threshold)
	}
	if opts.InitialSamples < 1 {
		return nil, fmt.Errorf("initial sample count must be >= 1, got %d", opts.InitialSamples)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{driver: driver, opts: opts}, nil
}

// Noisy returns the benchmark names the most recent Run force-settled via
// the stagnation escape hatch. The report stage marks these as likely noise.
func (e *Engine) Noisy() []string { return e.noisy }

// Run compares the two builds and returns the final accepted result line
// blocks, one per side, covering every benchmark that ended added, removed
// or settled. A driver failure aborts the whole comparison.
func (e *Engine) Run(ctx context.Context, oldDir, newDir string) (oldLines, newLines []string, err error) {
	e.noisy = nil

	samples := e.opts.InitialSamples
	if samples > MaxSamples {
		samples = MaxSamples
	}

	var pending []string // nil on round 1: run everything
	prevPendingLen := -1
	stagnant := 0

	for round := 1; ; round++ {
		oldOut, err := e.driver.Run(ctx, oldDir, e.opts.Opt, samples, pending)
		if err != nil {
			return nil, nil, fmt.Errorf("measuring old build: %w", err)
		}
		newOut, err := e.driver.Run(ctx, newDir, e.opts.Opt, samples, pending)
		if err != nil {
			return nil, nil, fmt.Errorf("measuring new build: %w", err)
		}

		oldRes := bench.ByName(bench.ParseResults(oldOut))
		newRes := bench.ByName(bench.ParseResults(newOut))

		stats := RoundStats{Round: round, Samples: samples}
		var nextPending []string
		for _, name := range universe(oldRes, newRes) {
			o, haveOld := oldRes[name]
			n, haveNew := newRes[name]
			switch {
			case haveOld && !haveNew:
				oldLines = append(oldLines, o.Raw)
				stats.Removed++
			case haveNew && !haveOld:
				newLines = append(newLines, n.Raw)
				stats.Added++
			case Within(o.Min, n.Min, e.opts.Threshold):
				oldLines = append(oldLines, o.Raw)
				newLines = append(newLines, n.Raw)
				stats.Settled++
			default:
				nextPending = append(nextPending, name)
			}
		}

		if len(nextPending) == prevPendingLen {
			stagnant++
		} else {
			stagnant = 0
		}
		prevPendingLen = len(nextPending)

		if stagnant >= StagnationLimit && len(nextPending) > 0 {
			// Persistently noisy benchmarks: accept the current values
			// rather than looping forever.
			e.opts.Logger.Warn("stagnation escape triggered, force-settling noisy benchmarks",
				"round", round, "benchmarks", nextPending)
			for _, name := range nextPending {
				oldLines = append(oldLines, oldRes[name].Raw)
				newLines = append(newLines, newRes[name].Raw)
				e.noisy = append(e.noisy, name)
			}
			stats.Settled += len(nextPending)
			nextPending = nil
		}

		stats.Pending = len(nextPending)
		e.opts.Logger.Debug("comparison round finished",
			"round", round, "samples", samples,
			"settled", stats.Settled, "added", stats.Added,
			"removed", stats.Removed, "pending", stats.Pending)
		if e.opts.Observer != nil {
			e.opts.Observer(stats)
		}

		if len(nextPending) == 0 {
			return oldLines, newLines, nil
		}
		pending = nextPending
		if samples < MaxSamples {
			samples++
		}
	}
}

// universe returns the sorted set of names seen on either side this round.
func universe(oldRes, newRes map[string]bench.Result) []string {
	seen := make(map[string]struct{}, len(oldRes)+len(newRes))
	for name := range oldRes {
		seen[name] = struct{}{}
	}
	for name := range newRes {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
