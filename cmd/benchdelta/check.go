package main

import (
	"context"
	"fmt"

	"benchdelta/internal/bench"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type checkFlags struct {
	optLevel string
}

// newCheckCmd builds the added-benchmark doctor mode. The actual checks
// live in the external driver binary; this command only works out which
// benchmarks are new and hands them over.
func newCheckCmd() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check OLD_BUILD_DIR NEW_BUILD_DIR",
		Short: "Run the benchmark doctor on newly added benchmarks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&flags.optLevel, "opt-level", string(bench.OptO), "Optimization level whose driver runs the check")
	return cmd
}

func runCheck(cmd *cobra.Command, oldDir, newDir string, flags *checkFlags) error {
	log := cmdLogger()

	opt, err := bench.ParseOptLevel(flags.optLevel)
	if err != nil {
		return err
	}

	driver := newDriverFunc(log)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	added, err := addedBenchmarks(ctx, driver, opt, oldDir, newDir)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		log.Info("no newly added benchmarks to check")
		return nil
	}

	log.Info("checking newly added benchmarks", "count", len(added), "benchmarks", added)
	out, err := driver.Check(ctx, newDir, opt, added)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// addedBenchmarks lists benchmark names present only in the new build,
// from one cheap single-sample enumeration pass per side.
func addedBenchmarks(ctx context.Context, driver bench.Driver, opt bench.OptLevel, oldDir, newDir string) ([]string, error) {
	samples := viper.GetInt("num_samples")
	if samples < 1 {
		samples = 1
	}

	oldOut, err := driver.Run(ctx, oldDir, opt, samples, nil)
	if err != nil {
		return nil, fmt.Errorf("enumerating old build: %w", err)
	}
	newOut, err := driver.Run(ctx, newDir, opt, samples, nil)
	if err != nil {
		return nil, fmt.Errorf("enumerating new build: %w", err)
	}

	oldRes := bench.ByName(bench.ParseResults(oldOut))
	var added []string
	for _, r := range bench.ParseResults(newOut) {
		if _, ok := oldRes[r.Name]; !ok {
			added = append(added, r.Name)
		}
	}
	return added, nil
}
