package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"benchdelta/internal/bench"
	"benchdelta/internal/config"
	"benchdelta/internal/telemetry"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit

var (
	cfgFile string
	logFile string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "benchdelta",
	Short: "Detect benchmark and code-size changes between two builds",
	Long: `benchdelta compares the benchmarks and compiled-artifact sizes of two
builds of a compiler/runtime. It keeps measurement cost low by re-running
only the benchmarks whose results are still ambiguous, with progressively
more samples, until every result settles or noise clearly dominates.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI. A measurement failure exits with the underlying
// tool's own status code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var runErr *bench.RunError
		if errors.As(err, &runErr) && runErr.ExitCode != 0 {
			if runErr.Stderr != "" {
				fmt.Fprint(os.Stderr, runErr.Stderr)
			}
			exit(runErr.ExitCode)
		}
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.benchdelta.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newConfigureCmd())
}

func initConfig() {
	config.Load(cfgFile)
	logger = telemetry.NewLogger(viper.GetBool("verbose"), logFile)
	slog.SetDefault(logger)
}
