// Package config resolves benchdelta configuration from file, environment
// and defaults, in that reverse order of precedence.
package config

import (
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes viper from an optional config file and environment
// variables. Environment variables use the BENCHDELTA_ prefix with dots
// replaced by underscores, e.g. BENCHDELTA_REPORT_FORMAT.
func Load(cfgFile string) {
	// explicit .env loading; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".benchdelta")
	}

	viper.SetEnvPrefix("BENCHDELTA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	// Config file is optional; defaults plus env are a full configuration.
	_ = viper.ReadInConfig()
}

// SetDefaults registers the default values for every knob.
func SetDefaults() {
	viper.SetDefault("threshold", 5.0) // percent, round-level
	viper.SetDefault("num_samples", 3)
	viper.SetDefault("opt_levels", []string{"O", "Osize", "Onone"})
	viper.SetDefault("platform", runtime.GOOS+"/"+runtime.GOARCH)
	viper.SetDefault("report.format", "console")
	viper.SetDefault("skip_code_size", false)
	viper.SetDefault("skip_performance", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("metrics_addr", "")

	viper.SetDefault("notifications.slack.enabled", false)
	viper.SetDefault("notifications.slack.channel", "#benchmarks")
	viper.SetDefault("notifications.slack.webhook_url", "")
}
