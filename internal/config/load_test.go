package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	Load("")

	assert.Equal(t, 5.0, viper.GetFloat64("threshold"))
	assert.Equal(t, 3, viper.GetInt("num_samples"))
	assert.Equal(t, []string{"O", "Osize", "Onone"}, viper.GetStringSlice("opt_levels"))
	assert.Equal(t, "console", viper.GetString("report.format"))
	assert.False(t, viper.GetBool("notifications.slack.enabled"))
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "benchdelta.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("threshold: 10\nopt_levels:\n  - O\n"), 0644))

	Load(cfgFile)

	assert.Equal(t, 10.0, viper.GetFloat64("threshold"))
	assert.Equal(t, []string{"O"}, viper.GetStringSlice("opt_levels"))
	assert.Equal(t, 3, viper.GetInt("num_samples"), "unset keys keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("BENCHDELTA_NUM_SAMPLES", "7")
	Load("")

	assert.Equal(t, 7, viper.GetInt("num_samples"))
}
