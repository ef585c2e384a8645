package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureCmd_WritesConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	origWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(origWd)

	origAsk := askOneFunc
	defer func() { askOneFunc = origAsk }()

	answers := []interface{}{"7.5", "4", []string{"O", "Onone"}, true, "https://hooks.example.com/T000/B000"}
	i := 0
	askOneFunc = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		switch v := response.(type) {
		case *string:
			*v = answers[i].(string)
		case *[]string:
			*v = answers[i].([]string)
		case *bool:
			*v = answers[i].(bool)
		}
		i++
		return nil
	}

	out, err := executeCommand(newConfigureCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration saved")

	data, err := os.ReadFile(filepath.Join(dir, ".benchdelta.yaml"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "7.5")
	assert.Contains(t, content, "Onone")
	assert.Contains(t, content, "hooks.example.com")
}

func TestConfigureValidators(t *testing.T) {
	assert.NoError(t, floatValidator("5.5"))
	assert.Error(t, floatValidator("five"))
	assert.NoError(t, intValidator("3"))
	assert.Error(t, intValidator("3.5"))
}
