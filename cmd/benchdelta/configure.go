package main

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// askOneFunc allows mocking survey prompts in tests.
var askOneFunc = survey.AskOne

func newConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration wizard",
		Long:  "Runs an interactive wizard and writes a .benchdelta.yaml config file.",
		RunE:  runConfigure,
	}
}

func runConfigure(cmd *cobra.Command, args []string) error {
	thresholdStr := viper.GetString("threshold")
	if err := askOneFunc(&survey.Input{
		Message: "Round-level threshold (percent):",
		Default: thresholdStr,
	}, &thresholdStr, survey.WithValidator(floatValidator)); err != nil {
		return err
	}

	samplesStr := viper.GetString("num_samples")
	if err := askOneFunc(&survey.Input{
		Message: "Minimum sample count:",
		Default: samplesStr,
	}, &samplesStr, survey.WithValidator(intValidator)); err != nil {
		return err
	}

	optLevels := viper.GetStringSlice("opt_levels")
	if err := askOneFunc(&survey.MultiSelect{
		Message: "Optimization levels to compare:",
		Options: []string{"O", "Osize", "Onone"},
		Default: optLevels,
	}, &optLevels); err != nil {
		return err
	}

	slackEnabled := viper.GetBool("notifications.slack.enabled")
	if err := askOneFunc(&survey.Confirm{
		Message: "Enable Slack notifications?",
		Default: slackEnabled,
	}, &slackEnabled); err != nil {
		return err
	}

	webhookURL := viper.GetString("notifications.slack.webhook_url")
	if slackEnabled {
		if err := askOneFunc(&survey.Input{
			Message: "Slack webhook URL (leave empty to use SLACK_BOT_USER_TOKEN):",
			Default: webhookURL,
		}, &webhookURL); err != nil {
			return err
		}
	}

	threshold, _ := strconv.ParseFloat(thresholdStr, 64)
	samples, _ := strconv.Atoi(samplesStr)

	viper.Set("threshold", threshold)
	viper.Set("num_samples", samples)
	viper.Set("opt_levels", optLevels)
	viper.Set("notifications.slack.enabled", slackEnabled)
	viper.Set("notifications.slack.webhook_url", webhookURL)

	target := viper.ConfigFileUsed()
	if target == "" {
		target = ".benchdelta.yaml"
	}
	if err := viper.WriteConfigAs(target); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", target)
	return nil
}

func floatValidator(ans interface{}) error {
	s, _ := ans.(string)
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	return nil
}

func intValidator(ans interface{}) error {
	s, _ := ans.(string)
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("%q is not an integer", s)
	}
	return nil
}
