// Package notify delivers benchmark-change notifications to Slack, either
// through the bot API or a plain incoming webhook.
package notify

import (
	"context"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// Notifier sends a message to a configured destination.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// slackAPI is the subset of the slack client the manager needs.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Manager picks a provider from configuration. With no provider configured
// it is a silent no-op, so callers never have to special-case disabled
// notifications.
type Manager struct {
	client    slackAPI
	channelID string
	webhook   *WebhookNotifier
}

// NewManager builds a manager from viper configuration:
// notifications.slack.enabled, notifications.slack.channel,
// notifications.slack.webhook_url and the SLACK_BOT_USER_TOKEN env var.
func NewManager() *Manager {
	m := &Manager{}
	if !viper.GetBool("notifications.slack.enabled") {
		return m
	}

	if token := os.Getenv("SLACK_BOT_USER_TOKEN"); token != "" {
		m.client = slack.New(token)
		m.channelID = viper.GetString("notifications.slack.channel")
		return m
	}
	if url := viper.GetString("notifications.slack.webhook_url"); url != "" {
		m.webhook = NewWebhookNotifier(url)
	}
	return m
}

// Enabled reports whether any provider is configured.
func (m *Manager) Enabled() bool {
	return m.client != nil || m.webhook != nil
}

// Notify sends message to the configured provider. A no-op when disabled.
func (m *Manager) Notify(ctx context.Context, message string) error {
	switch {
	case m.client != nil:
		_, _, err := m.client.PostMessageContext(ctx, m.channelID, slack.MsgOptionText(message, false))
		return err
	case m.webhook != nil:
		return m.webhook.Notify(ctx, message)
	}
	return nil
}
