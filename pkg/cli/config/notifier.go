package config

import (
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/infra/notifier"
	"github.com/urfave/cli/v3"
)

// Notifier holds notification channel configuration
type Notifier struct {
	SlackWebhookURL  string `masq:"secret"`
	FeishuWebhookURL string `masq:"secret"`
	Console          bool
	Timeout          time.Duration
}

// Flags returns CLI flags for notifier configuration
func (c *Notifier) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("ORGWATCH_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "feishu-webhook-url",
			Usage:       "Feishu (Lark) bot webhook URL",
			Destination: &c.FeishuWebhookURL,
			Sources:     cli.EnvVars("ORGWATCH_FEISHU_WEBHOOK_URL", "FEISHU_WEBHOOK_URL"),
		},
		&cli.BoolFlag{
			Name:        "console",
			Usage:       "Also print notifications to stdout",
			Destination: &c.Console,
			Sources:     cli.EnvVars("ORGWATCH_CONSOLE"),
		},
		&cli.DurationFlag{
			Name:        "notify-timeout",
			Usage:       "Timeout of each webhook request",
			Value:       10 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("ORGWATCH_NOTIFY_TIMEOUT"),
		},
	}
}

// Enabled returns the names of the configured channels
func (c *Notifier) Enabled() []string {
	var names []string
	if c.SlackWebhookURL != "" {
		names = append(names, "slack")
	}
	if c.FeishuWebhookURL != "" {
		names = append(names, "feishu")
	}
	if c.Console || len(names) == 0 {
		names = append(names, "console")
	}
	return names
}

// Build creates the notifier. Without any webhook, notifications are printed
// to stdout so that they are not silently dropped.
func (c *Notifier) Build(stdout io.Writer) interfaces.Notifier {
	httpClient := &http.Client{Timeout: c.Timeout}

	var notifiers notifier.Multi
	if c.SlackWebhookURL != "" {
		notifiers = append(notifiers, notifier.NewSlack(c.SlackWebhookURL, httpClient))
	}
	if c.FeishuWebhookURL != "" {
		notifiers = append(notifiers, notifier.NewFeishu(c.FeishuWebhookURL, httpClient))
	}
	if c.Console || len(notifiers) == 0 {
		notifiers = append(notifiers, notifier.NewConsole(stdout))
	}

	if len(notifiers) == 1 {
		return notifiers[0]
	}
	return notifiers
}
