package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// Server holds serve mode configuration
type Server struct {
	Addr          string
	Interval      time.Duration
	WebhookSecret string `masq:"secret"`
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address (empty disables the HTTP server)",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("ORGWATCH_ADDR"),
		},
		&cli.DurationFlag{
			Name:        "interval",
			Usage:       "Interval between monitoring passes",
			Value:       10 * time.Minute,
			Destination: &c.Interval,
			Sources:     cli.EnvVars("ORGWATCH_INTERVAL"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret; enables POST /hooks/github",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("ORGWATCH_GITHUB_WEBHOOK_SECRET"),
		},
	}
}
