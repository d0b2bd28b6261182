package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var cfg monitorConfig

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run a single monitoring pass and exit",
		Flags:   cfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			monitorUC, closer, err := cfg.build(ctx)
			if err != nil {
				return err
			}
			defer closer()

			result, err := monitorUC.RunPass(ctx)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Monitoring pass completed",
				"pass_id", result.ID,
				"repositories", result.Repositories,
				"detected", result.Detected,
				"notified", result.Notified,
				"repo_errors", len(result.RepoErrors),
			)
			return nil
		},
	}
}
