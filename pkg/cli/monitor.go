package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/orgwatch/pkg/cli/config"
	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// monitorConfig bundles the settings shared by run and serve
type monitorConfig struct {
	monitor  config.Monitor
	github   config.GitHub
	notifier config.Notifier
	snapshot config.Snapshot
}

func (c *monitorConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, c.monitor.Flags()...)
	flags = append(flags, c.github.Flags()...)
	flags = append(flags, c.notifier.Flags()...)
	flags = append(flags, c.snapshot.Flags()...)
	return flags
}

// build wires the monitor use case. The returned function releases the
// snapshot store.
func (c *monitorConfig) build(ctx context.Context) (interfaces.MonitorUseCase, func(), error) {
	if err := c.monitor.Load(); err != nil {
		return nil, nil, err
	}

	githubClient, err := c.github.NewClient(c.monitor.Organization)
	if err != nil {
		return nil, nil, err
	}

	store, closer, err := c.snapshot.Build(ctx)
	if err != nil {
		return nil, nil, err
	}

	ctxlog.From(ctx).Info("Monitor configured",
		"org", c.monitor.Organization,
		"snapshot_backend", c.snapshot.Backend,
		"notifiers", c.notifier.Enabled(),
		"highlight_keywords", c.monitor.HighlightKeywords,
		"concurrency", c.monitor.Concurrency,
		slog.Any("github", c.github),
		slog.Any("notifier", c.notifier),
		slog.Any("snapshot", c.snapshot),
	)

	monitorUC := usecase.NewMonitor(
		githubClient,
		c.notifier.Build(os.Stdout),
		store,
		c.monitor.Options()...,
	)

	return monitorUC, closer, nil
}
