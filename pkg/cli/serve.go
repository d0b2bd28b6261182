package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/cli/config"
	controller "github.com/m-mizutani/orgwatch/pkg/controller/http"
	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/usecase"
	"github.com/m-mizutani/orgwatch/pkg/utils/async"
	"github.com/m-mizutani/orgwatch/pkg/utils/errutil"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		cfg       monitorConfig
	)

	flags := append(serverCfg.Flags(), cfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run monitoring passes periodically and serve health and webhook endpoints",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if serverCfg.Interval <= 0 {
				return goerr.New("interval must be positive", goerr.V("interval", serverCfg.Interval))
			}

			monitorUC, closer, err := cfg.build(ctx)
			if err != nil {
				return err
			}
			defer closer()

			ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var server *controller.Server
			if serverCfg.Addr != "" {
				webhookUC := usecase.NewWebhook(cfg.monitor.Organization, monitorUC)
				server, err = controller.NewServer(
					ctx,
					monitorUC,
					webhookUC,
					controller.WithAddr(serverCfg.Addr),
					controller.WithWebhookSecret(serverCfg.WebhookSecret),
				)
				if err != nil {
					return goerr.Wrap(err, "failed to create HTTP server")
				}

				go func() {
					logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
					if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logger.Error("HTTP server error", slog.Any("error", err))
						cancel()
					}
				}()
			}

			logger.Info("Starting orgwatch",
				slog.String("org", cfg.monitor.Organization),
				slog.Duration("interval", serverCfg.Interval),
			)

			runLoop(ctx, monitorUC, serverCfg.Interval)
			logger.Info("Shutting down...")

			if server != nil {
				shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
				defer cancelShutdown()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				if err := async.Wait(shutdownCtx); err != nil {
					return err
				}
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// runLoop runs a pass immediately and then on every tick until ctx is done.
// Pass failures are reported and the loop continues. A pass in progress when
// ctx is cancelled runs to completion so that its snapshot is consistent.
func runLoop(ctx context.Context, monitorUC interfaces.MonitorUseCase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	passCtx := context.WithoutCancel(ctx)
	for {
		if _, err := monitorUC.RunPass(passCtx); err != nil {
			errutil.Handle(ctx, "monitoring pass failed", err)
		}
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
