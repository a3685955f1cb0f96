package main

import (
	"context"

	"ai-notes-bot/internal/bootstrap"
	"ai-notes-bot/internal/pkg/logger"
	"ai-notes-bot/internal/server"
	"ai-notes-bot/internal/tracer"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot, the WebSocket chat and the HTTP endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction(), false)
		defer sysLogger.Sync()

		shutdownTracer := tracer.InitTracer(ctx, cfg.App.OtelEndpoint, sysLogger)
		defer shutdownTracer(context.Background())

		container, err := bootstrap.NewContainer(ctx, cfg, sysLogger, bootstrap.Transports{Telegram: true, Web: true})
		if err != nil {
			return err
		}
		defer container.Close()

		if err := container.ConsumerService.Consume(ctx); err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(ctx)

		srv := server.New(ctx, cfg, container)
		g.Go(func() error { return srv.Run(ctx) })

		if hub := container.WebSocketHub; hub != nil {
			g.Go(func() error {
				hub.Run(ctx)
				return nil
			})
		}

		if tg := container.Telegram; tg != nil {
			if cfg.Telegram.WebhookURL != "" {
				if err := tg.SetWebhook(cfg.Telegram.WebhookURL); err != nil {
					return err
				}
			} else {
				g.Go(func() error { return tg.RunPolling(ctx) })
			}
		} else {
			sysLogger.Warn("Serve", "TELEGRAM_BOT_TOKEN not set, Telegram transport disabled", nil)
		}

		err = g.Wait()
		container.Dispatcher.Wait()
		return err
	},
}
