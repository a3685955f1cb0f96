package main

import (
	"os"

	"ai-notes-bot/internal/bootstrap"
	"ai-notes-bot/internal/channel/console"
	"ai-notes-bot/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction(), true)
		defer sysLogger.Sync()

		container, err := bootstrap.NewContainer(ctx, cfg, sysLogger, bootstrap.Transports{})
		if err != nil {
			return err
		}
		defer container.Close()

		if err := container.ConsumerService.Consume(ctx); err != nil {
			return err
		}

		return console.New(os.Stdin, os.Stdout, container.Dispatcher).Run(ctx)
	},
}
