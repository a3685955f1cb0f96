package main

import (
	"context"
	"fmt"

	"ai-notes-bot/internal/pkg/logger"
	"ai-notes-bot/pkg/events"
	pktNats "ai-notes-bot/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print note events published to NATS",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.App.NatsURL == "" {
			return fmt.Errorf("NATS_URL is not set")
		}

		sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction(), true)
		defer sysLogger.Sync()

		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			return err
		}
		defer sub.Close()

		name := color.New(color.FgYellow, color.Bold)
		return sub.Subscribe(cmd.Context(), pktNats.Subject(">"), "notes-bot-cli", func(ctx context.Context, event events.Event) error {
			name.Printf("%s ", event.EventType())
			fmt.Printf("%s %v\n", event.Timestamp().Format("15:04:05"), event.Payload())
			return nil
		})
	},
}
