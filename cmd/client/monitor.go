package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"yoga-intelligence-be/internal/config"
	"yoga-intelligence-be/pkg/events"
	pktNats "yoga-intelligence-be/pkg/nats"
)

func newMonitorCmd(cfg *config.ClientConfig) *cobra.Command {
	var (
		subject string
		durable string
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "follow session events forwarded to NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.NatsURL == "" {
				return fmt.Errorf("--nats or NATS_URL is required")
			}
			sub, err := pktNats.NewSubscriber(cfg.NatsURL, nil)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := newPresenter(cmd.OutOrStdout())
			unsubscribe, err := sub.Subscribe(ctx, subject, durable, func(_ context.Context, e events.BaseEvent) error {
				out.printf("%s %s %s %v\n",
					color.HiBlackString(e.OccurredAt.Format("15:04:05")),
					color.CyanString(e.Type),
					e.SessionID,
					e.Data)
				return nil
			})
			if err != nil {
				return err
			}
			defer unsubscribe()

			<-ctx.Done()
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.NatsURL, "nats", cfg.NatsURL, "NATS server url")
	f.StringVar(&subject, "subject", pktNats.StreamSubject, "subject filter")
	f.StringVar(&durable, "durable", "", "durable consumer name (default: ephemeral, new events only)")
	return cmd
}
