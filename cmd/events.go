/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodorder/apiserver/internal/mq"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the order and product event stream",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Log every event published on the configured channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		bus, err := mq.Connect(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if bus == nil {
			return errors.New("MQ_BACKEND is not set")
		}
		defer bus.Close()

		logger.Info().Str("backend", cfg.MQ.Backend).Str("channel", cfg.MQ.Channel).Msg("tailing events")
		err = bus.Subscribe(ctx, cfg.MQ.Channel, func(_ context.Context, msg mq.Message) error {
			var event struct {
				Type       string          `json:"type"`
				OccurredAt time.Time       `json:"occurred_at"`
				Data       json.RawMessage `json:"data"`
			}
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				logger.Warn().Err(err).Str("message_id", msg.ID).Msg("undecodable event")
				return nil
			}
			if len(event.Data) == 0 {
				event.Data = json.RawMessage("null")
			}
			logger.Info().
				Str("message_id", msg.ID).
				Str("type", event.Type).
				Time("occurred_at", event.OccurredAt).
				RawJSON("data", event.Data).
				Msg("event")
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
