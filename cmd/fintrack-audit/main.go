// fintrack-audit tails the mutation-event queue and logs every applied
// store mutation. Useful as a lightweight audit trail while the server
// runs elsewhere.
package main

import (
	"context"
	"errors"
	"os"

	"fintrack/internal/cli"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(applog.ComponentAudit)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit follower")
		os.Exit(1)
	}

	client := cli.OpenEventsClient(logger, cfg)
	defer client.Close()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	logger.Info("Starting fintrack-audit", "queue", cfg.AMQPQueue)

	err := client.Consume(ctx, func(ctx context.Context, ev events.Event) error {
		logger.InfoContext(ctx, "Mutation applied",
			"op", ev.Op,
			"transaction_id", ev.ID,
			"amount_cents", ev.AmountCents,
			"count", ev.Count,
			"at", ev.Timestamp)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("Audit follower stopped")
}
