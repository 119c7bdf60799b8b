package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirinyoku/voyago/internal/config"
	"github.com/kirinyoku/voyago/internal/email"
	"github.com/kirinyoku/voyago/internal/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// The notification worker consumes booking events and sends the customer
// emails (plus the voucher on confirmation). Running it outside the API
// process keeps checkout latency independent of mail delivery.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.WorkerGroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(logger)

	logger.Info("notification worker started",
		"topic", cfg.Kafka.NotificationsTopic,
		"group", cfg.Kafka.WorkerGroupID,
	)

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkago.Message) error {
		var event kafka.BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// a malformed message would block the partition forever; drop it
			logger.Warn("skipping malformed booking event", "offset", msg.Offset, "error", err)
			return nil
		}

		if err := sender.Send(ctx, event); err != nil {
			logger.Error("failed to send notification", "code", event.Code, "error", err)
		}

		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("consumer stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("notification worker stopped")
}
