package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/fintrace/streaming/internal/config"
	"github.com/vanshika/fintrace/streaming/internal/logging"
	"github.com/vanshika/fintrace/streaming/internal/pipeline"
	"github.com/vanshika/fintrace/streaming/internal/server"
	"github.com/vanshika/fintrace/streaming/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, instance := logging.ForProcess(logging.New(cfg.Logging), "detector")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, cfg, instance); err != nil {
		logger.Error("detector failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg config.Config, instance string) error {
	kafkaOpts := stream.KafkaOptionsFrom(cfg.Kafka, instance)

	pub, err := stream.NewKafkaPublisher(kafkaOpts)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Warn("closing publisher failed", "error", err)
		}
	}()

	sub, err := stream.NewKafkaSubscriber(kafkaOpts, cfg.Topics.Input, cfg.Kafka.GroupID)
	if err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	// Deferred after pub, so it closes first and the writer flushes last.
	defer func() {
		if err := sub.Close(); err != nil {
			logger.Warn("closing subscriber failed", "error", err)
		}
	}()

	stats := pipeline.NewStats()
	consumer := pipeline.NewConsumer(logger, sub, pub, pipeline.ConsumerOptions{
		Policy:          cfg.Detector.CommitPolicy,
		DeadLetterTopic: cfg.Topics.DeadLetter,
		HandleTimeout:   cfg.Kafka.PublishTimeout,
	}, stats)
	router := pipeline.NewRouter(logger, consumer, pub, pipeline.RouterTopics{
		Legit: cfg.Topics.Legit,
		Fraud: cfg.Topics.Fraud,
	}, stats)

	logger.Info("detector configured",
		"brokers", cfg.Kafka.Brokers,
		"input_topic", cfg.Topics.Input,
		"group_id", cfg.Kafka.GroupID,
	)

	return server.RunAlongside(ctx, logger, cfg.HTTP, server.RouterDependencies{
		Checks: map[string]server.HealthService{
			"kafka": server.BrokerHealthService{Prober: stream.NewKafkaProber(kafkaOpts)},
		},
		Stats: stats,
	}, router.Run)
}
