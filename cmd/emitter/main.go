package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/fintrace/streaming/internal/config"
	"github.com/vanshika/fintrace/streaming/internal/generator"
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

	logger, instance := logging.ForProcess(logging.New(cfg.Logging), "emitter")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, cfg, instance); err != nil {
		logger.Error("emitter failed", "error", err)
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

	gen := generator.New(generator.Config{Seed: cfg.Emitter.Seed})
	stats := pipeline.NewStats()
	emitter := pipeline.NewEmitter(logger, gen, pub, pipeline.EmitterOptions{
		Topic:          cfg.Topics.Input,
		Interval:       cfg.Emitter.Interval(),
		MaxMessages:    cfg.Emitter.MaxMessages,
		PublishTimeout: cfg.Kafka.PublishTimeout,
	}, stats)

	logger.Info("emitter configured",
		"brokers", cfg.Kafka.Brokers,
		"topic", cfg.Topics.Input,
		"transactions_per_second", cfg.Emitter.TransactionsPerSecond,
		"seed", gen.Seed(),
	)

	return server.RunAlongside(ctx, logger, cfg.HTTP, server.RouterDependencies{
		Checks: map[string]server.HealthService{
			"kafka": server.BrokerHealthService{Prober: stream.NewKafkaProber(kafkaOpts)},
		},
		Stats: stats,
	}, emitter.Run)
}
