package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/fintrace/streaming/internal/config"
	"github.com/vanshika/fintrace/streaming/internal/graph"
	"github.com/vanshika/fintrace/streaming/internal/logging"
	"github.com/vanshika/fintrace/streaming/internal/pipeline"
	"github.com/vanshika/fintrace/streaming/internal/projection"
	"github.com/vanshika/fintrace/streaming/internal/server"
	"github.com/vanshika/fintrace/streaming/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, instance := logging.ForProcess(logging.New(cfg.Logging), "projector")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, cfg, instance); err != nil {
		logger.Error("projector failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg config.Config, instance string) error {
	if cfg.Graph.URI == "" {
		return fmt.Errorf("GRAPH_URI is required for projection: %w", graph.ErrMissingURI)
	}
	graphClient, err := graph.NewNeo4jClient(ctx, graph.OptionsFrom(cfg.Graph))
	if err != nil {
		return fmt.Errorf("create graph client: %w", err)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)

	kafkaOpts := stream.KafkaOptionsFrom(cfg.Kafka, instance)
	sub, err := stream.NewKafkaSubscriber(kafkaOpts, cfg.Topics.Fraud, cfg.Projector.GroupID)
	if err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	defer func() {
		if err := sub.Close(); err != nil {
			logger.Warn("closing subscriber failed", "error", err)
		}
	}()

	stats := pipeline.NewStats()
	projector := projection.New(logger, graphClient, stats)
	if err := projector.EnsureSchema(ctx); err != nil {
		return err
	}

	consumer := pipeline.NewConsumer(logger, sub, nil, pipeline.ConsumerOptions{
		Policy:        cfg.Projector.CommitPolicy,
		HandleTimeout: cfg.Kafka.PublishTimeout,
	}, stats)

	return server.RunAlongside(ctx, logger, cfg.HTTP, server.RouterDependencies{
		Checks: map[string]server.HealthService{
			"kafka": server.BrokerHealthService{Prober: stream.NewKafkaProber(kafkaOpts)},
			"graph": server.GraphHealthService{Client: graphClient},
		},
		Stats: stats,
	}, func(ctx context.Context) error {
		return consumer.Run(ctx, projector.Project)
	})
}
