package pipeline

import (
	"context"
	"log/slog"

	"github.com/vanshika/fintrace/streaming/internal/domain"
	"github.com/vanshika/fintrace/streaming/internal/fraud"
	"github.com/vanshika/fintrace/streaming/internal/stream"
)

// RouterTopics names the two destinations of the router.
type RouterTopics struct {
	Legit string
	Fraud string
}

// Router classifies every record of its consumer and republishes the
// original payload to exactly one destination topic.
type Router struct {
	logger   *slog.Logger
	consumer *Consumer
	pub      stream.Publisher
	topics   RouterTopics
	stats    *Stats
}

// NewRouter wires a Router. stats should be the instance shared with the
// consumer so the ops endpoint sees one set of counters.
func NewRouter(logger *slog.Logger, consumer *Consumer, pub stream.Publisher, topics RouterTopics, stats *Stats) *Router {
	if stats == nil {
		stats = NewStats()
	}
	return &Router{
		logger:   logger,
		consumer: consumer,
		pub:      pub,
		topics:   topics,
		stats:    stats,
	}
}

// Run consumes until ctx is cancelled.
func (r *Router) Run(ctx context.Context) error {
	r.logger.Info("router started", "legit_topic", r.topics.Legit, "fraud_topic", r.topics.Fraud)
	return r.consumer.Run(ctx, r.Route)
}

// Route publishes rec's key and value unchanged to the topic matching tx's
// verdict. It is the consumer Handler for the router.
func (r *Router) Route(ctx context.Context, rec stream.Record, tx domain.Transaction) error {
	verdict := fraud.Classify(tx)
	topic := r.topicFor(verdict)

	if err := r.pub.Publish(ctx, topic, rec.Key, rec.Value); err != nil {
		return err
	}

	switch verdict {
	case fraud.VerdictFraud:
		r.stats.fraud.Add(1)
	default:
		r.stats.legit.Add(1)
	}
	r.logger.Debug("transaction routed",
		"verdict", verdict.String(),
		"amount", tx.Amount.String(),
		"offset", rec.Offset,
		"topic", topic,
	)
	return nil
}

func (r *Router) topicFor(v fraud.Verdict) string {
	if v == fraud.VerdictFraud {
		return r.topics.Fraud
	}
	return r.topics.Legit
}
