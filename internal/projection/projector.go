// Package projection writes flagged transactions into an account graph so
// investigators can follow money between accounts.
package projection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vanshika/fintrace/streaming/internal/domain"
	"github.com/vanshika/fintrace/streaming/internal/fraud"
	"github.com/vanshika/fintrace/streaming/internal/graph"
	"github.com/vanshika/fintrace/streaming/internal/pipeline"
	"github.com/vanshika/fintrace/streaming/internal/stream"
)

const accountConstraint = `CREATE CONSTRAINT account_id IF NOT EXISTS FOR (a:Account) REQUIRE a.id IS UNIQUE`

// The relationship is keyed by log position, so a redelivered record merges
// into the edge it already created.
const mergeFlaggedTransfer = `
MERGE (s:Account {id: $source})
MERGE (t:Account {id: $target})
MERGE (s)-[r:FLAGGED_TRANSFER {topic: $topic, partition: $partition, offset: $offset}]->(t)
ON CREATE SET r.amountCents = $amountCents,
              r.amount = $amount,
              r.currency = $currency,
              r.loggedAt = $loggedAt
`

// Projector is a consumer Handler that mirrors fraud-topic records into the
// graph.
type Projector struct {
	logger *slog.Logger
	client graph.Client
	stats  *pipeline.Stats
}

// New creates a Projector. stats may be nil.
func New(logger *slog.Logger, client graph.Client, stats *pipeline.Stats) *Projector {
	if stats == nil {
		stats = pipeline.NewStats()
	}
	return &Projector{logger: logger, client: client, stats: stats}
}

// EnsureSchema creates the account uniqueness constraint if missing.
func (p *Projector) EnsureSchema(ctx context.Context) error {
	if _, err := p.client.ExecuteWrite(ctx, accountConstraint, nil); err != nil {
		return fmt.Errorf("ensure account constraint: %w", err)
	}
	return nil
}

// Project implements pipeline.Handler.
func (p *Projector) Project(ctx context.Context, rec stream.Record, tx domain.Transaction) error {
	if !fraud.IsSuspicious(tx) {
		// The fraud topic may be shared with other producers.
		p.logger.Warn("projecting record below fraud threshold",
			"topic", rec.Topic, "offset", rec.Offset, "amount", tx.Amount.String())
	}

	summary, err := p.client.ExecuteWrite(ctx, mergeFlaggedTransfer, params(rec, tx))
	if err != nil {
		return fmt.Errorf("project flagged transfer: %w", err)
	}

	p.stats.AddProjected(1)
	p.logger.Debug("flagged transfer projected",
		"source", tx.Source,
		"target", tx.Target,
		"offset", rec.Offset,
		"relationships_created", summary.RelationshipsCreated,
	)
	return nil
}

func params(rec stream.Record, tx domain.Transaction) map[string]any {
	return map[string]any{
		"source":      tx.Source,
		"target":      tx.Target,
		"topic":       rec.Topic,
		"partition":   int64(rec.Partition),
		"offset":      rec.Offset,
		"amountCents": tx.Amount.Cents(),
		"amount":      tx.Amount.String(),
		"currency":    tx.Currency,
		"loggedAt":    rec.Time,
	}
}
