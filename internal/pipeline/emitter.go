package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vanshika/fintrace/streaming/internal/domain"
	"github.com/vanshika/fintrace/streaming/internal/stream"
)

// TransactionSource produces one transaction per call.
type TransactionSource interface {
	CreateRandomTransaction() domain.Transaction
}

// EmitterOptions configures an Emitter.
type EmitterOptions struct {
	Topic string
	// Interval is waited after every publish attempt.
	Interval time.Duration
	// MaxMessages stops the loop after that many publishes; 0 means unbounded.
	MaxMessages    int
	PublishTimeout time.Duration
}

// Emitter publishes generated transactions to the input topic at a fixed pace.
type Emitter struct {
	logger *slog.Logger
	source TransactionSource
	pub    stream.Publisher
	opts   EmitterOptions
	stats  *Stats
}

// NewEmitter wires an Emitter. A nil stats allocates private counters.
func NewEmitter(logger *slog.Logger, source TransactionSource, pub stream.Publisher, opts EmitterOptions, stats *Stats) *Emitter {
	if stats == nil {
		stats = NewStats()
	}
	return &Emitter{
		logger: logger,
		source: source,
		pub:    pub,
		opts:   opts,
		stats:  stats,
	}
}

// Run emits until ctx is cancelled or MaxMessages is reached, returning nil in
// both cases. Any returned error is fatal: either the log client gave up
// retrying or the factory produced an invalid transaction.
func (e *Emitter) Run(ctx context.Context) error {
	e.logger.Info("emitter started", "topic", e.opts.Topic, "interval", e.opts.Interval.String(), "max_messages", e.opts.MaxMessages)

	for sent := 0; ; {
		if ctx.Err() != nil {
			break
		}
		if err := e.emit(ctx); err != nil {
			return err
		}
		sent++
		if e.opts.MaxMessages > 0 && sent >= e.opts.MaxMessages {
			break
		}
		if !sleep(ctx, e.opts.Interval) {
			break
		}
	}

	e.logger.Info("emitter stopped", "emitted", e.stats.emitted.Load())
	return nil
}

func (e *Emitter) emit(ctx context.Context) error {
	tx := e.source.CreateRandomTransaction()
	payload, err := domain.Encode(tx)
	if err != nil {
		return fmt.Errorf("encode generated transaction: %w", err)
	}

	pubCtx, cancel := detached(ctx, e.opts.PublishTimeout)
	defer cancel()
	if err := e.pub.Publish(pubCtx, e.opts.Topic, []byte(tx.Source), payload); err != nil {
		return fmt.Errorf("publish transaction: %w", err)
	}

	e.stats.emitted.Add(1)
	e.logger.Debug("transaction emitted", "source", tx.Source, "target", tx.Target, "amount", tx.Amount.String())
	return nil
}
