package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vanshika/fintrace/streaming/internal/config"
	"github.com/vanshika/fintrace/streaming/internal/domain"
	"github.com/vanshika/fintrace/streaming/internal/stream"
)

// Handler processes one decoded record. A returned error stops the consumer
// without committing the record.
type Handler func(ctx context.Context, rec stream.Record, tx domain.Transaction) error

// ConsumerOptions configures a Consumer.
type ConsumerOptions struct {
	Policy config.CommitPolicy
	// DeadLetterTopic receives undecodable records verbatim. Empty disables it.
	DeadLetterTopic string
	// HandleTimeout bounds handling plus commit of a single record.
	HandleTimeout time.Duration
}

// Consumer drives a single-pass, strictly sequential read of one
// subscription: fetch, decode, handle, commit.
type Consumer struct {
	logger     *slog.Logger
	sub        stream.Subscriber
	deadLetter stream.Publisher
	opts       ConsumerOptions
	stats      *Stats
}

// NewConsumer wires a Consumer. deadLetter may be nil when
// opts.DeadLetterTopic is empty.
func NewConsumer(logger *slog.Logger, sub stream.Subscriber, deadLetter stream.Publisher, opts ConsumerOptions, stats *Stats) *Consumer {
	if opts.Policy == "" {
		opts.Policy = config.CommitAfterPublish
	}
	if stats == nil {
		stats = NewStats()
	}
	return &Consumer{
		logger:     logger,
		sub:        sub,
		deadLetter: deadLetter,
		opts:       opts,
		stats:      stats,
	}
}

// Run blocks on the subscription until ctx is cancelled, which returns nil.
// Malformed records are skipped; fetch, handler and commit failures are
// returned.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	if c.opts.DeadLetterTopic != "" && c.deadLetter == nil {
		return errors.New("dead-letter topic configured without a publisher")
	}
	c.logger.Info("consumer started", "commit_policy", string(c.opts.Policy), "dead_letter_topic", c.opts.DeadLetterTopic)
	if g, ok := c.sub.(stream.GroupAware); ok && !g.Grouped() {
		c.logger.Warn("consuming without a consumer group: offsets are not committed and only partition 0 is read")
	}

	for {
		rec, err := c.sub.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopped", "consumed", c.stats.consumed.Load())
				return nil
			}
			return fmt.Errorf("fetch: %w", err)
		}
		c.stats.consumed.Add(1)

		if err := c.process(ctx, rec, handle); err != nil {
			return err
		}
	}
}

func (c *Consumer) process(ctx context.Context, rec stream.Record, handle Handler) error {
	opCtx, cancel := detached(ctx, c.opts.HandleTimeout)
	defer cancel()

	if c.opts.Policy == config.CommitBeforePublish {
		if err := c.sub.Commit(opCtx, rec); err != nil {
			return err
		}
	}

	tx, err := domain.Decode(rec.Value)
	if err != nil {
		c.stats.malformed.Add(1)
		c.logger.Warn("skipping malformed record",
			"topic", rec.Topic,
			"partition", rec.Partition,
			"offset", rec.Offset,
			"error", err,
		)
		if c.opts.DeadLetterTopic != "" {
			if err := c.deadLetter.Publish(opCtx, c.opts.DeadLetterTopic, rec.Key, rec.Value); err != nil {
				return fmt.Errorf("dead-letter %s/%d@%d: %w", rec.Topic, rec.Partition, rec.Offset, err)
			}
			c.stats.deadLettered.Add(1)
		}
		return c.commitAfter(opCtx, rec)
	}

	if err := handle(opCtx, rec, tx); err != nil {
		return fmt.Errorf("handle %s/%d@%d: %w", rec.Topic, rec.Partition, rec.Offset, err)
	}
	return c.commitAfter(opCtx, rec)
}

func (c *Consumer) commitAfter(ctx context.Context, rec stream.Record) error {
	if c.opts.Policy != config.CommitAfterPublish {
		return nil
	}
	return c.sub.Commit(ctx, rec)
}
