package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vanshika/fintrace/streaming/internal/domain"
	"github.com/vanshika/fintrace/streaming/internal/generator"
	"github.com/vanshika/fintrace/streaming/internal/stream"
)

type fixedSource struct {
	tx domain.Transaction
}

func (f fixedSource) CreateRandomTransaction() domain.Transaction { return f.tx }

func TestEmitter_PublishesCanonicalRecords(t *testing.T) {
	log := stream.NewMemoryLog()
	stats := NewStats()
	emitter := NewEmitter(discardLogger(), generator.New(generator.Config{Seed: 1}), log.Publisher(),
		EmitterOptions{Topic: inputTopic, MaxMessages: 50}, stats)

	if err := emitter.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	records := log.Records(inputTopic)
	if len(records) != 50 {
		t.Fatalf("expected 50 records, got %d", len(records))
	}
	for i, rec := range records {
		tx, err := domain.Decode(rec.Value)
		if err != nil {
			t.Fatalf("record %d not decodable: %v", i, err)
		}
		if err := tx.Validate(); err != nil {
			t.Fatalf("record %d invalid: %v", i, err)
		}
		if string(rec.Key) != tx.Source {
			t.Fatalf("record %d keyed by %q, expected source %q", i, rec.Key, tx.Source)
		}
	}
	if got := stats.Snapshot().Emitted; got != 50 {
		t.Fatalf("expected emitted=50, got %d", got)
	}
}

func TestEmitter_PacesToTargetRate(t *testing.T) {
	log := stream.NewMemoryLog()
	emitter := NewEmitter(discardLogger(), generator.New(generator.Config{Seed: 2}), log.Publisher(),
		EmitterOptions{Topic: inputTopic, Interval: 100 * time.Millisecond}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := emitter.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	// 10/s over one second: publishes at 0ms, 100ms, ... 900ms.
	if got := len(log.Records(inputTopic)); got < 8 || got > 11 {
		t.Fatalf("expected about 10 records in one second, got %d", got)
	}
}

func TestEmitter_StopsOnCancellation(t *testing.T) {
	log := stream.NewMemoryLog()
	emitter := NewEmitter(discardLogger(), generator.New(generator.Config{Seed: 3}), log.Publisher(),
		EmitterOptions{Topic: inputTopic, Interval: time.Hour}, nil)

	stop := runInBackground(t, emitter.Run)
	waitFor(t, "first record", func() bool { return len(log.Records(inputTopic)) == 1 })

	if err := stop(); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
	if got := len(log.Records(inputTopic)); got != 1 {
		t.Fatalf("expected exactly one record before the pacing wait, got %d", got)
	}
}

func TestEmitter_PublishFailureIsFatal(t *testing.T) {
	boom := errors.New("retries exhausted")
	log := stream.NewMemoryLog().FailPublish(inputTopic, boom)
	emitter := NewEmitter(discardLogger(), generator.New(generator.Config{Seed: 4}), log.Publisher(),
		EmitterOptions{Topic: inputTopic}, nil)

	err := emitter.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected publish error, got %v", err)
	}
}

func TestEmitter_InvalidTransactionIsFatal(t *testing.T) {
	bad := transaction("899.99")
	bad.Amount = 0
	log := stream.NewMemoryLog()
	emitter := NewEmitter(discardLogger(), fixedSource{tx: bad}, log.Publisher(),
		EmitterOptions{Topic: inputTopic}, nil)

	err := emitter.Run(context.Background())
	if !errors.Is(err, domain.ErrInvalidTransaction) {
		t.Fatalf("expected ErrInvalidTransaction, got %v", err)
	}
	if len(log.Records(inputTopic)) != 0 {
		t.Fatal("invalid transaction must not be published")
	}
}
