package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vanshika/fintrace/streaming/internal/domain"
	"github.com/vanshika/fintrace/streaming/internal/stream"
)

const (
	inputTopic      = "queueing.transactions"
	legitTopic      = "streaming.transactions.legit"
	fraudTopic      = "streaming.transactions.fraud"
	deadLetterTopic = "streaming.transactions.dead"
	group           = "fraud-detector"
)

func transaction(amount string) domain.Transaction {
	a, err := domain.ParseAmount(amount)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{
		Source:   "AAAAAAAAAAAA",
		Target:   "BBBBBBBBBBBB",
		Amount:   a,
		Currency: domain.CurrencyUSD,
	}
}

func mustEncode(t *testing.T, tx domain.Transaction) []byte {
	t.Helper()
	payload, err := domain.Encode(tx)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return payload
}

// runInBackground starts fn and returns a stop function that cancels it and
// returns its error.
func runInBackground(t *testing.T, fn func(ctx context.Context) error) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()
	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("loop did not stop after cancellation")
			return nil
		}
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func values(records []stream.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, string(r.Value))
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
