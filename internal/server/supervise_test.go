package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vanshika/fintrace/streaming/internal/config"
)

func TestRunAlongside_ReturnsLoopError(t *testing.T) {
	boom := errors.New("retries exhausted")
	cfg := config.HTTPConfig{Enabled: true, Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second}

	err := RunAlongside(context.Background(), discardLogger(), cfg, RouterDependencies{}, func(context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loop error, got %v", err)
	}
}

func TestRunAlongside_StopsServerWhenLoopFinishes(t *testing.T) {
	cfg := config.HTTPConfig{Enabled: true, Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second}

	done := make(chan error, 1)
	go func() {
		done <- RunAlongside(context.Background(), discardLogger(), cfg, RouterDependencies{}, func(context.Context) error {
			time.Sleep(20 * time.Millisecond)
			return nil
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ops server kept running after the loop returned")
	}
}

func TestRunAlongside_CancellationReachesLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- RunAlongside(ctx, discardLogger(), config.HTTPConfig{}, RouterDependencies{}, func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return nil
		})
	}()

	<-started
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not observe cancellation")
	}
}
