package pipeline

import (
	"context"
	"time"
)

const defaultPublishTimeout = 30 * time.Second

// detached returns a context that survives cancellation of parent but is
// bounded by timeout, so a publish or commit already under way can still be
// acknowledged during shutdown.
func detached(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}

// sleep waits for d or until ctx is done. It reports whether the full delay
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
