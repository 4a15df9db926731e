package server

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/fintrace/streaming/internal/config"
)

// RunAlongside runs loop and, when enabled, the ops server. The server stops
// when loop returns; a server failure cancels loop. The first error wins.
func RunAlongside(ctx context.Context, logger *slog.Logger, cfg config.HTTPConfig, deps RouterDependencies, loop func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	opsCtx, stopOps := context.WithCancel(gctx)

	g.Go(func() error {
		defer stopOps()
		return loop(gctx)
	})

	if cfg.Enabled {
		srv := New(logger, cfg, NewRouter(logger, deps))
		g.Go(func() error {
			return srv.Serve(opsCtx)
		})
	} else {
		logger.Info("ops http server disabled")
	}

	return g.Wait()
}
