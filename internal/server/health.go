package server

import (
	"context"

	"github.com/vanshika/fintrace/streaming/internal/graph"
	"github.com/vanshika/fintrace/streaming/internal/stream"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// BrokerHealthService verifies the message log is reachable.
type BrokerHealthService struct {
	Prober stream.Prober
}

// Probe implements the HealthService interface.
func (s BrokerHealthService) Probe(ctx context.Context) error {
	if s.Prober == nil {
		return nil
	}
	return s.Prober.Probe(ctx)
}

// GraphHealthService verifies graph connectivity as part of health checks.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}
