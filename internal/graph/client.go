package graph

import (
	"context"
	"errors"

	"github.com/vanshika/fintrace/streaming/internal/config"
)

// Client is the write-side contract the projector needs from the graph
// database.
type Client interface {
	// ExecuteWrite runs cypher in a managed write transaction; the driver
	// retries transient failures.
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Summary, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Summary reports what a write changed.
type Summary struct {
	NodesCreated         int
	RelationshipsCreated int
	PropertiesSet        int
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// OptionsFrom maps the graph config section onto Options.
func OptionsFrom(cfg config.GraphConfig) Options {
	return Options{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
	}
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
