package graph

import (
	"context"
	"sync"
)

// MemoryClient records writes instead of sending them anywhere. Tests use it
// to assert on the cypher the projector issues.
type MemoryClient struct {
	mu           sync.Mutex
	writes       []ExecutedQuery
	summaries    []Summary
	err          error
	connectivity error
}

// ExecutedQuery captures a cypher statement and its parameters.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient instantiates an empty recorder.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError makes subsequent writes fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return err.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// PushSummary queues a summary for the next write.
func (m *MemoryClient) PushSummary(s Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, s)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Summary{}, m.err
	}
	m.writes = append(m.writes, ExecutedQuery{Query: cypher, Params: cloneMap(params)})

	if len(m.summaries) == 0 {
		return Summary{}, nil
	}
	s := m.summaries[0]
	m.summaries = m.summaries[1:]
	return s, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// Writes returns a snapshot of executed write queries.
func (m *MemoryClient) Writes() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writes...)
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
