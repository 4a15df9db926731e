package pipeline

import "sync/atomic"

// Stats counts pipeline events. All methods are safe for concurrent use; the
// ops server reads snapshots while a loop updates them.
type Stats struct {
	emitted      atomic.Int64
	consumed     atomic.Int64
	legit        atomic.Int64
	fraud        atomic.Int64
	malformed    atomic.Int64
	deadLettered atomic.Int64
	projected    atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Emitted      int64 `json:"emitted"`
	Consumed     int64 `json:"consumed"`
	Legit        int64 `json:"legit"`
	Fraud        int64 `json:"fraud"`
	Malformed    int64 `json:"malformed"`
	DeadLettered int64 `json:"deadLettered"`
	Projected    int64 `json:"projected"`
}

// NewStats returns zeroed counters.
func NewStats() *Stats {
	return &Stats{}
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Emitted:      s.emitted.Load(),
		Consumed:     s.consumed.Load(),
		Legit:        s.legit.Load(),
		Fraud:        s.fraud.Load(),
		Malformed:    s.malformed.Load(),
		DeadLettered: s.deadLettered.Load(),
		Projected:    s.projected.Load(),
	}
}

// AddProjected records n records written to a downstream sink.
func (s *Stats) AddProjected(n int64) {
	s.projected.Add(n)
}
