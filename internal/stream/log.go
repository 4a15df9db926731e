// Package stream is the boundary with the message log. The pipeline talks to
// Publisher and Subscriber only; Kafka and in-memory implementations live
// alongside.
package stream

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed publisher or subscriber.
var ErrClosed = errors.New("stream closed")

// Record is one message as delivered by a subscription. Offsets belong to
// the log and are only handed back on Commit.
type Record struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Time      time.Time
}

// Publisher appends payloads to named topics. Publish returns once the log
// acknowledged the write or the client gave up retrying.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
	Close() error
}

// Subscriber yields records of one topic in log order. Fetch blocks until a
// record is available or ctx is done. Commit marks rec and everything before
// it on the same partition as consumed.
type Subscriber interface {
	Fetch(ctx context.Context) (Record, error)
	Commit(ctx context.Context, rec Record) error
	Close() error
}

// GroupAware is implemented by subscribers that know whether they consume as
// a member of a consumer group. Without a group there are no committed
// offsets and a Kafka subscriber reads partition 0 only.
type GroupAware interface {
	Grouped() bool
}

// Prober checks that the log is reachable.
type Prober interface {
	Probe(ctx context.Context) error
}
