package stream

import (
	"context"
	"sync"
	"time"
)

// MemoryLog is an in-process, single-partition log implementing the
// Publisher and Subscriber contracts. It backs unit tests and local dry runs
// without a broker.
type MemoryLog struct {
	mu          sync.Mutex
	topics      map[string][]Record
	committed   map[groupTopic]int64
	publishErrs map[string]error
	probeErr    error
	changed     chan struct{}
}

type groupTopic struct {
	group string
	topic string
}

// NewMemoryLog instantiates an empty log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		topics:      make(map[string][]Record),
		committed:   make(map[groupTopic]int64),
		publishErrs: make(map[string]error),
		changed:     make(chan struct{}),
	}
}

// FailPublish makes every subsequent publish to topic return err. A nil err
// clears the failure.
func (l *MemoryLog) FailPublish(topic string, err error) *MemoryLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		delete(l.publishErrs, topic)
	} else {
		l.publishErrs[topic] = err
	}
	return l
}

// WithProbeError forces Probe to return the supplied error.
func (l *MemoryLog) WithProbeError(err error) *MemoryLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.probeErr = err
	return l
}

// Append writes value to topic and returns its offset.
func (l *MemoryLog) Append(topic string, key, value []byte) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(topic, key, value)
}

func (l *MemoryLog) appendLocked(topic string, key, value []byte) int64 {
	offset := int64(len(l.topics[topic]))
	l.topics[topic] = append(l.topics[topic], Record{
		Topic:  topic,
		Offset: offset,
		Key:    clone(key),
		Value:  clone(value),
		Time:   time.Now().UTC(),
	})
	close(l.changed)
	l.changed = make(chan struct{})
	return offset
}

// Records returns a snapshot of topic.
func (l *MemoryLog) Records(topic string) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Record(nil), l.topics[topic]...)
}

// Committed returns the next offset group will read from topic, or 0.
func (l *MemoryLog) Committed(group, topic string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.committed[groupTopic{group: group, topic: topic}]
}

// Probe implements Prober.
func (l *MemoryLog) Probe(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.probeErr
}

// Publisher returns a Publisher appending to this log.
func (l *MemoryLog) Publisher() Publisher {
	return &memoryPublisher{log: l}
}

// Subscribe returns a Subscriber over topic. Members of the same non-empty
// group resume from the group's committed offset.
func (l *MemoryLog) Subscribe(topic, group string) Subscriber {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &memorySubscriber{
		log:   l,
		topic: topic,
		group: group,
		next:  l.committed[groupTopic{group: group, topic: topic}],
	}
}

type memoryPublisher struct {
	log    *MemoryLog
	mu     sync.Mutex
	closed bool
}

func (p *memoryPublisher) Publish(ctx context.Context, topic string, key, value []byte) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.log.mu.Lock()
	defer p.log.mu.Unlock()
	if err := p.log.publishErrs[topic]; err != nil {
		return err
	}
	p.log.appendLocked(topic, key, value)
	return nil
}

func (p *memoryPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

type memorySubscriber struct {
	log    *MemoryLog
	topic  string
	group  string
	next   int64
	closed bool
}

func (s *memorySubscriber) Fetch(ctx context.Context) (Record, error) {
	for {
		s.log.mu.Lock()
		if s.closed {
			s.log.mu.Unlock()
			return Record{}, ErrClosed
		}
		records := s.log.topics[s.topic]
		if s.next < int64(len(records)) {
			rec := records[s.next]
			s.next++
			s.log.mu.Unlock()
			return rec, nil
		}
		wait := s.log.changed
		s.log.mu.Unlock()

		select {
		case <-ctx.Done():
			return Record{}, ctx.Err()
		case <-wait:
		}
	}
}

func (s *memorySubscriber) Commit(_ context.Context, rec Record) error {
	if s.group == "" {
		return nil
	}
	s.log.mu.Lock()
	defer s.log.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	key := groupTopic{group: s.group, topic: rec.Topic}
	if next := rec.Offset + 1; next > s.log.committed[key] {
		s.log.committed[key] = next
	}
	return nil
}

func (s *memorySubscriber) Grouped() bool { return s.group != "" }

func (s *memorySubscriber) Close() error {
	s.log.mu.Lock()
	defer s.log.mu.Unlock()
	s.closed = true
	close(s.log.changed)
	s.log.changed = make(chan struct{})
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
