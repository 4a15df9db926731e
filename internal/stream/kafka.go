package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/vanshika/fintrace/streaming/internal/config"
)

// KafkaOptions configures the kafka-go backed publisher and subscriber.
type KafkaOptions struct {
	Brokers          []string
	ClientID         string
	RequiredAcks     string
	StartOffset      string
	MaxAttempts      int
	DialTimeout      time.Duration
	WriteTimeout     time.Duration
	AutoCreateTopics bool
}

// KafkaOptionsFrom maps the Kafka config section onto KafkaOptions. The
// instance id, when set, is appended to the client id.
func KafkaOptionsFrom(cfg config.KafkaConfig, instance string) KafkaOptions {
	clientID := cfg.ClientID
	if instance != "" {
		clientID = clientID + "-" + instance
	}
	return KafkaOptions{
		Brokers:          cfg.Brokers,
		ClientID:         clientID,
		RequiredAcks:     cfg.RequiredAcks,
		StartOffset:      cfg.StartOffset,
		MaxAttempts:      cfg.MaxAttempts,
		DialTimeout:      cfg.DialTimeout,
		WriteTimeout:     cfg.WriteTimeout,
		AutoCreateTopics: cfg.AutoCreateTopics,
	}
}

// ErrNoBrokers indicates the broker list is empty.
var ErrNoBrokers = errors.New("at least one kafka broker is required")

// KafkaPublisher writes to any topic through a single kafka.Writer. Retries
// and reconnects are left to the writer.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher builds a synchronous writer keyed by message key, so
// records sharing a key land on the same partition in publish order.
func NewKafkaPublisher(opts KafkaOptions) (*KafkaPublisher, error) {
	if len(opts.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(opts.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           requiredAcks(opts.RequiredAcks),
		MaxAttempts:            opts.MaxAttempts,
		WriteTimeout:           opts.WriteTimeout,
		AllowAutoTopicCreation: opts.AutoCreateTopics,
		// One message per synchronous call; flush without waiting for a batch.
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		Transport: &kafka.Transport{
			ClientID:    opts.ClientID,
			DialTimeout: opts.DialTimeout,
		},
	}
	return &KafkaPublisher{writer: writer}, nil
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, key, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
	if err != nil {
		if errors.Is(err, io.ErrClosedPipe) {
			return ErrClosed
		}
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes pending writes and releases connections.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaSubscriber reads one topic, as a member of a consumer group when a
// group id is set.
type KafkaSubscriber struct {
	reader  *kafka.Reader
	grouped bool
}

// NewKafkaSubscriber creates a reader for topic. With an empty groupID the
// reader consumes partition 0 without tracking offsets and Commit is a no-op.
func NewKafkaSubscriber(opts KafkaOptions, topic, groupID string) (*KafkaSubscriber, error) {
	if len(opts.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if topic == "" {
		return nil, errors.New("subscribe: topic is required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: opts.Brokers,
		GroupID: groupID,
		Topic:   topic,
		Dialer: &kafka.Dialer{
			ClientID:  opts.ClientID,
			Timeout:   opts.DialTimeout,
			DualStack: true,
		},
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		MaxAttempts:    opts.MaxAttempts,
		StartOffset:    startOffset(opts.StartOffset),
		CommitInterval: 0, // synchronous commits
	})
	return &KafkaSubscriber{reader: reader, grouped: groupID != ""}, nil
}

// Fetch implements Subscriber. It does not commit.
func (s *KafkaSubscriber) Fetch(ctx context.Context) (Record, error) {
	msg, err := s.reader.FetchMessage(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, ErrClosed
		}
		return Record{}, err
	}
	return Record{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
		Time:      msg.Time,
	}, nil
}

// Commit implements Subscriber.
func (s *KafkaSubscriber) Commit(ctx context.Context, rec Record) error {
	if !s.grouped {
		return nil
	}
	err := s.reader.CommitMessages(ctx, kafka.Message{
		Topic:     rec.Topic,
		Partition: rec.Partition,
		Offset:    rec.Offset,
	})
	if err != nil {
		return fmt.Errorf("commit %s/%d@%d: %w", rec.Topic, rec.Partition, rec.Offset, err)
	}
	return nil
}

var _ GroupAware = (*KafkaSubscriber)(nil)

// Grouped implements GroupAware.
func (s *KafkaSubscriber) Grouped() bool { return s.grouped }

// Close leaves the consumer group and closes connections.
func (s *KafkaSubscriber) Close() error {
	return s.reader.Close()
}

// KafkaProber dials the brokers in turn and asks the first reachable one for
// cluster metadata.
type KafkaProber struct {
	brokers []string
	dialer  *kafka.Dialer
}

// NewKafkaProber builds a prober sharing the client's dial settings.
func NewKafkaProber(opts KafkaOptions) *KafkaProber {
	return &KafkaProber{
		brokers: opts.Brokers,
		dialer: &kafka.Dialer{
			ClientID:  opts.ClientID,
			Timeout:   opts.DialTimeout,
			DualStack: true,
		},
	}
}

// Probe implements Prober.
func (p *KafkaProber) Probe(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return ErrNoBrokers
	}
	var lastErr error
	for _, broker := range p.brokers {
		conn, err := p.dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = conn.Brokers()
		_ = conn.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("no reachable kafka broker in %s: %w", strings.Join(p.brokers, ","), lastErr)
}

func requiredAcks(v string) kafka.RequiredAcks {
	switch strings.ToLower(v) {
	case "none":
		return kafka.RequireNone
	case "one":
		return kafka.RequireOne
	default:
		return kafka.RequireAll
	}
}

func startOffset(v string) int64 {
	if strings.EqualFold(v, "latest") {
		return kafka.LastOffset
	}
	return kafka.FirstOffset
}
