package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid config")

// Config aggregates application configuration values. It is built once at
// startup and handed to components section by section.
type Config struct {
	Kafka     KafkaConfig
	Topics    TopicsConfig
	Emitter   EmitterConfig
	Detector  DetectorConfig
	Projector ProjectorConfig
	Graph     GraphConfig
	HTTP      HTTPConfig
	Logging   LoggingConfig
}

// KafkaConfig describes connectivity to the message log.
type KafkaConfig struct {
	Brokers          []string      `env:"KAFKA_BROKER_URL" envSeparator:"," envDefault:"localhost:9092"`
	ClientID         string        `env:"KAFKA_CLIENT_ID" envDefault:"fintrace-streaming"`
	GroupID          string        `env:"KAFKA_GROUP_ID" envDefault:"fraud-detector"`
	RequiredAcks     string        `env:"KAFKA_REQUIRED_ACKS" envDefault:"all"`
	StartOffset      string        `env:"KAFKA_START_OFFSET" envDefault:"earliest"`
	MaxAttempts      int           `env:"KAFKA_MAX_ATTEMPTS" envDefault:"10"`
	DialTimeout      time.Duration `env:"KAFKA_DIAL_TIMEOUT" envDefault:"10s"`
	WriteTimeout     time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"10s"`
	PublishTimeout   time.Duration `env:"PUBLISH_TIMEOUT" envDefault:"30s"`
	AutoCreateTopics bool          `env:"KAFKA_AUTO_CREATE_TOPICS" envDefault:"true"`
}

// TopicsConfig names the topics the pipeline reads and writes.
type TopicsConfig struct {
	Input      string `env:"TRANSACTIONS_TOPIC" envDefault:"queueing.transactions"`
	Legit      string `env:"LEGIT_TOPIC" envDefault:"streaming.transactions.legit"`
	Fraud      string `env:"FRAUD_TOPIC" envDefault:"streaming.transactions.fraud"`
	DeadLetter string `env:"DEAD_LETTER_TOPIC"`
}

// EmitterConfig paces the transaction emitter.
type EmitterConfig struct {
	TransactionsPerSecond float64 `env:"TRANSACTIONS_PER_SECOND" envDefault:"1000"`
	Seed                  int64   `env:"EMITTER_SEED" envDefault:"0"`
	MaxMessages           int     `env:"EMITTER_MAX_MESSAGES" envDefault:"0"`
}

// DetectorConfig controls the classifying router.
type DetectorConfig struct {
	CommitPolicy CommitPolicy `env:"DETECTOR_COMMIT_POLICY" envDefault:"after-publish"`
}

// ProjectorConfig controls the fraud graph projector.
type ProjectorConfig struct {
	GroupID      string       `env:"PROJECTOR_GROUP_ID" envDefault:"fraud-projector"`
	CommitPolicy CommitPolicy `env:"PROJECTOR_COMMIT_POLICY" envDefault:"after-publish"`
}

// GraphConfig describes connectivity to the graph database (Neo4j).
type GraphConfig struct {
	URI            string `env:"GRAPH_URI"`
	Database       string `env:"GRAPH_DATABASE"`
	Username       string `env:"GRAPH_USERNAME"`
	Password       string `env:"GRAPH_PASSWORD"`
	MaxConnections int    `env:"GRAPH_MAX_CONNECTIONS" envDefault:"10"`
}

// HTTPConfig governs the ops HTTP server each binary exposes.
type HTTPConfig struct {
	Enabled         bool          `env:"SERVER_ENABLED" envDefault:"true"`
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `env:"LOG_LEVEL" envDefault:"info"`
	Format        string `env:"LOG_FORMAT" envDefault:"text"` // text|json
	IncludeCaller bool   `env:"LOG_INCLUDE_CALLER" envDefault:"false"`
}

// CommitPolicy decides when a consumer advances its group offset relative to
// handling the record.
type CommitPolicy string

const (
	// CommitAfterPublish commits once the downstream publish is acknowledged
	// (at-least-once).
	CommitAfterPublish CommitPolicy = "after-publish"
	// CommitBeforePublish commits as soon as the record is fetched
	// (at-most-once).
	CommitBeforePublish CommitPolicy = "before-publish"
)

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (p *CommitPolicy) UnmarshalText(text []byte) error {
	switch v := CommitPolicy(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case CommitAfterPublish, CommitBeforePublish:
		*p = v
		return nil
	default:
		return fmt.Errorf("unknown commit policy %q", string(text))
	}
}

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom reads configuration from the supplied variables instead of the
// process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field rules env tags cannot express.
func (c Config) Validate() error {
	var errs []error

	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKER_URL must name at least one broker"))
	}
	switch strings.ToLower(c.Kafka.RequiredAcks) {
	case "all", "one", "none":
	default:
		errs = append(errs, fmt.Errorf("KAFKA_REQUIRED_ACKS %q must be all, one or none", c.Kafka.RequiredAcks))
	}
	switch strings.ToLower(c.Kafka.StartOffset) {
	case "earliest", "latest":
	default:
		errs = append(errs, fmt.Errorf("KAFKA_START_OFFSET %q must be earliest or latest", c.Kafka.StartOffset))
	}
	if c.Kafka.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("KAFKA_MAX_ATTEMPTS must be positive, got %d", c.Kafka.MaxAttempts))
	}

	switch rate := c.Emitter.TransactionsPerSecond; {
	case math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0:
		errs = append(errs, fmt.Errorf("TRANSACTIONS_PER_SECOND must be a positive finite number, got %v", rate))
	case float64(time.Second)/rate >= math.MaxInt64:
		errs = append(errs, fmt.Errorf("TRANSACTIONS_PER_SECOND %v is too small to pace", rate))
	}
	if c.Emitter.MaxMessages < 0 {
		errs = append(errs, fmt.Errorf("EMITTER_MAX_MESSAGES must not be negative, got %d", c.Emitter.MaxMessages))
	}

	t := c.Topics
	if t.Input == "" || t.Legit == "" || t.Fraud == "" {
		errs = append(errs, errors.New("TRANSACTIONS_TOPIC, LEGIT_TOPIC and FRAUD_TOPIC are required"))
	} else {
		if t.Legit == t.Fraud {
			errs = append(errs, fmt.Errorf("LEGIT_TOPIC and FRAUD_TOPIC must differ, both are %q", t.Legit))
		}
		if t.Input == t.Legit || t.Input == t.Fraud {
			errs = append(errs, fmt.Errorf("TRANSACTIONS_TOPIC %q must differ from the output topics", t.Input))
		}
		if t.DeadLetter != "" && (t.DeadLetter == t.Input || t.DeadLetter == t.Legit || t.DeadLetter == t.Fraud) {
			errs = append(errs, fmt.Errorf("DEAD_LETTER_TOPIC %q must differ from the pipeline topics", t.DeadLetter))
		}
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", c.HTTP.Port))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Interval is the fixed pacing delay between two emissions. It is only
// meaningful for a validated config.
func (e EmitterConfig) Interval() time.Duration {
	return time.Duration(float64(time.Second) / e.TransactionsPerSecond)
}
