package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("expected defaults to load, got %v", err)
	}

	if len(cfg.Kafka.Brokers) != 1 || cfg.Kafka.Brokers[0] != "localhost:9092" {
		t.Fatalf("unexpected brokers %v", cfg.Kafka.Brokers)
	}
	if cfg.Topics.Input != "queueing.transactions" {
		t.Fatalf("unexpected input topic %q", cfg.Topics.Input)
	}
	if cfg.Topics.Legit != "streaming.transactions.legit" || cfg.Topics.Fraud != "streaming.transactions.fraud" {
		t.Fatalf("unexpected output topics %+v", cfg.Topics)
	}
	if cfg.Topics.DeadLetter != "" {
		t.Fatalf("dead letter topic should be disabled by default, got %q", cfg.Topics.DeadLetter)
	}
	if cfg.Emitter.TransactionsPerSecond != 1000 {
		t.Fatalf("unexpected rate %v", cfg.Emitter.TransactionsPerSecond)
	}
	if cfg.Detector.CommitPolicy != CommitAfterPublish {
		t.Fatalf("unexpected commit policy %q", cfg.Detector.CommitPolicy)
	}
	if cfg.Kafka.PublishTimeout != 30*time.Second {
		t.Fatalf("unexpected publish timeout %s", cfg.Kafka.PublishTimeout)
	}
	if !cfg.HTTP.Enabled || cfg.HTTP.Port != 8080 {
		t.Fatalf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"KAFKA_BROKER_URL":        "kafka-1:9092,kafka-2:9092",
		"TRANSACTIONS_TOPIC":      "in",
		"LEGIT_TOPIC":             "ok",
		"FRAUD_TOPIC":             "bad",
		"DEAD_LETTER_TOPIC":       "dlq",
		"TRANSACTIONS_PER_SECOND": "2.5",
		"DETECTOR_COMMIT_POLICY":  "Before-Publish",
		"SERVER_PORT":             "9000",
		"LOG_FORMAT":              "json",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if strings.Join(cfg.Kafka.Brokers, ",") != "kafka-1:9092,kafka-2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.Kafka.Brokers)
	}
	if cfg.Topics != (TopicsConfig{Input: "in", Legit: "ok", Fraud: "bad", DeadLetter: "dlq"}) {
		t.Fatalf("unexpected topics %+v", cfg.Topics)
	}
	if cfg.Detector.CommitPolicy != CommitBeforePublish {
		t.Fatalf("unexpected commit policy %q", cfg.Detector.CommitPolicy)
	}
	if got := cfg.Emitter.Interval(); got != 400*time.Millisecond {
		t.Fatalf("expected 400ms interval, got %s", got)
	}
	if cfg.HTTP.Port != 9000 || cfg.Logging.Format != "json" {
		t.Fatalf("overrides not applied: %+v %+v", cfg.HTTP, cfg.Logging)
	}
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("FRAUD_TOPIC", "flagged")
	t.Setenv("TRANSACTIONS_PER_SECOND", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Topics.Fraud != "flagged" {
		t.Fatalf("expected fraud topic from environment, got %q", cfg.Topics.Fraud)
	}
	if got := cfg.Emitter.Interval(); got != 100*time.Millisecond {
		t.Fatalf("expected 100ms interval, got %s", got)
	}
}

func TestLoadFrom_SlowRatesKeepPositiveInterval(t *testing.T) {
	for _, rate := range []string{"0.001", "1e-9"} {
		cfg, err := LoadFrom(map[string]string{"TRANSACTIONS_PER_SECOND": rate})
		if err != nil {
			t.Fatalf("rate %s: unexpected error: %v", rate, err)
		}
		if got := cfg.Emitter.Interval(); got <= 0 {
			t.Fatalf("rate %s: expected positive interval, got %s", rate, got)
		}
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"zero rate":          {"TRANSACTIONS_PER_SECOND": "0"},
		"negative rate":      {"TRANSACTIONS_PER_SECOND": "-3"},
		"unparsable rate":    {"TRANSACTIONS_PER_SECOND": "fast"},
		"NaN rate":           {"TRANSACTIONS_PER_SECOND": "NaN"},
		"infinite rate":      {"TRANSACTIONS_PER_SECOND": "+Inf"},
		"negative infinity":  {"TRANSACTIONS_PER_SECOND": "-Inf"},
		"rate too small":     {"TRANSACTIONS_PER_SECOND": "1e-12"},
		"same outputs":       {"LEGIT_TOPIC": "x", "FRAUD_TOPIC": "x"},
		"input is output":    {"TRANSACTIONS_TOPIC": "x", "LEGIT_TOPIC": "x"},
		"dead letter reuse":  {"DEAD_LETTER_TOPIC": "streaming.transactions.fraud"},
		"unknown policy":     {"DETECTOR_COMMIT_POLICY": "sometimes"},
		"bad acks":           {"KAFKA_REQUIRED_ACKS": "two"},
		"bad start offset":   {"KAFKA_START_OFFSET": "middle"},
		"port out of range":  {"SERVER_PORT": "70000"},
		"no attempts":        {"KAFKA_MAX_ATTEMPTS": "0"},
		"negative max count": {"EMITTER_MAX_MESSAGES": "-1"},
	}

	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(environ); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
