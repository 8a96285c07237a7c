package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// Config holds Kafka connection settings
type Config struct {
	Brokers []string
	Topic   string
	Group   string
}

// NewWriter creates a writer for the configured topic.
// Writes are synchronous so the caller observes the broker outcome;
// asynchrony is layered on top by the event publisher.
func NewWriter(cfg Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},

		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,

		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
	}
}

// NewReader creates a reader joined to the configured consumer group
func NewReader(cfg Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.Group,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
}
