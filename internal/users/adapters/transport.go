package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"usersvc/pkg/events"
	"usersvc/pkg/rabbitmq"
)

// KafkaTransport sends user events to the user-events topic,
// keyed by email for per-subject ordering.
type KafkaTransport struct {
	writer *kafka.Writer
}

// NewKafkaTransport creates a Kafka event transport
func NewKafkaTransport(writer *kafka.Writer) *KafkaTransport {
	return &KafkaTransport{writer: writer}
}

// Send writes the event to the topic
func (t *KafkaTransport) Send(ctx context.Context, event events.UserEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return t.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Email),
		Value: body,
		Time:  time.Now(),
	})
}

// Close closes the underlying writer
func (t *KafkaTransport) Close() error {
	return t.writer.Close()
}

// AMQPTransport sends user events through a RabbitMQ topic exchange
type AMQPTransport struct {
	publisher *rabbitmq.Publisher
}

// NewAMQPTransport creates a RabbitMQ event transport
func NewAMQPTransport(publisher *rabbitmq.Publisher) *AMQPTransport {
	return &AMQPTransport{publisher: publisher}
}

// Send publishes the event with its operation's routing key
func (t *AMQPTransport) Send(ctx context.Context, event events.UserEvent) error {
	return t.publisher.Publish(ctx, event.RoutingKey(), event.Email, event)
}
