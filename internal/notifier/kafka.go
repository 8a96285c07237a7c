package notifier

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"usersvc/pkg/logger"
)

// KafkaConsumer reads user events from the topic and feeds them to the
// event consumer as part of its consumer group.
type KafkaConsumer struct {
	reader   *kafka.Reader
	consumer *UserEventConsumer
	log      *logger.Logger
}

// NewKafkaConsumer creates a Kafka-backed consumer loop
func NewKafkaConsumer(reader *kafka.Reader, consumer *UserEventConsumer, log *logger.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader:   reader,
		consumer: consumer,
		log:      log,
	}
}

// Run fetches and processes messages until the context is cancelled
func (c *KafkaConsumer) Run(ctx context.Context) error {
	c.log.Info("kafka consumer started",
		zap.String("topic", c.reader.Config().Topic),
		zap.String("group", c.reader.Config().GroupID),
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Error("failed to fetch message", zap.Error(err))
			continue
		}

		// Handler errors are absorbed inside HandleMessage; the offset
		// is committed either way so one bad event cannot stall the group.
		_ = c.consumer.HandleMessage(ctx, msg.Value)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("failed to commit offset", zap.Error(err))
		}
	}
}

// Close closes the underlying reader
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
