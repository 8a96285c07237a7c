package notifier

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"usersvc/pkg/events"
	"usersvc/pkg/logger"
)

// UserEventConsumer dispatches user lifecycle events to the email service
type UserEventConsumer struct {
	emails *EmailService
	log    *logger.Logger
}

// NewUserEventConsumer creates a new consumer for user lifecycle events
func NewUserEventConsumer(emails *EmailService, log *logger.Logger) *UserEventConsumer {
	return &UserEventConsumer{
		emails: emails,
		log:    log,
	}
}

// HandleMessage processes a single user event. Processing errors are
// logged and swallowed so a bad event never wedges the subscription.
func (c *UserEventConsumer) HandleMessage(ctx context.Context, body []byte) error {
	var event events.UserEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.log.WithContext(ctx).Error("failed to unmarshal user event",
			zap.Error(err),
		)
		return nil
	}

	c.log.WithContext(ctx).Info("received user event",
		zap.String("operation", event.Operation),
		zap.String("email", event.Email),
	)

	var err error
	switch event.Operation {
	case events.OperationCreate:
		err = c.emails.SendUserCreated(ctx, event.Email)
	case events.OperationDelete:
		err = c.emails.SendUserDeleted(ctx, event.Email)
	default:
		c.log.WithContext(ctx).Warn("unknown operation",
			zap.String("operation", event.Operation),
		)
		return nil
	}

	if err != nil {
		c.log.WithContext(ctx).Error("failed to process user event",
			zap.String("operation", event.Operation),
			zap.String("email", event.Email),
			zap.Error(err),
		)
	}

	return nil
}
