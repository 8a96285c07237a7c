package events

// Operations carried by user lifecycle events
const (
	OperationCreate = "CREATE"
	OperationDelete = "DELETE"
)

// Kafka topic and consumer group for user lifecycle events
const (
	TopicUserEvents          = "user-events"
	GroupNotificationService = "notification-service-group"
)

// AMQP naming used when the bus runs on RabbitMQ
const (
	ExchangeUsers         = "users.events"
	RoutingKeyUserCreated = "user.created"
	RoutingKeyUserDeleted = "user.deleted"
	QueueNotifications    = "notifications.user-events"
)

// UserEvent is the wire contract for user lifecycle events.
// Messages are keyed on the bus by email so that events for the
// same subject keep their relative order.
type UserEvent struct {
	Operation string `json:"operation"`
	Email     string `json:"email"`
}

// NewUserEvent creates a user lifecycle event
func NewUserEvent(operation, email string) UserEvent {
	return UserEvent{
		Operation: operation,
		Email:     email,
	}
}

// RoutingKey returns the AMQP routing key for the event's operation
func (e UserEvent) RoutingKey() string {
	if e.Operation == OperationDelete {
		return RoutingKeyUserDeleted
	}
	return RoutingKeyUserCreated
}
