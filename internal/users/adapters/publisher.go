package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"usersvc/pkg/events"
	"usersvc/pkg/logger"
)

// EventTransport delivers a user event to the message bus
type EventTransport interface {
	Send(ctx context.Context, event events.UserEvent) error
}

// BreakerConfig holds circuit breaker settings for event publishing
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive send failures
	// that opens the circuit
	FailureThreshold uint32
	// Cooldown is how long the circuit stays open before allowing
	// a trial send
	Cooldown time.Duration
	// SendTimeout bounds a single transport send
	SendTimeout time.Duration
}

// BreakerPublisher implements ports.EventPublisher. Sends run on their own
// goroutine behind a circuit breaker, so a broker outage neither blocks nor
// fails the triggering store operation. Dropped events go to the fallback
// path, which only logs.
type BreakerPublisher struct {
	transport EventTransport
	breaker   *gobreaker.CircuitBreaker[struct{}]
	timeout   time.Duration
	log       *logger.Logger
	wg        sync.WaitGroup
}

// NewBreakerPublisher creates a breaker-gated event publisher
func NewBreakerPublisher(transport EventTransport, cfg BreakerConfig, log *logger.Logger) *BreakerPublisher {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 10 * time.Second
	}

	settings := gobreaker.Settings{
		Name: "event-publisher",
		// One trial send decides half-open
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("event publisher circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerPublisher{
		transport: transport,
		breaker:   gobreaker.NewCircuitBreaker[struct{}](settings),
		timeout:   cfg.SendTimeout,
		log:       log,
	}
}

// PublishUserCreated announces a committed user creation
func (p *BreakerPublisher) PublishUserCreated(ctx context.Context, email string) {
	p.publish(ctx, events.NewUserEvent(events.OperationCreate, email))
}

// PublishUserDeleted announces a committed user deletion
func (p *BreakerPublisher) PublishUserDeleted(ctx context.Context, email string) {
	p.publish(ctx, events.NewUserEvent(events.OperationDelete, email))
}

// publish issues the send on its own goroutine and returns immediately.
// The send is detached from the caller's context: the request that
// triggered the event finishes without waiting on the broker.
func (p *BreakerPublisher) publish(ctx context.Context, event events.UserEvent) {
	traceID := logger.GetTraceID(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		sendCtx := logger.WithTraceIDContext(context.Background(), traceID)
		sendCtx, cancel := context.WithTimeout(sendCtx, p.timeout)
		defer cancel()

		_, err := p.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, p.transport.Send(sendCtx, event)
		})
		if err != nil {
			p.fallback(sendCtx, event, err)
			return
		}

		p.log.WithContext(sendCtx).Info("user event published",
			zap.String("operation", event.Operation),
			zap.String("email", event.Email),
		)
	}()
}

// fallback is the substitute action when a send is skipped or fails:
// log the dropped event and move on. No retry, no error to the caller.
func (p *BreakerPublisher) fallback(ctx context.Context, event events.UserEvent, err error) {
	p.log.WithContext(ctx).Error("user event dropped",
		zap.String("operation", event.Operation),
		zap.String("email", event.Email),
		zap.String("reason", err.Error()),
		zap.String("circuit", p.breaker.State().String()),
	)
}

// Flush waits until all in-flight sends have completed
func (p *BreakerPublisher) Flush() {
	p.wg.Wait()
}
