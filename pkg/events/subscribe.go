package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
)

// Handler processes one message. Returning nil acks it.
type Handler func(ctx context.Context, msg *message.Message) error

// retryPolicy retries a failing handler with doubling delays.
type retryPolicy struct {
	attempts int
	delay    time.Duration
	maxDelay time.Duration
}

var defaultRetry = retryPolicy{attempts: 3, delay: time.Second, maxDelay: 10 * time.Second}

// run calls h until it succeeds, the attempts are spent or ctx ends.
func (p retryPolicy) run(ctx context.Context, msg *message.Message, h Handler, log logger.Logger) error {
	delay := p.delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = h(ctx, msg); err == nil {
			return nil
		}
		if attempt >= p.attempts {
			return fmt.Errorf("events: message %s failed after %d attempts: %w", msg.UUID, attempt, err)
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"message_id", msg.UUID,
			"attempt", attempt,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, p.maxDelay)
	}
}

// Subscribe consumes topic in the background. Each message runs h with the
// publisher's trace restored; a message that still fails after the retries
// is nacked and its error sent on the returned channel. The channel is
// buffered and must be drained; it closes when the subscription ends.
func (b *EventBus) Subscribe(ctx context.Context, topic string, h Handler) (<-chan error, error) {
	msgs, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errs := make(chan error, 64)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errs)
		for msg := range msgs {
			msgCtx := extractTrace(ctx, msg)
			if err := defaultRetry.run(msgCtx, msg, h, b.log); err != nil {
				msg.Nack()
				select {
				case errs <- err:
				default:
					b.log.ErrorContext(msgCtx, "events: error channel full", "topic", topic, "error", err)
				}
				continue
			}
			msg.Ack()
		}
	}()
	return errs, nil
}
