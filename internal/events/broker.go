package events

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer bounds how far a slow observer can lag before events are
// dropped for it. Publish never blocks on a subscriber.
const subscriberBuffer = 16

// Broker fans events out to every subscriber connected at publish time.
// Subscribers that join later never see earlier events.
type Broker struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

// Subscriber is one connected observer. Read from Events until it is closed.
type Subscriber struct {
	id string
	ch chan Event
}

// Events is the subscriber's receive channel. The broker closes it on
// Unsubscribe.
func (s *Subscriber) Events() <-chan Event { return s.ch }

// ID identifies the subscriber in logs.
func (s *Subscriber) ID() string { return s.id }

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger: logger,
		subs:   make(map[*Subscriber]struct{}),
	}
}

// Subscribe connects a new observer.
func (b *Broker) Subscribe() *Subscriber {
	sub := &Subscriber{
		id: uuid.NewString(),
		ch: make(chan Event, subscriberBuffer),
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	b.logger.Info("observer connected", "subscriber_id", sub.id)
	return sub
}

// Unsubscribe disconnects an observer and closes its channel. Safe to call
// once per subscriber.
func (b *Broker) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	_, ok := b.subs[sub]
	if ok {
		delete(b.subs, sub)
	}
	b.mu.Unlock()

	if ok {
		close(sub.ch)
		b.logger.Info("observer disconnected", "subscriber_id", sub.id)
	}
}

// Publish fans evt out to the current subscriber set without blocking.
// Events are dropped for subscribers whose buffer is full; publishing to zero
// subscribers is not an error.
func (b *Broker) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- evt:
		default:
			b.logger.Warn("dropping event for lagging observer",
				"subscriber_id", sub.id,
				"kind", evt.Kind,
			)
		}
	}
}

// SubscriberCount reports how many observers are connected.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
