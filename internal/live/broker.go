// Package live delivers change notifications to subscribers of a topic.
//
// Notifications carry no payload: a subscriber reacts by reading a fresh
// snapshot of whatever the topic describes. Pending notifications for a
// subscriber coalesce into one.
package live

import (
	"context"
	"errors"
	"sync"
)

var ErrBrokerClosed = errors.New("broker is closed")

type Broker interface {
	Publish(ctx context.Context, topic string) error
	Subscribe(ctx context.Context, topic string) (Subscription, error)
}

type Subscription interface {
	// C receives a value after every change on the topic. It is closed when
	// the subscription ends.
	C() <-chan struct{}
	Close() error
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

type MemoryBroker struct {
	mu     sync.Mutex
	topics map[string]map[*memorySubscription]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		topics: make(map[string]map[*memorySubscription]struct{}),
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.topics[topic] {
		notify(sub.ch)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	sub := &memorySubscription{
		broker: b,
		topic:  topic,
		ch:     make(chan struct{}, 1),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*memorySubscription]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}

	return sub, nil
}

// Subscribers returns the number of open subscriptions on topic.
func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

type memorySubscription struct {
	broker *MemoryBroker
	topic  string
	ch     chan struct{}
	once   sync.Once
}

func (s *memorySubscription) C() <-chan struct{} {
	return s.ch
}

func (s *memorySubscription) Close() error {
	s.once.Do(func() {
		b := s.broker
		b.mu.Lock()
		defer b.mu.Unlock()

		delete(b.topics[s.topic], s)
		if len(b.topics[s.topic]) == 0 {
			delete(b.topics, s.topic)
		}
		close(s.ch)
	})
	return nil
}
