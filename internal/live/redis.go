package live

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

const changedMessage = "changed"

// RedisBroker fans notifications out through redis pub/sub so that every
// service instance sees changes made by the others.
type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{
		rdb: rdb,
	}
}

func (b *RedisBroker) Publish(ctx context.Context, topic string) error {
	return b.rdb.Publish(ctx, topic, changedMessage).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	pubsub := b.rdb.Subscribe(ctx, topic)
	// Wait for the subscription to be confirmed so no publish after this call is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go sub.forward()

	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	ch     chan struct{}
	done   chan struct{}
	once   sync.Once
	err    error
}

func (s *redisSubscription) forward() {
	defer close(s.done)
	defer close(s.ch)

	for range s.pubsub.Channel() {
		notify(s.ch)
	}
}

func (s *redisSubscription) C() <-chan struct{} {
	return s.ch
}

func (s *redisSubscription) Close() error {
	s.once.Do(func() {
		s.err = s.pubsub.Close()
		<-s.done
	})
	return s.err
}
