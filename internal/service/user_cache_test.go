package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/rabbitmq"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCacheReadThrough(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, guarded)
	id := uuid.New()

	_, err := env.svc.UserCache.FindByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.svc.UserCache.CreateOrUpdate(ctx, model.CachedUser{ID: id, Username: "alice"}))

	user, err := env.svc.UserCache.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, env.mr.Exists(redisrepo.UserCacheKey(id.String())))

	require.NoError(t, env.svc.UserCache.CreateOrUpdate(ctx, model.CachedUser{ID: id, Username: "alice2"}))
	assert.False(t, env.mr.Exists(redisrepo.UserCacheKey(id.String())))

	assert.ErrorIs(t, env.svc.UserCache.CreateOrUpdate(ctx, model.CachedUser{ID: id}), ErrInvalidArgument)
}

func TestHandleUserUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, guarded)
	id := uuid.New()
	require.NoError(t, env.svc.UserCache.CreateOrUpdate(ctx, model.CachedUser{ID: id, Username: "alice"}))

	err := env.svc.UserCache.HandleUserUpdate(ctx, []byte(`{"user_id":"`+id.String()+`","display_name":"Alice"}`))
	require.NoError(t, err)

	user, err := env.svc.UserCache.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.DisplayName)

	assert.ErrorIs(t, env.svc.UserCache.HandleUserUpdate(ctx, []byte(`not json`)), ErrInvalidArgument)
	assert.ErrorIs(t, env.svc.UserCache.HandleUserUpdate(ctx, []byte(`{"display_name":"x"}`)), ErrInvalidArgument)
	assert.ErrorIs(t, env.svc.UserCache.HandleUserUpdate(ctx, []byte(`{"user_id":"nope"}`)), ErrInvalidArgument)
	assert.ErrorIs(t, env.svc.UserCache.HandleUserUpdate(ctx, []byte(`{"user_id":"`+id.String()+`","role":"admin"}`)), ErrInvalidArgument)
	assert.ErrorIs(t, env.svc.UserCache.HandleUserUpdate(ctx, []byte(`{"user_id":"`+uuid.NewString()+`","username":"x"}`)), ErrNotFound)
}

type ackRecorder struct {
	mu    sync.Mutex
	acks  int
	nacks int
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *ackRecorder) Nack(tag uint64, multiple bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks++
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *ackRecorder) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acks, a.nacks
}

type fakeConsumer struct {
	queue string
	msgs  chan amqp.Delivery
}

func (c *fakeConsumer) Consume(queue string) (<-chan amqp.Delivery, error) {
	c.queue = queue
	return c.msgs, nil
}

func TestConsumeUserUpdates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, guarded)
	id := uuid.New()
	require.NoError(t, env.svc.UserCache.CreateOrUpdate(ctx, model.CachedUser{ID: id, Username: "alice"}))

	acker := &ackRecorder{}
	consumer := &fakeConsumer{msgs: make(chan amqp.Delivery, 2)}
	consumer.msgs <- amqp.Delivery{Acknowledger: acker, Body: []byte(`{"user_id":"` + id.String() + `","username":"bob"}`)}
	consumer.msgs <- amqp.Delivery{Acknowledger: acker, Body: []byte(`garbage`)}
	close(consumer.msgs)

	done := make(chan error, 1)
	go func() { done <- env.svc.StartConsumeAll(ctx, consumer) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after the channel closed")
	}

	assert.Equal(t, rabbitmq.USER_INFO_UPDATED_QUEUE, consumer.queue)
	acks, nacks := acker.counts()
	assert.Equal(t, 1, acks)
	assert.Equal(t, 1, nacks)

	user, err := env.svc.UserCache.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
}
