package service

import (
	"context"
	"sync"
	"testing"

	"github.com/BloggingApp/social-service/internal/config"
	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/live"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/badgerrepo"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	mu     sync.Mutex
	events map[string][]interface{}
}

func (p *fakePublisher) Publish(ctx context.Context, queue string, v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[string][]interface{})
	}
	p.events[queue] = append(p.events[queue], v)
	return nil
}

func (p *fakePublisher) count(queue string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events[queue])
}

type testEnv struct {
	svc       *Service
	store     *docstore.Store
	mr        *miniredis.Miniredis
	broker    *live.MemoryBroker
	publisher *fakePublisher
}

func newTestStore(t *testing.T) *docstore.Store {
	t.Helper()
	db, err := badgerrepo.Open(badgerrepo.Config{InMemory: true})
	require.NoError(t, err)

	store := badgerrepo.New(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestEnv(t *testing.T, store *docstore.Store, votes config.VotesConfig) *testEnv {
	t.Helper()
	if store == nil {
		store = newTestStore(t)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	broker := live.NewMemoryBroker()
	publisher := &fakePublisher{}

	svc := New(Deps{
		Logger:    zap.NewNop(),
		Repo:      repository.New(store, rdb),
		Broker:    broker,
		Publisher: publisher,
		Votes:     votes,
	})

	return &testEnv{
		svc:       svc,
		store:     store,
		mr:        mr,
		broker:    broker,
		publisher: publisher,
	}
}

var guarded = config.VotesConfig{Guarded: true, MaxAttempts: 5}

func (e *testEnv) createPost(t *testing.T, authorID uuid.UUID) *model.Post {
	t.Helper()
	post, err := e.svc.Post.Create(context.Background(), authorID, dto.CreatePostRequest{Title: "title", Content: "content"})
	require.NoError(t, err)
	return post
}

func (e *testEnv) createComment(t *testing.T, authorID uuid.UUID, postID uuid.UUID, parentID *uuid.UUID) *model.Comment {
	t.Helper()
	comment, err := e.svc.Comment.Create(context.Background(), authorID, dto.CreateCommentRequest{
		PostID:   postID,
		ParentID: parentID,
		Content:  "comment",
	})
	require.NoError(t, err)
	return comment
}

func (e *testEnv) subscribe(t *testing.T, topic string) live.Subscription {
	t.Helper()
	sub, err := e.broker.Subscribe(context.Background(), topic)
	require.NoError(t, err)
	t.Cleanup(func() { sub.Close() })
	return sub
}

func notified(sub live.Subscription) bool {
	select {
	case <-sub.C():
		return true
	default:
		return false
	}
}
