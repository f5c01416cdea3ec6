package badgerrepo

import (
	"context"
	"testing"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *docstore.Store {
	t.Helper()
	db, err := Open(Config{InMemory: true})
	require.NoError(t, err)

	store := New(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestOpenWithPath(t *testing.T) {
	db, err := Open(Config{Path: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestPostCreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	author := uuid.New()

	created, err := store.Post.Create(ctx, model.Post{AuthorID: author, Title: "hello", Content: "world"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := store.Post.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, found.Title)
	assert.Equal(t, author, found.AuthorID)
	assert.True(t, created.CreatedAt.Equal(found.CreatedAt))

	_, err = store.Post.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestPostFindLatestOrdersByCreationDesc(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		post, err := store.Post.Create(ctx, model.Post{AuthorID: uuid.New(), Title: "t"})
		require.NoError(t, err)
		ids = append(ids, post.ID)
		time.Sleep(2 * time.Millisecond)
	}

	posts, err := store.Post.FindLatest(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, ids[2], posts[0].ID)
	assert.Equal(t, ids[1], posts[1].ID)
	assert.Equal(t, ids[0], posts[2].ID)

	page, err := store.Post.FindLatest(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)

	empty, err := store.Post.FindLatest(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostDeleteChecksAuthor(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	author := uuid.New()

	post, err := store.Post.Create(ctx, model.Post{AuthorID: author, Title: "t"})
	require.NoError(t, err)

	assert.ErrorIs(t, store.Post.Delete(ctx, post.ID, uuid.New()), docstore.ErrNotFound)
	require.NoError(t, store.Post.Delete(ctx, post.ID, author))

	_, err = store.Post.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestCommentsOfPost(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	author := uuid.New()

	post, err := store.Post.Create(ctx, model.Post{AuthorID: author, Title: "t"})
	require.NoError(t, err)
	other, err := store.Post.Create(ctx, model.Post{AuthorID: author, Title: "other"})
	require.NoError(t, err)

	root, err := store.Comment.Create(ctx, model.Comment{PostID: post.ID, AuthorID: author, Content: "root"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	reply, err := store.Comment.Create(ctx, model.Comment{PostID: post.ID, ParentID: &root.ID, AuthorID: author, Content: "reply"})
	require.NoError(t, err)
	_, err = store.Comment.Create(ctx, model.Comment{PostID: other.ID, AuthorID: author, Content: "elsewhere"})
	require.NoError(t, err)

	comments, err := store.Comment.FindPostComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, root.ID, comments[0].ID)
	assert.Equal(t, reply.ID, comments[1].ID)
	require.NotNil(t, comments[1].ParentID)
	assert.Equal(t, root.ID, *comments[1].ParentID)

	assert.ErrorIs(t, store.Comment.Delete(ctx, reply.ID, uuid.New()), docstore.ErrNotFound)
	require.NoError(t, store.Comment.Delete(ctx, reply.ID, author))

	comments, err = store.Comment.FindPostComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	require.NoError(t, store.Comment.DeletePostComments(ctx, post.ID))
	comments, err = store.Comment.FindPostComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = store.Comment.FindByID(ctx, root.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestVotesCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	post, err := store.Post.Create(ctx, model.Post{AuthorID: uuid.New(), Title: "t"})
	require.NoError(t, err)

	state, err := store.Post.FindVotes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), state.Version)

	votes := model.Votes{Upvoters: []string{"alice"}, UpCount: 1}
	require.NoError(t, store.Post.CompareAndSwapVotes(ctx, post.ID, state.Version, votes))

	err = store.Post.CompareAndSwapVotes(ctx, post.ID, state.Version, model.Votes{})
	assert.ErrorIs(t, err, docstore.ErrVersionConflict)

	state, err = store.Post.FindVotes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.Version)
	assert.Equal(t, votes, state.Votes)

	err = store.Post.CompareAndSwapVotes(ctx, uuid.New(), 0, votes)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestVotesUpdateIgnoresVersion(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	post, err := store.Post.Create(ctx, model.Post{AuthorID: uuid.New(), Title: "t"})
	require.NoError(t, err)
	comment, err := store.Comment.Create(ctx, model.Comment{PostID: post.ID, AuthorID: uuid.New(), Content: "c"})
	require.NoError(t, err)

	first := model.Votes{Downvoters: []string{"bob"}, DownCount: 1}
	second := model.Votes{Upvoters: []string{"carol"}, UpCount: 1}
	require.NoError(t, store.Comment.UpdateVotes(ctx, comment.ID, first))
	require.NoError(t, store.Comment.UpdateVotes(ctx, comment.ID, second))

	found, err := store.Comment.FindByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, second, found.Votes)
	assert.Equal(t, int64(2), found.Version)
	assert.Equal(t, "c", found.Content)

	assert.ErrorIs(t, store.Comment.UpdateVotes(ctx, uuid.New(), first), docstore.ErrNotFound)
}

func TestUserCache(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	id := uuid.New()

	require.NoError(t, store.UserCache.Upsert(ctx, model.CachedUser{ID: id, Username: "alice", DisplayName: "Alice"}))
	require.NoError(t, store.UserCache.Update(ctx, id, map[string]interface{}{"display_name": "Alice L."}))

	user, err := store.UserCache.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice L.", user.DisplayName)

	err = store.UserCache.Update(ctx, id, map[string]interface{}{"role": "admin"})
	assert.ErrorIs(t, err, docstore.ErrFieldsNotAllowedToUpdate)

	_, err = store.UserCache.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}
