// Package docstore declares the document store the services persist through.
// Implementations live in the postgres and badgerrepo packages.
package docstore

import (
	"context"
	"errors"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
)

const MAX_LIMIT = 20

func MaxLimit(limit *int) {
	if *limit <= 0 || *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

var (
	ErrNotFound        = errors.New("document not found")
	ErrVersionConflict = errors.New("document was modified concurrently")
)

// Votable is implemented by every collection whose documents carry votes.
type Votable interface {
	FindVotes(ctx context.Context, id uuid.UUID) (*model.VoteState, error)
	// UpdateVotes overwrites the vote fields regardless of the stored version.
	UpdateVotes(ctx context.Context, id uuid.UUID, votes model.Votes) error
	// CompareAndSwapVotes writes votes only if the stored version still equals
	// version, otherwise it returns ErrVersionConflict.
	CompareAndSwapVotes(ctx context.Context, id uuid.UUID, version int64, votes model.Votes) error
}

type Post interface {
	Votable
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	// FindLatest returns posts ordered by descending creation time.
	FindLatest(ctx context.Context, limit int, offset int) ([]*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error
}

type Comment interface {
	Votable
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	// FindPostComments returns all comments of a post ordered by ascending creation time.
	FindPostComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error
	DeletePostComments(ctx context.Context, postID uuid.UUID) error
}

type UserCache interface {
	Upsert(ctx context.Context, user model.CachedUser) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
}

type Store struct {
	Post
	Comment
	UserCache
	closeFn func() error
}

func New(post Post, comment Comment, userCache UserCache, closeFn func() error) *Store {
	return &Store{
		Post:      post,
		Comment:   comment,
		UserCache: userCache,
		closeFn:   closeFn,
	}
}

func (s *Store) Votable(kind model.TargetKind) (Votable, bool) {
	switch kind {
	case model.TargetPost:
		return s.Post, true
	case model.TargetComment:
		return s.Comment, true
	}
	return nil, false
}

func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

var allowedUserFields = map[string]struct{}{
	"username":     {},
	"display_name": {},
}

var ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")

// CheckUserUpdates rejects updates naming fields outside the cached profile.
func CheckUserUpdates(updates map[string]interface{}) error {
	for field := range updates {
		if _, ok := allowedUserFields[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}
	return nil
}
