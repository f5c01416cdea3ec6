package service

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/rabbitmq"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
	notify *notifier
	users  UserCache
}

func newPostService(logger *zap.Logger, repo *repository.Repository, notify *notifier, users UserCache) *postService {
	return &postService{
		logger: logger,
		repo:   repo,
		notify: notify,
		users:  users,
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest) (*model.Post, error) {
	if authorID == uuid.Nil || req.Title == "" {
		return nil, ErrInvalidArgument
	}

	post := model.Post{
		AuthorID: authorID,
		Title:    req.Title,
		Content:  req.Content,
	}

	createdPost, err := s.repo.Store.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
		return nil, ErrBackendUnavailable
	}

	s.notify.changed(ctx, redisrepo.FeedTopic())
	s.notify.event(ctx, rabbitmq.POST_CREATED_QUEUE, dto.MQPostCreatedMsg{
		PostID:    createdPost.ID,
		UserID:    authorID,
		PostTitle: createdPost.Title,
		CreatedAt: createdPost.CreatedAt,
	})

	return createdPost, nil
}

func (s *postService) FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	cachedPost, err := redisrepo.Get[model.FullPost](s.repo.Redis.Default, ctx, redisrepo.PostKey(id.String()))
	if err == nil && cachedPost != nil {
		return cachedPost, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%s) from redis: %s", id.String(), err.Error())
	}

	post, err := s.repo.Store.Post.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s) in store: %s", id.String(), err.Error())
		return nil, ErrBackendUnavailable
	}

	fullPost := s.withAuthor(ctx, post, nil)

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostKey(id.String()), fullPost, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%s) in redis: %s", id.String(), err.Error())
	}

	return fullPost, nil
}

func (s *postService) List(ctx context.Context, limit int, offset int) ([]*model.FullPost, error) {
	docstore.MaxLimit(&limit)
	if offset < 0 {
		return nil, ErrInvalidArgument
	}

	posts, err := s.repo.Store.Post.FindLatest(ctx, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find latest posts in store: %s", err.Error())
		return nil, ErrBackendUnavailable
	}

	authors := make(map[uuid.UUID]model.UserAuthor)
	fullPosts := make([]*model.FullPost, 0, len(posts))
	for _, post := range posts {
		fullPosts = append(fullPosts, s.withAuthor(ctx, post, authors))
	}

	return fullPosts, nil
}

// withAuthor attaches the author's cached profile. seen memoizes lookups
// across a page of posts and may be nil.
func (s *postService) withAuthor(ctx context.Context, post *model.Post, seen map[uuid.UUID]model.UserAuthor) *model.FullPost {
	author, ok := seen[post.AuthorID]
	if !ok {
		user, err := s.users.FindByID(ctx, post.AuthorID)
		if err == nil {
			author = model.UserAuthor{Username: user.Username, DisplayName: user.DisplayName}
		}
		if seen != nil {
			seen[post.AuthorID] = author
		}
	}

	return &model.FullPost{
		Post:   *post,
		Author: author,
	}
}

func (s *postService) Delete(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error {
	post, err := s.repo.Store.Post.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s) in store: %s", id.String(), err.Error())
		return ErrBackendUnavailable
	}
	if post.AuthorID != authorID {
		return ErrForbidden
	}

	if err := s.repo.Store.Comment.DeletePostComments(ctx, id); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%s) comments: %s", id.String(), err.Error())
		return ErrBackendUnavailable
	}

	if err := s.repo.Store.Post.Delete(ctx, id, authorID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to delete post(%s): %s", id.String(), err.Error())
		return ErrBackendUnavailable
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(id.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%s) from redis: %s", id.String(), err.Error())
	}

	s.notify.changed(ctx, redisrepo.FeedTopic())
	s.notify.changed(ctx, redisrepo.PostCommentsTopic(id.String()))

	return nil
}
