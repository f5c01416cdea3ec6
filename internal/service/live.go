package service

import (
	"context"

	"github.com/BloggingApp/social-service/internal/live"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type liveService struct {
	logger   *zap.Logger
	broker   live.Broker
	posts    Post
	comments Comment
}

func newLiveService(logger *zap.Logger, broker live.Broker, posts Post, comments Comment) *liveService {
	return &liveService{
		logger:   logger,
		broker:   broker,
		posts:    posts,
		comments: comments,
	}
}

// WatchFeed streams the first page of the feed, newest posts first.
func (s *liveService) WatchFeed(ctx context.Context) (*live.Watch[[]*model.FullPost], error) {
	watch, err := live.Open(ctx, s.logger, s.broker, "feed", redisrepo.FeedTopic(), func(ctx context.Context) ([]*model.FullPost, error) {
		return s.posts.List(ctx, docstore.MAX_LIMIT, 0)
	})
	if err != nil {
		return nil, s.watchErr(err)
	}

	return watch, nil
}

// WatchComments streams the comment forest of a post.
func (s *liveService) WatchComments(ctx context.Context, postID uuid.UUID) (*live.Watch[[]model.CommentNode], error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	watch, err := live.Open(ctx, s.logger, s.broker, "comments", redisrepo.PostCommentsTopic(postID.String()), func(ctx context.Context) ([]model.CommentNode, error) {
		return s.comments.Tree(ctx, postID)
	})
	if err != nil {
		return nil, s.watchErr(err)
	}

	return watch, nil
}

func (s *liveService) watchErr(err error) error {
	if err == ErrBackendUnavailable || err == ErrInvalidArgument {
		return err
	}
	s.logger.Sugar().Errorf("failed to open live subscription: %s", err.Error())
	return ErrBackendUnavailable
}
