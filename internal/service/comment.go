package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BloggingApp/social-service/internal/commenttree"
	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/rabbitmq"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
	notify *notifier
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, notify *notifier) *commentService {
	return &commentService{
		logger: logger,
		repo:   repo,
		notify: notify,
	}
}

func (s *commentService) Create(ctx context.Context, authorID uuid.UUID, req dto.CreateCommentRequest) (*model.Comment, error) {
	if authorID == uuid.Nil || req.Content == "" {
		return nil, ErrInvalidArgument
	}

	if _, err := s.repo.Store.Post.FindByID(ctx, req.PostID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s) in store: %s", req.PostID.String(), err.Error())
		return nil, ErrBackendUnavailable
	}

	if req.ParentID != nil {
		parent, err := s.repo.Store.Comment.FindByID(ctx, *req.ParentID)
		if err != nil && !errors.Is(err, docstore.ErrNotFound) {
			s.logger.Sugar().Errorf("failed to find comment(%s) in store: %s", req.ParentID.String(), err.Error())
			return nil, ErrBackendUnavailable
		}
		if err != nil || parent.PostID != req.PostID {
			return nil, fmt.Errorf("%w: parent comment does not belong to the post", ErrInvalidArgument)
		}
	}

	comment := model.Comment{
		PostID:   req.PostID,
		ParentID: req.ParentID,
		AuthorID: authorID,
		Content:  req.Content,
	}

	createdComment, err := s.repo.Store.Comment.Create(ctx, comment)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) comment on post(%s): %s", authorID.String(), req.PostID.String(), err.Error())
		return nil, ErrBackendUnavailable
	}

	s.notify.changed(ctx, redisrepo.PostCommentsTopic(req.PostID.String()))
	s.notify.event(ctx, rabbitmq.COMMENT_CREATED_QUEUE, dto.MQCommentCreatedMsg{
		CommentID: createdComment.ID,
		PostID:    createdComment.PostID,
		ParentID:  createdComment.ParentID,
		UserID:    authorID,
		CreatedAt: createdComment.CreatedAt,
	})

	return createdComment, nil
}

func (s *commentService) Tree(ctx context.Context, postID uuid.UUID) ([]model.CommentNode, error) {
	comments, err := s.repo.Store.Comment.FindPostComments(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%s) comments in store: %s", postID.String(), err.Error())
		return nil, ErrBackendUnavailable
	}

	records := make([]model.Comment, 0, len(comments))
	for _, comment := range comments {
		records = append(records, *comment)
	}

	return commenttree.Build(records), nil
}

func (s *commentService) Delete(ctx context.Context, postID uuid.UUID, commentID uuid.UUID, authorID uuid.UUID) error {
	comment, err := s.repo.Store.Comment.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to find comment(%s) in store: %s", commentID.String(), err.Error())
		return ErrBackendUnavailable
	}
	if comment.PostID != postID {
		return ErrNotFound
	}
	if comment.AuthorID != authorID {
		return ErrForbidden
	}

	if err := s.repo.Store.Comment.Delete(ctx, commentID, authorID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to delete comment(%s): %s", commentID.String(), err.Error())
		return ErrBackendUnavailable
	}

	s.notify.changed(ctx, redisrepo.PostCommentsTopic(postID.String()))

	return nil
}
