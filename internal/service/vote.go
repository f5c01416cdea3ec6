package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BloggingApp/social-service/internal/config"
	"github.com/BloggingApp/social-service/internal/ledger"
	"github.com/BloggingApp/social-service/internal/metrics"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type voteService struct {
	logger *zap.Logger
	repo   *repository.Repository
	notify *notifier
	cfg    config.VotesConfig
}

func newVoteService(logger *zap.Logger, repo *repository.Repository, notify *notifier, cfg config.VotesConfig) *voteService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &voteService{
		logger: logger,
		repo:   repo,
		notify: notify,
		cfg:    cfg,
	}
}

// Vote reads the item's votes, applies the user's vote and writes the result back.
//
// When votes are guarded the write only succeeds if nobody else wrote in
// between; otherwise the vote is recomputed from a fresh read, up to
// MaxAttempts times. Unguarded writes overwrite whatever is stored, so two
// concurrent votes computed from the same read lose one of them.
func (s *voteService) Vote(ctx context.Context, target model.VoteTarget, userID uuid.UUID, voteType model.VoteType) (*model.Votes, error) {
	store, ok := s.repo.Store.Votable(target.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown vote target %q", ErrInvalidArgument, target.Kind)
	}
	if !voteType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, ledger.ErrInvalidVoteType.Error())
	}
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, ledger.ErrEmptyUserID.Error())
	}

	outcome := "error"
	defer func() {
		metrics.VotesTotal.WithLabelValues(string(target.Kind), string(voteType), outcome).Inc()
	}()

	for attempt := 1; ; attempt++ {
		state, err := store.FindVotes(ctx, target.ID)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, ErrNotFound
			}
			s.logger.Sugar().Errorf("failed to read %s(%s) votes: %s", target.Kind, target.ID.String(), err.Error())
			return nil, ErrBackendUnavailable
		}

		next, err := ledger.Apply(state.Votes, userID.String(), voteType)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err.Error())
		}

		if s.cfg.Guarded {
			err = store.CompareAndSwapVotes(ctx, target.ID, state.Version, next)
		} else {
			err = store.UpdateVotes(ctx, target.ID, next)
		}

		if errors.Is(err, docstore.ErrVersionConflict) {
			metrics.VoteConflictsTotal.WithLabelValues(string(target.Kind)).Inc()
			if attempt < s.cfg.MaxAttempts {
				continue
			}
			outcome = "conflict"
			return nil, ErrVoteConflict
		}
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, ErrNotFound
			}
			s.logger.Sugar().Errorf("failed to write %s(%s) votes: %s", target.Kind, target.ID.String(), err.Error())
			return nil, ErrBackendUnavailable
		}

		outcome = "ok"
		s.afterVote(ctx, target)
		return &next, nil
	}
}

func (s *voteService) afterVote(ctx context.Context, target model.VoteTarget) {
	switch target.Kind {
	case model.TargetPost:
		if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(target.ID.String())).Err(); err != nil {
			s.logger.Sugar().Errorf("failed to delete post(%s) from redis: %s", target.ID.String(), err.Error())
		}
		s.notify.changed(ctx, redisrepo.FeedTopic())
	case model.TargetComment:
		comment, err := s.repo.Store.Comment.FindByID(ctx, target.ID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to find voted comment(%s): %s", target.ID.String(), err.Error())
			return
		}
		s.notify.changed(ctx, redisrepo.PostCommentsTopic(comment.PostID.String()))
	}
}
